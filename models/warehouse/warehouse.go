package warehouse

import (
	"time"
)

// Warehouse represents one storage location. Stock is a derived counter of
// currently-open consignments, mutated only by ±1 deltas inside the same
// transaction as the paired consignment open/close.
type Warehouse struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Name    string `gorm:"type:varchar(255);not null;unique" json:"name"`
	City    string `gorm:"type:varchar(128);not null" json:"city"`
	Address string `gorm:"type:text" json:"address"`

	Stock int `gorm:"not null;default:0" json:"stock"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}
