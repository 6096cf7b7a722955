package vehicle

import (
	"time"
)

// Driver represents a driver who can be attached to a vehicle assignment.
type Driver struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Name          string `gorm:"type:varchar(255);not null" json:"name"`
	Phone         string `gorm:"type:varchar(20);not null;unique" json:"phone"`
	LicenseNumber string `gorm:"type:varchar(64);not null;unique" json:"license_number"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// Broker represents the market broker a hired vehicle was sourced through.
type Broker struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Name  string `gorm:"type:varchar(255);not null" json:"name"`
	Phone string `gorm:"type:varchar(20);not null" json:"phone"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}
