package booking

import (
	"time"

	"freight-booking/models/user"
)

// Booking represents a single freight shipment tracked from creation to delivery.
type Booking struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// LR (lorry receipt) number, generated at creation, unique per booking
	LRNumber string `gorm:"type:varchar(64);not null;unique" json:"lr_number"`

	// Foreign key for users relationship (who booked the shipment)
	UserID uint      `gorm:"not null" json:"user_id"`
	User   user.User `gorm:"foreignKey:UserID" json:"user"`

	ConsignorName  string  `gorm:"type:varchar(255);not null" json:"consignor_name"`
	ConsigneeName  string  `gorm:"type:varchar(255);not null" json:"consignee_name"`
	ConsignorPhone string  `gorm:"type:varchar(20);not null" json:"consignor_phone"`
	ConsigneePhone *string `gorm:"type:varchar(20)" json:"consignee_phone,omitempty"`
	Origin         string  `gorm:"type:varchar(255);not null" json:"origin"`
	Destination    string  `gorm:"type:varchar(255);not null" json:"destination"`
	GoodsDesc      string  `gorm:"type:text" json:"goods_desc"`
	WeightKG       float64 `json:"weight_kg"`

	Status Status `gorm:"type:varchar(20);not null;default:DRAFT" json:"status"`

	// Non-nil iff exactly one open consignment exists for this booking
	// at that warehouse.
	CurrentWarehouseID *uint `gorm:"index" json:"current_warehouse_id,omitempty"`

	CreatedBy string     `gorm:"type:varchar(255);not null" json:"created_by"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedBy string     `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"` // Soft delete field
}
