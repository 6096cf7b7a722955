package warehouse

import (
	"time"
)

// ConsignmentStatus tracks how a warehouse stay ended (or that it has not).
type ConsignmentStatus string

const (
	ConsignmentInWarehouse ConsignmentStatus = "IN_WAREHOUSE"
	ConsignmentInTransit   ConsignmentStatus = "IN_TRANSIT"
	ConsignmentDeparted    ConsignmentStatus = "DEPARTED"
	ConsignmentDelivered   ConsignmentStatus = "DELIVERED"
)

// Consignment is one booking's physical stay at one warehouse. A nil
// DepartureDate means the goods are still considered inside; at most one
// open row may exist per (booking, warehouse) pair.
type Consignment struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingID uint `gorm:"not null;index" json:"booking_id"`

	WarehouseID uint      `gorm:"not null;index" json:"warehouse_id"`
	Warehouse   Warehouse `gorm:"foreignKey:WarehouseID" json:"warehouse"`

	Status ConsignmentStatus `gorm:"type:varchar(16);not null;default:IN_WAREHOUSE" json:"status"`

	ArrivalDate   time.Time  `gorm:"not null" json:"arrival_date"`
	DepartureDate *time.Time `json:"departure_date,omitempty"`

	CreatedBy string    `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
