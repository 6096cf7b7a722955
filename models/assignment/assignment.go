package assignment

import (
	"time"

	"freight-booking/models/vehicle"
)

// Status is the lifecycle state of a vehicle assignment.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
)

// VehicleAssignment pairs a booking with the vehicle currently (or formerly)
// carrying it. At most one row per booking may be ACTIVE at any time;
// unassignment completes the row instead of deleting it.
type VehicleAssignment struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingID uint `gorm:"not null;index" json:"booking_id"`

	VehicleType vehicle.OwnershipType `gorm:"type:varchar(10);not null" json:"vehicle_type"`

	VehicleID uint            `gorm:"not null;index" json:"vehicle_id"`
	Vehicle   vehicle.Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle"`

	DriverID uint           `gorm:"not null" json:"driver_id"`
	Driver   vehicle.Driver `gorm:"foreignKey:DriverID" json:"driver"`

	// Set only for hired vehicles
	BrokerID *uint           `gorm:"index" json:"broker_id,omitempty"`
	Broker   *vehicle.Broker `gorm:"foreignKey:BrokerID" json:"broker,omitempty"`

	Status Status `gorm:"type:varchar(16);not null;default:ACTIVE" json:"status"`

	AssignedAt time.Time  `gorm:"not null" json:"assigned_at"`
	ReleasedAt *time.Time `json:"released_at,omitempty"`

	CreatedBy string    `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
