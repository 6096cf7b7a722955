package timeline

import (
	"time"
)

// Action is the typed domain event recorded on a booking's timeline. The
// lifecycle restoration scan depends on these being an exhaustive enum, so
// free-text actions are never written here.
type Action string

const (
	ActionVehicleAssigned       Action = "VEHICLE_ASSIGNED"
	ActionVehicleUnassigned     Action = "VEHICLE_UNASSIGNED"
	ActionArrivedAtWarehouse    Action = "ARRIVED_AT_WAREHOUSE"
	ActionDepartedFromWarehouse Action = "DEPARTED_FROM_WAREHOUSE"
	ActionStatusChanged         Action = "STATUS_CHANGED"
)

// Entry is one append-only timeline row. Rows are never updated or deleted;
// the timeline is the only record of what a booking was doing before it was
// marked delivered.
type Entry struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingID uint `gorm:"not null;index" json:"booking_id"`

	Action      Action `gorm:"type:varchar(32);not null;index" json:"action"`
	Description string `gorm:"type:text" json:"description"`

	// Set only for warehouse-related actions
	WarehouseID *uint `gorm:"index" json:"warehouse_id,omitempty"`

	CreatedBy string    `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the Entry model
func (Entry) TableName() string {
	return "timeline_entries"
}
