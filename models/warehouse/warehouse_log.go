package warehouse

import (
	"time"
)

// LogType marks the direction of a warehouse movement.
type LogType string

const (
	LogIncoming LogType = "INCOMING"
	LogOutgoing LogType = "OUTGOING"
)

// WarehouseLog is the append-only audit row written once per consignment
// open/close event. Never updated after creation.
type WarehouseLog struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	ConsignmentID uint `gorm:"not null;index" json:"consignment_id"`

	WarehouseID uint    `gorm:"not null;index" json:"warehouse_id"`
	Type        LogType `gorm:"type:varchar(10);not null" json:"type"`
	Note        string  `gorm:"type:text" json:"note"`

	CreatedBy string    `gorm:"type:varchar(255)" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the WarehouseLog model
func (WarehouseLog) TableName() string {
	return "warehouse_logs"
}
