package vehicle

import (
	"time"
)

// OwnershipType distinguishes fleet-owned trucks from market-hired ones.
type OwnershipType string

const (
	OwnershipOwned OwnershipType = "OWNED"
	OwnershipHired OwnershipType = "HIRED"
)

func (ot OwnershipType) IsValid() bool {
	return ot == OwnershipOwned || ot == OwnershipHired
}

// Status is the registry availability flag for a vehicle.
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusOccupied    Status = "OCCUPIED"
	StatusMaintenance Status = "MAINTENANCE"
)

// Vehicle represents one truck in the registry (owned or hired).
type Vehicle struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	RegistrationNumber string        `gorm:"type:varchar(32);not null;unique" json:"registration_number"`
	OwnershipType      OwnershipType `gorm:"type:varchar(10);not null" json:"ownership_type"`
	Model              string        `gorm:"type:varchar(128)" json:"model"`
	CapacityKG         float64       `json:"capacity_kg"`
	Status             Status        `gorm:"type:varchar(16);not null;default:AVAILABLE" json:"status"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}
