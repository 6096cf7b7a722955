package lifecycle

import (
	"errors"

	"gorm.io/gorm"
)

// Precondition and lookup errors surfaced to callers. Each one is returned
// before any write has been applied, so a failed call never leaves partial
// state behind.
var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrWarehouseNotFound  = errors.New("warehouse not found")
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrDriverNotFound     = errors.New("driver not found")
	ErrBrokerNotFound     = errors.New("broker not found")
	ErrInvalidStatus      = errors.New("invalid booking status")
	ErrAssignmentActive   = errors.New("booking already has an active vehicle assignment")
	ErrNoActiveAssignment = errors.New("no active vehicle assignment to release")
	ErrVehicleUnavailable = errors.New("vehicle is not available")
	ErrBrokerNotAllowed   = errors.New("broker can only be set for hired vehicles")
	ErrBookingInUse       = errors.New("booking has an active vehicle assignment or open warehouse consignment")
)

// Service orchestrates every booking lifecycle transition: status changes,
// vehicle assignment and warehouse movement. Each public method runs as a
// single database transaction with the booking status written last, so an
// observer never sees a status that its side effects have not caught up with.
type Service struct {
	DB *gorm.DB
}

// NewService creates a new lifecycle service
func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// DepartReason tells the consignment close path how the goods left the
// warehouse, which drives the consignment's final status.
type DepartReason string

const (
	DepartReasonVehicleAssignment DepartReason = "VEHICLE_ASSIGNMENT"
	DepartReasonManualRemoval     DepartReason = "MANUAL_REMOVAL"
	DepartReasonDelivery          DepartReason = "DELIVERY"
)
