package vehicle

import (
	"fmt"
)

// VehicleCreateRequest represents the request payload for registering a vehicle
type VehicleCreateRequest struct {
	RegistrationNumber string  `json:"registration_number" validate:"required,min=1,max=32"`
	OwnershipType      string  `json:"ownership_type" validate:"required,oneof=OWNED HIRED"`
	Model              string  `json:"model" validate:"omitempty,max=128"`
	CapacityKG         float64 `json:"capacity_kg" validate:"omitempty,gt=0"`
}

func (r VehicleCreateRequest) Validate() error {
	if r.RegistrationNumber == "" {
		return fmt.Errorf("registrationNumber is required")
	}
	if r.OwnershipType != "OWNED" && r.OwnershipType != "HIRED" {
		return fmt.Errorf("ownershipType must be either 'OWNED' or 'HIRED'")
	}
	return nil
}

// AssignRequest represents the request payload for assigning a vehicle to a booking
type AssignRequest struct {
	BookingID   uint   `json:"booking_id" validate:"required"`
	VehicleType string `json:"vehicle_type" validate:"required,oneof=OWNED HIRED"`
	VehicleID   uint   `json:"vehicle_id" validate:"required"`
	DriverID    uint   `json:"driver_id" validate:"required"`
	BrokerID    *uint  `json:"broker_id" validate:"omitempty"`
}

func (r AssignRequest) Validate() error {
	if r.BookingID == 0 {
		return fmt.Errorf("bookingID is required")
	}
	if r.VehicleType != "OWNED" && r.VehicleType != "HIRED" {
		return fmt.Errorf("vehicleType must be either 'OWNED' or 'HIRED'")
	}
	if r.VehicleID == 0 {
		return fmt.Errorf("vehicleID is required")
	}
	if r.DriverID == 0 {
		return fmt.Errorf("driverID is required")
	}
	return nil
}

// UnassignRequest represents the request payload for releasing a booking's vehicle
type UnassignRequest struct {
	BookingID uint `json:"booking_id" validate:"required"`
}

func (r UnassignRequest) Validate() error {
	if r.BookingID == 0 {
		return fmt.Errorf("bookingID is required")
	}
	return nil
}

// BrokerCreateRequest represents the request payload for registering a broker
type BrokerCreateRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=255"`
	Phone string `json:"phone" validate:"required,phone"`
}

func (r BrokerCreateRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Phone == "" {
		return fmt.Errorf("phone is required")
	}
	return nil
}

// DriverCreateRequest represents the request payload for registering a driver
type DriverCreateRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=255"`
	Phone         string `json:"phone" validate:"required,phone"`
	LicenseNumber string `json:"license_number" validate:"required,min=1,max=64"`
}

func (r DriverCreateRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Phone == "" {
		return fmt.Errorf("phone is required")
	}
	if r.LicenseNumber == "" {
		return fmt.Errorf("licenseNumber is required")
	}
	return nil
}
