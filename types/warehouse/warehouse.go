package warehouse

import (
	"fmt"
)

// WarehouseCreateRequest represents the request payload for creating a warehouse
type WarehouseCreateRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=255"`
	City    string `json:"city" validate:"required,min=1,max=128"`
	Address string `json:"address" validate:"omitempty"`
}

func (r WarehouseCreateRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.City == "" {
		return fmt.Errorf("city is required")
	}
	return nil
}

// MoveToWarehouseRequest represents the request payload for moving a booking
// into a warehouse
type MoveToWarehouseRequest struct {
	BookingID   uint `json:"booking_id" validate:"required"`
	WarehouseID uint `json:"warehouse_id" validate:"required"`
}

func (r MoveToWarehouseRequest) Validate() error {
	if r.BookingID == 0 {
		return fmt.Errorf("bookingID is required")
	}
	if r.WarehouseID == 0 {
		return fmt.Errorf("warehouseID is required")
	}
	return nil
}

// RemoveFromWarehouseRequest represents the request payload for manually
// removing a booking from its current warehouse
type RemoveFromWarehouseRequest struct {
	BookingID uint `json:"booking_id" validate:"required"`
}

func (r RemoveFromWarehouseRequest) Validate() error {
	if r.BookingID == 0 {
		return fmt.Errorf("bookingID is required")
	}
	return nil
}
