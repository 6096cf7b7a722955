package booking

import (
	"fmt"
)

// BookingCreateRequest represents the request payload for creating a booking
type BookingCreateRequest struct {
	ConsignorName  string  `json:"consignor_name" validate:"required,min=1,max=255"`
	ConsigneeName  string  `json:"consignee_name" validate:"required,min=1,max=255"`
	ConsignorPhone string  `json:"consignor_phone" validate:"required,phone"`
	ConsigneePhone string  `json:"consignee_phone" validate:"omitempty,phone"`
	Origin         string  `json:"origin" validate:"required,min=1,max=255"`
	Destination    string  `json:"destination" validate:"required,min=1,max=255"`
	GoodsDesc      string  `json:"goods_desc" validate:"omitempty"`
	WeightKG       float64 `json:"weight_kg" validate:"omitempty,gt=0"`
}

func (b BookingCreateRequest) Validate() error {
	if b.ConsignorName == "" {
		return fmt.Errorf("consignorName is required")
	}
	if b.ConsigneeName == "" {
		return fmt.Errorf("consigneeName is required")
	}
	if b.ConsignorPhone == "" {
		return fmt.Errorf("consignorPhone is required")
	}
	if b.Origin == "" {
		return fmt.Errorf("origin is required")
	}
	if b.Destination == "" {
		return fmt.Errorf("destination is required")
	}
	if b.WeightKG < 0 {
		return fmt.Errorf("weightKG must not be negative")
	}
	return nil
}

// SetStatusRequest represents the request payload for a status change
type SetStatusRequest struct {
	BookingID uint   `json:"booking_id" validate:"required"`
	Status    string `json:"status" validate:"required"`
}

func (r SetStatusRequest) Validate() error {
	if r.BookingID == 0 {
		return fmt.Errorf("bookingID is required")
	}
	if r.Status == "" {
		return fmt.Errorf("status is required")
	}
	return nil
}
