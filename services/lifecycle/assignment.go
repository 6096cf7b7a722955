package lifecycle

import (
	"errors"
	"fmt"
	"time"

	assignmentModel "freight-booking/models/assignment"
	bookingModel "freight-booking/models/booking"
	timelineModel "freight-booking/models/timeline"
	vehicleModel "freight-booking/models/vehicle"
	timelineService "freight-booking/services/timeline"

	"gorm.io/gorm"
)

// AssignParams carries everything needed to attach a vehicle to a booking.
type AssignParams struct {
	BookingID   uint
	VehicleType vehicleModel.OwnershipType
	VehicleID   uint
	DriverID    uint
	BrokerID    *uint
	Actor       string
}

// AssignVehicle attaches a vehicle to a booking. If the booking is currently
// inside a warehouse the consignment is closed first: goods cannot sit on a
// truck and in a warehouse record at the same time. At most one ACTIVE
// assignment may exist per booking; callers must unassign before reassigning.
func (s *Service) AssignVehicle(p AssignParams) (uint, error) {
	if !p.VehicleType.IsValid() {
		return 0, fmt.Errorf("%w: invalid vehicle type %q", ErrInvalidStatus, p.VehicleType)
	}
	if p.BrokerID != nil && p.VehicleType != vehicleModel.OwnershipHired {
		return 0, ErrBrokerNotAllowed
	}

	var assignmentID uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var bk bookingModel.Booking
		if err := tx.First(&bk, p.BookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", ErrBookingNotFound, p.BookingID)
			}
			return err
		}

		// Goods still inside a warehouse leave it before boarding the truck.
		if bk.CurrentWarehouseID != nil {
			if err := s.departWarehouse(tx, &bk, DepartReasonVehicleAssignment, p.Actor); err != nil {
				return err
			}
		}

		var active int64
		err := tx.Model(&assignmentModel.VehicleAssignment{}).
			Where("booking_id = ? AND status = ?", bk.ID, assignmentModel.StatusActive).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return fmt.Errorf("%w: booking %d", ErrAssignmentActive, bk.ID)
		}

		var veh vehicleModel.Vehicle
		if err := tx.First(&veh, p.VehicleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", ErrVehicleNotFound, p.VehicleID)
			}
			return err
		}
		if veh.Status != vehicleModel.StatusAvailable {
			return fmt.Errorf("%w: vehicle %s is %s", ErrVehicleUnavailable, veh.RegistrationNumber, veh.Status)
		}

		var drv vehicleModel.Driver
		if err := tx.First(&drv, p.DriverID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", ErrDriverNotFound, p.DriverID)
			}
			return err
		}

		if p.BrokerID != nil {
			var brk vehicleModel.Broker
			if err := tx.First(&brk, *p.BrokerID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: id %d", ErrBrokerNotFound, *p.BrokerID)
				}
				return err
			}
		}

		if err := tx.Model(&veh).Update("status", vehicleModel.StatusOccupied).Error; err != nil {
			return err
		}

		asg := assignmentModel.VehicleAssignment{
			BookingID:   bk.ID,
			VehicleType: p.VehicleType,
			VehicleID:   veh.ID,
			DriverID:    drv.ID,
			BrokerID:    p.BrokerID,
			Status:      assignmentModel.StatusActive,
			AssignedAt:  time.Now(),
			CreatedBy:   p.Actor,
		}
		if err := tx.Create(&asg).Error; err != nil {
			return err
		}
		assignmentID = asg.ID

		return timelineService.Append(tx, bk.ID, timelineModel.ActionVehicleAssigned,
			fmt.Sprintf("Vehicle %s assigned with driver %s", veh.RegistrationNumber, drv.Name), nil, p.Actor)
	})
	if err != nil {
		return 0, err
	}
	return assignmentID, nil
}

// UnassignVehicle completes the booking's ACTIVE assignment and returns the
// vehicle to the available pool. Rejected when no ACTIVE assignment exists.
func (s *Service) UnassignVehicle(bookingID uint, actor string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var bk bookingModel.Booking
		if err := tx.First(&bk, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", ErrBookingNotFound, bookingID)
			}
			return err
		}

		released, err := s.releaseActiveAssignment(tx, bk.ID, actor)
		if err != nil {
			return err
		}
		if !released {
			return fmt.Errorf("%w: booking %d", ErrNoActiveAssignment, bk.ID)
		}
		return nil
	})
}

// releaseActiveAssignment completes the booking's ACTIVE assignment, if one
// exists, and frees its vehicle. Returns false when there was nothing to
// release; callers decide whether that is an error.
func (s *Service) releaseActiveAssignment(tx *gorm.DB, bookingID uint, actor string) (bool, error) {
	var asg assignmentModel.VehicleAssignment
	err := tx.Preload("Vehicle").
		Where("booking_id = ? AND status = ?", bookingID, assignmentModel.StatusActive).
		First(&asg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	now := time.Now()
	err = tx.Model(&asg).Updates(map[string]interface{}{
		"status":      assignmentModel.StatusCompleted,
		"released_at": now,
	}).Error
	if err != nil {
		return false, err
	}

	err = tx.Model(&vehicleModel.Vehicle{}).
		Where("id = ?", asg.VehicleID).
		Update("status", vehicleModel.StatusAvailable).Error
	if err != nil {
		return false, err
	}

	err = timelineService.Append(tx, bookingID, timelineModel.ActionVehicleUnassigned,
		fmt.Sprintf("Vehicle %s released", asg.Vehicle.RegistrationNumber), nil, actor)
	if err != nil {
		return false, err
	}

	return true, nil
}
