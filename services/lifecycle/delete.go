package lifecycle

import (
	"errors"
	"fmt"
	"time"

	assignmentModel "freight-booking/models/assignment"
	bookingModel "freight-booking/models/booking"
	warehouseModel "freight-booking/models/warehouse"

	"gorm.io/gorm"
)

// DeleteBooking soft-deletes a booking. Refused while the booking still has
// an ACTIVE vehicle assignment or an open consignment; those must be wound
// down first or the registry flag and stock counter would leak.
func (s *Service) DeleteBooking(bookingID uint, actor string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var bk bookingModel.Booking
		if err := tx.First(&bk, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", ErrBookingNotFound, bookingID)
			}
			return err
		}

		var active int64
		err := tx.Model(&assignmentModel.VehicleAssignment{}).
			Where("booking_id = ? AND status = ?", bk.ID, assignmentModel.StatusActive).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return fmt.Errorf("%w: booking %d has an active vehicle assignment", ErrBookingInUse, bk.ID)
		}

		var open int64
		err = tx.Model(&warehouseModel.Consignment{}).
			Where("booking_id = ? AND departure_date IS NULL", bk.ID).
			Count(&open).Error
		if err != nil {
			return err
		}
		if open > 0 {
			return fmt.Errorf("%w: booking %d has an open consignment", ErrBookingInUse, bk.ID)
		}

		now := time.Now()
		return tx.Model(&bk).Updates(map[string]interface{}{
			"deleted_at": now,
			"updated_by": actor,
		}).Error
	})
}
