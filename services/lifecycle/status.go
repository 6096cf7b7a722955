package lifecycle

import (
	"errors"
	"fmt"
	"time"

	bookingModel "freight-booking/models/booking"
	timelineModel "freight-booking/models/timeline"
	timelineService "freight-booking/services/timeline"

	"gorm.io/gorm"
)

// SetStatus validates and applies a booking status change together with the
// side effects the (old, new) pair requires:
//
//   - entering DELIVERED releases the active vehicle, closes the open
//     consignment and clears the current warehouse before the status write;
//   - leaving DELIVERED restores the pre-delivery assignment or warehouse
//     placement from the booking's timeline;
//   - any other pair writes the status directly.
func (s *Service) SetStatus(bookingID uint, newStatus bookingModel.Status, actor string) error {
	if !newStatus.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var bk bookingModel.Booking
		if err := tx.First(&bk, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", ErrBookingNotFound, bookingID)
			}
			return err
		}

		oldStatus := bk.Status
		switch {
		case oldStatus != bookingModel.StatusDelivered && newStatus == bookingModel.StatusDelivered:
			return s.markDelivered(tx, &bk, actor)
		case oldStatus == bookingModel.StatusDelivered && newStatus != bookingModel.StatusDelivered:
			if err := s.restoreFromHistory(tx, &bk, actor); err != nil {
				return err
			}
			return s.writeStatus(tx, &bk, newStatus, actor)
		default:
			return s.writeStatus(tx, &bk, newStatus, actor)
		}
	})
}

// markDelivered runs the full delivery sequence. The vehicle release and
// consignment close are independent of each other, but both must succeed
// before the booking may be marked delivered.
func (s *Service) markDelivered(tx *gorm.DB, bk *bookingModel.Booking, actor string) error {
	if _, err := s.releaseActiveAssignment(tx, bk.ID, actor); err != nil {
		return err
	}
	if err := s.departWarehouse(tx, bk, DepartReasonDelivery, actor); err != nil {
		return err
	}
	if bk.CurrentWarehouseID != nil {
		bk.CurrentWarehouseID = nil
		if err := tx.Model(bk).Update("current_warehouse_id", nil).Error; err != nil {
			return err
		}
	}
	return s.writeStatus(tx, bk, bookingModel.StatusDelivered, actor)
}

// writeStatus persists the new status and records it on the timeline. This is
// always the last write of a transition.
func (s *Service) writeStatus(tx *gorm.DB, bk *bookingModel.Booking, newStatus bookingModel.Status, actor string) error {
	oldStatus := bk.Status
	bk.Status = newStatus
	bk.UpdatedBy = actor

	err := tx.Model(bk).Updates(map[string]interface{}{
		"status":     newStatus,
		"updated_by": actor,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return err
	}

	return timelineService.Append(tx, bk.ID, timelineModel.ActionStatusChanged,
		fmt.Sprintf("Status changed from %s to %s", oldStatus, newStatus), nil, actor)
}
