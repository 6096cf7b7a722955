package lifecycle

import (
	"errors"
	"fmt"
	"time"

	bookingModel "freight-booking/models/booking"
	timelineModel "freight-booking/models/timeline"
	warehouseModel "freight-booking/models/warehouse"
	timelineService "freight-booking/services/timeline"

	"gorm.io/gorm"
)

// MoveToWarehouse books the goods into a warehouse. Any ACTIVE vehicle
// assignment is released first, mirroring the assignment path closing an open
// consignment. Calling it again for the same (booking, warehouse) pair while
// the consignment is still open is a no-op.
func (s *Service) MoveToWarehouse(bookingID, warehouseID uint, actor string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var bk bookingModel.Booking
		if err := tx.First(&bk, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", ErrBookingNotFound, bookingID)
			}
			return err
		}

		var wh warehouseModel.Warehouse
		if err := tx.First(&wh, warehouseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", ErrWarehouseNotFound, warehouseID)
			}
			return err
		}

		// Already booked into this warehouse; do not open a duplicate stay.
		var open int64
		err := tx.Model(&warehouseModel.Consignment{}).
			Where("booking_id = ? AND warehouse_id = ? AND departure_date IS NULL", bk.ID, wh.ID).
			Count(&open).Error
		if err != nil {
			return err
		}
		if open > 0 {
			return nil
		}

		// A transfer from another warehouse closes the old stay first.
		if bk.CurrentWarehouseID != nil && *bk.CurrentWarehouseID != wh.ID {
			if err := s.departWarehouse(tx, &bk, DepartReasonManualRemoval, actor); err != nil {
				return err
			}
		}

		if _, err := s.releaseActiveAssignment(tx, bk.ID, actor); err != nil {
			return err
		}

		return s.openConsignment(tx, &bk, &wh, actor)
	})
}

// openConsignment creates the open consignment row and everything coupled to
// it: the INCOMING warehouse log, the +1 stock delta, the booking's warehouse
// pointer and the timeline entry. Status write comes last.
func (s *Service) openConsignment(tx *gorm.DB, bk *bookingModel.Booking, wh *warehouseModel.Warehouse, actor string) error {
	cons := warehouseModel.Consignment{
		BookingID:   bk.ID,
		WarehouseID: wh.ID,
		Status:      warehouseModel.ConsignmentInWarehouse,
		ArrivalDate: time.Now(),
		CreatedBy:   actor,
	}
	if err := tx.Create(&cons).Error; err != nil {
		return err
	}

	whLog := warehouseModel.WarehouseLog{
		ConsignmentID: cons.ID,
		WarehouseID:   wh.ID,
		Type:          warehouseModel.LogIncoming,
		Note:          fmt.Sprintf("Booking %s received at %s", bk.LRNumber, wh.Name),
		CreatedBy:     actor,
	}
	if err := tx.Create(&whLog).Error; err != nil {
		return err
	}

	err := tx.Model(wh).
		Update("stock", gorm.Expr("stock + ?", 1)).Error
	if err != nil {
		return err
	}

	warehouseID := wh.ID
	bk.CurrentWarehouseID = &warehouseID
	err = tx.Model(bk).Update("current_warehouse_id", warehouseID).Error
	if err != nil {
		return err
	}

	err = timelineService.Append(tx, bk.ID, timelineModel.ActionArrivedAtWarehouse,
		fmt.Sprintf("Arrived at warehouse %s", wh.Name), &warehouseID, actor)
	if err != nil {
		return err
	}

	return s.writeStatus(tx, bk, bookingModel.StatusAtWarehouse, actor)
}

// RemoveFromWarehouse manually takes the goods out of their current
// warehouse. The booking returns to CONFIRMED: a manual removal is neither a
// dispatch nor a delivery.
func (s *Service) RemoveFromWarehouse(bookingID uint, actor string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var bk bookingModel.Booking
		if err := tx.First(&bk, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", ErrBookingNotFound, bookingID)
			}
			return err
		}
		return s.departWarehouse(tx, &bk, DepartReasonManualRemoval, actor)
	})
}

// departWarehouse closes the booking's open consignment, if any, together
// with its paired OUTGOING log, the -1 stock delta and the warehouse pointer
// clear. The consignment's final status depends on why the goods left. Only
// the manual-removal path writes a DEPARTED_FROM_WAREHOUSE timeline entry;
// the vehicle-assignment and delivery paths emit their own actions, keeping
// the restoration scan's signal unambiguous.
func (s *Service) departWarehouse(tx *gorm.DB, bk *bookingModel.Booking, reason DepartReason, actor string) error {
	if bk.CurrentWarehouseID == nil {
		return nil
	}
	warehouseID := *bk.CurrentWarehouseID

	var cons warehouseModel.Consignment
	err := tx.Where("booking_id = ? AND warehouse_id = ? AND departure_date IS NULL", bk.ID, warehouseID).
		First(&cons).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	finalStatus := warehouseModel.ConsignmentDeparted
	switch reason {
	case DepartReasonVehicleAssignment:
		finalStatus = warehouseModel.ConsignmentInTransit
	case DepartReasonDelivery:
		finalStatus = warehouseModel.ConsignmentDelivered
	}

	now := time.Now()
	err = tx.Model(&cons).Updates(map[string]interface{}{
		"status":         finalStatus,
		"departure_date": now,
	}).Error
	if err != nil {
		return err
	}

	whLog := warehouseModel.WarehouseLog{
		ConsignmentID: cons.ID,
		WarehouseID:   warehouseID,
		Type:          warehouseModel.LogOutgoing,
		Note:          fmt.Sprintf("Booking %s left warehouse (%s)", bk.LRNumber, reason),
		CreatedBy:     actor,
	}
	if err := tx.Create(&whLog).Error; err != nil {
		return err
	}

	err = tx.Model(&warehouseModel.Warehouse{}).
		Where("id = ?", warehouseID).
		Update("stock", gorm.Expr("stock - ?", 1)).Error
	if err != nil {
		return err
	}

	bk.CurrentWarehouseID = nil
	err = tx.Model(bk).Update("current_warehouse_id", nil).Error
	if err != nil {
		return err
	}

	if reason == DepartReasonManualRemoval {
		err = timelineService.Append(tx, bk.ID, timelineModel.ActionDepartedFromWarehouse,
			"Removed from warehouse", &warehouseID, actor)
		if err != nil {
			return err
		}
		return s.writeStatus(tx, bk, bookingModel.StatusConfirmed, actor)
	}

	return nil
}
