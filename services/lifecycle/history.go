package lifecycle

import (
	"errors"
	"fmt"
	"time"

	assignmentModel "freight-booking/models/assignment"
	bookingModel "freight-booking/models/booking"
	timelineModel "freight-booking/models/timeline"
	vehicleModel "freight-booking/models/vehicle"
	warehouseModel "freight-booking/models/warehouse"
	timelineService "freight-booking/services/timeline"

	"gorm.io/gorm"
)

// historyLookback caps how far back the restoration scan reads. Inherited
// heuristic; there is no documented rationale for five entries, it simply
// bounds the scan to the booking's recent movements.
const historyLookback = 5

// restoreFromHistory rebuilds the state a booking was in immediately before
// it was marked delivered. No field stores that state, so the timeline is the
// only witness: the newest VEHICLE_ASSIGNED or ARRIVED_AT_WAREHOUSE entry
// decides between re-creating the vehicle assignment and re-opening the
// warehouse stay. DEPARTED_FROM_WAREHOUSE entries are skipped over; they mark
// the absence of a stay at that point, not a restoration target.
//
// This is a best-effort heuristic, not a strict inverse of the delivery
// transition. When the timeline gives no usable signal the fallback points
// the booking at the warehouse of its most recently delivered consignment,
// and when even that is missing the booking is left without any placement.
func (s *Service) restoreFromHistory(tx *gorm.DB, bk *bookingModel.Booking, actor string) error {
	entries, err := timelineService.Recent(tx, bk.ID, []timelineModel.Action{
		timelineModel.ActionVehicleAssigned,
		timelineModel.ActionArrivedAtWarehouse,
		timelineModel.ActionDepartedFromWarehouse,
	}, historyLookback)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		switch entry.Action {
		case timelineModel.ActionVehicleAssigned:
			restored, err := s.restoreAssignment(tx, bk, actor)
			if err != nil {
				return err
			}
			if restored {
				return nil
			}
			return s.restoreFromDeliveredConsignment(tx, bk)
		case timelineModel.ActionArrivedAtWarehouse:
			if entry.WarehouseID == nil {
				continue
			}
			return s.restoreWarehousePlacement(tx, bk, *entry.WarehouseID, actor)
		}
		// DEPARTED_FROM_WAREHOUSE: keep scanning.
	}

	return s.restoreFromDeliveredConsignment(tx, bk)
}

// restoreAssignment re-creates the booking's most recently completed
// assignment as a fresh ACTIVE one with the same vehicle, driver and broker.
// Returns false when the booking has no completed assignment to copy.
func (s *Service) restoreAssignment(tx *gorm.DB, bk *bookingModel.Booking, actor string) (bool, error) {
	var last assignmentModel.VehicleAssignment
	err := tx.Preload("Vehicle").
		Where("booking_id = ? AND status = ?", bk.ID, assignmentModel.StatusCompleted).
		Order("released_at DESC").
		First(&last).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	asg := assignmentModel.VehicleAssignment{
		BookingID:   bk.ID,
		VehicleType: last.VehicleType,
		VehicleID:   last.VehicleID,
		DriverID:    last.DriverID,
		BrokerID:    last.BrokerID,
		Status:      assignmentModel.StatusActive,
		AssignedAt:  time.Now(),
		CreatedBy:   actor,
	}
	if err := tx.Create(&asg).Error; err != nil {
		return false, err
	}

	err = tx.Model(&vehicleModel.Vehicle{}).
		Where("id = ?", last.VehicleID).
		Update("status", vehicleModel.StatusOccupied).Error
	if err != nil {
		return false, err
	}

	err = timelineService.Append(tx, bk.ID, timelineModel.ActionVehicleAssigned,
		fmt.Sprintf("Vehicle %s assignment restored", last.Vehicle.RegistrationNumber), nil, actor)
	if err != nil {
		return false, err
	}

	return true, nil
}

// restoreWarehousePlacement re-opens a stay at the warehouse the timeline says
// the goods arrived at before delivery.
func (s *Service) restoreWarehousePlacement(tx *gorm.DB, bk *bookingModel.Booking, warehouseID uint, actor string) error {
	var wh warehouseModel.Warehouse
	if err := tx.First(&wh, warehouseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Warehouse gone since delivery; nothing to restore.
			return nil
		}
		return err
	}

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
		Note:          fmt.Sprintf("Booking %s placement restored at %s", bk.LRNumber, wh.Name),
		CreatedBy:     actor,
	}
	if err := tx.Create(&whLog).Error; err != nil {
		return err
	}

	err := tx.Model(&wh).
		Update("stock", gorm.Expr("stock + ?", 1)).Error
	if err != nil {
		return err
	}

	bk.CurrentWarehouseID = &wh.ID
	return tx.Model(bk).Update("current_warehouse_id", wh.ID).Error
}

// restoreFromDeliveredConsignment is the lightweight fallback: point the
// booking back at the warehouse of its most recently delivered consignment
// without re-opening a stay. Finding nothing is not an error.
func (s *Service) restoreFromDeliveredConsignment(tx *gorm.DB, bk *bookingModel.Booking) error {
	var cons warehouseModel.Consignment
	err := tx.Where("booking_id = ? AND status = ?", bk.ID, warehouseModel.ConsignmentDelivered).
		Order("departure_date DESC").
		First(&cons).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	bk.CurrentWarehouseID = &cons.WarehouseID
	return tx.Model(bk).Update("current_warehouse_id", cons.WarehouseID).Error
}
