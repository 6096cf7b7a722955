package timeline

import (
	timelineModel "freight-booking/models/timeline"

	"gorm.io/gorm"
)

// Append writes one timeline row inside the caller's transaction. Timeline
// rows are the only record of a booking's movement history, so every
// lifecycle side effect must go through here.
func Append(tx *gorm.DB, bookingID uint, action timelineModel.Action, description string, warehouseID *uint, createdBy string) error {
	entry := timelineModel.Entry{
		BookingID:   bookingID,
		Action:      action,
		Description: description,
		WarehouseID: warehouseID,
		CreatedBy:   createdBy,
	}

	return tx.Create(&entry).Error
}

// Recent returns the booking's newest timeline rows for the given actions,
// most recent first, capped at limit.
func Recent(tx *gorm.DB, bookingID uint, actions []timelineModel.Action, limit int) ([]timelineModel.Entry, error) {
	var entries []timelineModel.Entry
	err := tx.
		Where("booking_id = ? AND action IN ?", bookingID, actions).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ForBooking returns the booking's full timeline, newest first.
func ForBooking(tx *gorm.DB, bookingID uint) ([]timelineModel.Entry, error) {
	var entries []timelineModel.Entry
	err := tx.
		Where("booking_id = ?", bookingID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
