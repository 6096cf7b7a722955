package timeline

import (
	"fmt"
	"testing"

	timelineModel "freight-booking/models/timeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&timelineModel.Entry{}))
	return db
}

func TestRecentFiltersAndLimits(t *testing.T) {
	db := newTestDB(t)

	actions := []timelineModel.Action{
		timelineModel.ActionVehicleAssigned,
		timelineModel.ActionStatusChanged,
		timelineModel.ActionArrivedAtWarehouse,
		timelineModel.ActionVehicleUnassigned,
		timelineModel.ActionDepartedFromWarehouse,
		timelineModel.ActionVehicleAssigned,
		timelineModel.ActionStatusChanged,
	}
	for _, a := range actions {
		require.NoError(t, Append(db, 1, a, "", nil, "1"))
	}
	// Another booking's entries must not leak in.
	require.NoError(t, Append(db, 2, timelineModel.ActionVehicleAssigned, "", nil, "1"))

	entries, err := Recent(db, 1, []timelineModel.Action{
		timelineModel.ActionVehicleAssigned,
		timelineModel.ActionArrivedAtWarehouse,
		timelineModel.ActionDepartedFromWarehouse,
	}, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first, STATUS_CHANGED and VEHICLE_UNASSIGNED excluded.
	assert.Equal(t, timelineModel.ActionVehicleAssigned, entries[0].Action)
	assert.Equal(t, timelineModel.ActionDepartedFromWarehouse, entries[1].Action)
	assert.Equal(t, timelineModel.ActionArrivedAtWarehouse, entries[2].Action)
}

func TestForBookingReturnsNewestFirst(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, Append(db, 1, timelineModel.ActionStatusChanged, "first", nil, "1"))
	require.NoError(t, Append(db, 1, timelineModel.ActionStatusChanged, "second", nil, "1"))

	entries, err := ForBooking(db, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Description)
	assert.Equal(t, "first", entries[1].Description)
}
