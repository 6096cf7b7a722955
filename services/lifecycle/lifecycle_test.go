package lifecycle

import (
	"fmt"
	"testing"
	"time"

	assignmentModel "freight-booking/models/assignment"
	bookingModel "freight-booking/models/booking"
	timelineModel "freight-booking/models/timeline"
	userModel "freight-booking/models/user"
	vehicleModel "freight-booking/models/vehicle"
	warehouseModel "freight-booking/models/warehouse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB sets up an isolated in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&userModel.User{},
		&vehicleModel.Vehicle{},
		&vehicleModel.Driver{},
		&vehicleModel.Broker{},
		&warehouseModel.Warehouse{},
		&bookingModel.Booking{},
		&assignmentModel.VehicleAssignment{},
		&warehouseModel.Consignment{},
		&warehouseModel.WarehouseLog{},
		&timelineModel.Entry{},
	)
	require.NoError(t, err)

	return db
}

func seedBooking(t *testing.T, db *gorm.DB) *bookingModel.Booking {
	t.Helper()

	u := userModel.User{
		Uuid:      "test-operator",
		Username:  "operator",
		LegalName: "Test Operator",
		Phone:     "9000000001",
	}
	require.NoError(t, db.FirstOrCreate(&u, userModel.User{Uuid: "test-operator"}).Error)

	bk := bookingModel.Booking{
		LRNumber:       fmt.Sprintf("LR-TEST-%s", t.Name()),
		UserID:         u.ID,
		ConsignorName:  "Acme Mills",
		ConsigneeName:  "Zenith Traders",
		ConsignorPhone: "9000000002",
		Origin:         "Nagpur",
		Destination:    "Pune",
		Status:         bookingModel.StatusConfirmed,
		CreatedBy:      "1",
	}
	require.NoError(t, db.Create(&bk).Error)
	return &bk
}

func seedVehicle(t *testing.T, db *gorm.DB, reg string) *vehicleModel.Vehicle {
	t.Helper()
	v := vehicleModel.Vehicle{
		RegistrationNumber: reg,
		OwnershipType:      vehicleModel.OwnershipOwned,
		Status:             vehicleModel.StatusAvailable,
	}
	require.NoError(t, db.Create(&v).Error)
	return &v
}

func seedDriver(t *testing.T, db *gorm.DB, name string) *vehicleModel.Driver {
	t.Helper()
	d := vehicleModel.Driver{
		Name:          name,
		Phone:         fmt.Sprintf("98%08d", len(name)*13),
		LicenseNumber: fmt.Sprintf("DL-%s-%s", t.Name(), name),
	}
	require.NoError(t, db.Create(&d).Error)
	return &d
}

func seedBroker(t *testing.T, db *gorm.DB, name string) *vehicleModel.Broker {
	t.Helper()
	b := vehicleModel.Broker{Name: name, Phone: "9100000001"}
	require.NoError(t, db.Create(&b).Error)
	return &b
}

func seedWarehouse(t *testing.T, db *gorm.DB, name string) *warehouseModel.Warehouse {
	t.Helper()
	w := warehouseModel.Warehouse{Name: name, City: "Nagpur"}
	require.NoError(t, db.Create(&w).Error)
	return &w
}

func reloadBooking(t *testing.T, db *gorm.DB, id uint) *bookingModel.Booking {
	t.Helper()
	var bk bookingModel.Booking
	require.NoError(t, db.First(&bk, id).Error)
	return &bk
}

func openConsignmentCount(t *testing.T, db *gorm.DB, bookingID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&warehouseModel.Consignment{}).
		Where("booking_id = ? AND departure_date IS NULL", bookingID).
		Count(&n).Error)
	return n
}

func activeAssignmentCount(t *testing.T, db *gorm.DB, bookingID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&assignmentModel.VehicleAssignment{}).
		Where("booking_id = ? AND status = ?", bookingID, assignmentModel.StatusActive).
		Count(&n).Error)
	return n
}

func warehouseStock(t *testing.T, db *gorm.DB, warehouseID uint) int {
	t.Helper()
	var wh warehouseModel.Warehouse
	require.NoError(t, db.First(&wh, warehouseID).Error)
	return wh.Stock
}

func TestAssignVehicle(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)
	veh := seedVehicle(t, db, "MH31-AB-1234")
	drv := seedDriver(t, db, "Ramesh")

	asgID, err := svc.AssignVehicle(AssignParams{
		BookingID:   bk.ID,
		VehicleType: vehicleModel.OwnershipOwned,
		VehicleID:   veh.ID,
		DriverID:    drv.ID,
		Actor:       "1",
	})
	require.NoError(t, err)
	require.NotZero(t, asgID)

	var asg assignmentModel.VehicleAssignment
	require.NoError(t, db.First(&asg, asgID).Error)
	assert.Equal(t, assignmentModel.StatusActive, asg.Status)
	assert.Equal(t, veh.ID, asg.VehicleID)
	assert.Nil(t, asg.ReleasedAt)

	var reloaded vehicleModel.Vehicle
	require.NoError(t, db.First(&reloaded, veh.ID).Error)
	assert.Equal(t, vehicleModel.StatusOccupied, reloaded.Status)

	var entry timelineModel.Entry
	require.NoError(t, db.Where("booking_id = ? AND action = ?", bk.ID, timelineModel.ActionVehicleAssigned).First(&entry).Error)
}

func TestAssignVehicleRejectsSecondActive(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)
	v1 := seedVehicle(t, db, "MH31-AB-0001")
	v2 := seedVehicle(t, db, "MH31-AB-0002")
	drv := seedDriver(t, db, "Suresh")

	_, err := svc.AssignVehicle(AssignParams{
		BookingID: bk.ID, VehicleType: vehicleModel.OwnershipOwned,
		VehicleID: v1.ID, DriverID: drv.ID, Actor: "1",
	})
	require.NoError(t, err)

	_, err = svc.AssignVehicle(AssignParams{
		BookingID: bk.ID, VehicleType: vehicleModel.OwnershipOwned,
		VehicleID: v2.ID, DriverID: drv.ID, Actor: "1",
	})
	require.ErrorIs(t, err, ErrAssignmentActive)

	// The second vehicle must be untouched.
	var reloaded vehicleModel.Vehicle
	require.NoError(t, db.First(&reloaded, v2.ID).Error)
	assert.Equal(t, vehicleModel.StatusAvailable, reloaded.Status)
	assert.EqualValues(t, 1, activeAssignmentCount(t, db, bk.ID))
}

func TestAssignVehicleRejectsOccupiedVehicle(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)
	veh := seedVehicle(t, db, "MH31-AB-0003")
	drv := seedDriver(t, db, "Mahesh")
	require.NoError(t, db.Model(veh).Update("status", vehicleModel.StatusOccupied).Error)

	_, err := svc.AssignVehicle(AssignParams{
		BookingID: bk.ID, VehicleType: vehicleModel.OwnershipOwned,
		VehicleID: veh.ID, DriverID: drv.ID, Actor: "1",
	})
	require.ErrorIs(t, err, ErrVehicleUnavailable)
	assert.EqualValues(t, 0, activeAssignmentCount(t, db, bk.ID))
}

func TestAssignVehicleRejectsBrokerOnOwned(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	brokerID := uint(7)

	_, err := svc.AssignVehicle(AssignParams{
		BookingID: 1, VehicleType: vehicleModel.OwnershipOwned,
		VehicleID: 1, DriverID: 1, BrokerID: &brokerID, Actor: "1",
	})
	require.ErrorIs(t, err, ErrBrokerNotAllowed)
}

// A broker ID on a hired assignment must reference a registered broker;
// a dangling ID is rejected before anything is written.
func TestAssignVehicleRejectsUnknownBroker(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)
	veh := seedVehicle(t, db, "MH31-AB-0010")
	drv := seedDriver(t, db, "Paresh")
	danglingID := uint(424242)

	_, err := svc.AssignVehicle(AssignParams{
		BookingID: bk.ID, VehicleType: vehicleModel.OwnershipHired,
		VehicleID: veh.ID, DriverID: drv.ID, BrokerID: &danglingID, Actor: "1",
	})
	require.ErrorIs(t, err, ErrBrokerNotFound)
	assert.EqualValues(t, 0, activeAssignmentCount(t, db, bk.ID))

	// The vehicle must be untouched.
	var reloaded vehicleModel.Vehicle
	require.NoError(t, db.First(&reloaded, veh.ID).Error)
	assert.Equal(t, vehicleModel.StatusAvailable, reloaded.Status)
}

func TestAssignVehicleWithBroker(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)
	veh := seedVehicle(t, db, "MH31-AB-0011")
	drv := seedDriver(t, db, "Yogesh")
	brk := seedBroker(t, db, "Vidarbha Transport Agency")

	asgID, err := svc.AssignVehicle(AssignParams{
		BookingID: bk.ID, VehicleType: vehicleModel.OwnershipHired,
		VehicleID: veh.ID, DriverID: drv.ID, BrokerID: &brk.ID, Actor: "1",
	})
	require.NoError(t, err)

	var asg assignmentModel.VehicleAssignment
	require.NoError(t, db.First(&asg, asgID).Error)
	require.NotNil(t, asg.BrokerID)
	assert.Equal(t, brk.ID, *asg.BrokerID)
	assert.Equal(t, vehicleModel.OwnershipHired, asg.VehicleType)
}

// Scenario: unassigning with no active assignment is a precondition error
// and writes nothing.
func TestUnassignVehicleWithoutActiveAssignment(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)

	err := svc.UnassignVehicle(bk.ID, "1")
	require.ErrorIs(t, err, ErrNoActiveAssignment)

	var entries int64
	require.NoError(t, db.Model(&timelineModel.Entry{}).Where("booking_id = ?", bk.ID).Count(&entries).Error)
	assert.Zero(t, entries)
}

func TestUnassignVehicleCompletesAssignment(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)
	veh := seedVehicle(t, db, "MH31-AB-0004")
	drv := seedDriver(t, db, "Dinesh")

	asgID, err := svc.AssignVehicle(AssignParams{
		BookingID: bk.ID, VehicleType: vehicleModel.OwnershipOwned,
		VehicleID: veh.ID, DriverID: drv.ID, Actor: "1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.UnassignVehicle(bk.ID, "1"))

	var asg assignmentModel.VehicleAssignment
	require.NoError(t, db.First(&asg, asgID).Error)
	assert.Equal(t, assignmentModel.StatusCompleted, asg.Status)
	require.NotNil(t, asg.ReleasedAt)

	var reloaded vehicleModel.Vehicle
	require.NoError(t, db.First(&reloaded, veh.ID).Error)
	assert.Equal(t, vehicleModel.StatusAvailable, reloaded.Status)
}

func TestMoveToWarehouse(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)
	wh := seedWarehouse(t, db, "Nagpur Central")

	require.NoError(t, svc.MoveToWarehouse(bk.ID, wh.ID, "1"))

	reloaded := reloadBooking(t, db, bk.ID)
	require.NotNil(t, reloaded.CurrentWarehouseID)
	assert.Equal(t, wh.ID, *reloaded.CurrentWarehouseID)
	assert.Equal(t, bookingModel.StatusAtWarehouse, reloaded.Status)
	assert.Equal(t, 1, warehouseStock(t, db, wh.ID))
	assert.EqualValues(t, 1, openConsignmentCount(t, db, bk.ID))

	var whLog warehouseModel.WarehouseLog
	require.NoError(t, db.Where("warehouse_id = ? AND type = ?", wh.ID, warehouseModel.LogIncoming).First(&whLog).Error)
}

// Moving into the same warehouse twice must not open a duplicate stay.
func TestMoveToWarehouseIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)
	wh := seedWarehouse(t, db, "Nagpur Central")

	require.NoError(t, svc.MoveToWarehouse(bk.ID, wh.ID, "1"))
	require.NoError(t, svc.MoveToWarehouse(bk.ID, wh.ID, "1"))

	assert.EqualValues(t, 1, openConsignmentCount(t, db, bk.ID))
	assert.Equal(t, 1, warehouseStock(t, db, wh.ID))
}

// Scenario: assigning a vehicle while the goods sit in a warehouse closes the
// consignment as IN_TRANSIT before the assignment is created.
func TestAssignVehicleClosesOpenConsignment(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)
	wh := seedWarehouse(t, db, "Nagpur Central")
	veh := seedVehicle(t, db, "MH31-AB-0005")
	drv := seedDriver(t, db, "Ganesh")

	require.NoError(t, svc.MoveToWarehouse(bk.ID, wh.ID, "1"))

	_, err := svc.AssignVehicle(AssignParams{
		BookingID: bk.ID, VehicleType: vehicleModel.OwnershipOwned,
		VehicleID: veh.ID, DriverID: drv.ID, Actor: "1",
	})
	require.NoError(t, err)

	var cons warehouseModel.Consignment
	require.NoError(t, db.Where("booking_id = ?", bk.ID).First(&cons).Error)
	assert.Equal(t, warehouseModel.ConsignmentInTransit, cons.Status)
	require.NotNil(t, cons.DepartureDate)

	reloaded := reloadBooking(t, db, bk.ID)
	assert.Nil(t, reloaded.CurrentWarehouseID)
	assert.Equal(t, 0, warehouseStock(t, db, wh.ID))
	assert.EqualValues(t, 1, activeAssignmentCount(t, db, bk.ID))

	var reloadedVeh vehicleModel.Vehicle
	require.NoError(t, db.First(&reloadedVeh, veh.ID).Error)
	assert.Equal(t, vehicleModel.StatusOccupied, reloadedVeh.Status)
}

// Scenario: manual removal closes the stay as DEPARTED and returns the
// booking to CONFIRMED.
func TestRemoveFromWarehouse(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)
	wh := seedWarehouse(t, db, "Nagpur Central")

	require.NoError(t, svc.MoveToWarehouse(bk.ID, wh.ID, "1"))
	require.NoError(t, svc.RemoveFromWarehouse(bk.ID, "1"))

	var cons warehouseModel.Consignment
	require.NoError(t, db.Where("booking_id = ?", bk.ID).First(&cons).Error)
	assert.Equal(t, warehouseModel.ConsignmentDeparted, cons.Status)
	require.NotNil(t, cons.DepartureDate)

	reloaded := reloadBooking(t, db, bk.ID)
	assert.Nil(t, reloaded.CurrentWarehouseID)
	assert.Equal(t, bookingModel.StatusConfirmed, reloaded.Status)
	assert.Equal(t, 0, warehouseStock(t, db, wh.ID))

	var entry timelineModel.Entry
	require.NoError(t, db.Where("booking_id = ? AND action = ?", bk.ID, timelineModel.ActionDepartedFromWarehouse).First(&entry).Error)
}

// Removing a booking that is not in any warehouse is a no-op.
func TestRemoveFromWarehouseNoOpenStay(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)

	require.NoError(t, svc.RemoveFromWarehouse(bk.ID, "1"))
	assert.Equal(t, bookingModel.StatusConfirmed, reloadBooking(t, db, bk.ID).Status)
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)

	err := svc.SetStatus(bk.ID, bookingModel.Status("TELEPORTED"), "1")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSetStatusLateralTransition(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)

	require.NoError(t, svc.SetStatus(bk.ID, bookingModel.StatusDispatched, "1"))

	reloaded := reloadBooking(t, db, bk.ID)
	assert.Equal(t, bookingModel.StatusDispatched, reloaded.Status)
	assert.EqualValues(t, 0, activeAssignmentCount(t, db, bk.ID))
	assert.EqualValues(t, 0, openConsignmentCount(t, db, bk.ID))
}

// Delivery releases the vehicle and closes the warehouse stay before the
// status write.
func TestSetStatusDeliveredReleasesVehicle(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)
	veh := seedVehicle(t, db, "MH31-AB-0006")
	drv := seedDriver(t, db, "Naresh")

	asgID, err := svc.AssignVehicle(AssignParams{
		BookingID: bk.ID, VehicleType: vehicleModel.OwnershipOwned,
		VehicleID: veh.ID, DriverID: drv.ID, Actor: "1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetStatus(bk.ID, bookingModel.StatusDelivered, "1"))

	var asg assignmentModel.VehicleAssignment
	require.NoError(t, db.First(&asg, asgID).Error)
	assert.Equal(t, assignmentModel.StatusCompleted, asg.Status)

	var reloadedVeh vehicleModel.Vehicle
	require.NoError(t, db.First(&reloadedVeh, veh.ID).Error)
	assert.Equal(t, vehicleModel.StatusAvailable, reloadedVeh.Status)

	assert.Equal(t, bookingModel.StatusDelivered, reloadBooking(t, db, bk.ID).Status)
}

func TestSetStatusDeliveredClosesConsignment(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)
	wh := seedWarehouse(t, db, "Nagpur Central")

	require.NoError(t, svc.MoveToWarehouse(bk.ID, wh.ID, "1"))
	require.NoError(t, svc.SetStatus(bk.ID, bookingModel.StatusDelivered, "1"))

	var cons warehouseModel.Consignment
	require.NoError(t, db.Where("booking_id = ?", bk.ID).First(&cons).Error)
	assert.Equal(t, warehouseModel.ConsignmentDelivered, cons.Status)

	reloaded := reloadBooking(t, db, bk.ID)
	assert.Equal(t, bookingModel.StatusDelivered, reloaded.Status)
	assert.Nil(t, reloaded.CurrentWarehouseID)
	assert.Equal(t, 0, warehouseStock(t, db, wh.ID))
}

// Scenario: a booking with no movement history is marked delivered and then
// un-delivered; nothing is restored, the status is simply written.
func TestUndeliverWithoutHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)

	require.NoError(t, svc.SetStatus(bk.ID, bookingModel.StatusDelivered, "1"))
	require.NoError(t, svc.SetStatus(bk.ID, bookingModel.StatusConfirmed, "1"))

	reloaded := reloadBooking(t, db, bk.ID)
	assert.Equal(t, bookingModel.StatusConfirmed, reloaded.Status)
	assert.Nil(t, reloaded.CurrentWarehouseID)
	assert.EqualValues(t, 0, activeAssignmentCount(t, db, bk.ID))
	assert.EqualValues(t, 0, openConsignmentCount(t, db, bk.ID))
}

// Round trip: assign → deliver → un-deliver re-creates an ACTIVE assignment
// with the same vehicle and driver.
func TestUndeliverRestoresVehicleAssignment(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)
	veh := seedVehicle(t, db, "MH31-AB-0007")
	drv := seedDriver(t, db, "Rajesh")

	_, err := svc.AssignVehicle(AssignParams{
		BookingID: bk.ID, VehicleType: vehicleModel.OwnershipOwned,
		VehicleID: veh.ID, DriverID: drv.ID, Actor: "1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetStatus(bk.ID, bookingModel.StatusDelivered, "1"))
	require.NoError(t, svc.SetStatus(bk.ID, bookingModel.StatusInTransit, "1"))

	var restored assignmentModel.VehicleAssignment
	require.NoError(t, db.Where("booking_id = ? AND status = ?", bk.ID, assignmentModel.StatusActive).First(&restored).Error)
	assert.Equal(t, veh.ID, restored.VehicleID)
	assert.Equal(t, drv.ID, restored.DriverID)

	var reloadedVeh vehicleModel.Vehicle
	require.NoError(t, db.First(&reloadedVeh, veh.ID).Error)
	assert.Equal(t, vehicleModel.StatusOccupied, reloadedVeh.Status)

	assert.Equal(t, bookingModel.StatusInTransit, reloadBooking(t, db, bk.ID).Status)

	// The restoration itself is recorded on the timeline.
	var assigned int64
	require.NoError(t, db.Model(&timelineModel.Entry{}).
		Where("booking_id = ? AND action = ?", bk.ID, timelineModel.ActionVehicleAssigned).
		Count(&assigned).Error)
	assert.EqualValues(t, 2, assigned)
}

// Round trip: warehouse stay → deliver → un-deliver re-opens a stay at the
// same warehouse.
func TestUndeliverRestoresWarehousePlacement(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)
	wh := seedWarehouse(t, db, "Nagpur Central")

	require.NoError(t, svc.MoveToWarehouse(bk.ID, wh.ID, "1"))
	require.NoError(t, svc.SetStatus(bk.ID, bookingModel.StatusDelivered, "1"))
	require.NoError(t, svc.SetStatus(bk.ID, bookingModel.StatusAtWarehouse, "1"))

	reloaded := reloadBooking(t, db, bk.ID)
	require.NotNil(t, reloaded.CurrentWarehouseID)
	assert.Equal(t, wh.ID, *reloaded.CurrentWarehouseID)
	assert.Equal(t, bookingModel.StatusAtWarehouse, reloaded.Status)
	assert.EqualValues(t, 1, openConsignmentCount(t, db, bk.ID))
	assert.Equal(t, 1, warehouseStock(t, db, wh.ID))
}

// The newest movement signal wins: a vehicle assigned after a warehouse stay
// takes priority during restoration.
func TestUndeliverPrefersNewestSignal(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)
	wh := seedWarehouse(t, db, "Nagpur Central")
	veh := seedVehicle(t, db, "MH31-AB-0008")
	drv := seedDriver(t, db, "Umesh")

	require.NoError(t, svc.MoveToWarehouse(bk.ID, wh.ID, "1"))
	_, err := svc.AssignVehicle(AssignParams{
		BookingID: bk.ID, VehicleType: vehicleModel.OwnershipOwned,
		VehicleID: veh.ID, DriverID: drv.ID, Actor: "1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetStatus(bk.ID, bookingModel.StatusDelivered, "1"))
	require.NoError(t, svc.SetStatus(bk.ID, bookingModel.StatusInTransit, "1"))

	// Vehicle path, not warehouse path.
	assert.EqualValues(t, 1, activeAssignmentCount(t, db, bk.ID))
	reloaded := reloadBooking(t, db, bk.ID)
	assert.Nil(t, reloaded.CurrentWarehouseID)
	assert.Equal(t, 0, warehouseStock(t, db, wh.ID))
}

// DEPARTED_FROM_WAREHOUSE entries are skipped over: the scan keeps going and
// restores the stay behind them.
func TestUndeliverSkipsDepartureEntries(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)
	wh := seedWarehouse(t, db, "Nagpur Central")

	require.NoError(t, svc.MoveToWarehouse(bk.ID, wh.ID, "1"))
	require.NoError(t, svc.RemoveFromWarehouse(bk.ID, "1"))
	require.NoError(t, svc.SetStatus(bk.ID, bookingModel.StatusDelivered, "1"))
	require.NoError(t, svc.SetStatus(bk.ID, bookingModel.StatusConfirmed, "1"))

	reloaded := reloadBooking(t, db, bk.ID)
	require.NotNil(t, reloaded.CurrentWarehouseID)
	assert.Equal(t, wh.ID, *reloaded.CurrentWarehouseID)
	assert.EqualValues(t, 1, openConsignmentCount(t, db, bk.ID))
}

// An assignment signal on the timeline with no completed assignment row to
// copy degrades to the delivered-consignment fallback: the warehouse pointer
// comes back, but no assignment and no open stay are created.
func TestUndeliverAssignmentSignalWithoutRecord(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)
	wh := seedWarehouse(t, db, "Nagpur Central")

	entry := timelineModel.Entry{
		BookingID:   bk.ID,
		Action:      timelineModel.ActionVehicleAssigned,
		Description: "Vehicle MH31-AB-0012 assigned with driver Mitesh",
		CreatedBy:   "1",
	}
	require.NoError(t, db.Create(&entry).Error)

	departed := time.Now()
	cons := warehouseModel.Consignment{
		BookingID:     bk.ID,
		WarehouseID:   wh.ID,
		Status:        warehouseModel.ConsignmentDelivered,
		ArrivalDate:   departed.Add(-time.Hour),
		DepartureDate: &departed,
		CreatedBy:     "1",
	}
	require.NoError(t, db.Create(&cons).Error)
	require.NoError(t, db.Model(bk).Update("status", bookingModel.StatusDelivered).Error)

	require.NoError(t, svc.SetStatus(bk.ID, bookingModel.StatusInTransit, "1"))

	reloaded := reloadBooking(t, db, bk.ID)
	assert.Equal(t, bookingModel.StatusInTransit, reloaded.Status)
	require.NotNil(t, reloaded.CurrentWarehouseID)
	assert.Equal(t, wh.ID, *reloaded.CurrentWarehouseID)
	assert.EqualValues(t, 0, activeAssignmentCount(t, db, bk.ID))
	assert.EqualValues(t, 0, openConsignmentCount(t, db, bk.ID))
	assert.Equal(t, 0, warehouseStock(t, db, wh.ID))
}

// Conservation: across a mixed sequence of stays the stock counter always
// equals the number of currently-open consignments.
func TestStockMatchesOpenConsignments(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	wh := seedWarehouse(t, db, "Nagpur Central")

	u := userModel.User{Uuid: "test-operator", Username: "operator", LegalName: "Test Operator", Phone: "9000000001"}
	require.NoError(t, db.Create(&u).Error)

	var bookings []*bookingModel.Booking
	for i := 0; i < 3; i++ {
		bk := &bookingModel.Booking{
			LRNumber:       fmt.Sprintf("LR-STOCK-%d", i),
			UserID:         u.ID,
			ConsignorName:  "Acme Mills",
			ConsigneeName:  "Zenith Traders",
			ConsignorPhone: "9000000002",
			Origin:         "Nagpur",
			Destination:    "Pune",
			Status:         bookingModel.StatusConfirmed,
			CreatedBy:      "1",
		}
		require.NoError(t, db.Create(bk).Error)
		bookings = append(bookings, bk)
		require.NoError(t, svc.MoveToWarehouse(bk.ID, wh.ID, "1"))
	}
	assert.Equal(t, 3, warehouseStock(t, db, wh.ID))

	require.NoError(t, svc.RemoveFromWarehouse(bookings[0].ID, "1"))
	require.NoError(t, svc.SetStatus(bookings[1].ID, bookingModel.StatusDelivered, "1"))

	var open int64
	require.NoError(t, db.Model(&warehouseModel.Consignment{}).
		Where("warehouse_id = ? AND departure_date IS NULL", wh.ID).
		Count(&open).Error)
	assert.EqualValues(t, open, warehouseStock(t, db, wh.ID))
	assert.EqualValues(t, 1, open)

	// Every open/close pair left a matched INCOMING/OUTGOING log.
	var incoming, outgoing int64
	require.NoError(t, db.Model(&warehouseModel.WarehouseLog{}).
		Where("warehouse_id = ? AND type = ?", wh.ID, warehouseModel.LogIncoming).Count(&incoming).Error)
	require.NoError(t, db.Model(&warehouseModel.WarehouseLog{}).
		Where("warehouse_id = ? AND type = ?", wh.ID, warehouseModel.LogOutgoing).Count(&outgoing).Error)
	assert.EqualValues(t, 3, incoming)
	assert.EqualValues(t, 2, outgoing)
}

func TestDeleteBookingRefusedWhileInUse(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	bk := seedBooking(t, db)
	veh := seedVehicle(t, db, "MH31-AB-0009")
	drv := seedDriver(t, db, "Lokesh")

	_, err := svc.AssignVehicle(AssignParams{
		BookingID: bk.ID, VehicleType: vehicleModel.OwnershipOwned,
		VehicleID: veh.ID, DriverID: drv.ID, Actor: "1",
	})
	require.NoError(t, err)

	err = svc.DeleteBooking(bk.ID, "1")
	require.ErrorIs(t, err, ErrBookingInUse)
	assert.Nil(t, reloadBooking(t, db, bk.ID).DeletedAt)

	require.NoError(t, svc.UnassignVehicle(bk.ID, "1"))
	require.NoError(t, svc.DeleteBooking(bk.ID, "1"))
	assert.NotNil(t, reloadBooking(t, db, bk.ID).DeletedAt)
}
