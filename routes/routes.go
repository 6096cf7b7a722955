package routes

import (
	"freight-booking/constants"
	bookingController "freight-booking/controllers/booking"
	vehicleController "freight-booking/controllers/vehicle"
	warehouseController "freight-booking/controllers/warehouse"
	"freight-booking/logger"
	"freight-booking/middleware"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cache *redis.Client) {
	asyncLogger := logger.NewAsyncLogger(db)
	bookings := bookingController.NewBookingController(db, cache, asyncLogger)
	vehicles := vehicleController.NewVehicleController(db, cache, asyncLogger)
	warehouses := warehouseController.NewWarehouseController(db, cache, asyncLogger)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "freight-booking",
		})
	})

	api := app.Group("/api")

	/*=============================================================================
	| Booking Routes
	===============================================================================*/
	bookingGroup := api.Group("/booking")

	bookingGroup.Post("/create", middleware.RequirePermissions(
		constants.LifecyclePermissions...,
	), bookings.Store)

	bookingGroup.Get("/list", middleware.RequireAuthentication(), bookings.Index)
	bookingGroup.Get("/:id", middleware.RequireAuthentication(), bookings.Show)
	bookingGroup.Get("/:id/timeline", middleware.RequireAuthentication(), bookings.Timeline)

	bookingGroup.Post("/set-status", middleware.RequirePermissions(
		constants.LifecyclePermissions...,
	), bookings.SetStatus)

	bookingGroup.Delete("/:id", middleware.RequirePermissions(
		constants.PermSuperAdminFull,
		constants.PermManagerFull,
	), bookings.Destroy)

	/*=============================================================================
	| Vehicle Routes
	===============================================================================*/
	vehicleGroup := api.Group("/vehicle")

	vehicleGroup.Post("/create", middleware.RequirePermissions(
		constants.PermSuperAdminFull,
		constants.PermManagerFull,
	), vehicles.Store)

	vehicleGroup.Get("/list", middleware.RequireAuthentication(), vehicles.Index)

	vehicleGroup.Post("/driver/create", middleware.RequirePermissions(
		constants.PermSuperAdminFull,
		constants.PermManagerFull,
	), vehicles.StoreDriver)

	vehicleGroup.Post("/broker/create", middleware.RequirePermissions(
		constants.PermSuperAdminFull,
		constants.PermManagerFull,
	), vehicles.StoreBroker)

	vehicleGroup.Get("/broker/list", middleware.RequireAuthentication(), vehicles.IndexBrokers)

	vehicleGroup.Post("/assign", middleware.RequirePermissions(
		constants.LifecyclePermissions...,
	), vehicles.Assign)

	vehicleGroup.Post("/unassign", middleware.RequirePermissions(
		constants.LifecyclePermissions...,
	), vehicles.Unassign)

	/*=============================================================================
	| Warehouse Routes
	===============================================================================*/
	warehouseGroup := api.Group("/warehouse")

	warehouseGroup.Post("/create", middleware.RequirePermissions(
		constants.PermSuperAdminFull,
		constants.PermManagerFull,
	), warehouses.Store)

	warehouseGroup.Get("/list", middleware.RequireAuthentication(), warehouses.Index)
	warehouseGroup.Get("/:id/logs", middleware.RequirePermissions(
		constants.WarehousePermissions...,
	), warehouses.Logs)

	warehouseGroup.Post("/move-in", middleware.RequirePermissions(
		constants.WarehousePermissions...,
	), warehouses.MoveIn)

	warehouseGroup.Post("/move-out", middleware.RequirePermissions(
		constants.WarehousePermissions...,
	), warehouses.MoveOut)
}
