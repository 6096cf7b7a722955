package vehicle

import (
	"errors"
	"fmt"
	"strconv"

	"freight-booking/logger"
	vehicleModel "freight-booking/models/vehicle"
	"freight-booking/services/lifecycle"
	"freight-booking/types"
	vehicleTypes "freight-booking/types/vehicle"
	"freight-booking/utils"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// VehicleController handles vehicle registry and assignment HTTP requests
type VehicleController struct {
	DB        *gorm.DB
	Cache     *redis.Client
	Logger    *logger.AsyncLogger
	Lifecycle *lifecycle.Service
}

// NewVehicleController creates a new vehicle controller
func NewVehicleController(db *gorm.DB, cache *redis.Client, asyncLogger *logger.AsyncLogger) *VehicleController {
	return &VehicleController{
		DB:        db,
		Cache:     cache,
		Logger:    asyncLogger,
		Lifecycle: lifecycle.NewService(db),
	}
}

func (vc *VehicleController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	vc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

func (vc *VehicleController) actingUser(c *fiber.Ctx) (string, int, string) {
	claims, ok := c.Locals("user").(map[string]interface{})
	if !ok {
		return "", fiber.StatusUnauthorized, "Invalid user claims"
	}
	userUUID, ok := claims["uuid"].(string)
	if !ok || userUUID == "" {
		return "", fiber.StatusUnauthorized, "User UUID not found in token"
	}
	userInfo, err := utils.GetUserByUUID(userUUID)
	if err != nil {
		logger.Error("Error finding user by UUID", err)
		if err.Error() == "user not found" {
			return "", fiber.StatusUnauthorized, "User not found"
		}
		return "", fiber.StatusInternalServerError, "Database error"
	}
	return strconv.FormatUint(uint64(userInfo.ID), 10), 0, ""
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrBookingNotFound),
		errors.Is(err, lifecycle.ErrVehicleNotFound),
		errors.Is(err, lifecycle.ErrDriverNotFound),
		errors.Is(err, lifecycle.ErrBrokerNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, lifecycle.ErrAssignmentActive):
		return fiber.StatusConflict
	case errors.Is(err, lifecycle.ErrNoActiveAssignment),
		errors.Is(err, lifecycle.ErrVehicleUnavailable),
		errors.Is(err, lifecycle.ErrBrokerNotAllowed),
		errors.Is(err, lifecycle.ErrInvalidStatus):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// Store registers a new vehicle
func (vc *VehicleController) Store(c *fiber.Ctx) error {
	var req vehicleTypes.VehicleCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return vc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return vc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	veh := vehicleModel.Vehicle{
		RegistrationNumber: req.RegistrationNumber,
		OwnershipType:      vehicleModel.OwnershipType(req.OwnershipType),
		Model:              req.Model,
		CapacityKG:         req.CapacityKG,
		Status:             vehicleModel.StatusAvailable,
	}
	if err := vc.DB.Create(&veh).Error; err != nil {
		logger.Error("Failed to create vehicle", err)
		return vc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save vehicle",
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Vehicle %s registered with ID: %d", veh.RegistrationNumber, veh.ID))

	return vc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Vehicle registered successfully",
		Data:    veh,
	})
}

// Index lists vehicles with optional status and ownership filters
func (vc *VehicleController) Index(c *fiber.Ctx) error {
	query := vc.DB.Where("deleted_at IS NULL")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if ownership := c.Query("ownership_type"); ownership != "" {
		query = query.Where("ownership_type = ?", ownership)
	}

	var vehicles []vehicleModel.Vehicle
	if err := query.Order("registration_number").Find(&vehicles).Error; err != nil {
		logger.Error("Failed to list vehicles", err)
		return vc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return vc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Vehicles retrieved successfully",
		Data:    vehicles,
	})
}

// StoreDriver registers a new driver
func (vc *VehicleController) StoreDriver(c *fiber.Ctx) error {
	var req vehicleTypes.DriverCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return vc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return vc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	drv := vehicleModel.Driver{
		Name:          req.Name,
		Phone:         req.Phone,
		LicenseNumber: req.LicenseNumber,
	}
	if err := vc.DB.Create(&drv).Error; err != nil {
		logger.Error("Failed to create driver", err)
		return vc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save driver",
			Data:    nil,
		})
	}

	return vc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Driver registered successfully",
		Data:    drv,
	})
}

// StoreBroker registers a new broker for sourcing hired vehicles
func (vc *VehicleController) StoreBroker(c *fiber.Ctx) error {
	var req vehicleTypes.BrokerCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return vc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return vc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	brk := vehicleModel.Broker{
		Name:  req.Name,
		Phone: req.Phone,
	}
	if err := vc.DB.Create(&brk).Error; err != nil {
		logger.Error("Failed to create broker", err)
		return vc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save broker",
			Data:    nil,
		})
	}

	return vc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Broker registered successfully",
		Data:    brk,
	})
}

// IndexBrokers lists registered brokers
func (vc *VehicleController) IndexBrokers(c *fiber.Ctx) error {
	var brokers []vehicleModel.Broker
	if err := vc.DB.Where("deleted_at IS NULL").Order("name").Find(&brokers).Error; err != nil {
		logger.Error("Failed to list brokers", err)
		return vc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return vc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Brokers retrieved successfully",
		Data:    brokers,
	})
}

// Assign attaches a vehicle to a booking through the lifecycle engine
func (vc *VehicleController) Assign(c *fiber.Ctx) error {
	var req vehicleTypes.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return vc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return vc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	actor, errStatus, errMsg := vc.actingUser(c)
	if errStatus != 0 {
		return vc.sendResponseWithLog(c, errStatus, types.ApiResponse{
			Status:  errStatus,
			Message: errMsg,
			Data:    nil,
		})
	}

	assignmentID, err := vc.Lifecycle.AssignVehicle(lifecycle.AssignParams{
		BookingID:   req.BookingID,
		VehicleType: vehicleModel.OwnershipType(req.VehicleType),
		VehicleID:   req.VehicleID,
		DriverID:    req.DriverID,
		BrokerID:    req.BrokerID,
		Actor:       actor,
	})
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to assign vehicle %d to booking %d", req.VehicleID, req.BookingID), err)
		return vc.sendResponseWithLog(c, statusForError(err), types.ApiResponse{
			Status:  statusForError(err),
			Message: err.Error(),
			Data:    nil,
		})
	}

	utils.InvalidateBookingCache(c.Context(), vc.Cache, req.BookingID)
	logger.Success(fmt.Sprintf("Vehicle %d assigned to booking %d (assignment %d)", req.VehicleID, req.BookingID, assignmentID))

	return vc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Vehicle assigned successfully",
		Data: map[string]interface{}{
			"assignment_id": assignmentID,
		},
	})
}

// Unassign releases the booking's active vehicle through the lifecycle engine
func (vc *VehicleController) Unassign(c *fiber.Ctx) error {
	var req vehicleTypes.UnassignRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return vc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return vc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	actor, errStatus, errMsg := vc.actingUser(c)
	if errStatus != 0 {
		return vc.sendResponseWithLog(c, errStatus, types.ApiResponse{
			Status:  errStatus,
			Message: errMsg,
			Data:    nil,
		})
	}

	if err := vc.Lifecycle.UnassignVehicle(req.BookingID, actor); err != nil {
		logger.Error(fmt.Sprintf("Failed to unassign vehicle from booking %d", req.BookingID), err)
		return vc.sendResponseWithLog(c, statusForError(err), types.ApiResponse{
			Status:  statusForError(err),
			Message: err.Error(),
			Data:    nil,
		})
	}

	utils.InvalidateBookingCache(c.Context(), vc.Cache, req.BookingID)

	return vc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Vehicle unassigned successfully",
		Data:    nil,
	})
}
