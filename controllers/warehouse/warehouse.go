package warehouse

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"freight-booking/logger"
	warehouseModel "freight-booking/models/warehouse"
	"freight-booking/services/lifecycle"
	"freight-booking/types"
	warehouseTypes "freight-booking/types/warehouse"
	"freight-booking/utils"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// WarehouseController handles warehouse and consignment HTTP requests
type WarehouseController struct {
	DB        *gorm.DB
	Cache     *redis.Client
	Logger    *logger.AsyncLogger
	Lifecycle *lifecycle.Service
}

// NewWarehouseController creates a new warehouse controller
func NewWarehouseController(db *gorm.DB, cache *redis.Client, asyncLogger *logger.AsyncLogger) *WarehouseController {
	return &WarehouseController{
		DB:        db,
		Cache:     cache,
		Logger:    asyncLogger,
		Lifecycle: lifecycle.NewService(db),
	}
}

func (wc *WarehouseController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	wc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

func (wc *WarehouseController) actingUser(c *fiber.Ctx) (string, int, string) {
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
		errors.Is(err, lifecycle.ErrWarehouseNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, lifecycle.ErrInvalidStatus):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// Store creates a new warehouse
func (wc *WarehouseController) Store(c *fiber.Ctx) error {
	var req warehouseTypes.WarehouseCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return wc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return wc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	wh := warehouseModel.Warehouse{
		Name:    req.Name,
		City:    req.City,
		Address: req.Address,
	}
	if err := wc.DB.Create(&wh).Error; err != nil {
		logger.Error("Failed to create warehouse", err)
		return wc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save warehouse",
			Data:    nil,
		})
	}

	return wc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Warehouse created successfully",
		Data:    wh,
	})
}

// Index lists warehouses with their current stock counters
func (wc *WarehouseController) Index(c *fiber.Ctx) error {
	var warehouses []warehouseModel.Warehouse
	if err := wc.DB.Where("deleted_at IS NULL").Order("name").Find(&warehouses).Error; err != nil {
		logger.Error("Failed to list warehouses", err)
		return wc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return wc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Warehouses retrieved successfully",
		Data:    warehouses,
	})
}

// Logs lists a warehouse's movement log for one calendar day (default today)
func (wc *WarehouseController) Logs(c *fiber.Ctx) error {
	warehouseID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return wc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid warehouse id",
			Data:    nil,
		})
	}

	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return wc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: "Invalid date, expected YYYY-MM-DD",
				Data:    nil,
			})
		}
		day = parsed
	}
	start, end := utils.DayRange(day)

	var logs []warehouseModel.WarehouseLog
	err = wc.DB.Where("warehouse_id = ? AND created_at >= ? AND created_at < ?", warehouseID, start, end).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		logger.Error("Failed to list warehouse logs", err)
		return wc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return wc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Warehouse logs retrieved successfully",
		Data:    logs,
	})
}

// MoveIn books a consignment into a warehouse through the lifecycle engine
func (wc *WarehouseController) MoveIn(c *fiber.Ctx) error {
	var req warehouseTypes.MoveToWarehouseRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return wc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return wc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	actor, errStatus, errMsg := wc.actingUser(c)
	if errStatus != 0 {
		return wc.sendResponseWithLog(c, errStatus, types.ApiResponse{
			Status:  errStatus,
			Message: errMsg,
			Data:    nil,
		})
	}

	if err := wc.Lifecycle.MoveToWarehouse(req.BookingID, req.WarehouseID, actor); err != nil {
		logger.Error(fmt.Sprintf("Failed to move booking %d to warehouse %d", req.BookingID, req.WarehouseID), err)
		return wc.sendResponseWithLog(c, statusForError(err), types.ApiResponse{
			Status:  statusForError(err),
			Message: err.Error(),
			Data:    nil,
		})
	}

	utils.InvalidateBookingCache(c.Context(), wc.Cache, req.BookingID)
	logger.Success(fmt.Sprintf("Booking %d moved to warehouse %d", req.BookingID, req.WarehouseID))

	return wc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking moved to warehouse successfully",
		Data:    nil,
	})
}

// MoveOut manually removes a booking from its current warehouse
func (wc *WarehouseController) MoveOut(c *fiber.Ctx) error {
	var req warehouseTypes.RemoveFromWarehouseRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return wc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return wc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	actor, errStatus, errMsg := wc.actingUser(c)
	if errStatus != 0 {
		return wc.sendResponseWithLog(c, errStatus, types.ApiResponse{
			Status:  errStatus,
			Message: errMsg,
			Data:    nil,
		})
	}

	if err := wc.Lifecycle.RemoveFromWarehouse(req.BookingID, actor); err != nil {
		logger.Error(fmt.Sprintf("Failed to remove booking %d from warehouse", req.BookingID), err)
		return wc.sendResponseWithLog(c, statusForError(err), types.ApiResponse{
			Status:  statusForError(err),
			Message: err.Error(),
			Data:    nil,
		})
	}

	utils.InvalidateBookingCache(c.Context(), wc.Cache, req.BookingID)

	return wc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking removed from warehouse successfully",
		Data:    nil,
	})
}
