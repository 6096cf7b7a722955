package booking

import (
	"errors"
	"fmt"
	"strconv"

	"freight-booking/logger"
	assignmentModel "freight-booking/models/assignment"
	bookingModel "freight-booking/models/booking"
	warehouseModel "freight-booking/models/warehouse"
	"freight-booking/services/lifecycle"
	timelineService "freight-booking/services/timeline"
	"freight-booking/types"
	bookingTypes "freight-booking/types/booking"
	"freight-booking/utils"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BookingController handles booking-related HTTP requests
type BookingController struct {
	DB        *gorm.DB
	Cache     *redis.Client
	Logger    *logger.AsyncLogger
	Lifecycle *lifecycle.Service
}

// NewBookingController creates a new booking controller
func NewBookingController(db *gorm.DB, cache *redis.Client, asyncLogger *logger.AsyncLogger) *BookingController {
	return &BookingController{
		DB:        db,
		Cache:     cache,
		Logger:    asyncLogger,
		Lifecycle: lifecycle.NewService(db),
	}
}

// Helper function to send response and log in one call
func (bc *BookingController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	bc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	return result
}

// actingUser resolves the authenticated user from the request claims.
func (bc *BookingController) actingUser(c *fiber.Ctx) (string, int, string) {
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

// statusForError maps lifecycle errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrBookingNotFound),
		errors.Is(err, lifecycle.ErrWarehouseNotFound),
		errors.Is(err, lifecycle.ErrVehicleNotFound),
		errors.Is(err, lifecycle.ErrDriverNotFound),
		errors.Is(err, lifecycle.ErrBrokerNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, lifecycle.ErrAssignmentActive),
		errors.Is(err, lifecycle.ErrBookingInUse):
		return fiber.StatusConflict
	case errors.Is(err, lifecycle.ErrInvalidStatus),
		errors.Is(err, lifecycle.ErrNoActiveAssignment),
		errors.Is(err, lifecycle.ErrVehicleUnavailable),
		errors.Is(err, lifecycle.ErrBrokerNotAllowed):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// Store creates a new booking in DRAFT with a generated LR number
func (bc *BookingController) Store(c *fiber.Ctx) error {
	var req bookingTypes.BookingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	actor, errStatus, errMsg := bc.actingUser(c)
	if errStatus != 0 {
		return bc.sendResponseWithLog(c, errStatus, types.ApiResponse{
			Status:  errStatus,
			Message: errMsg,
			Data:    nil,
		})
	}
	userID, _ := strconv.ParseUint(actor, 10, 64)

	booking := bookingModel.Booking{
		LRNumber:       utils.GenerateLRNumber(),
		UserID:         uint(userID),
		ConsignorName:  req.ConsignorName,
		ConsigneeName:  req.ConsigneeName,
		ConsignorPhone: req.ConsignorPhone,
		Origin:         req.Origin,
		Destination:    req.Destination,
		GoodsDesc:      req.GoodsDesc,
		WeightKG:       req.WeightKG,
		Status:         bookingModel.StatusDraft,
		CreatedBy:      actor,
	}
	if req.ConsigneePhone != "" {
		booking.ConsigneePhone = &req.ConsigneePhone
	}

	if err := bc.DB.Create(&booking).Error; err != nil {
		logger.Error("Failed to create booking", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save booking",
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Booking created successfully with LR number: %s", booking.LRNumber))

	return bc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Booking created successfully",
		Data:    booking,
	})
}

// Index lists bookings with an optional status filter
func (bc *BookingController) Index(c *fiber.Ctx) error {
	query := bc.DB.Preload("User").Where("deleted_at IS NULL")

	if status := c.Query("status"); status != "" {
		if !bookingModel.Status(status).IsValid() {
			return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
				Status:  fiber.StatusBadRequest,
				Message: fmt.Sprintf("Invalid status filter: %s", status),
				Data:    nil,
			})
		}
		query = query.Where("status = ?", status)
	}

	var bookings []bookingModel.Booking
	if err := query.Order("created_at DESC").Find(&bookings).Error; err != nil {
		logger.Error("Failed to list bookings", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    bookings,
	})
}

// bookingSnapshot is the Show payload: the booking plus its live
// assignment/consignment state.
type bookingSnapshot struct {
	Booking          bookingModel.Booking               `json:"booking"`
	ActiveAssignment *assignmentModel.VehicleAssignment `json:"active_assignment,omitempty"`
	OpenConsignment  *warehouseModel.Consignment        `json:"open_consignment,omitempty"`
}

// Show returns one booking with its active assignment and open consignment.
// The path parameter is either a numeric booking ID or an LR number; field
// staff only ever hold the LR number printed on the lorry receipt.
func (bc *BookingController) Show(c *fiber.Ctx) error {
	param := c.Params("id")
	bookingID, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		var byLR bookingModel.Booking
		if err := bc.DB.Select("id").Where("lr_number = ?", param).First(&byLR).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return bc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
					Status:  fiber.StatusNotFound,
					Message: "Booking not found",
					Data:    nil,
				})
			}
			logger.Error("Failed to find booking by LR number", err)
			return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Internal server error",
				Data:    nil,
			})
		}
		bookingID = uint64(byLR.ID)
	}

	var snapshot bookingSnapshot
	if utils.GetCachedBooking(c.Context(), bc.Cache, uint(bookingID), &snapshot) {
		return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "Booking retrieved successfully",
			Data:    snapshot,
		})
	}

	var booking bookingModel.Booking
	if err := bc.DB.Preload("User").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Booking not found",
				Data:    nil,
			})
		}
		logger.Error("Failed to find booking", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}
	snapshot.Booking = booking

	var active assignmentModel.VehicleAssignment
	err = bc.DB.Preload("Vehicle").Preload("Driver").Preload("Broker").
		Where("booking_id = ? AND status = ?", booking.ID, assignmentModel.StatusActive).
		First(&active).Error
	if err == nil {
		snapshot.ActiveAssignment = &active
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to load active assignment", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	var open warehouseModel.Consignment
	err = bc.DB.Preload("Warehouse").
		Where("booking_id = ? AND departure_date IS NULL", booking.ID).
		First(&open).Error
	if err == nil {
		snapshot.OpenConsignment = &open
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to load open consignment", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	utils.CacheBooking(c.Context(), bc.Cache, booking.ID, snapshot)

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking retrieved successfully",
		Data:    snapshot,
	})
}

// SetStatus applies a status change through the lifecycle engine
func (bc *BookingController) SetStatus(c *fiber.Ctx) error {
	var req bookingTypes.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	actor, errStatus, errMsg := bc.actingUser(c)
	if errStatus != 0 {
		return bc.sendResponseWithLog(c, errStatus, types.ApiResponse{
			Status:  errStatus,
			Message: errMsg,
			Data:    nil,
		})
	}

	if err := bc.Lifecycle.SetStatus(req.BookingID, bookingModel.Status(req.Status), actor); err != nil {
		logger.Error(fmt.Sprintf("Failed to set status for booking %d", req.BookingID), err)
		return bc.sendResponseWithLog(c, statusForError(err), types.ApiResponse{
			Status:  statusForError(err),
			Message: err.Error(),
			Data:    nil,
		})
	}

	utils.InvalidateBookingCache(c.Context(), bc.Cache, req.BookingID)
	logger.Success(fmt.Sprintf("Booking %d status set to %s", req.BookingID, req.Status))

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking status updated successfully",
		Data:    nil,
	})
}

// Timeline returns the booking's full event history, newest first
func (bc *BookingController) Timeline(c *fiber.Ctx) error {
	bookingID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
			Data:    nil,
		})
	}

	entries, err := timelineService.ForBooking(bc.DB, uint(bookingID))
	if err != nil {
		logger.Error("Failed to load timeline", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
			Data:    nil,
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Timeline retrieved successfully",
		Data:    entries,
	})
}

// Destroy soft-deletes a booking unless it still has transport state attached
func (bc *BookingController) Destroy(c *fiber.Ctx) error {
	bookingID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid booking id",
			Data:    nil,
		})
	}

	actor, errStatus, errMsg := bc.actingUser(c)
	if errStatus != 0 {
		return bc.sendResponseWithLog(c, errStatus, types.ApiResponse{
			Status:  errStatus,
			Message: errMsg,
			Data:    nil,
		})
	}

	if err := bc.Lifecycle.DeleteBooking(uint(bookingID), actor); err != nil {
		logger.Error(fmt.Sprintf("Failed to delete booking %d", bookingID), err)
		return bc.sendResponseWithLog(c, statusForError(err), types.ApiResponse{
			Status:  statusForError(err),
			Message: err.Error(),
			Data:    nil,
		})
	}

	utils.InvalidateBookingCache(c.Context(), bc.Cache, uint(bookingID))

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking deleted successfully",
		Data:    nil,
	})
}
