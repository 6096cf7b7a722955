package database

import (
	"fmt"
	"os"

	"freight-booking/logger"
	"freight-booking/models/assignment"
	"freight-booking/models/booking"
	"freight-booking/models/log"
	"freight-booking/models/timeline"
	"freight-booking/models/user"
	"freight-booking/models/vehicle"
	"freight-booking/models/warehouse"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	// Get database configuration from environment variables
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	username := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE") // Optional: "disable", "require", etc.

	// Set default sslmode if not provided
	if sslmode == "" {
		sslmode = "disable"
	}

	// Build PostgreSQL DSN string
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, username, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	// Create indexes for better performance
	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// autoMigrate runs auto migration for all models in dependency order
func autoMigrate() error {
	// Stage 1: Core foundation models
	stage1Models := []interface{}{
		&user.User{},
		&vehicle.Vehicle{},
		&vehicle.Driver{},
		&vehicle.Broker{},
		&warehouse.Warehouse{},
	}

	for _, model := range stage1Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: Models with dependencies on Stage 1
	stage2Models := []interface{}{
		&booking.Booking{},
		&assignment.VehicleAssignment{},
		&warehouse.Consignment{},
	}

	for _, model := range stage2Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: Audit trails and logging
	remainingModels := []interface{}{
		&warehouse.WarehouseLog{},
		&timeline.Entry{},
		&log.Log{},
	}

	for _, model := range remainingModels {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance and the
// partial unique indexes backing the lifecycle invariants
func createIndexes() error {
	// Booking indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_lr_number ON bookings(lr_number)").Error; err != nil {
		return fmt.Errorf("failed to create booking lr_number index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)").Error; err != nil {
		return fmt.Errorf("failed to create booking status index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_created_at ON bookings(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create booking created_at index: %w", err)
	}

	// Timeline indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_timeline_entries_booking_action ON timeline_entries(booking_id, action)").Error; err != nil {
		return fmt.Errorf("failed to create timeline booking_id/action index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_timeline_entries_created_at ON timeline_entries(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create timeline created_at index: %w", err)
	}

	// Warehouse log indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_warehouse_logs_created_at ON warehouse_logs(warehouse_id, created_at)").Error; err != nil {
		return fmt.Errorf("failed to create warehouse_logs warehouse_id/created_at index: %w", err)
	}

	// At most one ACTIVE assignment per booking
	if err := DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_assignment_per_booking
		ON vehicle_assignments(booking_id) WHERE status = 'ACTIVE'`).Error; err != nil {
		return fmt.Errorf("failed to create active assignment unique index: %w", err)
	}

	// At most one open consignment per (booking, warehouse)
	if err := DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uniq_open_consignment_per_booking_warehouse
		ON consignments(booking_id, warehouse_id) WHERE departure_date IS NULL`).Error; err != nil {
		return fmt.Errorf("failed to create open consignment unique index: %w", err)
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
