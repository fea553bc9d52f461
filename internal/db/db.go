package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/booking-marketplace/internal/config"
	"github.com/BruksfildServices01/booking-marketplace/internal/models"
)

// timeOffConflictFn answers the blackout question inside postgres. Dates
// and clocks are stored as ISO text, so string comparison orders them.
const timeOffConflictFn = `
CREATE OR REPLACE FUNCTION check_time_off_conflict(p_date text, p_start text, p_end text)
RETURNS boolean
LANGUAGE sql STABLE AS $$
    SELECT EXISTS (
        SELECT 1 FROM time_off
        WHERE start_date <= p_date
          AND end_date >= p_date
          AND (
              is_all_day
              OR (start_time < p_end AND end_time > p_start)
          )
    );
$$;`

// One live booking per slot; the repository maps the violation to time_conflict.
const activeSlotIndex = `
CREATE UNIQUE INDEX IF NOT EXISTS bookings_active_slot
ON bookings (appointment_date, appointment_time)
WHERE status IN ('pending', 'confirmed');`

func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{PrepareStmt: true}
	if cfg.IsProduction() {
		gcfg.Logger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), gcfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database ready")
	return db, nil
}

// Migrate creates the tables, the time-off predicate and the slot index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Booking{},
		&models.TimeOff{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := db.Exec(timeOffConflictFn).Error; err != nil {
		return fmt.Errorf("install check_time_off_conflict: %w", err)
	}

	if err := db.Exec(activeSlotIndex).Error; err != nil {
		return fmt.Errorf("create bookings_active_slot: %w", err)
	}

	return nil
}
