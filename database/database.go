package database

import (
	"fmt"
	"time"

	"careerlink/config"
	"careerlink/logs"
	"careerlink/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb opens the store selected by DB_DRIVER and saves it globally.
func ConnectDb(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := Open(dialector, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}

	Database = DbInstance{Db: db}
	return db, nil
}

// Dialector builds the gorm dialector for the configured driver.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres", "":
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = fmt.Sprintf(
				"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
				cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
			)
		}
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = fmt.Sprintf(
				"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
				cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
			)
		}
		return mysql.Open(dsn), nil
	case "sqlite":
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = cfg.DBName + ".db"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Open connects with a UTC clock and translated driver errors, and sets up pooling.
func Open(dialector gorm.Dialector, maxOpen, maxIdle int) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(0)

	return db, nil
}

// partialIndexes back the one-active-row rules that AutoMigrate cannot express.
var partialIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_enrollments_active_pair ON enrollments (user_id, course_id) WHERE status <> 'Cancelled'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_badges_owner_course ON user_badges (user_id, course_id) WHERE user_id IS NOT NULL AND course_id IS NOT NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_mentoring_bookings_active_pair ON mentoring_bookings (session_id, user_id) WHERE status <> 'CANCELLED'`,
}

// Migrate performs database migrations
func Migrate(db *gorm.DB) error {
	log := logs.With("database")
	log.Info("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.LoginTracking{},
		&models.Course{},
		&models.Enrollment{},
		&models.Badge{},
		&models.Job{},
		&models.Application{},
		&models.Event{},
		&models.SavedEvent{},
		&models.EventCheckin{},
		&models.Booth{},
		&models.NetworkingContact{},
		&models.MentoringSession{},
		&models.MentoringBooking{},
		&models.MentoringNote{},
		&models.Notification{},
		&models.ScheduledReminder{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// MySQL has no partial indexes; there the row locks alone guard the pairs.
	if db.Dialector.Name() == "mysql" {
		log.Warn("partial unique indexes skipped on mysql")
	} else {
		for _, stmt := range partialIndexes {
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("create partial index: %w", err)
			}
		}
	}

	log.Info("Migrations completed successfully.")
	return nil
}
