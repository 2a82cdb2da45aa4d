package db

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/room-scheduler/internal/models"
)

// Open connects to PostgreSQL for postgres:// URLs and to SQLite for
// anything else (a file path or a file: DSN).
func Open(url string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	isPostgres := strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
	if isPostgres {
		dialector = postgres.Open(url)
	} else {
		dialector = sqlite.Open(url)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt: isPostgres,
		Logger:      logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	if isPostgres {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	} else {
		// SQLite allows one writer; a single connection keeps
		// transactions from tripping over SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.BookingStatus{},
		&models.BookingCategory{},
		&models.AttendanceStatus{},
		&models.NotificationType{},
		&models.NotificationStatus{},
		&models.NotificationPriority{},
		&models.DeliveryStatus{},
		&models.DeliveryMethod{},

		&models.User{},
		&models.Room{},
		&models.RoomFeature{},
		&models.Booking{},
		&models.BookingHost{},
		&models.BookingParticipant{},

		&models.Notification{},
		&models.NotificationRecipient{},
		&models.NotificationRecipientMethod{},

		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
