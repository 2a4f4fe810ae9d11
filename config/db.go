package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hotel-booking/logger"
	"hotel-booking/models"
)

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := EnvOrDefault("DB_USER", "root")
	pass := EnvOrDefault("DB_PASS", "")
	host := EnvOrDefault("DB_HOST", "127.0.0.1")
	port := EnvOrDefault("DB_PORT", "3306")
	dbName := EnvOrDefault("DB_NAME", "hotel_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, dbName,
	), nil
}

func resolvePostgresDSN() string {
	if raw := strings.TrimSpace(os.Getenv("DATABASE_URL")); raw != "" {
		return raw
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		EnvOrDefault("DB_HOST", "127.0.0.1"),
		EnvOrDefault("DB_PORT", "5432"),
		EnvOrDefault("DB_USER", "postgres"),
		EnvOrDefault("DB_PASS", ""),
		EnvOrDefault("DB_NAME", "hotel_db"),
		EnvOrDefault("DB_SSLMODE", "disable"),
	)
}

func dialector(driver string) (gorm.Dialector, error) {
	switch driver {
	case "", "mysql":
		dsn, err := resolveMySQLDSN()
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	case "postgres", "postgresql":
		return postgres.Open(resolvePostgresDSN()), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// ConnectDatabase opens the configured database. Migrations are run separately via Migrate.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	dial, err := dialector(cfg.DBDriver)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.NewGormLogger(cfg.DBLogLevel)})
	if err != nil {
		return nil, err
	}
	log.Info().Str("driver", db.Dialector.Name()).Msg("database connected")
	return db, nil
}

// Migrate creates or updates the schema in parent -> child order.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Booking{},
		&models.Review{},
		&models.Inquiry{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() == "postgres" {
		if err := ensureBookingExclusionConstraint(db); err != nil {
			return fmt.Errorf("booking exclusion constraint: %w", err)
		}
	}
	return nil
}

const bookingOverlapConstraint = "bookings_no_active_overlap"

// ensureBookingExclusionConstraint makes postgres itself reject overlapping
// active bookings on one room, closing the check-then-insert window.
func ensureBookingExclusionConstraint(db *gorm.DB) error {
	var count int64
	if err := db.Raw("SELECT COUNT(*) FROM pg_constraint WHERE conname = ?", bookingOverlapConstraint).
		Scan(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		return err
	}
	stmt := fmt.Sprintf(`ALTER TABLE bookings ADD CONSTRAINT %s EXCLUDE USING gist (
	room_id WITH =,
	daterange(start_date, end_date, '[)') WITH &&
) WHERE (status <> 'cancelled')`, bookingOverlapConstraint)
	if err := db.Exec(stmt).Error; err != nil {
		return err
	}
	log.Info().Str("constraint", bookingOverlapConstraint).Msg("booking exclusion constraint installed")
	return nil
}
