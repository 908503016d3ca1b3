package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/bexps-backend/internal/platform/envutil"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Options struct {
	Driver     string
	DSN        string
	SQLitePath string
}

type DatabaseService struct {
	db     *gorm.DB
	driver string
	log    *logger.Logger
}

// OptionsFromEnv reads DB_DRIVER and the POSTGRES_* / SQLITE_PATH variables.
func OptionsFromEnv(logg *logger.Logger) Options {
	driver := strings.ToLower(envutil.String("DB_DRIVER", DriverPostgres, logg))
	if driver == DriverSQLite {
		return Options{
			Driver:     DriverSQLite,
			SQLitePath: envutil.String("SQLITE_PATH", "bexps.db", logg),
		}
	}

	postgresHost := envutil.String("POSTGRES_HOST", "localhost", logg)
	postgresPort := envutil.String("POSTGRES_PORT", "5432", logg)
	postgresUser := envutil.String("POSTGRES_USER", "postgres", logg)
	postgresPassword := envutil.String("POSTGRES_PASSWORD", "", logg)
	postgresName := envutil.String("POSTGRES_NAME", "bexps", logg)

	return Options{
		Driver: DriverPostgres,
		DSN: fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			postgresUser,
			postgresPassword,
			postgresHost,
			postgresPort,
			postgresName,
		),
	}
}

func NewDatabaseService(logg *logger.Logger, opts Options) (*DatabaseService, error) {
	serviceLog := logg.With("service", "DatabaseService", "driver", opts.Driver)

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := Open(opts, gormLog)
	if err != nil {
		return nil, err
	}
	serviceLog.Info("Database connection established")
	return &DatabaseService{db: db, driver: opts.Driver, log: serviceLog}, nil
}

// Open connects with the settings every caller (server, seed, tests) shares:
// foreign keys are created by AutoMigrate and driver errors are translated.
func Open(opts Options, gormLog gormLogger.Interface) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
	}
	switch opts.Driver {
	case DriverSQLite:
		path := strings.TrimSpace(opts.SQLitePath)
		if path == "" {
			return nil, fmt.Errorf("sqlite path is empty")
		}
		db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite %q: %w", path, err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// One connection keeps a shared in-memory database alive.
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	case DriverPostgres, "":
		db, err := gorm.Open(postgres.Open(opts.DSN), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", opts.Driver)
	}
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	if strings.Contains(path, "_foreign_keys") || strings.Contains(path, "_fk") {
		return path
	}
	return path + sep + "_foreign_keys=1"
}

func (s *DatabaseService) DB() *gorm.DB { return s.db }

func (s *DatabaseService) Driver() string { return s.driver }

func (s *DatabaseService) AutoMigrateAll() error {
	s.log.Info("Running AutoMigrate")
	return AutoMigrateAll(s.db)
}

func (s *DatabaseService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
