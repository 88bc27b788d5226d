package client

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	gormpostgres "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoArmGo/ExerciseTracker/internal/config"
	"github.com/GoArmGo/ExerciseTracker/internal/database/migrations"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Client представляет подключение к SQL-базе (PostgreSQL или SQLite),
// поверх которой работает документное хранилище
type Client struct {
	DB     *sqlx.DB
	Driver string
	logger *slog.Logger
}

// NewClient открывает базу, выбранную в конфигурации, и применяет миграции
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		return Open(DriverPostgres, cfg.DatabaseURL, logger)
	case config.BackendSQLite:
		return Open(DriverSQLite, SQLiteDSN(cfg.SQLitePath), logger)
	default:
		return nil, fmt.Errorf("backend %q не использует SQL-базу", cfg.StoreBackend)
	}
}

// SQLiteDSN добавляет к пути файла параметры подключения
func SQLiteDSN(path string) string {
	return path + "?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL"
}

// Open подключается к базе и применяет встроенные миграции
func Open(driver, dsn string, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		logger.Error("failed to open database connection", "driver", driver, "error", err)
		return nil, fmt.Errorf("ошибка открытия соединения с БД: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite допускает одного писателя
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	c := &Client{DB: db, Driver: driver, logger: logger}

	if err := c.applyMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка при применении миграций: %w", err)
	}

	logger.Info("database connection established successfully",
		"driver", driver,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return c, nil
}

// applyMigrations применяет все доступные миграции к бд
func (c *Client) applyMigrations() error {
	var (
		dbDriver database.Driver
		dir      string
		err      error
	)
	switch c.Driver {
	case DriverPostgres:
		dir = "postgres"
		dbDriver, err = migratepostgres.WithInstance(c.DB.DB, &migratepostgres.Config{})
	case DriverSQLite:
		dir = "sqlite"
		dbDriver, err = migratesqlite.WithInstance(c.DB.DB, &migratesqlite.Config{})
	default:
		return fmt.Errorf("неизвестный драйвер: %s", c.Driver)
	}
	if err != nil {
		return fmt.Errorf("не удалось создать драйвер миграций: %w", err)
	}

	src, err := iofs.New(migrations.FS, dir)
	if err != nil {
		return fmt.Errorf("не удалось открыть встроенные миграции: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, c.Driver, dbDriver)
	if err != nil {
		return fmt.Errorf("не удалось создать экземпляр мигратора: %w", err)
	}

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		c.logger.Info("migrations not required, database is up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("ошибка выполнения миграций: %w", err)
	}

	c.logger.Info("migrations applied successfully", "driver", c.Driver)
	return nil
}

// Gorm возвращает gorm.DB поверх того же пула соединений
func (c *Client) Gorm() (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch c.Driver {
	case DriverPostgres:
		dialector = gormpostgres.New(gormpostgres.Config{Conn: c.DB.DB})
	case DriverSQLite:
		dialector = gormsqlite.New(gormsqlite.Config{Conn: c.DB.DB})
	default:
		return nil, fmt.Errorf("неизвестный драйвер: %s", c.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации GORM: %w", err)
	}
	return gdb, nil
}

func (c *Client) Close() error {
	start := time.Now()
	err := c.DB.Close()
	if err != nil {
		c.logger.Error("failed to close database connection", "error", err)
		return err
	}
	c.logger.Info("database connection closed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
