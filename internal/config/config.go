package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort     string        `env:"SERVER_PORT"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"json"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`

	// postgres и sqlite — постоянный вариант, memory — симуляция в памяти
	StoreBackend string `env:"STORE_BACKEND" envDefault:"postgres"`
	DatabaseURL  string `env:"DATABASE_URL"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"exercisetracker.db"`

	// AppID пространство имен развертывания для всех коллекций
	AppID            string `env:"APP_ID" envDefault:"default-app-id"`
	InitialAuthToken string `env:"INITIAL_AUTH_TOKEN"`
	AuthTokenSecret  string `env:"AUTH_TOKEN_SECRET"`

	Retry struct {
		MaxAttempts int           `env:"RETRY_MAX_ATTEMPTS" envDefault:"5"`
		BaseDelay   time.Duration `env:"RETRY_BASE_DELAY" envDefault:"1s"`
	}

	Redis struct {
		Addr     string        `env:"REDIS_ADDR"`
		Password string        `env:"REDIS_PASSWORD"`
		DB       int           `env:"REDIS_DB" envDefault:"0"`
		UserTTL  time.Duration `env:"REDIS_USER_TTL" envDefault:"24h"`
	}

	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"exercise_added_queue"`
	}

	// Настройки для MinIO (архив журналов, нужен только воркеру)
	MinioEndpoint        string `env:"MINIO_ENDPOINT"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME" envDefault:"exercise-logs"`
	MinioRegion          string `env:"MINIO_REGION" envDefault:"us-east-1"`
	MinioPublicURL       string `env:"MINIO_PUBLIC_URL"`
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет параметры, обязательные для выбранного backend.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL обязателен для STORE_BACKEND=postgres")
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH обязателен для STORE_BACKEND=sqlite")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("неизвестный STORE_BACKEND: %q (postgres, sqlite или memory)", c.StoreBackend)
	}

	if c.AppID == "" {
		return errors.New("APP_ID не может быть пустым")
	}
	if c.InitialAuthToken != "" && c.AuthTokenSecret == "" {
		return errors.New("AUTH_TOKEN_SECRET обязателен, если задан INITIAL_AUTH_TOKEN")
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS должен быть положительным, получено %d", c.Retry.MaxAttempts)
	}
	if c.Retry.BaseDelay <= 0 {
		return fmt.Errorf("RETRY_BASE_DELAY должен быть положительным, получено %s", c.Retry.BaseDelay)
	}
	return nil
}

// Persistent сообщает, хранятся ли данные вне процесса.
func (c *Config) Persistent() bool {
	return c.StoreBackend != BackendMemory
}

// ValidateWorker проверяет параметры, без которых воркер архивации не запустится.
func (c *Config) ValidateWorker() error {
	if !c.Persistent() {
		return errors.New("режим worker требует постоянного STORE_BACKEND (postgres или sqlite)")
	}
	if c.RabbitMQ.RabbitMQURL == "" {
		return errors.New("RABBITMQ_URL обязателен для режима worker")
	}
	if c.MinioEndpoint == "" || c.MinioAccessKeyID == "" || c.MinioSecretAccessKey == "" || c.MinioBucketName == "" {
		return errors.New("MINIO_ENDPOINT, MINIO_ACCESS_KEY_ID, MINIO_SECRET_ACCESS_KEY и MINIO_BUCKET_NAME обязательны для режима worker")
	}
	return nil
}
