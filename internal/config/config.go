package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Store     StoreConfig     `yaml:"store"`
	DB        DBConfig        `yaml:"db"`
	Mongo     MongoConfig     `yaml:"mongo"`
	Log       LogConfig       `yaml:"log"`
	Retry     RetryConfig     `yaml:"retry"`
	PDF       PDFConfig       `yaml:"pdf"`
	Company   CompanyConfig   `yaml:"company"`
	Invoice   InvoiceConfig   `yaml:"invoice"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// Token, when set, is required as a bearer token on every request
	// except the health check.
	Token string `yaml:"token"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "http" or "stdio"
}

type StoreConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "mongo"
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path, when set, sends logs to a size-capped file instead of the console.
	Path string `yaml:"path"`
}

type RetryConfig struct {
	MaxAttempts     int           `yaml:"max_attempts"`
	InitialInterval time.Duration `yaml:"initial_interval"`
}

type PDFConfig struct {
	Command  string `yaml:"command"`
	PageSize string `yaml:"page_size"`
	Margin   string `yaml:"margin"`
}

type CompanyConfig struct {
	ID int64 `yaml:"id"`
}

type InvoiceConfig struct {
	PageSize int `yaml:"page_size"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{Mode: "http"},
		Store:     StoreConfig{Driver: "sqlite"},
		DB: DBConfig{
			Path: "contractor.db",
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "contractor",
		},
		Log: LogConfig{
			Level: "info",
		},
		Retry: RetryConfig{
			MaxAttempts:     5,
			InitialInterval: 10 * time.Millisecond,
		},
		PDF: PDFConfig{
			Command:  "wkhtmltopdf",
			PageSize: "Letter",
			Margin:   "0.75in",
		},
		Company: CompanyConfig{ID: 1},
		Invoice: InvoiceConfig{PageSize: 20},
	}
}

// Load reads configuration from an optional .env file, an optional YAML
// file and environment variables, in that order of precedence.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	if path := os.Getenv("CONTRACTOR_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	switch c.Store.Driver {
	case "sqlite", "mongo":
	default:
		return fmt.Errorf("invalid store driver %q", c.Store.Driver)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("CONTRACTOR_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if err := envInt("CONTRACTOR_SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}
	if token := os.Getenv("CONTRACTOR_SERVER_TOKEN"); token != "" {
		cfg.Server.Token = token
	}
	if mode := os.Getenv("CONTRACTOR_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if driver := os.Getenv("CONTRACTOR_STORE_DRIVER"); driver != "" {
		cfg.Store.Driver = driver
	}
	if dbPath := os.Getenv("CONTRACTOR_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if uri := os.Getenv("CONTRACTOR_MONGO_URI"); uri != "" {
		cfg.Mongo.URI = uri
	}
	if db := os.Getenv("CONTRACTOR_MONGO_DATABASE"); db != "" {
		cfg.Mongo.Database = db
	}
	if level := os.Getenv("CONTRACTOR_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("CONTRACTOR_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if err := envInt("CONTRACTOR_RETRY_MAX_ATTEMPTS", &cfg.Retry.MaxAttempts); err != nil {
		return err
	}
	if v := os.Getenv("CONTRACTOR_RETRY_INITIAL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CONTRACTOR_RETRY_INITIAL_INTERVAL: %w", err)
		}
		cfg.Retry.InitialInterval = d
	}
	if cmd := os.Getenv("CONTRACTOR_PDF_COMMAND"); cmd != "" {
		cfg.PDF.Command = cmd
	}
	if size := os.Getenv("CONTRACTOR_PDF_PAGE_SIZE"); size != "" {
		cfg.PDF.PageSize = size
	}
	if margin := os.Getenv("CONTRACTOR_PDF_MARGIN"); margin != "" {
		cfg.PDF.Margin = margin
	}
	if v := os.Getenv("CONTRACTOR_COMPANY_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid CONTRACTOR_COMPANY_ID: %w", err)
		}
		cfg.Company.ID = id
	}
	return envInt("CONTRACTOR_INVOICE_PAGE_SIZE", &cfg.Invoice.PageSize)
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
