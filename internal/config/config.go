package config

import (
	"errors"
	"fmt"
	"os"

	"pitchbook/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Booking    BookingConfig    `yaml:"booking"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Owner      OwnerConfig      `yaml:"owner"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Exports    ExportConfig     `yaml:"exports"`
	Google     GoogleConfig     `yaml:"google"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Backup     BackupConfig     `yaml:"backup"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// BookingConfig carries the fixed venue parameters: operating hours, the
// day/night rate boundary and how far ahead the booking window rolls.
type BookingConfig struct {
	OpenHour     int    `yaml:"open_hour"`
	CloseHour    int    `yaml:"close_hour"`
	BoundaryTime string `yaml:"boundary_time"` // "HH:MM"
	DayRate      int64  `yaml:"day_rate"`
	NightRate    int64  `yaml:"night_rate"`
	WindowDays   int    `yaml:"window_days"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type OwnerConfig struct {
	Email      string `yaml:"email"`
	Password   string `yaml:"password"`
	SessionTTL int    `yaml:"session_ttl"` // seconds
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
}

type TelegramConfig struct {
	BotToken    string `yaml:"bot_token"`
	OwnerChatID int64  `yaml:"owner_chat_id"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; its variables are expanded into the YAML below.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if c.Booking.OpenHour < 0 || c.Booking.CloseHour > 24 || c.Booking.OpenHour >= c.Booking.CloseHour {
		return fmt.Errorf("invalid operating hours %d..%d", c.Booking.OpenHour, c.Booking.CloseHour)
	}

	if c.Booking.DayRate <= 0 || c.Booking.NightRate <= 0 {
		return errors.New("booking rates must be positive")
	}

	if c.Owner.Email == "" || c.Owner.Password == "" {
		return errors.New("owner credentials are required")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}

	if c.Booking.OpenHour == 0 && c.Booking.CloseHour == 0 {
		c.Booking.OpenHour = models.DefaultOpenHour
		c.Booking.CloseHour = models.DefaultCloseHour
	}
	if c.Booking.BoundaryTime == "" {
		c.Booking.BoundaryTime = fmt.Sprintf("%02d:00", models.DefaultBoundaryHour)
	}
	if c.Booking.DayRate == 0 {
		c.Booking.DayRate = models.DefaultDayRate
	}
	if c.Booking.NightRate == 0 {
		c.Booking.NightRate = models.DefaultNightRate
	}
	if c.Booking.WindowDays == 0 {
		c.Booking.WindowDays = models.DefaultWindowDays
	}

	if c.Owner.SessionTTL == 0 {
		c.Owner.SessionTTL = models.DefaultSessionTTL
	}

	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}

	if c.RateLimit.RPS == 0 {
		c.RateLimit.RPS = models.RateLimitRPS
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = models.RateLimitBurst
	}
}
