package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `yaml:"environment"` // "development", "staging", "production"
	Server      ServerConfig    `yaml:"server"`
	Database    DatabaseConfig  `yaml:"database"`
	SendGrid    SendGridConfig  `yaml:"sendgrid"`
	JWT         JWTConfig       `yaml:"jwt"`
	Log         LogConfig       `yaml:"log"`
	OTP         OTPConfig       `yaml:"otp"`
	Rental      RentalConfig    `yaml:"rental"`
	Payment     PaymentConfig   `yaml:"payment"`
	Scheduler   SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// DSN renders the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode)
}

// SendGridConfig contains email delivery settings
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// OTPConfig tunes code lifetimes and abuse limits
type OTPConfig struct {
	MaxAttempts          int32 `yaml:"max_attempts"`
	ExpiryMinutes        int   `yaml:"expiry_minutes"`          // email/phone/kyc codes
	HandoverExpiryHours  int   `yaml:"handover_expiry_hours"`   // handover codes
	ReturnGraceHours     int   `yaml:"return_grace_hours"`      // return codes live until end date plus this
	ResendLimit          int32 `yaml:"resend_limit"`            // sends per window
	ResendWindowMinutes  int   `yaml:"resend_window_minutes"`
}

// RentalConfig tunes booking policy
type RentalConfig struct {
	MaxDurationDays     int32 `yaml:"max_duration_days"`
	MinAdvanceHours     int   `yaml:"min_advance_hours"`
	WaitlistNotifyHours int   `yaml:"waitlist_notify_hours"` // booking window after a waitlist notification
	RequireKYC          bool  `yaml:"require_kyc"`
}

// PaymentConfig selects the gateway implementation
type PaymentConfig struct {
	Gateway             string  `yaml:"gateway"` // "mock" or a real provider
	InsurancePremiumPct float64 `yaml:"insurance_premium_pct"`
}

// SchedulerConfig holds cron expressions (with seconds field) for the jobs
type SchedulerConfig struct {
	ExpireOTPs                  string `yaml:"expire_otps"`
	MarkOverdueRentals          string `yaml:"mark_overdue_rentals"`
	ExpireWaitlistNotifications string `yaml:"expire_waitlist_notifications"`
	SyncCalendarWindows         string `yaml:"sync_calendar_windows"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	if val := os.Getenv("APP_ENV"); val != "" {
		c.Environment = val
	}

	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}
	if val := os.Getenv("SENDGRID_FROM_EMAIL"); val != "" {
		c.SendGrid.FromEmail = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Payment
	if val := os.Getenv("PAYMENT_GATEWAY"); val != "" {
		c.Payment.Gateway = val
	}
}

func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	// OTP defaults
	if c.OTP.MaxAttempts == 0 {
		c.OTP.MaxAttempts = 5
	}
	if c.OTP.ExpiryMinutes == 0 {
		c.OTP.ExpiryMinutes = 10
	}
	if c.OTP.HandoverExpiryHours == 0 {
		c.OTP.HandoverExpiryHours = 24
	}
	if c.OTP.ReturnGraceHours == 0 {
		c.OTP.ReturnGraceHours = 24
	}
	if c.OTP.ResendLimit == 0 {
		c.OTP.ResendLimit = 3
	}
	if c.OTP.ResendWindowMinutes == 0 {
		c.OTP.ResendWindowMinutes = 30
	}

	// Rental defaults
	if c.Rental.MaxDurationDays == 0 {
		c.Rental.MaxDurationDays = 30
	}
	if c.Rental.WaitlistNotifyHours == 0 {
		c.Rental.WaitlistNotifyHours = 24
	}

	// Payment defaults
	if c.Payment.Gateway == "" {
		c.Payment.Gateway = "mock"
	}
	if c.Payment.InsurancePremiumPct == 0 {
		c.Payment.InsurancePremiumPct = 10
	}

	// Scheduler defaults
	if c.Scheduler.ExpireOTPs == "" {
		c.Scheduler.ExpireOTPs = "0 */15 * * * *" // every 15 minutes
	}
	if c.Scheduler.MarkOverdueRentals == "" {
		c.Scheduler.MarkOverdueRentals = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.ExpireWaitlistNotifications == "" {
		c.Scheduler.ExpireWaitlistNotifications = "0 30 * * * *" // half past every hour
	}
	if c.Scheduler.SyncCalendarWindows == "" {
		c.Scheduler.SyncCalendarWindows = "0 0 3 * * *" // 3 AM UTC
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}

	if c.Environment == "production" && c.SendGrid.APIKey == "" {
		return fmt.Errorf("sendgrid api key is required in production")
	}

	return nil
}

// IsProduction reports whether the app runs with production hardening.
// Development-only conveniences (code echo in API responses) key off this.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
