// Package worker provides the scheduled credit replenishment job and its
// operational scaffolding: configuration, health endpoints, and metrics.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"vidbrief/internal/domain/entity"
	"vidbrief/pkg/config"

	"github.com/robfig/cron/v3"
)

// Config holds the configuration for the replenishment worker.
//
// All fields have defaults and validation rules so the worker can start
// safely even with invalid or missing configuration (fail-open: invalid
// values are replaced by defaults with a warning).
type Config struct {
	// CronSchedule is the cron expression for the replenishment job.
	// Format: "minute hour day month weekday"
	// Default: "0 0 1 * *" (midnight on the 1st of each month)
	CronSchedule string

	// Timezone is the IANA timezone name for cron scheduling.
	// Default: "UTC"
	Timezone string

	// CreditFloor is the balance accounts are topped back up to.
	// Accounts at or above the floor are untouched.
	// Default: entity.StartingCredits
	CreditFloor int

	// JobTimeout bounds a single replenishment run.
	// Default: 5 minutes
	JobTimeout time.Duration

	// HealthPort is the port for the worker's health check server.
	// Default: 9091
	HealthPort int
}

// DefaultConfig returns a Config with production defaults: the monthly
// top-up at UTC midnight on the 1st, restoring the starting allowance.
func DefaultConfig() Config {
	return Config{
		CronSchedule: "0 0 1 * *",
		Timezone:     "UTC",
		CreditFloor:  entity.StartingCredits,
		JobTimeout:   5 * time.Minute,
		HealthPort:   9091,
	}
}

// Validate checks the configuration values. Multiple violations are
// aggregated into one error.
func (c *Config) Validate() error {
	var errs []error

	if _, err := cron.ParseStandard(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if c.CreditFloor < 1 || c.CreditFloor > 1000 {
		errs = append(errs, fmt.Errorf("credit floor %d out of range [1,1000]", c.CreditFloor))
	}
	if c.JobTimeout <= 0 {
		errs = append(errs, fmt.Errorf("job timeout must be positive, got %s", c.JobTimeout))
	}
	if c.HealthPort < 1024 || c.HealthPort > 65535 {
		errs = append(errs, fmt.Errorf("health port %d out of range [1024,65535]", c.HealthPort))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads worker configuration from environment variables
// with fallback to defaults on invalid values (fail-open: the worker is
// never prevented from starting by a bad env var).
//
// Environment variables:
//   - REPLENISH_CRON: Cron expression (default: "0 0 1 * *")
//   - WORKER_TIMEZONE: IANA timezone name (default: "UTC")
//   - CREDIT_FLOOR: Integer 1-1000 (default: starting allowance)
//   - REPLENISH_TIMEOUT: Duration string, e.g., "5m" (default: 5 minutes)
//   - WORKER_HEALTH_PORT: Integer 1024-65535 (default: 9091)
func LoadConfigFromEnv(logger *slog.Logger) Config {
	defaults := DefaultConfig()

	cfg := Config{
		CronSchedule: config.GetEnvString("REPLENISH_CRON", defaults.CronSchedule),
		Timezone:     config.GetEnvString("WORKER_TIMEZONE", defaults.Timezone),
		CreditFloor:  config.GetEnvInt("CREDIT_FLOOR", defaults.CreditFloor),
		JobTimeout:   config.GetEnvDuration("REPLENISH_TIMEOUT", defaults.JobTimeout),
		HealthPort:   config.GetEnvInt("WORKER_HEALTH_PORT", defaults.HealthPort),
	}

	// Replace each invalid field with its default rather than refusing
	// to start.
	if _, err := cron.ParseStandard(cfg.CronSchedule); err != nil {
		logger.Warn("invalid REPLENISH_CRON, using default",
			slog.String("value", cfg.CronSchedule),
			slog.String("default", defaults.CronSchedule),
			slog.Any("error", err))
		RecordConfigFallback("cron_schedule")
		cfg.CronSchedule = defaults.CronSchedule
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		logger.Warn("invalid WORKER_TIMEZONE, using default",
			slog.String("value", cfg.Timezone),
			slog.String("default", defaults.Timezone),
			slog.Any("error", err))
		RecordConfigFallback("timezone")
		cfg.Timezone = defaults.Timezone
	}
	if cfg.CreditFloor < 1 || cfg.CreditFloor > 1000 {
		logger.Warn("CREDIT_FLOOR out of range, using default",
			slog.Int("value", cfg.CreditFloor),
			slog.Int("default", defaults.CreditFloor))
		RecordConfigFallback("credit_floor")
		cfg.CreditFloor = defaults.CreditFloor
	}
	if cfg.JobTimeout <= 0 {
		logger.Warn("REPLENISH_TIMEOUT must be positive, using default",
			slog.Duration("value", cfg.JobTimeout),
			slog.Duration("default", defaults.JobTimeout))
		RecordConfigFallback("job_timeout")
		cfg.JobTimeout = defaults.JobTimeout
	}
	if cfg.HealthPort < 1024 || cfg.HealthPort > 65535 {
		logger.Warn("WORKER_HEALTH_PORT out of range, using default",
			slog.Int("value", cfg.HealthPort),
			slog.Int("default", defaults.HealthPort))
		RecordConfigFallback("health_port")
		cfg.HealthPort = defaults.HealthPort
	}

	return cfg
}
