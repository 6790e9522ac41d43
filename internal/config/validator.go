package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "server.cache_size")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidStoreDrivers returns the accepted store drivers; empty means file
func ValidStoreDrivers() []string {
	return []string{"", "sqlite", "postgres"}
}

// ValidStrategies returns the accepted precursor composition strategies
func ValidStrategies() []string {
	return []string{"none", "minimal", "extended-atomic", "extended-minimal"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateCatalog()...)
	errors = append(errors, c.validateStore()...)
	errors = append(errors, c.validatePlanner()...)
	errors = append(errors, c.validateServer()...)
	errors = append(errors, c.validateNotify()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateCatalog() []ValidationError {
	var errors []ValidationError

	if c.Store.Driver == "" && strings.TrimSpace(c.Catalog.Path) == "" {
		errors = append(errors, ValidationError{
			Field:   "catalog.path",
			Value:   c.Catalog.Path,
			Message: "required when no store driver is set",
		})
	}

	for i, pattern := range c.Catalog.Widgets {
		if _, err := glob.Compile(pattern); err != nil || strings.TrimSpace(pattern) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("catalog.widgets[%d]", i),
				Value:   pattern,
				Message: "must be a valid glob pattern",
			})
		}
	}

	if c.Catalog.DebounceMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "catalog.debounce_ms",
			Value:   c.Catalog.DebounceMs,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateStore() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidStoreDrivers(), c.Store.Driver) {
		errors = append(errors, ValidationError{
			Field:   "store.driver",
			Value:   c.Store.Driver,
			Message: "must be empty, sqlite or postgres",
		})
	}
	if c.Store.Driver != "" && strings.TrimSpace(c.Store.DSN) == "" {
		errors = append(errors, ValidationError{
			Field:   "store.dsn",
			Value:   c.Store.DSN,
			Message: "required when a store driver is set",
		})
	}

	return errors
}

func (c *Config) validatePlanner() []ValidationError {
	var errors []ValidationError

	strategy := strings.ReplaceAll(strings.ToLower(c.Planner.Strategy), "_", "-")
	if strategy != "" && !slices.Contains(ValidStrategies(), strategy) {
		errors = append(errors, ValidationError{
			Field:   "planner.strategy",
			Value:   c.Planner.Strategy,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidStrategies(), ", ")),
		})
	}

	if c.Planner.MinDepth < 1 {
		errors = append(errors, ValidationError{
			Field:   "planner.min_depth",
			Value:   c.Planner.MinDepth,
			Message: "must be at least 1",
		})
	}

	if c.Planner.MaxDepth < 0 {
		errors = append(errors, ValidationError{
			Field:   "planner.max_depth",
			Value:   c.Planner.MaxDepth,
			Message: "must be non-negative (0 = unbounded)",
		})
	} else if c.Planner.MaxDepth > 0 && c.Planner.MaxDepth < c.Planner.MinDepth {
		errors = append(errors, ValidationError{
			Field:   "planner.max_depth",
			Value:   c.Planner.MaxDepth,
			Message: fmt.Sprintf("must be at least min_depth (%d)", c.Planner.MinDepth),
		})
	}

	if c.Planner.Limit < 0 {
		errors = append(errors, ValidationError{
			Field:   "planner.limit",
			Value:   c.Planner.Limit,
			Message: "must be non-negative (0 = all plans)",
		})
	}

	return errors
}

func (c *Config) validateServer() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Server.Addr) == "" {
		errors = append(errors, ValidationError{
			Field:   "server.addr",
			Value:   c.Server.Addr,
			Message: "cannot be empty",
		})
	}

	if c.Server.JobTimeoutSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "server.job_timeout_seconds",
			Value:   c.Server.JobTimeoutSeconds,
			Message: "must be non-negative (0 = no timeout)",
		})
	}

	if c.Server.CacheSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "server.cache_size",
			Value:   c.Server.CacheSize,
			Message: "must be at least 1",
		})
	}

	return errors
}

func (c *Config) validateNotify() []ValidationError {
	var errors []ValidationError

	if c.Notify.QoS < 0 || c.Notify.QoS > 2 {
		errors = append(errors, ValidationError{
			Field:   "notify.qos",
			Value:   c.Notify.QoS,
			Message: "must be 0, 1 or 2",
		})
	}

	if !c.Notify.Enabled {
		return errors
	}

	if u, err := url.Parse(c.Notify.BrokerURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "notify.broker_url",
			Value:   c.Notify.BrokerURL,
			Message: "must be a broker URL like tcp://host:1883",
		})
	}

	if strings.TrimSpace(c.Notify.Topic) == "" {
		errors = append(errors, ValidationError{
			Field:   "notify.topic",
			Value:   c.Notify.Topic,
			Message: "cannot be empty when notifications are enabled",
		})
	} else if strings.ContainsAny(c.Notify.Topic, "+#") {
		errors = append(errors, ValidationError{
			Field:   "notify.topic",
			Value:   c.Notify.Topic,
			Message: "cannot contain MQTT wildcards",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be non-negative",
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
