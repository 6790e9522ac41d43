package config

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		if !strings.Contains(result, "2 validation errors") {
			t.Errorf("Error() should mention 2 errors: %s", result)
		}
		if !strings.Contains(result, "field1") || !strings.Contains(result, "field2") {
			t.Errorf("Error() should mention both fields: %s", result)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	if errs := Default().Validate(); len(errs) != 0 {
		t.Errorf("Default().Validate() = %v, want no errors", errs)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{"empty catalog path", func(c *Config) { c.Catalog.Path = "" }, "catalog.path"},
		{"bad widget glob", func(c *Config) { c.Catalog.Widgets = []string{"urn:widget:[map"} }, "catalog.widgets[0]"},
		{"blank widget glob", func(c *Config) { c.Catalog.Widgets = []string{"urn:*", " "} }, "catalog.widgets[1]"},
		{"negative debounce", func(c *Config) { c.Catalog.DebounceMs = -1 }, "catalog.debounce_ms"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mysql"; c.Store.DSN = "x" }, "store.driver"},
		{"driver without dsn", func(c *Config) { c.Store.Driver = "sqlite" }, "store.dsn"},
		{"unknown strategy", func(c *Config) { c.Planner.Strategy = "greedy" }, "planner.strategy"},
		{"min depth zero", func(c *Config) { c.Planner.MinDepth = 0 }, "planner.min_depth"},
		{"negative max depth", func(c *Config) { c.Planner.MaxDepth = -1 }, "planner.max_depth"},
		{"max below min", func(c *Config) { c.Planner.MinDepth = 3; c.Planner.MaxDepth = 2 }, "planner.max_depth"},
		{"negative limit", func(c *Config) { c.Planner.Limit = -1 }, "planner.limit"},
		{"empty addr", func(c *Config) { c.Server.Addr = " " }, "server.addr"},
		{"negative timeout", func(c *Config) { c.Server.JobTimeoutSeconds = -5 }, "server.job_timeout_seconds"},
		{"zero cache", func(c *Config) { c.Server.CacheSize = 0 }, "server.cache_size"},
		{"qos out of range", func(c *Config) { c.Notify.QoS = 3 }, "notify.qos"},
		{"bad broker", func(c *Config) { c.Notify.Enabled = true; c.Notify.BrokerURL = "localhost" }, "notify.broker_url"},
		{"empty topic", func(c *Config) { c.Notify.Enabled = true; c.Notify.Topic = "" }, "notify.topic"},
		{"wildcard topic", func(c *Config) { c.Notify.Enabled = true; c.Notify.Topic = "cobalt/#" }, "notify.topic"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"negative log size", func(c *Config) { c.Logging.MaxSizeMB = -1 }, "logging.max_size_mb"},
		{"negative backups", func(c *Config) { c.Logging.MaxBackups = -1 }, "logging.max_backups"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			errs := cfg.Validate()
			if len(errs) != 1 {
				t.Fatalf("Validate() = %v, want exactly one error", errs)
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("Validate() field = %q, want %q", errs[0].Field, tt.wantField)
			}
		})
	}
}

func TestConfig_Validate_Accepts(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"store without catalog path", func(c *Config) {
			c.Catalog.Path = ""
			c.Store.Driver = "postgres"
			c.Store.DSN = "postgres://localhost/cobalt"
		}},
		{"strategy with underscores", func(c *Config) { c.Planner.Strategy = "EXTENDED_MINIMAL" }},
		{"empty strategy", func(c *Config) { c.Planner.Strategy = "" }},
		{"bounded depths", func(c *Config) { c.Planner.MinDepth = 2; c.Planner.MaxDepth = 2 }},
		{"widget globs", func(c *Config) { c.Catalog.Widgets = []string{"urn:widget:*", "http://example.org/{map,globe}"} }},
		{"disabled notify ignores broker", func(c *Config) { c.Notify.BrokerURL = "" }},
		{"uppercase log level", func(c *Config) { c.Logging.Level = "DEBUG" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if errs := cfg.Validate(); len(errs) != 0 {
				t.Errorf("Validate() = %v, want no errors", errs)
			}
		})
	}
}
