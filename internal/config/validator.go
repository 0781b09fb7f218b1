package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "consumer.receive_timeout")
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

// ValidLogFormats returns the list of valid log formats
func ValidLogFormats() []string {
	return []string{"text", "json"}
}

// Validate checks the Config and returns a ValidationErrors holding every
// problem found, or nil.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.SystemTag == "" {
		errs = append(errs, ValidationError{
			Field: "system_tag", Value: c.SystemTag, Message: "must not be empty",
		})
	}

	errs = append(errs, c.validateWatchdog()...)
	errs = append(errs, c.validateQueue()...)
	errs = append(errs, c.validateTasks()...)
	errs = append(errs, c.validateLogging()...)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (c *Config) validateWatchdog() []ValidationError {
	if c.Watchdog.Timeout <= 0 {
		return []ValidationError{{
			Field: "watchdog.timeout", Value: c.Watchdog.Timeout, Message: "must be positive",
		}}
	}
	return nil
}

func (c *Config) validateQueue() []ValidationError {
	if c.Queue.Capacity < 1 {
		return []ValidationError{{
			Field: "queue.capacity", Value: c.Queue.Capacity, Message: "must be at least 1",
		}}
	}
	return nil
}

func (c *Config) validateTasks() []ValidationError {
	var errors []ValidationError

	positive := func(field string, v time.Duration) {
		if v <= 0 {
			errors = append(errors, ValidationError{Field: field, Value: v, Message: "must be positive"})
		}
	}
	positive("producer.interval", c.Producer.Interval)
	positive("consumer.receive_timeout", c.Consumer.ReceiveTimeout)
	positive("consumer.recovery_delay", c.Consumer.RecoveryDelay)
	positive("consumer.recovery_timeout", c.Consumer.RecoveryTimeout)
	positive("supervisor.interval", c.Supervisor.Interval)

	// Each task must feed the watchdog before its window runs out,
	// even on its slowest path.
	timeout := c.Watchdog.Timeout
	if timeout > 0 {
		if c.Producer.Interval >= timeout {
			errors = append(errors, ValidationError{
				Field: "producer.interval", Value: c.Producer.Interval,
				Message: fmt.Sprintf("must be shorter than watchdog.timeout (%v)", timeout),
			})
		}
		if w := c.Consumer.UnfedWindow(); w >= timeout {
			errors = append(errors, ValidationError{
				Field: "consumer", Value: w,
				Message: fmt.Sprintf("receive_timeout + recovery_delay + recovery_timeout must be shorter than watchdog.timeout (%v)", timeout),
			})
		}
		if c.Supervisor.Interval >= timeout {
			errors = append(errors, ValidationError{
				Field: "supervisor.interval", Value: c.Supervisor.Interval,
				Message: fmt.Sprintf("must be shorter than watchdog.timeout (%v)", timeout),
			})
		}
	}

	var names []string
	for _, tc := range []struct {
		field string
		cfg   TaskConfig
	}{
		{"producer.task", c.Producer.Task},
		{"consumer.task", c.Consumer.Task},
		{"supervisor.task", c.Supervisor.Task},
	} {
		switch {
		case tc.cfg.Name == "":
			errors = append(errors, ValidationError{
				Field: tc.field + ".name", Value: tc.cfg.Name, Message: "must not be empty",
			})
		case slices.Contains(names, tc.cfg.Name):
			errors = append(errors, ValidationError{
				Field: tc.field + ".name", Value: tc.cfg.Name, Message: "must be unique",
			})
		}
		names = append(names, tc.cfg.Name)

		if tc.cfg.StackSize < 0 {
			errors = append(errors, ValidationError{
				Field: tc.field + ".stack_size", Value: tc.cfg.StackSize, Message: "must not be negative",
			})
		}
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field: "logging.level", Value: c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if !slices.Contains(ValidLogFormats(), c.Logging.Format) {
		errors = append(errors, ValidationError{
			Field: "logging.format", Value: c.Logging.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogFormats(), ", ")),
		})
	}

	return errors
}
