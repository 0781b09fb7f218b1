// Package config holds the system's fixed cadences and sizes.
//
// The task cadences, timeouts and queue capacity are compile-time constants
// and are not read from the environment. Only the logging section can be
// overridden at startup, through [Load].
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultSystemTag prefixes every log line.
const DefaultSystemTag = "Matheus-RM:87560"

// Fixed configuration.
const (
	WatchdogTimeout = 6 * time.Second

	QueueCapacity = 10

	ProducerInterval = 500 * time.Millisecond

	ConsumerReceiveTimeout  = 3000 * time.Millisecond
	ConsumerRecoveryDelay   = 1000 * time.Millisecond
	ConsumerRecoveryTimeout = 1000 * time.Millisecond

	SupervisorInterval = 2000 * time.Millisecond
)

// EnvPrefix is the prefix for environment overrides, e.g. TASKWDT_LOGGING_LEVEL.
const EnvPrefix = "TASKWDT"

// Config represents the complete system configuration
type Config struct {
	SystemTag  string           `mapstructure:"system_tag"`
	Watchdog   WatchdogConfig   `mapstructure:"watchdog"`
	Queue      QueueConfig      `mapstructure:"queue"`
	Producer   ProducerConfig   `mapstructure:"producer"`
	Consumer   ConsumerConfig   `mapstructure:"consumer"`
	Supervisor SupervisorConfig `mapstructure:"supervisor"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// WatchdogConfig controls the task watchdog
type WatchdogConfig struct {
	// Timeout is the window within which every task must feed the watchdog
	Timeout time.Duration `mapstructure:"timeout"`
	// TriggerPanic panics the process on expiry instead of only canceling the system context
	TriggerPanic bool `mapstructure:"trigger_panic"`
}

// QueueConfig sizes the shared queue
type QueueConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// TaskConfig describes how a task is spawned
type TaskConfig struct {
	Name      string `mapstructure:"name"`
	Priority  int    `mapstructure:"priority"`
	StackSize int    `mapstructure:"stack_size"`
}

// ProducerConfig controls the generation task
type ProducerConfig struct {
	Task     TaskConfig    `mapstructure:"task"`
	Interval time.Duration `mapstructure:"interval"`
}

// ConsumerConfig controls the reception task
type ConsumerConfig struct {
	Task TaskConfig `mapstructure:"task"`
	// ReceiveTimeout bounds the primary wait for an item
	ReceiveTimeout time.Duration `mapstructure:"receive_timeout"`
	// RecoveryDelay is the pause after a primary timeout, before the recovery receive
	RecoveryDelay time.Duration `mapstructure:"recovery_delay"`
	// RecoveryTimeout bounds the single recovery receive
	RecoveryTimeout time.Duration `mapstructure:"recovery_timeout"`
}

// SupervisorConfig controls the supervision task
type SupervisorConfig struct {
	Task     TaskConfig    `mapstructure:"task"`
	Interval time.Duration `mapstructure:"interval"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format is text or json
	Format string `mapstructure:"format"`
}

// UnfedWindow is the longest stretch the consumer can go without feeding
// the watchdog: a full primary timeout, then the recovery delay and receive.
func (c ConsumerConfig) UnfedWindow() time.Duration {
	return c.ReceiveTimeout + c.RecoveryDelay + c.RecoveryTimeout
}

// Default returns the fixed configuration
func Default() *Config {
	return &Config{
		SystemTag: DefaultSystemTag,
		Watchdog: WatchdogConfig{
			Timeout: WatchdogTimeout,
		},
		Queue: QueueConfig{
			Capacity: QueueCapacity,
		},
		Producer: ProducerConfig{
			Task:     TaskConfig{Name: "TaskGenerate", Priority: 2, StackSize: 2048},
			Interval: ProducerInterval,
		},
		Consumer: ConsumerConfig{
			Task:            TaskConfig{Name: "TaskReceive", Priority: 2, StackSize: 4096},
			ReceiveTimeout:  ConsumerReceiveTimeout,
			RecoveryDelay:   ConsumerRecoveryDelay,
			RecoveryTimeout: ConsumerRecoveryTimeout,
		},
		Supervisor: SupervisorConfig{
			Task:     TaskConfig{Name: "TaskSupervision", Priority: 1, StackSize: 4096},
			Interval: SupervisorInterval,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SetDefaults registers the overridable keys with v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
}

// Load returns the fixed configuration with the logging section
// overlaid from v, which reads TASKWDT_* environment variables.
func Load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	// Replace dots with underscores for nested keys in env vars
	// e.g., TASKWDT_LOGGING_LEVEL for logging.level
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	cfg := Default()
	cfg.Logging.Level = strings.ToLower(v.GetString("logging.level"))
	cfg.Logging.Format = strings.ToLower(v.GetString("logging.format"))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
