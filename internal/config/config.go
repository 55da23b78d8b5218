// Package config defines the application configuration and its loading
// rules. Values come from an optional YAML file overridden by MEMORIA_*
// environment variables, and are validated before use.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"    validate:"required"`
	Exercise ExerciseConfig `mapstructure:"exercise" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains the local store settings.
type DatabaseConfig struct {
	// Path is the filesystem location of the sqlite database file.
	Path string `mapstructure:"path" validate:"required"`
}

// CacheConfig contains the offline cache manager settings.
type CacheConfig struct {
	// Version gates cache invalidation: activating a new version evicts
	// every cache created under a different one.
	Version string `mapstructure:"version" validate:"required"`

	// Origin is the upstream the gateway fetches shell assets from.
	Origin string `mapstructure:"origin" validate:"required,url"`

	// DataPath is the filesystem location of the bbolt cache file.
	DataPath string `mapstructure:"data_path" validate:"required"`

	// Manifest is the fixed list of shell asset paths cached verbatim at
	// install time.
	Manifest []string `mapstructure:"manifest" validate:"required,min=1,dive,startswith=/"`
}

// ExerciseConfig contains exercise lifecycle defaults.
type ExerciseConfig struct {
	// TimerDefault is the preparation countdown used when the user has
	// not configured one, in seconds.
	TimerDefault int `mapstructure:"timer_default" validate:"required,min=30,max=600"`
}
