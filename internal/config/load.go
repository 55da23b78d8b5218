package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultManifest is the application-shell asset list cached at install
// time when no manifest is configured.
var DefaultManifest = []string{
	"/",
	"/index.html",
	"/styles.css",
	"/app.js",
	"/manifest.webmanifest",
	"/data/casillero.json",
	"/data/objetos.json",
	"/data/conceptos.json",
	"/icons/icon.svg",
}

// Load reads configuration from an optional memoria.yaml in the working
// directory and from environment variables with the MEMORIA_ prefix.
// Environment variables take precedence over values from the config file.
// Returns a populated Config struct or an error if loading or validation
// fails.
func Load() (*Config, error) {
	return loadWithFile("")
}

// loadWithFile is the worker behind Load; tests pass an explicit config
// file path instead of relying on the working directory.
func loadWithFile(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.path", "memoria.db")
	v.SetDefault("cache.version", "v1")
	v.SetDefault("cache.origin", "http://localhost:9090")
	v.SetDefault("cache.data_path", "offline.db")
	v.SetDefault("cache.manifest", DefaultManifest)
	v.SetDefault("exercise.timer_default", 180)

	// Configure the config file source
	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("memoria")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; everything has a default.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Configure environment variables
	v.SetEnvPrefix("MEMORIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind critical environment variables
	bindEnvs := []struct {
		key    string
		envVar string
	}{
		{"server.port", "MEMORIA_SERVER_PORT"},
		{"server.log_level", "MEMORIA_SERVER_LOG_LEVEL"},
		{"database.path", "MEMORIA_DATABASE_PATH"},
		{"cache.version", "MEMORIA_CACHE_VERSION"},
		{"cache.origin", "MEMORIA_CACHE_ORIGIN"},
		{"cache.data_path", "MEMORIA_CACHE_DATA_PATH"},
		{"exercise.timer_default", "MEMORIA_EXERCISE_TIMER_DEFAULT"},
	}
	for _, env := range bindEnvs {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", env.envVar, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
