// Package config loads votboard configuration.
//
// Values are layered, lowest to highest: built-in defaults, the YAML file,
// VOTBOARD_ environment variables, and explicitly set command-line flags.
package config

import "github.com/qil-lattice/votboard/internal/source"

// Config holds all votboard configuration options.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Log      LogConfig      `koanf:"log"`
	Output   string         `koanf:"output" validate:"oneof=auto text markdown json yaml"`
}

// DatabaseConfig selects the backend the dashboard reads from.
type DatabaseConfig struct {
	Driver  string `koanf:"driver" validate:"oneof=postgres sqlite"`
	URL     string `koanf:"url"`
	Channel string `koanf:"channel" validate:"required,max=63"`
}

// ServerConfig holds options for the UI server.
type ServerConfig struct {
	Port int  `koanf:"port" validate:"min=1,max=65535"`
	Dev  bool `koanf:"dev"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// SourceConfig converts the database section for source.Open.
func (c *Config) SourceConfig() source.Config {
	return source.Config{
		Driver:  c.Database.Driver,
		URL:     c.Database.URL,
		Channel: c.Database.Channel,
	}
}

// Default configuration values.
const (
	DefaultDriver    = source.DriverSQLite
	DefaultURL       = "votboard.db"
	DefaultChannel   = source.DefaultChannel
	DefaultPort      = 8365
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultOutput    = "auto" // TTY=text, otherwise markdown
	EnvPrefix        = "VOTBOARD_"
)

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Driver: DefaultDriver, URL: DefaultURL, Channel: DefaultChannel},
		Server:   ServerConfig{Port: DefaultPort},
		Log:      LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Output:   DefaultOutput,
	}
}
