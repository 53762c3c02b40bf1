// Package internal holds the application configuration shared by the
// draftboard binary and its subsystems.
package internal

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Control  ControlConfig  `yaml:"control"`
	Remote   RemoteConfig   `yaml:"remote"`
	Document DocumentConfig `yaml:"document"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Remote.Validate(); err != nil {
		return err
	}
	return c.Document.Validate()
}

// AppConfig holds window-level settings.
type AppConfig struct {
	WindowWidth  float32 `yaml:"window_width"`
	WindowHeight float32 `yaml:"window_height"`
}

// Validate validates the app configuration.
func (c *AppConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.WindowWidth, validation.Min(float32(0))),
		validation.Field(&c.WindowHeight, validation.Min(float32(0))),
	)
}

// ControlConfig holds unix control socket settings.
type ControlConfig struct {
	Enabled   bool   `yaml:"enabled"`
	SocketDir string `yaml:"socket_dir"`
}

// RemoteConfig holds the LAN HTTP/websocket bridge settings.
type RemoteConfig struct {
	Enabled   bool `yaml:"enabled"`
	Port      int  `yaml:"port"`
	Advertise bool `yaml:"advertise"`
}

// Validate validates the remote configuration.
func (c *RemoteConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DocumentConfig points at the document file to open on startup.
type DocumentConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// Validate validates the document configuration.
func (c *DocumentConfig) Validate() error {
	if c.Watch && c.Path == "" {
		return validation.NewError("document", "watch requires a document path")
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		App:     AppConfig{WindowWidth: 1280, WindowHeight: 800},
		Control: ControlConfig{Enabled: true},
		Remote:  RemoteConfig{Enabled: false, Port: 8790, Advertise: true},
	}
}
