// Package config provides configuration for the chessd server.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lgbarn/chess-engine-go/internal/errors"
)

// Verbosity levels.
const (
	Quiet   = 0 // errors only
	Normal  = 1 // game lifecycle events
	Verbose = 2 // every move
)

// Config holds all program configuration.
type Config struct {
	Server ServerConfig
	Store  StoreConfig

	Verbosity int // 0=errors only, 1=game events, 2=every move

	// LogFile receives both application and HTTP access logs.
	LogFile io.Writer
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Server:    *NewServerConfig(),
		Store:     *NewStoreConfig(),
		Verbosity: Normal,
		LogFile:   os.Stderr,
	}
}

// Validate reports the first invalid setting, wrapped in errors.ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := c.Server.validate(); err != nil {
		return err
	}
	if c.Verbosity < Quiet || c.Verbosity > Verbose {
		return fmt.Errorf("verbosity %d out of range [%d,%d]: %w", c.Verbosity, Quiet, Verbose, errors.ErrInvalidConfig)
	}
	if c.LogFile == nil {
		return fmt.Errorf("log writer is nil: %w", errors.ErrInvalidConfig)
	}
	return nil
}

// ServerConfig holds settings for the HTTP and websocket listener.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// AllowOrigins is the comma separated CORS origin list ("*" for any).
	AllowOrigins string

	// ReadBufferSize and WriteBufferSize size websocket I/O buffers in bytes.
	ReadBufferSize  int
	WriteBufferSize int
}

// NewServerConfig creates a ServerConfig with default values.
func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:            ":8080",
		AllowOrigins:    "*",
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}

// Origins splits AllowOrigins into trimmed, non-empty entries.
func (s *ServerConfig) Origins() []string {
	var out []string
	for _, origin := range strings.Split(s.AllowOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

func (s *ServerConfig) validate() error {
	if s.Addr == "" {
		return fmt.Errorf("listen address is empty: %w", errors.ErrInvalidConfig)
	}
	if !strings.Contains(s.Addr, ":") {
		return fmt.Errorf("listen address %q has no port: %w", s.Addr, errors.ErrInvalidConfig)
	}
	if len(s.Origins()) == 0 {
		return fmt.Errorf("no CORS origins: %w", errors.ErrInvalidConfig)
	}
	if s.ReadBufferSize <= 0 || s.WriteBufferSize <= 0 {
		return fmt.Errorf("websocket buffer sizes must be positive: %w", errors.ErrInvalidConfig)
	}
	return nil
}

// StoreConfig holds settings for game persistence.
type StoreConfig struct {
	// DSN is the SQLite database path. Empty selects the in-memory store.
	DSN string
}

// NewStoreConfig creates a StoreConfig with default values.
func NewStoreConfig() *StoreConfig {
	return &StoreConfig{}
}

// Persistent reports whether games are written to SQLite.
func (s *StoreConfig) Persistent() bool {
	return s.DSN != ""
}
