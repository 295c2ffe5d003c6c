// flags.go - Command-line flag definitions and configuration
package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/lgbarn/chess-engine-go/internal/config"
)

var (
	// Listener options
	addr         = flag.String("addr", getenv("CHESSD_ADDR", ":8080"), "Listen address")
	allowOrigins = flag.String("origins", getenv("CHESSD_ORIGINS", "*"), "Comma separated CORS origins")
	readBuffer   = flag.Int("read-buffer", getenvInt("CHESSD_READ_BUFFER", 1024), "Websocket read buffer size in bytes")
	writeBuffer  = flag.Int("write-buffer", getenvInt("CHESSD_WRITE_BUFFER", 1024), "Websocket write buffer size in bytes")

	// Persistence
	dbPath = flag.String("db", getenv("CHESSD_DB", ""), "SQLite database path (default: in-memory)")

	// Logging
	logFile   = flag.String("l", getenv("CHESSD_LOG", ""), "Append log output to this file (default: stderr)")
	quiet     = flag.Bool("s", false, "Silent mode: log errors only")
	verbosity = flag.Int("verbose", getenvInt("CHESSD_VERBOSITY", config.Normal), "Verbosity level (0-2)")

	// Info
	help    = flag.Bool("h", false, "Show help")
	version = flag.Bool("version", false, "Show version")
)

// getenv returns the environment value for key, or fallback when unset.
func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getenv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

// buildConfig translates parsed flags into a Config. The log writer is
// left at its default; setupLogFile replaces it when -l is given.
func buildConfig() *config.Config {
	level := *verbosity
	if *quiet {
		level = config.Quiet
	}
	return config.NewConfigBuilder().
		WithAddr(*addr).
		WithAllowOrigins(*allowOrigins).
		WithBufferSizes(*readBuffer, *writeBuffer).
		WithDSN(*dbPath).
		WithVerbosity(level).
		Build()
}
