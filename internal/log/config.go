package log

import (
	"io"
	"os"
	"strings"
)

// Format is the encoding of log records
type Format int

const (
	// FormatJSON writes one JSON object per record
	FormatJSON Format = iota
	// FormatText writes logfmt-style key=value records
	FormatText
)

// String returns the string representation of the format
func (f Format) String() string {
	if f == FormatText {
		return "text"
	}
	return "json"
}

// ParseFormat parses a format name. Unknown names select JSON.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "text", "console":
		return FormatText
	default:
		return FormatJSON
	}
}

// Config holds configuration for the logger
type Config struct {
	// Level is the minimum level that is written
	Level Level

	Format Format

	// Output defaults to stderr so command output on stdout stays parseable
	Output io.Writer

	AddSource bool

	// ServiceName and ServiceVersion are attached to every record
	ServiceName    string
	ServiceVersion string
}

// DefaultConfig logs INFO and above as text to stderr
func DefaultConfig() Config {
	return Config{
		Level:          LevelInfo,
		Format:         FormatText,
		Output:         os.Stderr,
		ServiceName:    "taskgraph",
		ServiceVersion: "dev",
	}
}

// DevelopmentConfig logs everything, with source locations
func DevelopmentConfig() Config {
	cfg := DefaultConfig()
	cfg.Level = LevelDebug
	cfg.AddSource = true
	return cfg
}
