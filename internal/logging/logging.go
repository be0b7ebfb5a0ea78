package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Config describes the JSON log file of a run.
type Config struct {
	// Level is debug, info, warn or error. Unknown values mean info.
	Level string
	// FilePath defaults to DefaultLogPath.
	FilePath string
	// MaxSizeMB and MaxFiles bound rotation (defaults 10 and 5).
	MaxSizeMB int
	MaxFiles  int
	// Tee, when set, receives a copy of every record.
	Tee io.Writer
}

// DefaultConfig returns the file logging defaults.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		FilePath:  DefaultLogPath(),
		MaxSizeMB: 10,
		MaxFiles:  5,
	}
}

// DebugConfig is DefaultConfig at debug level.
func DebugConfig() Config {
	cfg := DefaultConfig()
	cfg.Level = "debug"
	return cfg
}

// Setup opens the rotating log file described by cfg and returns a JSON
// logger over it. The returned cleanup flushes and closes the file.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	def := DefaultConfig()
	if cfg.FilePath == "" {
		cfg.FilePath = def.FilePath
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = def.MaxSizeMB
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = def.MaxFiles
	}

	writer, err := NewRotatingWriter(cfg.FilePath, cfg.MaxSizeMB, cfg.MaxFiles)
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer = writer
	if cfg.Tee != nil {
		out = io.MultiWriter(writer, cfg.Tee)
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: LevelFromString(cfg.Level),
	}))

	cleanup := func() {
		_ = writer.Sync()
		_ = writer.Close()
	}
	return logger, cleanup, nil
}

// NewConsole returns a text logger on w for runs without a log file.
func NewConsole(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: LevelFromString(level),
	}))
}

// ParseLevel converts a level name (case-insensitive, "warning" accepted)
// and rejects anything else.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// LevelFromString is ParseLevel with info as the fallback.
func LevelFromString(level string) slog.Level {
	l, _ := ParseLevel(level)
	return l
}
