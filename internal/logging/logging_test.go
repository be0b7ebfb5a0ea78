package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestDefaultLogPath(t *testing.T) {
	path := DefaultLogPath()
	if filepath.Base(path) != "bookindex.log" {
		t.Errorf("DefaultLogPath should end with bookindex.log, got: %s", path)
	}
	if !strings.Contains(DefaultLogDir(), ".bookindex") {
		t.Errorf("DefaultLogDir should contain .bookindex, got: %s", DefaultLogDir())
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got: %s", cfg.Level)
	}
	if cfg.MaxSizeMB != 10 {
		t.Errorf("expected MaxSizeMB 10, got: %d", cfg.MaxSizeMB)
	}
	if cfg.MaxFiles != 5 {
		t.Errorf("expected MaxFiles 5, got: %d", cfg.MaxFiles)
	}
	if DebugConfig().Level != "debug" {
		t.Errorf("expected debug level in DebugConfig")
	}
}

func TestSetup_WritesJSON(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	logger, cleanup, err := Setup(Config{Level: "debug", FilePath: logPath, MaxSizeMB: 1, MaxFiles: 3})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	logger.Debug("index_build_start", slog.Int("pages", 3))
	cleanup()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, content)
	}
	if entry["msg"] != "index_build_start" {
		t.Errorf("unexpected msg: %v", entry["msg"])
	}
	if entry["pages"] != float64(3) {
		t.Errorf("unexpected pages attr: %v", entry["pages"])
	}
}

func TestSetup_LevelFiltersDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	logger, cleanup, err := Setup(Config{Level: "warn", FilePath: logPath})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept")
	cleanup()

	content, _ := os.ReadFile(logPath)
	if strings.Contains(string(content), "dropped") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(string(content), "kept") {
		t.Error("warn record should be written")
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsole(&buf, "warn")

	logger.Info("quiet")
	logger.Warn("words_cache_write_failed", slog.String("path", "/tmp/x"))

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Error("info should not be written at warn level")
	}
	if !strings.Contains(out, "words_cache_write_failed") || !strings.Contains(out, "path=/tmp/x") {
		t.Errorf("unexpected console output: %q", out)
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"debug", "DEBUG"},
		{"DEBUG", "DEBUG"},
		{"info", "INFO"},
		{"warn", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"unknown", "INFO"},
	}

	for _, tc := range tests {
		level := LevelFromString(tc.input)
		if level.String() != tc.expected {
			t.Errorf("LevelFromString(%q) = %s, want %s", tc.input, level.String(), tc.expected)
		}
	}
}

func TestParseLevel_RejectsUnknown(t *testing.T) {
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
	if l, err := ParseLevel(" Warning "); err != nil || l != slog.LevelWarn {
		t.Errorf("ParseLevel(Warning) = %v, %v", l, err)
	}
}

func TestSetup_Tee(t *testing.T) {
	var tee bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "test.log")

	logger, cleanup, err := Setup(Config{Level: "info", FilePath: logPath, Tee: &tee})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	logger.Info("merge_complete", slog.Int("sources", 2))
	cleanup()

	content, _ := os.ReadFile(logPath)
	if !strings.Contains(string(content), "merge_complete") {
		t.Error("record should be in the log file")
	}
	if !strings.Contains(tee.String(), "merge_complete") {
		t.Error("record should be copied to the tee writer")
	}
}

func TestRunID(t *testing.T) {
	id1 := NewRunID()
	id2 := NewRunID()

	if len(id1) != 26 {
		t.Errorf("expected 26-char ULID, got %q", id1)
	}
	if id1 >= id2 {
		t.Errorf("run ids should be monotonic: %s >= %s", id1, id2)
	}

	ctx := WithRunID(context.Background(), id1)
	if RunID(ctx) != id1 {
		t.Errorf("RunID(ctx) = %q, want %q", RunID(ctx), id1)
	}
	if RunID(context.Background()) != "" {
		t.Error("background context should carry no run id")
	}
}

func TestFromContext_TagsRunID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	ctx := WithRunID(context.Background(), "01TESTRUNID")
	FromContext(ctx).Info("merge_complete")

	if !strings.Contains(buf.String(), "run_id=01TESTRUNID") {
		t.Errorf("expected run_id attribute, got %q", buf.String())
	}
}

func TestRotatingWriter_Rotation(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	// 1MB limit; write just over it twice
	w, err := NewRotatingWriter(logPath, 1, 3)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	defer w.Close()

	chunk := bytes.Repeat([]byte("x"), 600*1024)
	for i := 0; i < 3; i++ {
		if _, err := w.Write(chunk); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}

	if _, err := os.Stat(logPath + ".1"); err != nil {
		t.Errorf("expected rotated file %s.1: %v", logPath, err)
	}
}

func TestRotatingWriter_MaxFilesLimit(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	w, err := NewRotatingWriter(logPath, 1, 2)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	defer w.Close()

	chunk := bytes.Repeat([]byte("y"), 700*1024)
	for i := 0; i < 6; i++ {
		if _, err := w.Write(chunk); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}

	if _, err := os.Stat(logPath + ".3"); !os.IsNotExist(err) {
		t.Errorf("rotation beyond maxFiles should be removed, stat err: %v", err)
	}
}

func TestRotatingWriter_ConcurrentWrites(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	w, err := NewRotatingWriter(logPath, 10, 3)
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = fmt.Fprintf(w, "writer %d line %d\n", n, j)
			}
		}(i)
	}
	wg.Wait()
	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if got := strings.Count(string(content), "\n"); got != 500 {
		t.Errorf("expected 500 lines, got %d", got)
	}
}
