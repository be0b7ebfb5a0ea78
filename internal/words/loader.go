package words

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio"

	amerrors "github.com/Aman-CERP/bookindex/internal/errors"
	"github.com/Aman-CERP/bookindex/internal/logging"
)

// Source reports where a loaded set came from.
type Source string

const (
	SourceFile    Source = "file"
	SourceCache   Source = "cache"
	SourceNetwork Source = "network"
)

// DefaultTimeout bounds the word list download.
const DefaultTimeout = 60 * time.Second

// Loader resolves the common-word set for a run.
type Loader struct {
	// File is an explicit local word list. When set, cache and network are skipped.
	File string
	// URL is the remote word list. Defaults to DefaultURL.
	URL string
	// CacheDir holds downloaded lists. Empty disables caching.
	CacheDir string
	// Offline forbids network access.
	Offline bool
	// Refresh ignores an existing cache entry and downloads again.
	Refresh bool
	// Client is used for downloads. Defaults to a client with Timeout.
	Client *http.Client
	// Timeout applies when Client is nil.
	Timeout time.Duration
}

// DefaultCacheDir returns ~/.bookindex/words, or a temp directory fallback.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".bookindex", "words")
	}
	return filepath.Join(home, ".bookindex", "words")
}

// CachePath returns the cache file used for url inside dir.
func CachePath(dir, url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(dir, "words-"+hex.EncodeToString(sum[:8])+".txt")
}

// Load returns the word set and where it came from. Every failure is an
// *errors.IndexError.
func (l *Loader) Load(ctx context.Context) (*MemorySet, Source, error) {
	logger := logging.FromContext(ctx)

	if l.File != "" {
		set, err := loadFile(l.File)
		if err != nil {
			return nil, "", err
		}
		logger.Debug("words_loaded", slog.String("source", string(SourceFile)),
			slog.String("path", l.File), slog.Int("words", set.Len()))
		return set, SourceFile, nil
	}

	url := l.URL
	if url == "" {
		url = DefaultURL
	}

	if l.CacheDir == "" {
		return l.download(ctx, url)
	}

	lock := NewFileLock(l.CacheDir)
	if err := lock.Lock(ctx); err != nil {
		return nil, "", amerrors.IOError("cannot lock word cache", err).
			WithDetail("path", lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	cachePath := CachePath(l.CacheDir, url)
	if !l.Refresh {
		set, err := loadFile(cachePath)
		switch {
		case err == nil:
			logger.Debug("words_cache_hit", slog.String("path", cachePath), slog.Int("words", set.Len()))
			return set, SourceCache, nil
		case amerrors.GetCode(err) == amerrors.ErrCodeFileNotFound:
			logger.Debug("words_cache_miss", slog.String("path", cachePath))
		default:
			logger.Warn("words_cache_unreadable", slog.String("path", cachePath), slog.String("error", err.Error()))
		}
	}

	set, src, err := l.download(ctx, url)
	if err != nil {
		return nil, "", err
	}

	// A failed cache write costs the next run a download, nothing more.
	if err := l.writeCache(cachePath, set); err != nil {
		logger.Warn("words_cache_write_failed", slog.String("path", cachePath), slog.String("error", err.Error()))
	}
	return set, src, nil
}

func (l *Loader) download(ctx context.Context, url string) (*MemorySet, Source, error) {
	if l.Offline {
		return nil, "", amerrors.New(amerrors.ErrCodeWordsOffline,
			"no cached word list available in offline mode", nil).
			WithDetail("url", url).
			WithSuggestion("Pass --words-file or run once without --offline to populate the cache")
	}

	client := l.Client
	if client == nil {
		timeout := l.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	start := time.Now()
	body, err := Fetch(ctx, client, url)
	if err != nil {
		return nil, "", amerrors.NetworkError("failed to download word list", err).
			WithDetail("url", url).
			WithSuggestion("Check your connection or pass --words-file")
	}

	set, err := Parse(bytes.NewReader(body))
	if err != nil {
		return nil, "", amerrors.NetworkError("failed to parse word list", err).WithDetail("url", url)
	}

	logging.FromContext(ctx).Info("words_downloaded",
		slog.String("url", url),
		slog.Int("words", set.Len()),
		slog.Duration("took", time.Since(start)))
	return set, SourceNetwork, nil
}

func (l *Loader) writeCache(path string, set *MemorySet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	var buf bytes.Buffer
	if _, err := set.WriteTo(&buf); err != nil {
		return err
	}
	return renameio.WriteFile(path, buf.Bytes(), 0o644)
}

func loadFile(path string) (*MemorySet, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, amerrors.New(amerrors.ErrCodeFileNotFound, "word list not found", err).
				WithDetail("path", path)
		}
		return nil, amerrors.IOError("cannot open word list", err).WithDetail("path", path)
	}
	defer func() { _ = f.Close() }()

	set, err := Parse(f)
	if err != nil {
		return nil, amerrors.IOError("cannot read word list", err).WithDetail("path", path)
	}
	return set, nil
}
