package lock

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

// ErrHeld is returned by Do when the lock is still held after the timeout.
var ErrHeld = errors.New("lock is held by another process")

// ErrNotOwner is returned by Unlock when the lock file belongs to someone else.
var ErrNotOwner = errors.New("lock file is not owned by this holder")

// retryInterval is how long TryLock waits between attempts.
const retryInterval = 100 * time.Millisecond

var tokenSeq atomic.Uint64

// FileLock provides a simple file-based locking mechanism. A lock file whose
// modification time is older than twice the waiter's timeout is stale; Do
// keeps the file fresh for as long as fn runs.
type FileLock struct {
	dir    string
	logger *slog.Logger

	mu   sync.Mutex
	held map[string]string // key -> token written into the lock file
}

// NewFileLock creates a lock whose files live in dir. An empty dir means a
// directory under os.TempDir.
func NewFileLock(dir string, logger *slog.Logger) *FileLock {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "moviestats-locks")
	}
	return &FileLock{dir: dir, logger: logger, held: make(map[string]string)}
}

// TryLock attempts to acquire a lock with the given key and timeout
func (fl *FileLock) TryLock(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	lockFile := fl.path(key)

	if err := os.MkdirAll(fl.dir, 0750); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for {
		// #nosec G304 - lockFile is built by path from a fixed directory
		file, err := os.OpenFile(lockFile, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			return true, fl.stamp(file, key)
		}
		if !os.IsExist(err) {
			return false, fmt.Errorf("failed to create lock file: %w", err)
		}

		if fl.isStale(lockFile, timeout*2) {
			fl.logger.Warn("Removing stale lock file", slog.String("file", lockFile))
			if err := os.Remove(lockFile); err != nil && !os.IsNotExist(err) {
				fl.logger.Error("Failed to remove stale lock file", slog.String("file", lockFile), slog.Any("error", err))
			}
			continue
		}

		if !time.Now().Before(deadline) {
			return false, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

// stamp writes a token unique to this acquisition into a fresh lock file.
func (fl *FileLock) stamp(file *os.File, key string) error {
	token := fmt.Sprintf("%d-%d-%d", os.Getpid(), time.Now().UnixNano(), tokenSeq.Add(1))
	_, werr := fmt.Fprintln(file, token)
	cerr := file.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(file.Name())
		return fmt.Errorf("failed to write lock file: %w", err)
	}

	fl.mu.Lock()
	fl.held[key] = token
	fl.mu.Unlock()

	fl.logger.Debug("Acquired lock", slog.String("key", key), slog.String("file", file.Name()))
	return nil
}

// owns reports whether the lock file for key still carries our token.
func (fl *FileLock) owns(key string) bool {
	fl.mu.Lock()
	token, ok := fl.held[key]
	fl.mu.Unlock()
	if !ok {
		return false
	}

	data, err := os.ReadFile(fl.path(key))
	if err != nil {
		return false
	}
	return string(bytes.TrimSpace(data)) == token
}

// Unlock releases the lock for the given key. A lock file that was taken
// over by another holder is left in place and ErrNotOwner is returned.
func (fl *FileLock) Unlock(ctx context.Context, key string) error {
	lockFile := fl.path(key)

	owned := fl.owns(key)
	fl.mu.Lock()
	delete(fl.held, key)
	fl.mu.Unlock()

	if !owned {
		if _, err := os.Stat(lockFile); os.IsNotExist(err) {
			return nil
		}
		fl.logger.Warn("Lock was taken over, leaving it in place", slog.String("key", key), slog.String("file", lockFile))
		return ErrNotOwner
	}

	if err := os.Remove(lockFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}

	fl.logger.Debug("Released lock", slog.String("key", key), slog.String("file", lockFile))
	return nil
}

// Do runs fn while holding the lock for key. The lock file is touched every
// timeout/2, so waiters using the same timeout never see a live lock as stale.
func (fl *FileLock) Do(ctx context.Context, key string, timeout time.Duration, fn func(context.Context) error) error {
	ok, err := fl.TryLock(ctx, key, timeout)
	if err != nil {
		return err
	}
	if !ok {
		return ErrHeld
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		fl.heartbeat(key, timeout/2, stop)
	}()

	defer func() {
		close(stop)
		<-done
		if err := fl.Unlock(context.WithoutCancel(ctx), key); err != nil {
			fl.logger.Error("Failed to release lock", slog.String("key", key), slog.Any("error", err))
		}
	}()
	return fn(ctx)
}

func (fl *FileLock) heartbeat(key string, interval time.Duration, stop <-chan struct{}) {
	if interval <= 0 {
		interval = retryInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lockFile := fl.path(key)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		if !fl.owns(key) {
			fl.logger.Warn("Lost lock while holding it", slog.String("key", key))
			return
		}
		now := time.Now()
		if err := os.Chtimes(lockFile, now, now); err != nil {
			fl.logger.Error("Failed to refresh lock file", slog.String("file", lockFile), slog.Any("error", err))
		}
	}
}

func (fl *FileLock) path(key string) string {
	return filepath.Join(fl.dir, filepath.Base(filepath.Clean(key))+".lock")
}

// isStale reports whether a lock file is older than staleAfter.
func (fl *FileLock) isStale(lockFile string, staleAfter time.Duration) bool {
	info, err := os.Stat(lockFile)
	if err != nil {
		// vanished between open and stat; retrying is safe
		return os.IsNotExist(err)
	}
	return time.Since(info.ModTime()) > staleAfter
}
