package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// RotationConfig controls size-based rotation of the log file.
type RotationConfig struct {
	// MaxSizeMB is the size at which cobalt.log is rotated. Zero disables rotation.
	MaxSizeMB int
	// MaxBackups is the number of rotated files kept next to the active one.
	MaxBackups int
	// Compress gzips rotated files.
	Compress bool
}

// DefaultRotationConfig rotates at 10MB and keeps three backups.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{MaxSizeMB: 10, MaxBackups: 3}
}

// rotatingFile is an append-only log file that renames itself to
// <path>.1 once it would exceed its size limit. Older backups shift to .2, .3
// and so on; the oldest is removed.
type rotatingFile struct {
	mu      sync.Mutex
	path    string
	limit   int64
	backups int
	gzip    bool

	file *os.File
	size int64
}

func openRotatingFile(path string, cfg RotationConfig) (*rotatingFile, error) {
	rf := &rotatingFile{
		path:    path,
		limit:   int64(cfg.MaxSizeMB) * 1024 * 1024,
		backups: cfg.MaxBackups,
		gzip:    cfg.Compress,
	}
	if err := rf.open(); err != nil {
		return nil, err
	}
	return rf, nil
}

func (rf *rotatingFile) open() error {
	if err := os.MkdirAll(filepath.Dir(rf.path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(rf.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	rf.file = f
	rf.size = info.Size()
	return nil
}

// Write appends p, rotating first when the limit would be exceeded. A failed
// rotation is reported on stderr and the entry still goes to the current file.
func (rf *rotatingFile) Write(p []byte) (int, error) {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.file == nil {
		return 0, fmt.Errorf("log file is closed")
	}
	if rf.limit > 0 && rf.size+int64(len(p)) > rf.limit {
		if err := rf.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: log rotation failed: %v\n", err)
		}
	}
	n, err := rf.file.Write(p)
	rf.size += int64(n)
	return n, err
}

func (rf *rotatingFile) rotate() error {
	if err := rf.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	rf.file = nil

	rf.shiftBackups()
	first := rf.backup(1)
	if err := os.Rename(rf.path, first); err != nil {
		if openErr := rf.open(); openErr != nil {
			return fmt.Errorf("failed to rename log file and reopen: %w", openErr)
		}
		return fmt.Errorf("failed to rename log file: %w", err)
	}
	if rf.gzip {
		if err := gzipFile(first); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to compress %s: %v\n", first, err)
		}
	}
	return rf.open()
}

func (rf *rotatingFile) shiftBackups() {
	if rf.backups <= 0 {
		_ = os.Remove(rf.backup(1))
		_ = os.Remove(rf.backup(1) + ".gz")
		return
	}
	_ = os.Remove(rf.backup(rf.backups))
	_ = os.Remove(rf.backup(rf.backups) + ".gz")
	for i := rf.backups - 1; i >= 1; i-- {
		for _, ext := range []string{"", ".gz"} {
			if _, err := os.Stat(rf.backup(i) + ext); err == nil {
				_ = os.Rename(rf.backup(i)+ext, rf.backup(i+1)+ext)
			}
		}
	}
}

func (rf *rotatingFile) backup(n int) string {
	return fmt.Sprintf("%s.%d", rf.path, n)
}

func gzipFile(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		_ = out.Close()
		_ = os.Remove(path + ".gz")
		return err
	}
	if err := zw.Close(); err != nil {
		_ = out.Close()
		_ = os.Remove(path + ".gz")
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}

// Close syncs and closes the active file.
func (rf *rotatingFile) Close() error {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.file == nil {
		return nil
	}
	if err := rf.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	err := rf.file.Close()
	rf.file = nil
	if err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}
