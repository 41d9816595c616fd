// Package lockfile guards the shared workbook file against concurrent
// writers. It layers three protections: detection of a spreadsheet
// application's own lock marker, an advisory create-if-absent lock file,
// and temp-then-rename atomic replacement.
package lockfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Defaults for advisory lock acquisition.
const (
	DefaultTimeout  = 10 * time.Second
	DefaultInterval = 200 * time.Millisecond
)

// ErrBusy indicates the target file is held by another writer.
var ErrBusy = errors.New("file busy")

// BusyError reports an unavailable file together with remediation
// guidance that can be shown to the user verbatim.
type BusyError struct {
	Path string
	Hint string
}

func (e *BusyError) Error() string {
	return fmt.Sprintf("file busy: %s (%s)", e.Path, e.Hint)
}

func (e *BusyError) Is(target error) bool {
	return target == ErrBusy
}

// ExcelLockPath returns the sibling marker Excel creates while the file
// is open, e.g. "~$network_changes.xlsx".
func ExcelLockPath(path string) string {
	return filepath.Join(filepath.Dir(path), "~$"+filepath.Base(path))
}

// ExcelLockExists reports whether the target file appears to be open in
// a spreadsheet application.
func ExcelLockExists(path string) bool {
	_, err := os.Stat(ExcelLockPath(path))
	return err == nil
}

// Lock is a held advisory lock. Release must be called on every exit
// path; it is safe to call more than once.
type Lock struct {
	path     string
	released bool
}

// Acquire takes the advisory lock at "<path>.lock" using an atomic
// create-if-absent open, polling at the given interval until the timeout
// elapses. On timeout it returns a BusyError.
func Acquire(path string, timeout, interval time.Duration) (*Lock, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	lockPath := path + ".lock"
	deadline := time.Now().Add(timeout)
	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(f, "pid=%d time=%d", os.Getpid(), time.Now().Unix())
			f.Close()
			return &Lock{path: lockPath}, nil
		}
		// Only "already exists" means another writer holds the lock;
		// anything else is an IO fault that retrying cannot cure.
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("creating lock file: %w", err)
		}
		if time.Now().After(deadline) {
			return nil, &BusyError{
				Path: path,
				Hint: "file appears busy, try again in a moment; if it lives in a syncing folder, pause syncing or mark it 'Always keep on this device'",
			}
		}
		time.Sleep(interval)
	}
}

// Release removes the lock marker.
func (l *Lock) Release() {
	if l == nil || l.released {
		return
	}
	l.released = true
	os.Remove(l.path)
}

// WriteFileAtomic writes data to "<path>.tmp.<pid>" in the target
// directory and renames it over path, so readers observe either the old
// or the new content, never a partial write.
func WriteFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	tmp := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing file: %w", err)
	}
	return nil
}

// CopyFileAtomic copies src to dst byte-for-byte via the same
// temp-then-rename pattern.
func CopyFileAtomic(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	tmp := fmt.Sprintf("%s.tmp.%d", dst, os.Getpid())
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(tmp)
		return fmt.Errorf("copying: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing file: %w", err)
	}
	return nil
}
