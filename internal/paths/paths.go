// Package paths resolves where the workbook lives on disk and where
// cloud-synced exports should go.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
)

// AppDirName is the per-user data directory name.
const AppDirName = "NetworkChangesTracker"

// Placement policies for the live workbook.
const (
	// PolicyAppData keeps the file in a per-user application-data
	// directory, out of continuously-syncing cloud folders.
	PolicyAppData = "appdata"
	// PolicyPortable keeps the file alongside the running executable.
	PolicyPortable = "portable"
)

// DataDir resolves the directory holding the live workbook for the
// given placement policy. The directory is not created here.
func DataDir(policy string) (string, error) {
	switch policy {
	case PolicyPortable:
		exe, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("resolving executable path: %w", err)
		}
		return filepath.Dir(exe), nil
	case PolicyAppData, "":
		return appDataDir()
	default:
		return "", fmt.Errorf("unknown dir_policy %q (use %q or %q)", policy, PolicyAppData, PolicyPortable)
	}
}

func appDataDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	switch runtime.GOOS {
	case "windows":
		if base := os.Getenv("LOCALAPPDATA"); base != "" {
			return filepath.Join(base, AppDirName), nil
		}
		return filepath.Join(home, "AppData", "Local", AppDirName), nil
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", AppDirName), nil
	default:
		return filepath.Join(home, ".local", "share", AppDirName), nil
	}
}

// FindOneDriveDir locates a OneDrive folder for manual export:
// environment variables first, then conventional folder names, then a
// scan of the macOS CloudStorage root for OneDrive-prefixed folders.
// Falls back to the home directory when nothing is found — the result
// is advisory, the user confirms the destination.
func FindOneDriveDir() string {
	for _, env := range []string{"OneDriveCommercial", "OneDriveConsumer", "OneDrive"} {
		if val := os.Getenv(env); val != "" {
			if fi, err := os.Stat(val); err == nil && fi.IsDir() {
				return val
			}
		}
	}

	home, err := homedir.Dir()
	if err != nil {
		return "."
	}

	candidates := []string{
		filepath.Join(home, "OneDrive"),
		filepath.Join(home, "OneDrive - Personal"),
		filepath.Join(home, "OneDrive - Microsoft"),
	}

	cloudRoot := filepath.Join(home, "Library", "CloudStorage")
	if entries, err := os.ReadDir(cloudRoot); err == nil {
		for _, e := range entries {
			if e.IsDir() && strings.HasPrefix(e.Name(), "OneDrive") {
				candidates = append([]string{filepath.Join(cloudRoot, e.Name())}, candidates...)
			}
		}
	}

	for _, c := range candidates {
		if fi, err := os.Stat(c); err == nil && fi.IsDir() {
			return c
		}
	}
	return home
}
