package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	envHome    = "HABIT_SERVER_DATA_DIR" // override for tests
	dirName    = ".habitline"            // default under $HOME
	dbFilename = "habits.db"
)

// DataDir returns the directory where local state is stored (~/.habitline).
// It creates the directory with 0700 permissions if it does not exist.
func DataDir() (string, error) {
	if custom := os.Getenv(envHome); custom != "" {
		if err := os.MkdirAll(custom, 0o700); err != nil {
			return "", err
		}
		return custom, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user home: %w", err)
	}
	dir := filepath.Join(home, dirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// DefaultPath returns the absolute path to the local SQLite database file.
func DefaultPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dbFilename), nil
}
