package application

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

const (
	// AppName is the application name used for directories and identification
	AppName = "pollo"

	// ConfigFileName is the optional INI file inside the application directory
	ConfigFileName = "pollo.ini"

	// EnvPrefix prefixes every environment variable the application reads
	EnvPrefix = "POLLO_"
)

var (
	once   sync.Once
	appDir string
	errDir error
)

// GetApplicationDirectory returns the pollo configuration directory path.
// Linux: ~/.config/pollo (via os.UserConfigDir)
// Windows: C:\Users\{username}\AppData\Local\pollo (via os.UserCacheDir)
func GetApplicationDirectory() (string, error) {
	once.Do(lazyLoad)

	return appDir, errDir
}

// DefaultDatabasePath returns where the given backend keeps its file.
func DefaultDatabasePath(backend string) (string, error) {
	dir, err := GetApplicationDirectory()
	if err != nil {
		return "", err
	}

	if backend == "sqlite" {
		return filepath.Join(dir, "pollo.db"), nil
	}

	return filepath.Join(dir, "pollo.bolt"), nil
}

func lazyLoad() {
	var (
		baseDir string
		err     error
	)

	switch runtime.GOOS {
	case "windows":
		baseDir, err = os.UserCacheDir()
	default:
		baseDir, err = os.UserConfigDir()
	}

	if err != nil {
		errDir = fmt.Errorf("failed to get config directory: %w", err)
		return
	}

	appDir = filepath.Join(baseDir, AppName)
}
