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
	AppName = "forkr"

	// EnvToken is the application-specific token environment variable
	EnvToken = "FORKR_TOKEN"
)

// Version is the build version, overridden via ldflags at release time
var Version = "dev"

var (
	configOnce sync.Once
	configDir  string
	configErr  error

	cacheOnce sync.Once
	cacheDir  string
	cacheErr  error
)

// GetConfigDirectory returns the forkr configuration directory path.
// Linux: ~/.config/forkr (via os.UserConfigDir)
// Windows: C:\Users\{username}\AppData\Local\forkr (via os.UserCacheDir)
func GetConfigDirectory() (string, error) {
	configOnce.Do(lazyConfigDir)

	if configErr != nil {
		return "", configErr
	}

	return configDir, nil
}

// GetCacheDirectory returns the forkr cache directory path.
// Linux: ~/.cache/forkr (via os.UserCacheDir)
func GetCacheDirectory() (string, error) {
	cacheOnce.Do(lazyCacheDir)

	if cacheErr != nil {
		return "", cacheErr
	}

	return cacheDir, nil
}

func lazyConfigDir() {
	var (
		baseDir string
		err     error
	)

	switch runtime.GOOS {
	case "windows":
		// Windows: use AppData\Local (via UserCacheDir)
		baseDir, err = os.UserCacheDir()
	default:
		// Linux/others: use ~/.config (via UserConfigDir)
		baseDir, err = os.UserConfigDir()
	}

	if err != nil {
		configErr = fmt.Errorf("failed to get config directory: %w", err)
		return
	}

	configDir = filepath.Join(baseDir, AppName)
}

func lazyCacheDir() {
	baseDir, err := os.UserCacheDir()
	if err != nil {
		cacheErr = fmt.Errorf("failed to get cache directory: %w", err)
		return
	}

	cacheDir = filepath.Join(baseDir, AppName)
}
