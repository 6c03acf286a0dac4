package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	appNameVar       = "APP_NAME"
	apiBaseURLVar    = "AUTH_API_URL"
	stateFileVar     = "SESSION_FILE"
	refreshMarginVar = "REFRESH_MARGIN"
)

type EnvVars struct{}

var _ Config = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "sessionctl")
}

func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "http://localhost:3000/api/auth")
}

func (EnvVars) GetStateFile() string {
	if v := os.Getenv(stateFileVar); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sessionctl.json"
	}
	return filepath.Join(home, ".sessionctl.json")
}

func (EnvVars) GetRefreshMargin() time.Duration {
	if v := os.Getenv(refreshMarginVar); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return 60 * time.Second
}

// GetEnv retrieves an environment variable or returns the default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
