// Package config supplies the environment-driven settings for the
// sessionctl command. Library packages are configured through constructor
// options instead.
package config

import "time"

type Config interface {
	GetAppName() string
	GetAPIBaseURL() string
	GetStateFile() string
	GetRefreshMargin() time.Duration
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	return mainConfig{}
}
