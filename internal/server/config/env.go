package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// envConfig is the DTO for the environment layer. The environment is the
// natural home for the root secret, which should not live in files or be
// typed on command lines.
type envConfig struct {
	EndpointAddrHTTP string        `env:"NOTESAFE_HTTP_ADDR"`
	DatabaseDSN      string        `env:"NOTESAFE_DATABASE_DSN"`
	RootSecret       string        `env:"NOTESAFE_ROOT_SECRET"`
	Issuer           string        `env:"NOTESAFE_ISSUER"`
	Audience         string        `env:"NOTESAFE_AUDIENCE"`
	SigningKeysFile  string        `env:"NOTESAFE_SIGNING_KEYS_FILE"`
	ClockSkewLeeway  time.Duration `env:"NOTESAFE_CLOCK_SKEW_LEEWAY"`
	S3RootUser       string        `env:"NOTESAFE_S3_ROOT_USER"`
	S3RootPassword   string        `env:"NOTESAFE_S3_ROOT_PASSWORD"`
	S3Bucket         string        `env:"NOTESAFE_S3_BUCKET"`
	S3Region         string        `env:"NOTESAFE_S3_REGION"`
	S3BaseEndpoint   string        `env:"NOTESAFE_S3_BASE_ENDPOINT"`
}

// parseEnv overlays values from the environment onto config. Unset
// variables leave the current value alone.
func parseEnv(config *Config) error {

	c := &envConfig{}
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	setIfNotEmpty(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIfNotEmpty(&config.DatabaseDSN, c.DatabaseDSN)
	setIfNotEmpty(&config.RootSecret, c.RootSecret)
	setIfNotEmpty(&config.Issuer, c.Issuer)
	setIfNotEmpty(&config.Audience, c.Audience)
	setIfNotEmpty(&config.SigningKeysFile, c.SigningKeysFile)
	if c.ClockSkewLeeway != 0 {
		config.ClockSkewLeeway = c.ClockSkewLeeway
	}
	setIfNotEmpty(&config.S3RootUser, c.S3RootUser)
	setIfNotEmpty(&config.S3RootPassword, c.S3RootPassword)
	setIfNotEmpty(&config.S3Bucket, c.S3Bucket)
	setIfNotEmpty(&config.S3Region, c.S3Region)
	setIfNotEmpty(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	return nil
}
