package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/notesafe/notesafe/internal/flagx"
	"github.com/notesafe/notesafe/internal/timex"
)

// JsonConfig is the DTO for the optional JSON configuration file. Interval
// fields use timex.Duration so both "5m" and integer nanoseconds parse.
// Values are copied into the runtime Config only when present.
type JsonConfig struct {
	EndpointAddrHTTP string          `json:"endpoint_addr_http"`
	DatabaseDSN      string          `json:"database_dsn"`
	RootSecret       string          `json:"root_secret"`
	Issuer           string          `json:"issuer"`
	Audience         string          `json:"audience"`
	SigningKeysFile  string          `json:"signing_keys_file"`
	ClockSkewLeeway  *timex.Duration `json:"clock_skew_leeway"`
	S3RootUser       string          `json:"s3_root_user"`
	S3RootPassword   string          `json:"s3_root_password"`
	S3Bucket         string          `json:"s3_bucket"`
	S3Region         string          `json:"s3_region"`
	S3BaseEndpoint   string          `json:"s3_base_endpoint"`
}

// parseJson loads configuration from the file named by the -c or -config
// flags. When neither flag is given, nothing is loaded. An unreadable or
// invalid file panics: a config file that was asked for but cannot be used
// should stop startup immediately.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setIfNotEmpty(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIfNotEmpty(&config.DatabaseDSN, c.DatabaseDSN)
	setIfNotEmpty(&config.RootSecret, c.RootSecret)
	setIfNotEmpty(&config.Issuer, c.Issuer)
	setIfNotEmpty(&config.Audience, c.Audience)
	setIfNotEmpty(&config.SigningKeysFile, c.SigningKeysFile)
	if c.ClockSkewLeeway != nil {
		config.ClockSkewLeeway = time.Duration(c.ClockSkewLeeway.Duration)
	}
	setIfNotEmpty(&config.S3RootUser, c.S3RootUser)
	setIfNotEmpty(&config.S3RootPassword, c.S3RootPassword)
	setIfNotEmpty(&config.S3Bucket, c.S3Bucket)
	setIfNotEmpty(&config.S3Region, c.S3Region)
	setIfNotEmpty(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setIfNotEmpty(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}
