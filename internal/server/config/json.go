package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/bloglist/internal/flagx"
	"github.com/dmitrijs2005/bloglist/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Duration
// fields accept "10s"-style strings or integer nanoseconds. Pointer and
// zero values mean "not set", so a partial file only overrides what it
// names.
type JsonConfig struct {
	EndpointAddrHTTP string          `json:"endpoint_addr_http"`
	DatabaseDSN      string          `json:"database_dsn"`
	SecretKey        string          `json:"secret_key"`
	BcryptCost       int             `json:"bcrypt_cost"`
	RequestTimeout   *timex.Duration `json:"request_timeout"`
	ShutdownTimeout  *timex.Duration `json:"shutdown_timeout"`
	LogLevel         string          `json:"log_level"`
	AllowOrigins     string          `json:"allow_origins"`
}

// parseJson overlays values from the file named by -c / -config. Without
// the flag nothing is loaded.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.AllowOrigins, c.AllowOrigins)
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.RequestTimeout != nil {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
