package config

import (
	"fmt"
	"strconv"
)

// parseEnv reads the variables the deployment sets: DATABASE_DSN (or the
// legacy MONGODB_URI name), SECRET, PORT, LOG_LEVEL and CORS_ORIGINS.
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	if lookup == nil {
		return nil
	}

	if v, ok := lookup("MONGODB_URI"); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := lookup("DATABASE_DSN"); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := lookup("SECRET"); ok && v != "" {
		config.SecretKey = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		config.LogLevel = v
	}
	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		config.AllowOrigins = v
	}
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid PORT %q", v)
		}
		config.EndpointAddrHTTP = ":" + v
	}
	return nil
}
