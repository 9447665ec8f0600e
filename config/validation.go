package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks that every value the server cannot run without is
// present. JWT and database credentials are always required in production;
// development falls back to local defaults for everything else.
func ValidateConfig(cfg *Config) error {
	var errs []string

	required := map[string]string{
		"SERVER_PORT": cfg.ServerPort,
		"DB_HOST":     cfg.DBHost,
		"DB_PORT":     cfg.DBPort,
		"DB_USER":     cfg.DBUser,
		"DB_NAME":     cfg.DBName,
	}
	for name, value := range required {
		if value == "" {
			errs = append(errs, fmt.Sprintf("%s is not set", name))
		}
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET (or the jwt_secret secret) is required")
	}
	if IsProduction() {
		if cfg.DBPassword == "" {
			errs = append(errs, "DB_PASSWORD (or the db_password secret) is required in production")
		}
		if cfg.DBSSLMode == "disable" {
			errs = append(errs, "DB_SSL_MODE must not be disable in production")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
