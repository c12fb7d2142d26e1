package config

import "github.com/kf7lze/hamops/errors"

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Newf("server.port must be in 1..65535, got %d", c.Server.Port)
	}

	if c.Bandplan.Path == "" {
		return errors.New("bandplan.path cannot be empty")
	}

	if c.HTTP.TimeoutSeconds <= 0 {
		return errors.Newf("http.timeout_seconds must be > 0, got %d", c.HTTP.TimeoutSeconds)
	}
	if c.HTTP.RequestsPerMinute <= 0 {
		return errors.Newf("http.requests_per_minute must be > 0, got %d", c.HTTP.RequestsPerMinute)
	}

	if c.Propagation.CacheTTLSeconds < 0 {
		return errors.Newf("propagation.cache_ttl_seconds must be >= 0, got %d", c.Propagation.CacheTTLSeconds)
	}

	return nil
}
