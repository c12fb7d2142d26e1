package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.json_logs", false)

	// Band plan defaults
	v.SetDefault("bandplan.path", "data/us_bandplan.json")

	// Callsign lookup defaults (HamDB)
	v.SetDefault("callsign.base_url", "http://api.hamdb.org")

	// APRS defaults (aprs.fi)
	v.SetDefault("aprs.base_url", "https://api.aprs.fi/api/get")

	// Propagation defaults
	v.SetDefault("propagation.hamqsl_url", "https://www.hamqsl.com/solarxml.php")
	v.SetDefault("propagation.noaa_base_url", "https://services.swpc.noaa.gov/json")
	v.SetDefault("propagation.cache_ttl_seconds", 900) // 15 minutes

	// Outbound HTTP defaults
	v.SetDefault("http.timeout_seconds", 10)
	v.SetDefault("http.requests_per_minute", 60)
}

// BindSensitiveEnvVars binds credentials to environment variables so
// they never need to live in a config file.
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("server.api_key", "HAMOPS_SERVER_API_KEY", "API_KEY")
	v.BindEnv("aprs.api_key", "HAMOPS_APRS_API_KEY", "APRFI_API_KEY")
}
