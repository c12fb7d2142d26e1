// Package config loads the hamops configuration from TOML files and
// HAMOPS_-prefixed environment variables, with sane defaults for every
// value so a bare binary still runs.
package config

// Config represents the hamops service configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Bandplan    BandplanConfig    `mapstructure:"bandplan"`
	Callsign    CallsignConfig    `mapstructure:"callsign"`
	APRS        APRSConfig        `mapstructure:"aprs"`
	Propagation PropagationConfig `mapstructure:"propagation"`
	HTTP        HTTPConfig        `mapstructure:"http"`
}

// ServerConfig configures the hamops HTTP server
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// APIKey, when set, is required in the x-api-key header of all /api
	// requests. Empty disables auth (local development).
	APIKey string `mapstructure:"api_key"`
	// JSONLogs switches the request log to one-JSON-object-per-line
	JSONLogs bool `mapstructure:"json_logs"`
}

// DefaultServerPort is used when server.port is not configured.
const DefaultServerPort = 8730

// BandplanConfig configures the band plan query engine
type BandplanConfig struct {
	// Path of the generated band plan JSON document
	Path string `mapstructure:"path"`
}

// CallsignConfig configures the HamDB callsign lookup adapter
type CallsignConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// APRSConfig configures the aprs.fi adapter
type APRSConfig struct {
	// APIKey is the aprs.fi API key. Bound to HAMOPS_APRS_API_KEY.
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// PropagationConfig configures the solar/propagation adapter
type PropagationConfig struct {
	HamqslURL       string `mapstructure:"hamqsl_url"`
	NOAABaseURL     string `mapstructure:"noaa_base_url"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
}

// HTTPConfig configures outbound HTTP clients shared by all adapters
type HTTPConfig struct {
	TimeoutSeconds    int `mapstructure:"timeout_seconds"`
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}
