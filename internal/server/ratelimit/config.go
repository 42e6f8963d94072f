package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // exact path, path.Match pattern, or prefix ending in "/"
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// NewConfig builds a limiter configuration from a per-client request rate
// and burst. A non-positive rate disables limiting.
func NewConfig(perSecond float64, burst int, whitelist string) *Config {
	if perSecond <= 0 {
		return &Config{Enabled: false}
	}
	if burst <= 0 {
		burst = int(perSecond) + 1
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    max(1, int(perSecond*60)),
		DefaultWindow:   time.Minute,
		DefaultBurst:    burst,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       parseIPList(whitelist),
		Blacklist:       map[string]bool{},
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: generative rewrite and rendering
		{Path: "/profiles/*/tailor", Method: "POST", Limit: 30, Window: time.Hour, Burst: 3},
		{Path: "/profiles/*/skill-gap/jd", Method: "POST", Limit: 30, Window: time.Hour, Burst: 3},

		// Tier 2: embedding-heavy operations
		{Path: "/profiles/*/matches", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/profiles/*/skill-gap", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},

		// Tier 3: writes
		{Path: "/profiles/", Method: "PUT", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/jobs", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},

		// Tier 4: reads fall through to the default limit; health is unlimited
	}
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
