package config

// Server holds the HTTP-transport knobs consumed by cmd/api.
type Server struct {
	Port            string
	EnableAuth      bool
	EnableRateLimit bool
	EnableAnalytics bool
}

// LoadServer reads the ambient HTTP server knobs, grounded on the
// ENABLE_AUTH/ENABLE_RATE_LIMIT/ENABLE_ANALYTICS toggles in the
// teacher's cmd/api/main_with_auth.go, collapsed to a single-tier
// deployment.
func LoadServer() Server {
	return Server{
		Port:            getEnv("PORT", "8080"),
		EnableAuth:      getEnvBool("ENABLE_AUTH", false),
		EnableRateLimit: getEnvBool("ENABLE_RATE_LIMIT", false),
		EnableAnalytics: getEnvBool("ENABLE_ANALYTICS", false),
	}
}
