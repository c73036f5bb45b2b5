package cli

import "os"

// Config holds CLI configuration
type Config struct {
	// ServerURL is the server base URL, e.g. http://localhost:8080
	ServerURL string
}

// DefaultConfig returns CLI defaults, honoring the environment
func DefaultConfig() *Config {
	serverURL := os.Getenv("ECHOBOUND_SERVER")
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}
	return &Config{ServerURL: serverURL}
}
