// Package kaiko provides a client for the Kaiko cryptocurrency market data API.
package kaiko

import (
	"os"
	"time"
)

// Region selects the regional market-data endpoint.
type Region string

const (
	// RegionUS routes requests through the US market-data endpoint.
	RegionUS Region = "us"
	// RegionEU routes requests through the EU market-data endpoint.
	RegionEU Region = "eu"
)

// Regional base URLs for the market-data API. The reference-data API is
// global and unauthenticated.
var marketBaseURLs = map[Region]string{
	RegionUS: "https://us.market-api.kaiko.io",
	RegionEU: "https://eu.market-api.kaiko.io",
}

const referenceBaseURL = "https://reference-data-api.kaiko.io/v1"

// Config holds configuration for the Kaiko API client.
type Config struct {
	APIKey  string        // API key sent in the X-Api-Key header
	Region  Region        // Regional endpoint ("us" or "eu")
	Timeout time.Duration // HTTP request timeout for the default client
}

// LoadConfig loads Kaiko configuration from the environment. KAIKO_API_KEY
// is the only environment variable read; everything else has fixed defaults.
func LoadConfig() Config {
	return Config{
		APIKey:  os.Getenv("KAIKO_API_KEY"),
		Region:  RegionUS,
		Timeout: 10 * time.Second,
	}
}
