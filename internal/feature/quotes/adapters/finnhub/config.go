// Package finnhub provides a quote client for the Finnhub stock API.
package finnhub

import "time"

// DefaultBaseURL is the production Finnhub API endpoint.
const DefaultBaseURL = "https://finnhub.io/api/v1"

// Config holds configuration for the Finnhub API client.
type Config struct {
	APIKey  string        // API key for authentication
	BaseURL string        // Base URL for the API
	Timeout time.Duration // HTTP request timeout
}
