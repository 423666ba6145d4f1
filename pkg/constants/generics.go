package constants

import "time"

// Global rate limiting defaults, overridable via RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW.
const (
	DefaultRateLimitRequests      = 100
	DefaultRateLimitWindowMinutes = 1
)

// DefaultRegistrationRequestsPerMinute applies to POST /register only.
const DefaultRegistrationRequestsPerMinute = 30

const DefaultRequestTimeout = 30 * time.Second

func DefaultRateLimitWindow() time.Duration {
	return time.Duration(DefaultRateLimitWindowMinutes) * time.Minute
}
