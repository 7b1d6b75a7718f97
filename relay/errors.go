package relay

import "fmt"

// Client-visible error messages.
const (
	msgGroundingFailed = "Failed to fetch events"
	msgRateLimited     = "Rate limit exceeded. Please try again in a moment."
	msgQuotaExceeded   = "Service temporarily unavailable. Please try again later."
	msgUpstreamError   = "AI service error"
	msgInvalidBody     = "invalid request body"
	msgMissingMessages = "messages is required"
)

// ConfigurationError reports a required setting that was not provided.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return e.Setting + " is not configured"
}

// UpstreamKind classifies an upstream failure.
type UpstreamKind int

const (
	// UpstreamOther is any non-success status or transport failure.
	UpstreamOther UpstreamKind = iota

	// UpstreamRateLimited is an HTTP 429 from the model provider.
	UpstreamRateLimited

	// UpstreamQuotaExceeded is an HTTP 402 from the model provider.
	UpstreamQuotaExceeded
)

func (k UpstreamKind) String() string {
	switch k {
	case UpstreamRateLimited:
		return "rate_limited"
	case UpstreamQuotaExceeded:
		return "quota_exceeded"
	default:
		return "other"
	}
}

// UpstreamError is a failed call to the model provider. Status is zero for
// transport failures, in which case Err is set. Body holds the upstream
// diagnostic, which is logged and never sent to the caller.
type UpstreamError struct {
	Status int
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream request failed: %v", e.Err)
	}
	return fmt.Sprintf("upstream returned %d: %s", e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Kind classifies the failure by upstream status.
func (e *UpstreamError) Kind() UpstreamKind {
	switch e.Status {
	case 429:
		return UpstreamRateLimited
	case 402:
		return UpstreamQuotaExceeded
	default:
		return UpstreamOther
	}
}

// clientResponse returns the status and message the caller sees.
func (e *UpstreamError) clientResponse() (int, string) {
	switch e.Kind() {
	case UpstreamRateLimited:
		return 429, msgRateLimited
	case UpstreamQuotaExceeded:
		return 402, msgQuotaExceeded
	default:
		return 500, msgUpstreamError
	}
}
