package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrGroundingUnsupported is returned by providers that cannot run
// search-grounded requests.
var ErrGroundingUnsupported = errors.New("search grounding not supported by this provider")

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that does not
// conform to the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrAuthFailed indicates the provider rejected the credentials (401/403).
// Retrying does not help.
type ErrAuthFailed struct {
	Err error
}

func (e *ErrAuthFailed) Error() string {
	return fmt.Sprintf("LLM provider rejected credentials: %v", e.Err)
}

func (e *ErrAuthFailed) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// mapStatusError classifies an HTTP status returned by a provider SDK.
func mapStatusError(status int, err error) error {
	switch {
	case status == 429:
		return &ErrRateLimit{Err: err}
	case status == 401 || status == 403:
		return &ErrAuthFailed{Err: err}
	default:
		return &ErrProviderUnavailable{Err: err}
	}
}
