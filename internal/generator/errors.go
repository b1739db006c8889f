package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrGenerationFailed covers transport failures, rejected credentials,
	// rate limits, timeouts and cancellation.
	ErrGenerationFailed = errors.New("study pack generation failed")

	// ErrMalformedResponse means the AI answered but the payload was not a
	// usable study pack.
	ErrMalformedResponse = errors.New("malformed study pack response")

	// ErrGenerationInProgress is returned by Controller.Generate while a
	// request is outstanding.
	ErrGenerationInProgress = errors.New("generation already in progress")

	ErrNoMaterial          = errors.New("no study material provided")
	ErrUnsupportedMaterial = errors.New("unsupported study material")
)

// generationError pairs one of the two failure sentinels with its cause.
type generationError struct {
	kind  error
	cause error
}

func (e *generationError) Error() string {
	return fmt.Sprintf("%v: %v", e.kind, e.cause)
}

func (e *generationError) Is(target error) bool { return target == e.kind }

func (e *generationError) Unwrap() error { return e.cause }

func failed(cause error) error {
	return &generationError{kind: ErrGenerationFailed, cause: cause}
}

func malformed(cause error) error {
	return &generationError{kind: ErrMalformedResponse, cause: cause}
}
