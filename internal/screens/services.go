// Package screens holds the terminal UI screens and the services they
// share.
package screens

import (
	"go.uber.org/zap"

	"github.com/abhisek/eduspark/internal/generator"
	"github.com/abhisek/eduspark/internal/progress"
	"github.com/abhisek/eduspark/internal/store"
)

// Services are the application components screens act on.
type Services struct {
	Controller *generator.Controller
	Tracker    *progress.Tracker

	// Events is optional. Without it the history screen is unavailable.
	Events store.EventRepo

	Logger *zap.Logger

	// SetupHint, when set, explains why generation is unavailable, e.g. a
	// missing API key.
	SetupHint string
}

// CanGenerate reports whether study packs can be generated.
func (s *Services) CanGenerate() bool {
	return s != nil && s.Controller != nil && s.SetupHint == ""
}

// Log returns the logger, never nil.
func (s *Services) Log() *zap.Logger {
	if s == nil || s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
