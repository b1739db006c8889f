// Package generator turns study material into a study.Session by asking an
// LLM for a structured study pack.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/eduspark/internal/llm"
	"github.com/abhisek/eduspark/internal/store"
	"github.com/abhisek/eduspark/internal/study"
)

// Temperature is fixed for study pack generation.
const Temperature = 0.7

// Config holds generation settings.
type Config struct {
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// DefaultConfig returns the generation defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens: 8192,
		Timeout:   90 * time.Second,
	}
}

// SessionRecorder receives session lifecycle events.
type SessionRecorder interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
}

// Generator produces study sessions.
type Generator struct {
	provider llm.Provider
	cfg      Config
	recorder SessionRecorder
	logger   *zap.Logger
	newID    func() string
}

// Option configures a Generator.
type Option func(*Generator)

// WithRecorder records a "generated" event for every session produced.
func WithRecorder(r SessionRecorder) Option {
	return func(g *Generator) { g.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a Generator.
func New(provider llm.Provider, cfg Config, opts ...Option) *Generator {
	g := &Generator{
		provider: provider,
		cfg:      cfg,
		logger:   zap.NewNop(),
		newID:    newSessionID,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Config returns the generation settings.
func (g *Generator) Config() Config {
	return g.cfg
}

func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

type studyPackOutput struct {
	Title      string               `json:"title"`
	Summary    string               `json:"summary"`
	Concepts   []string             `json:"concepts"`
	Quizzes    []study.QuizQuestion `json:"quizzes"`
	Flashcards []study.Flashcard    `json:"flashcards"`
	MindMap    study.MindMapNode    `json:"mindMap"`
}

// Generate asks the provider for a study pack built from m. Errors match
// either ErrGenerationFailed or ErrMalformedResponse; no partial session
// is returned.
func (g *Generator) Generate(ctx context.Context, m Material) (*study.Session, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeStudyPack)
	req := llm.Request{
		System:      studyPackSystemPrompt,
		Messages:    []llm.Message{buildStudyPackMessage(m)},
		Schema:      StudyPackSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		g.logger.Warn("study pack generation failed",
			zap.String("material", m.Describe()),
			zap.Error(err),
		)
		return nil, classify(err)
	}

	session, err := parseStudyPack(resp.Content)
	if err != nil {
		g.logger.Warn("malformed study pack",
			zap.Int("payload_bytes", len(resp.Content)),
			zap.Error(err),
		)
		return nil, malformed(err)
	}
	session.ID = g.newID()

	g.logger.Info("study pack generated",
		zap.String("session_id", session.ID),
		zap.String("title", session.Title),
		zap.Int("quizzes", len(session.Quizzes)),
		zap.Int("flashcards", len(session.Flashcards)),
		zap.Int("mind_map_nodes", study.CountNodes(&session.MindMap)),
	)
	g.record(ctx, store.SessionEventData{
		SessionID: session.ID,
		Action:    store.SessionGenerated,
		Title:     session.Title,
		QuizTotal: len(session.Quizzes),
	})
	return session, nil
}

// RecordCompletion logs a "completed" event for a finished session.
func (g *Generator) RecordCompletion(ctx context.Context, s *study.Session, correct, points int) {
	if s == nil {
		return
	}
	g.record(ctx, store.SessionEventData{
		SessionID:     s.ID,
		Action:        store.SessionCompleted,
		Title:         s.Title,
		QuizTotal:     len(s.Quizzes),
		QuizCorrect:   correct,
		PointsAwarded: points,
	})
}

func (g *Generator) record(ctx context.Context, data store.SessionEventData) {
	if g.recorder == nil {
		return
	}
	if err := g.recorder.AppendSessionEvent(context.WithoutCancel(ctx), data); err != nil {
		g.logger.Warn("failed to record session event",
			zap.String("session_id", data.SessionID),
			zap.String("action", data.Action),
			zap.Error(err),
		)
	}
}

// Ground asks for additional context on query using live web search.
// Only providers with search support can serve it.
func (g *Generator) Ground(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: empty query", ErrNoMaterial)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeGrounding)
	resp, err := g.provider.Generate(ctx, llm.Request{
		Messages:        []llm.Message{buildGroundingMessage(query)},
		SearchGrounding: true,
		MaxTokens:       g.cfg.MaxTokens,
	})
	if err != nil {
		return "", classify(err)
	}

	// Grounded answers are plain text carried as a JSON string.
	var text string
	if err := json.Unmarshal(resp.Content, &text); err != nil {
		text = string(resp.Content)
	}
	return strings.TrimSpace(text), nil
}

func parseStudyPack(raw json.RawMessage) (*study.Session, error) {
	cleaned, err := llm.ValidateJSON(StudyPackSchema, raw)
	if err != nil {
		return nil, err
	}

	var out studyPackOutput
	if err := json.Unmarshal(cleaned, &out); err != nil {
		return nil, fmt.Errorf("parse study pack: %w", err)
	}

	return &study.Session{
		Title:      out.Title,
		Summary:    out.Summary,
		Concepts:   nonNil(out.Concepts),
		Quizzes:    nonNil(out.Quizzes),
		Flashcards: nonNil(out.Flashcards),
		MindMap:    out.MindMap,
	}, nil
}

// classify maps a provider error onto the generator's taxonomy.
func classify(err error) error {
	var invalid *llm.ErrInvalidResponse
	var truncated *llm.ErrMaxTokensExceeded
	switch {
	case errors.As(err, &invalid), errors.As(err, &truncated):
		return malformed(err)
	default:
		return failed(err)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
