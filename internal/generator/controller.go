package generator

import (
	"context"
	"errors"
	"sync"

	"github.com/abhisek/eduspark/internal/study"
)

// Phase is the state of a Controller.
type Phase int

const (
	Idle Phase = iota
	Generating
	Failed
	Succeeded
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	case Failed:
		return "failed"
	case Succeeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// Status is a snapshot of a Controller.
type Status struct {
	Phase   Phase
	Session *study.Session
	Err     error
}

// Controller allows one generation at a time and remembers the outcome of
// the last one.
type Controller struct {
	gen *Generator

	mu     sync.Mutex
	status Status
}

// NewController wraps gen.
func NewController(gen *Generator) *Controller {
	return &Controller{gen: gen}
}

// Generator returns the wrapped generator.
func (c *Controller) Generator() *Generator {
	return c.gen
}

// Generate runs one generation. It fails immediately with
// ErrGenerationInProgress while another call is running, and with the
// validation error for unusable material; neither changes the state.
func (c *Controller) Generate(ctx context.Context, m Material) (*study.Session, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.status.Phase == Generating {
		c.mu.Unlock()
		return nil, ErrGenerationInProgress
	}
	c.status = Status{Phase: Generating}
	c.mu.Unlock()

	if timeout := c.gen.cfg.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	session, err := c.gen.Generate(ctx, m)
	if err != nil && ctx.Err() != nil && !errors.Is(err, ErrGenerationFailed) {
		err = failed(ctx.Err())
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.status = Status{Phase: Failed, Err: err}
		return nil, err
	}
	c.status = Status{Phase: Succeeded, Session: session}
	return session, nil
}

// Status returns the current state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Reset returns to Idle. It has no effect while generating.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status.Phase != Generating {
		c.status = Status{}
	}
}
