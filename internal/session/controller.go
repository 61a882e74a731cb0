package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"copy_ai_server/internal/ai"
	"copy_ai_server/internal/ai/prompts"
	"copy_ai_server/internal/types"
	"copy_ai_server/internal/utils"
)

var (
	// ErrBusy is returned when an operation is attempted while a request is
	// in flight. State is left unchanged.
	ErrBusy = errors.New("a request is already in progress")
	// ErrBlankInput is returned by Continue for empty or whitespace-only text.
	ErrBlankInput = errors.New("message is empty")
	// ErrNoSession means no conversation has been started yet.
	ErrNoSession = errors.New("chat is not initialized")
)

// PreconditionError reports an internal invariant violation, such as sending
// without a session. It is not something the user can fix.
type PreconditionError struct {
	Op  string
	Err error
}

func (e *PreconditionError) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *PreconditionError) Unwrap() error { return e.Err }

const hint = "Please check your API key and network connection."

// Controller owns the state of the single in-memory session: the draft
// configuration, the conversation history and the request status.
//
// Only one Generate or Continue runs at a time. The mutex protects the state
// bundle and is released while the backend call is outstanding; the loading
// flag keeps every other mutating operation out until the call returns.
type Controller struct {
	backend ai.Backend
	now     func() time.Time

	mu      sync.Mutex
	state   viewState
	config  types.GenerationConfig
	history []types.Message
	input   string
	loading bool
	errMsg  string
	metrics *types.PerformanceMetrics
}

// NewController returns a controller in the configuration view with the default config.
func NewController(backend ai.Backend) *Controller {
	return &Controller{
		backend: backend,
		now:     time.Now,
		state:   configuring{},
		config:  types.DefaultGenerationConfig(),
	}
}

// Snapshot is a copy of the controller state, safe to read after the lock is
// released.
type Snapshot struct {
	View           types.View                `json:"view"`
	Config         types.GenerationConfig    `json:"config"`
	Messages       []types.Message           `json:"messages"`
	Input          string                    `json:"input"`
	Loading        bool                      `json:"loading"`
	Error          string                    `json:"error,omitempty"`
	Metrics        *types.PerformanceMetrics `json:"metrics,omitempty"`
	HasSession     bool                      `json:"hasSession"`
	ConversationID string                    `json:"conversationId,omitempty"`
	StartedAt      *time.Time                `json:"startedAt,omitempty"`
	Backend        string                    `json:"backend"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		View:     c.state.view(),
		Config:   c.config,
		Messages: make([]types.Message, len(c.history)),
		Input:    c.input,
		Loading:  c.loading,
		Error:    c.errMsg,
		Backend:  c.backend.Name(),
	}
	copy(snap.Messages, c.history)
	if c.metrics != nil {
		m := *c.metrics
		snap.Metrics = &m
	}
	if b := c.state.active(); b != nil {
		snap.HasSession = true
		snap.ConversationID = b.conversationID
		started := b.startedAt
		snap.StartedAt = &started
	}
	return snap
}

// UpdateConfig replaces the draft configuration. A changed content type does
// not end the current session here; the next Generate notices the mismatch.
func (c *Controller) UpdateConfig(cfg types.GenerationConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return ErrBusy
	}
	c.config = cfg
	return nil
}

// SetInput stores the draft follow-up text so it survives a page reload.
func (c *Controller) SetInput(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return ErrBusy
	}
	c.input = text
	return nil
}

// Generate sends the prompt built from the current configuration. A new
// backend session is started, and the history cleared, when none exists or
// the content type differs from the one the session was created for.
//
// Backend failures are recorded in the state's error message and also
// returned. The user turn stays in the history either way.
func (c *Controller) Generate(ctx context.Context) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrBusy
	}
	c.begin()
	start := c.now()
	cfg := c.config

	bound, err := c.ensureSession(cfg)
	if err != nil {
		c.fail("Failed to generate content", err)
		c.finish(start)
		c.mu.Unlock()
		return err
	}
	prompt, err := prompts.Build(cfg)
	if err != nil {
		c.fail("Failed to generate content", err)
		c.finish(start)
		c.mu.Unlock()
		return err
	}
	c.history = append(c.history, types.Message{Role: types.RoleUser, Content: prompts.DisplayMessage(cfg)})
	c.mu.Unlock()

	reply, err := send(ctx, bound, prompt)

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.finish(start)
	if err != nil {
		log.Printf("WARN: generation failed for conversation %s: %v", bound.conversationID, err)
		c.fail("Failed to generate content", err)
		return err
	}
	c.history = append(c.history, types.Message{Role: types.RoleModel, Content: reply})
	c.state = conversing{bound: bound}
	return nil
}

// Continue sends a follow-up message in the current conversation. Blank
// text, a request in flight or a missing session make it a no-op and the
// matching sentinel error is returned.
//
// On failure no model message is added and text is put back into the input
// field so it can be edited and resent.
func (c *Controller) Continue(ctx context.Context, text string) error {
	c.mu.Lock()
	switch {
	case strings.TrimSpace(text) == "":
		c.mu.Unlock()
		return ErrBlankInput
	case c.loading:
		c.mu.Unlock()
		return ErrBusy
	case c.state.active() == nil:
		c.mu.Unlock()
		return ErrNoSession
	}
	c.input = ""
	c.begin()
	start := c.now()
	bound := c.state.active()
	c.history = append(c.history, types.Message{Role: types.RoleUser, Content: text})
	c.mu.Unlock()

	reply, err := send(ctx, bound, text)

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.finish(start)
	if err != nil {
		log.Printf("WARN: follow-up failed for conversation %s: %v", bound.conversationID, err)
		c.fail("Failed to send message", err)
		c.input = text
		return err
	}
	c.history = append(c.history, types.Message{Role: types.RoleModel, Content: reply})
	return nil
}

// Reset drops the session and history and restores the default
// configuration.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return ErrBusy
	}
	if b := c.state.active(); b != nil {
		log.Printf("Info: discarding conversation %s (%d messages)", b.conversationID, len(c.history))
	}
	c.state = configuring{}
	c.config = types.DefaultGenerationConfig()
	c.history = nil
	c.input = ""
	c.errMsg = ""
	c.metrics = nil
	return nil
}

// ensureSession must be called with c.mu held.
func (c *Controller) ensureSession(cfg types.GenerationConfig) (*boundSession, error) {
	if b := c.state.active(); b != nil && b.contentType == cfg.ContentType {
		return b, nil
	}
	instruction, err := prompts.SystemInstruction(cfg.ContentType)
	if err != nil {
		return nil, err
	}
	handle, err := c.backend.StartSession(instruction, cfg.Creativity)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	b := &boundSession{
		handle:         handle,
		contentType:    cfg.ContentType,
		conversationID: uuid.NewString(),
		startedAt:      c.now(),
	}
	log.Printf("Info: started conversation %s on %s for %q", b.conversationID, c.backend.Name(), cfg.ContentType)
	c.state = c.state.withSession(b)
	c.history = nil
	return b, nil
}

// begin and finish bracket a request. Both must be called with c.mu held.
func (c *Controller) begin() {
	c.loading = true
	c.errMsg = ""
	c.metrics = nil
}

func (c *Controller) finish(start time.Time) {
	c.metrics = &types.PerformanceMetrics{GenerationTime: utils.FormatSeconds(c.now().Sub(start))}
	c.loading = false
}

func (c *Controller) fail(prefix string, err error) {
	c.errMsg = fmt.Sprintf("%s: %s. %s", prefix, err.Error(), hint)
}

// send runs outside the lock. The request is detached from ctx's
// cancellation: once issued it runs until the backend answers.
func send(ctx context.Context, b *boundSession, text string) (string, error) {
	if b == nil || b.handle == nil {
		return "", &PreconditionError{Op: "send message", Err: ErrNoSession}
	}
	return b.handle.SendMessage(context.WithoutCancel(ctx), text)
}
