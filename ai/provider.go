package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/poiesic/mailsift/core"
)

// State describes where a Provider is in its model lifecycle.
type State int32

const (
	// StateUninitialized means no embed call has been made yet.
	StateUninitialized State = iota
	// StateLoading means the first embed call is loading a model.
	StateLoading
	// StateReady means the primary model is loaded and pinned.
	StateReady
	// StateDegraded means the primary failed and the fallback model is
	// loaded and pinned instead.
	StateDegraded
	// StateFailed means no model could be loaded; every embed call fails
	// with core.ErrModelUnavailable until Reset.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateDegraded:
		return "degraded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// ModelSource describes a loadable embedding model.
type ModelSource struct {
	// Name identifies the model, e.g. "mxbai-embed-large".
	Name string

	// Open loads the model and returns an Embedder bound to it. Called at
	// most once per Provider lifecycle (until Reset).
	Open func(ctx context.Context) (Embedder, error)
}

// binding pins the loaded model for the life of the process. All vectors
// compared against each other must come from one binding.
type binding struct {
	embedder Embedder
	model    string
	degraded bool
}

// Provider is an Embedder with an explicit model lifecycle:
//
//	Uninitialized -> Loading -> Ready
//	                         -> Degraded  (primary failed, fallback loaded)
//	                         -> Failed    (no model could be loaded)
//
// The first embed call triggers loading; concurrent first calls are
// serialized so the model loads at most once. Once Ready or Degraded the
// same model instance serves every call without locking, which guarantees
// vector-space consistency across comparisons. A Failed provider rejects
// all calls until an operator calls Reset; it never retries on its own.
type Provider struct {
	primary  ModelSource
	fallback *ModelSource
	logger   *slog.Logger

	mu      sync.Mutex
	state   atomic.Int32
	binding atomic.Pointer[binding]
	loadErr error
}

var _ Embedder = (*Provider)(nil)

// ProviderOption configures a Provider.
type ProviderOption func(*Provider) error

// WithFallback sets a fallback model loaded when the primary fails.
func WithFallback(fallback ModelSource) ProviderOption {
	return func(p *Provider) error {
		if fallback.Name == "" || fallback.Open == nil {
			return ErrInvalidModelSource
		}
		p.fallback = &fallback
		return nil
	}
}

// WithProviderLogger sets a custom logger.
// Default is slog.Default().
func WithProviderLogger(logger *slog.Logger) ProviderOption {
	return func(p *Provider) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewProvider creates a provider for the given primary model. The model is
// not loaded until the first embed call.
func NewProvider(primary ModelSource, opts ...ProviderOption) (*Provider, error) {
	if primary.Name == "" || primary.Open == nil {
		return nil, ErrInvalidModelSource
	}

	p := &Provider{
		primary: primary,
		logger:  slog.Default().With("component", "embedding-provider"),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// EmbedText generates a vector embedding for a single text string,
// loading the model first if necessary.
func (p *Provider) EmbedText(ctx context.Context, text string) ([]float32, error) {
	b, err := p.ready(ctx)
	if err != nil {
		return nil, err
	}
	return b.embedder.EmbedText(ctx, text)
}

// EmbedTexts generates vector embeddings for multiple texts in a batch,
// loading the model first if necessary. All vectors come from the same
// model instance.
func (p *Provider) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	b, err := p.ready(ctx)
	if err != nil {
		return nil, err
	}
	return b.embedder.EmbedTexts(ctx, texts)
}

// State reports the provider's current lifecycle state.
func (p *Provider) State() State {
	return State(p.state.Load())
}

// ModelName returns the name of the pinned model, or "" before loading.
func (p *Provider) ModelName() string {
	if b := p.binding.Load(); b != nil {
		return b.model
	}
	return ""
}

// Degraded reports whether the provider is running on its fallback model.
func (p *Provider) Degraded() bool {
	if b := p.binding.Load(); b != nil {
		return b.degraded
	}
	return false
}

// Reset discards the pinned model and load failure so the next embed call
// attempts a fresh load. Intended for explicit operator action; vectors
// produced before and after a reset must not be compared.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.binding.Store(nil)
	p.loadErr = nil
	p.state.Store(int32(StateUninitialized))
	p.logger.Info("embedding provider reset")
}

// ready returns the pinned binding, loading a model on first use.
// Post-load calls take the lock-free fast path.
func (p *Provider) ready(ctx context.Context) (*binding, error) {
	if b := p.binding.Load(); b != nil {
		return b, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another caller may have finished loading while we waited.
	if b := p.binding.Load(); b != nil {
		return b, nil
	}

	if State(p.state.Load()) == StateFailed {
		return nil, fmt.Errorf("%w: %w", core.ErrModelUnavailable, p.loadErr)
	}

	p.state.Store(int32(StateLoading))

	embedder, err := p.primary.Open(ctx)
	if err == nil {
		b := &binding{embedder: embedder, model: p.primary.Name}
		p.binding.Store(b)
		p.state.Store(int32(StateReady))
		p.logger.Info("embedding model loaded", "model", p.primary.Name)
		return b, nil
	}

	p.logger.Warn("primary embedding model failed to load",
		"model", p.primary.Name, "err", err)

	if p.fallback != nil {
		fallbackEmbedder, fallbackErr := p.fallback.Open(ctx)
		if fallbackErr == nil {
			b := &binding{embedder: fallbackEmbedder, model: p.fallback.Name, degraded: true}
			p.binding.Store(b)
			p.state.Store(int32(StateDegraded))
			p.logger.Warn("running degraded on fallback embedding model",
				"model", p.fallback.Name)
			return b, nil
		}
		p.logger.Error("fallback embedding model failed to load",
			"model", p.fallback.Name, "err", fallbackErr)
		err = errors.Join(err, fallbackErr)
	}

	p.loadErr = err
	p.state.Store(int32(StateFailed))
	return nil, fmt.Errorf("%w: %w", core.ErrModelUnavailable, err)
}
