package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/mailsift/ai"
	"github.com/poiesic/mailsift/core"
	"github.com/poiesic/mailsift/normalize"
)

// emptyContentPlaceholder is embedded in place of a message whose subject
// and cleaned body are both empty, so empty content produces a well-defined
// vector instead of an error.
const emptyContentPlaceholder = "empty email"

// EmbeddingProvider is the embedding source used by the Searcher. Besides
// embedding, the searcher needs to observe the provider's lifecycle so
// result sets can report which model (and which vector space) scored them.
type EmbeddingProvider interface {
	ai.Embedder

	// ModelName returns the name of the pinned model, or "" before loading.
	ModelName() string

	// State reports the provider's lifecycle state.
	State() ai.State

	// Degraded reports whether the provider runs on its fallback model.
	Degraded() bool
}

// Searcher ranks emails against a query by semantic similarity.
type Searcher struct {
	provider EmbeddingProvider
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(provider EmbeddingProvider, opts ...Option) (*Searcher, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}

	s := &Searcher{
		provider: provider,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search ranks the given emails against the request query.
// Returns up to request.TopK results above request.MinThreshold,
// ordered by descending similarity.
func (s *Searcher) Search(ctx context.Context, emails []core.Email, request core.SearchRequest) (*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, emails, request, nil)
}

// SearchWithMonitor is Search with stage callbacks for observation.
//
// Pipeline: validate the request, normalize every body, embed the query
// and all documents in one batch call (one model, one vector space), score
// by cosine similarity, then rank and filter. A provider that cannot load
// any model fails the whole request; semantic search never silently falls
// back to keyword matching.
func (s *Searcher) SearchWithMonitor(ctx context.Context, emails []core.Email, request core.SearchRequest, monitor SearchMonitor) (*core.SearchResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	request.ApplyDefaults()
	if err := core.ValidateSearchRequest(&request); err != nil {
		s.logger.Warn("rejecting search request", "err", err)
		return nil, err
	}

	monitor.Start(request.Query)

	result := &core.SearchResult{
		Results:       []core.ScoredEmail{},
		ThresholdUsed: request.MinThreshold,
		Query:         request.Query,
	}

	// An empty corpus is a valid search with an empty outcome; it never
	// touches the embedding model.
	if len(emails) == 0 {
		monitor.Finish(result)
		return result, nil
	}

	// 1. Normalize every email body.
	cleaned := make([]string, len(emails))
	for i := range emails {
		cleaned[i] = normalize.Clean(emails[i].Body)
	}
	monitor.AfterNormalize(cleaned)

	// 2. Embed the query and all documents in a single batch call so every
	// vector comes from the same model instance.
	texts := make([]string, 0, len(emails)+1)
	texts = append(texts, request.Query)
	for i := range emails {
		texts = append(texts, embeddingText(&emails[i], cleaned[i]))
	}

	vectors, err := s.provider.EmbedTexts(ctx, texts)
	if err != nil {
		s.logger.Error("error generating embeddings", "query", request.Query,
			"documents", len(emails), "err", err)
		return nil, err
	}
	if len(vectors) != len(texts) {
		s.logger.Error("embedding result mismatch",
			"expected", len(texts), "received", len(vectors))
		return nil, ErrEmbeddingMismatch
	}
	monitor.AfterEmbedding(s.provider.ModelName(), len(vectors[0]))

	// 3. Score every document against the query.
	scores := scoreAll(vectors[0], vectors[1:])
	monitor.AfterScoring(scores)

	// 4. Rank, filter and cap.
	ranked := Rank(emails, scores, request.MinThreshold, request.TopK)
	ranked.Query = request.Query
	ranked.Model = s.provider.ModelName()
	ranked.Degraded = s.provider.Degraded()

	s.logger.Debug("semantic search complete", "query", request.Query,
		"corpus", len(emails), "found", ranked.TotalFound,
		"returned", len(ranked.Results), "model", ranked.Model)

	monitor.Finish(ranked)
	return ranked, nil
}

// embeddingText composes the string embedded for one email. The subject is
// repeated to weight it against the (usually much longer) body.
func embeddingText(email *core.Email, cleanedBody string) string {
	subject := strings.TrimSpace(email.Subject)
	combined := strings.TrimSpace(subject + " " + subject + " " + cleanedBody)
	if combined == "" {
		return emptyContentPlaceholder
	}
	return combined
}
