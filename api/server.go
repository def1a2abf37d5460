// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/poiesic/mailsift/core"
	"github.com/poiesic/mailsift/mailbox"
)

// EmailSource yields emails from a mail account. Implemented by
// mailbox.Client; stubbed in handler tests.
type EmailSource interface {
	FetchEmails(ctx context.Context, folder string, limit int) ([]core.Email, error)
	Release()
}

// SourceFactory opens an EmailSource for per-request credentials. The
// server holds no mail credentials of its own; every request carries
// them, and the source lives for that request only.
type SourceFactory func(params mailbox.Params) (EmailSource, error)

// Searcher runs a semantic search over a fetched corpus. Implemented by
// search.Searcher.
type Searcher interface {
	Search(ctx context.Context, emails []core.Email, request core.SearchRequest) (*core.SearchResult, error)
}

// Server exposes fetch, keyword search and semantic search over HTTP.
type Server struct {
	newSource SourceFactory
	searcher  Searcher
	logger    *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server) error

// WithServerLogger sets a custom logger.
// Default is slog.Default().
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewServer creates an HTTP server around a source factory and a searcher.
func NewServer(newSource SourceFactory, searcher Searcher, opts ...ServerOption) (*Server, error) {
	if newSource == nil {
		return nil, ErrSourceFactoryRequired
	}
	if searcher == nil {
		return nil, ErrSearcherRequired
	}

	s := &Server{
		newSource: newSource,
		searcher:  searcher,
		logger:    slog.Default().With("component", "api"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Router builds the chi router with request id, logging and recovery
// middleware applied to every route.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.logger))
	r.Use(jsonRecoverer(s.logger))

	r.Get("/", s.handleIndex)
	r.Post("/fetch", s.handleFetch)
	r.Post("/search", s.handleSearch)
	r.Post("/semantic-search", s.handleSemanticSearch)

	return r
}
