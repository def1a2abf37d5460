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


package mailsift

import (
	"context"
	"log/slog"

	"github.com/poiesic/mailsift/ai"
	"github.com/poiesic/mailsift/ai/openai"
	"github.com/poiesic/mailsift/core"
	"github.com/poiesic/mailsift/mailbox"
	"github.com/poiesic/mailsift/search"
)

// Client is the top-level entry point. It wires a mailbox, an embedding
// provider and a searcher together for one mail account.
type Client struct {
	mailbox  *mailbox.Client
	provider *ai.Provider
	searcher *search.Searcher
	logger   *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(config *ai.Config) ClientOption {
	return func(o *clientOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// NewClient creates a client for the given mail account. The embedding
// model is not loaded here; it loads lazily on the first semantic search.
func NewClient(params mailbox.Params, opts ...ClientOption) (*Client, error) {
	// Apply options
	options := &clientOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	box, err := mailbox.NewClient(params)
	if err != nil {
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		box.Release()
		return nil, err
	}

	searcher, err := search.NewSearcher(provider)
	if err != nil {
		box.Release()
		return nil, err
	}

	return &Client{
		mailbox:  box,
		provider: provider,
		searcher: searcher,
		logger:   slog.Default(),
	}, nil
}

// FetchEmails retrieves up to limit messages from the folder, newest first.
func (c *Client) FetchEmails(ctx context.Context, folder string, limit int) ([]core.Email, error) {
	return c.mailbox.FetchEmails(ctx, folder, limit)
}

// SearchKeyword fetches the folder and returns the emails matching the
// keyword. No embedding model is involved.
func (c *Client) SearchKeyword(ctx context.Context, folder string, limit int, keyword string) ([]core.Email, error) {
	emails, err := c.mailbox.FetchEmails(ctx, folder, limit)
	if err != nil {
		return nil, err
	}
	return search.MatchKeyword(emails, keyword), nil
}

// SearchSemantic fetches the request's folder and ranks the messages
// against the query by embedding similarity.
func (c *Client) SearchSemantic(ctx context.Context, request *core.SearchRequest, limit int) (*core.SearchResult, error) {
	if request == nil {
		return nil, core.ErrInvalidRequest
	}
	request.ApplyDefaults()

	emails, err := c.mailbox.FetchEmails(ctx, request.Folder, limit)
	if err != nil {
		return nil, err
	}
	return c.searcher.Search(ctx, emails, *request)
}

// Provider exposes the embedding provider, mainly so callers can inspect
// lifecycle state or reset a failed model.
func (c *Client) Provider() *ai.Provider {
	return c.provider
}

// Close releases the client's resources.
func (c *Client) Close() error {
	c.mailbox.Release()
	return nil
}
