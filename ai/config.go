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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for embedding service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// PrimaryModel is the model identifier to use for text embeddings.
	// Example: "mxbai-embed-large", "text-embedding-3-small"
	PrimaryModel string

	// FallbackModel is a smaller model loaded when the primary fails.
	// Empty disables fallback. Vectors from the fallback live in a
	// different space than the primary's; results produced on the
	// fallback are reported as degraded.
	FallbackModel string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithPrimaryModel sets the primary embedding model identifier.
func WithPrimaryModel(model string) ConfigOption {
	return func(c *Config) {
		c.PrimaryModel = model
	}
}

// WithFallbackModel sets the fallback embedding model identifier.
// Pass "" to disable fallback.
func WithFallbackModel(model string) ConfigOption {
	return func(c *Config) {
		c.FallbackModel = model
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingHost: "http://localhost:11434/v1",
		PrimaryModel:  "mxbai-embed-large",
		FallbackModel: "all-minilm",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := NewConfig(
//	    WithEmbeddingHost("http://localhost:11434/v1"),
//	    WithPrimaryModel("text-embedding-3-small"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to the host if missing, which is
// required by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.PrimaryModel == "" {
		return errors.New("ai config: PrimaryModel is required")
	}
	if c.FallbackModel == c.PrimaryModel && c.FallbackModel != "" {
		return errors.New("ai config: FallbackModel must differ from PrimaryModel")
	}
	return nil
}
