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


package openai

import (
	"context"

	"github.com/poiesic/mailsift/ai"
)

// NewProvider creates a lifecycle-managed embedding provider for the
// configured primary model, with the configured fallback model (if any)
// as second choice. Neither model is loaded until the first embed call.
func NewProvider(config *ai.Config, opts ...ai.ProviderOption) (*ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	primary := ai.ModelSource{
		Name: config.PrimaryModel,
		Open: func(ctx context.Context) (ai.Embedder, error) {
			return NewEmbedder(config, config.PrimaryModel)
		},
	}

	if config.FallbackModel != "" {
		fallback := ai.ModelSource{
			Name: config.FallbackModel,
			Open: func(ctx context.Context) (ai.Embedder, error) {
				return NewEmbedder(config, config.FallbackModel)
			},
		}
		opts = append([]ai.ProviderOption{ai.WithFallback(fallback)}, opts...)
	}

	return ai.NewProvider(primary, opts...)
}
