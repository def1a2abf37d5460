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


// Package ai provides the embedding abstractions used by mailsift.
//
// The Embedder interface hides the concrete embedding backend from the
// search pipeline. Provider wraps an Embedder with an explicit model
// lifecycle (lazy load, fallback, failure, reset) so callers can observe
// which model produced a result set and so vectors from two different
// models are never compared against each other.
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//     via langchaingo
//   - ai/mock: test doubles for unit testing without external services
//
// Public constructors (openai.NewEmbedder) return interface types to
// enforce abstraction. Test constructors (mock.NewMockEmbedder) return
// concrete types to enable behavior injection and call assertions.
//
// # Lifecycle
//
// A Provider starts Uninitialized. The first embed call moves it to
// Loading, then Ready on success, Degraded if only the fallback model
// loads, or Failed if nothing loads. Loading is serialized across
// concurrent first calls; once pinned, the model serves all calls without
// locking and is never swapped. Failed is sticky until Reset: the provider
// does not retry on its own.
package ai
