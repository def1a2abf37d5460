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


package core

import "errors"

// Error taxonomy surfaced to callers. Normalization and ranking are pure
// and never fail; only the embedding provider and the mail source boundary
// produce errors, and they map onto these three kinds.
var (
	// ErrModelUnavailable indicates no embedding model could be loaded.
	// Fatal for the current and all subsequent searches until an explicit
	// provider reset.
	ErrModelUnavailable = errors.New("embedding model unavailable")

	// ErrInvalidRequest indicates a malformed SearchRequest, rejected
	// before any embedding work is performed.
	ErrInvalidRequest = errors.New("invalid search request")

	// ErrSourceUnavailable wraps opaque mail source failures
	// (connection, authentication, folder). Forwarded, never retried.
	ErrSourceUnavailable = errors.New("mail source unavailable")
)

// Request validation errors, wrapped into ErrInvalidRequest.
var (
	// ErrEmptyQuery indicates the Query field is empty.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrInvalidTopK indicates TopK is not positive.
	ErrInvalidTopK = errors.New("top_k must be at least 1")

	// ErrInvalidThreshold indicates MinThreshold is outside the cosine
	// similarity range.
	ErrInvalidThreshold = errors.New("min_threshold must be between -1.0 and 1.0")
)
