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

import (
	"fmt"
	"strings"
)

// ValidateSearchRequest validates a SearchRequest according to domain rules.
//
// Validation rules:
//   - Query must not be empty or whitespace-only
//   - TopK must be at least 1
//   - MinThreshold must lie in [-1.0, 1.0], the cosine similarity range
//
// Folder is NOT validated here: an unknown folder surfaces as an opaque
// mail source error, not a request error.
func ValidateSearchRequest(request *SearchRequest) error {
	if request == nil {
		return fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}

	if strings.TrimSpace(request.Query) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrEmptyQuery)
	}

	if request.TopK < 1 {
		return fmt.Errorf("%w: %w (got %d)", ErrInvalidRequest, ErrInvalidTopK, request.TopK)
	}

	if request.MinThreshold < -1.0 || request.MinThreshold > 1.0 {
		return fmt.Errorf("%w: %w (got %g)", ErrInvalidRequest, ErrInvalidThreshold, request.MinThreshold)
	}

	return nil
}
