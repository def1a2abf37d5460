package core

import (
	"errors"
	"testing"
)

func TestValidateSearchRequest(t *testing.T) {
	tests := []struct {
		name    string
		request *SearchRequest
		wantErr error
	}{
		{
			name:    "valid request",
			request: &SearchRequest{Query: "meeting tomorrow", TopK: 5, MinThreshold: 0.1},
			wantErr: nil,
		},
		{
			name:    "negative threshold is legal",
			request: &SearchRequest{Query: "q", TopK: 1, MinThreshold: -0.5},
			wantErr: nil,
		},
		{
			name:    "threshold of 1.0 is legal and may return zero results",
			request: &SearchRequest{Query: "q", TopK: 1, MinThreshold: 1.0},
			wantErr: nil,
		},
		{
			name:    "nil request",
			request: nil,
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "empty query",
			request: &SearchRequest{Query: "", TopK: 5, MinThreshold: 0.1},
			wantErr: ErrEmptyQuery,
		},
		{
			name:    "whitespace-only query",
			request: &SearchRequest{Query: "   \n\t", TopK: 5, MinThreshold: 0.1},
			wantErr: ErrEmptyQuery,
		},
		{
			name:    "zero top_k",
			request: &SearchRequest{Query: "q", TopK: 0, MinThreshold: 0.1},
			wantErr: ErrInvalidTopK,
		},
		{
			name:    "negative top_k",
			request: &SearchRequest{Query: "q", TopK: -3, MinThreshold: 0.1},
			wantErr: ErrInvalidTopK,
		},
		{
			name:    "threshold above range",
			request: &SearchRequest{Query: "q", TopK: 5, MinThreshold: 1.5},
			wantErr: ErrInvalidThreshold,
		},
		{
			name:    "threshold below range",
			request: &SearchRequest{Query: "q", TopK: 5, MinThreshold: -1.01},
			wantErr: ErrInvalidThreshold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSearchRequest(tt.request)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			// All request validation failures are classified as invalid requests.
			if !errors.Is(err, ErrInvalidRequest) {
				t.Errorf("error %v does not wrap ErrInvalidRequest", err)
			}
		})
	}
}
