package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Email is an immutable message record produced by a mail source.
// The Date field is kept as the raw RFC 2822 header string; the search
// pipeline never interprets it.
type Email struct {
	Id      ID
	Subject string
	From    string
	Date    string
	Body    string
	Folder  string
}

// ContentKey returns the string hashed to derive the email's ID.
// Subject, sender and date together address a message well enough
// without depending on server-assigned UIDs.
func (e *Email) ContentKey() string {
	return e.Subject + "|" + e.From + "|" + e.Date
}

// ScoreCategory is a human-readable confidence bucket derived from a
// similarity score.
type ScoreCategory string

const (
	ScoreCategoryHigh    ScoreCategory = "high"
	ScoreCategoryMedium  ScoreCategory = "medium"
	ScoreCategoryLow     ScoreCategory = "low"
	ScoreCategoryVeryLow ScoreCategory = "very_low"
)

// Fixed category breakpoints. These are independent of any request
// threshold: a result passing a threshold below 0.1 is still "very_low".
const (
	HighScoreBreakpoint   float32 = 0.5
	MediumScoreBreakpoint float32 = 0.3
	LowScoreBreakpoint    float32 = 0.1
)

// CategorizeScore maps a similarity score onto its ScoreCategory.
func CategorizeScore(score float32) ScoreCategory {
	switch {
	case score >= HighScoreBreakpoint:
		return ScoreCategoryHigh
	case score >= MediumScoreBreakpoint:
		return ScoreCategoryMedium
	case score >= LowScoreBreakpoint:
		return ScoreCategoryLow
	default:
		return ScoreCategoryVeryLow
	}
}

// ScoredEmail pairs an email with its similarity score against a query.
// Never mutated after creation.
type ScoredEmail struct {
	Email    Email
	Score    float32
	Category ScoreCategory
}

// SearchRequest holds the parameters for one semantic search invocation.
type SearchRequest struct {
	Query        string
	TopK         int
	MinThreshold float32
	Folder       string

	// IncludeScores controls whether the presentation layer renders
	// per-result scores. The search pipeline always computes them.
	IncludeScores bool
}

// Default request parameters applied by ApplyDefaults.
const (
	DefaultTopK                 = 5
	DefaultMinThreshold float32 = 0.1
	DefaultFolder               = "INBOX"
)

// ApplyDefaults fills zero-valued optional fields with their defaults.
// The query is never defaulted; an empty query fails validation.
//
// A zero MinThreshold means unset. Callers that want every email scored
// regardless of similarity pass a small negative threshold instead;
// validation accepts the full [-1, 1] cosine range.
func (r *SearchRequest) ApplyDefaults() {
	if r.TopK == 0 {
		r.TopK = DefaultTopK
	}
	if r.MinThreshold == 0 {
		r.MinThreshold = DefaultMinThreshold
	}
	if r.Folder == "" {
		r.Folder = DefaultFolder
	}
}

// SearchResult is the complete outcome of one semantic search invocation.
type SearchResult struct {
	Results       []ScoredEmail // descending score, ties in corpus order
	TotalFound    int           // matches above threshold, before the top-k cap
	ThresholdUsed float32
	Query         string

	// Model names the embedding model that produced the result set and
	// Degraded reports whether it was the fallback model. Vectors from
	// different models live in different spaces, so callers must be able
	// to observe which one scored their results.
	Model    string
	Degraded bool
}
