package search

import (
	"strings"

	"github.com/poiesic/mailsift/core"
)

// Stop words to filter out when checking for all-words matches
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
}

// MatchKeyword returns the emails matching a keyword, preserving input
// order. This is the exact-match capability, distinct from semantic
// search: a message matches when the keyword appears as a substring of
// its subject, sender, date or body, or, for multi-word keywords, when
// every non-stop-word appears somewhere in the body.
func MatchKeyword(emails []core.Email, keyword string) []core.Email {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil
	}

	lowered := strings.ToLower(keyword)
	var matched []core.Email
	for _, email := range emails {
		if matchesKeyword(&email, lowered) || containsAllQueryWords(email.Body, keyword) {
			matched = append(matched, email)
		}
	}
	return matched
}

// matchesKeyword checks the lowercased keyword as a substring of each
// searchable field.
func matchesKeyword(email *core.Email, lowered string) bool {
	return strings.Contains(strings.ToLower(email.Subject), lowered) ||
		strings.Contains(strings.ToLower(email.From), lowered) ||
		strings.Contains(strings.ToLower(email.Date), lowered) ||
		strings.Contains(strings.ToLower(email.Body), lowered)
}

// tokenizeAndFilter splits text into words, lowercases, trims punctuation, and removes stop words
func tokenizeAndFilter(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		// Lowercase and trim punctuation
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))

		// Skip stop words and empty strings
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

// containsAllQueryWords checks if all query words (after filtering) appear in the document
func containsAllQueryWords(document, query string) bool {
	queryWords := tokenizeAndFilter(query)
	if len(queryWords) == 0 {
		return false
	}

	docWords := tokenizeAndFilter(document)
	docWordSet := make(map[string]bool, len(docWords))
	for _, word := range docWords {
		docWordSet[word] = true
	}

	// Check if all query words exist in document
	for _, qWord := range queryWords {
		if !docWordSet[qWord] {
			return false
		}
	}

	return true
}
