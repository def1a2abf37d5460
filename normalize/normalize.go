package normalize

import (
	"html"
	"regexp"
	"strings"
)

// MaxCleanedLength bounds the cleaned text handed to the embedding model.
// Truncation is a hard character cutoff, not sentence-aware, and is lossy.
const MaxCleanedLength = 2000

var (
	tagRe   = regexp.MustCompile(`<[^>]+>`)
	urlRe   = regexp.MustCompile(`(?i)\b[a-z][a-z0-9+.-]*://\S+`)
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// Reply-chain headers that introduce quoted content. Everything from
	// the matching line onward is dropped.
	replyHeaderRe = regexp.MustCompile(`(?i)^(on .+ wrote:\s*|from: .*sent: .*|-+\s*original message\s*-+\s*)$`)

	// A standalone "--" line marks the start of a signature block.
	sigDelimRe = regexp.MustCompile(`^--\s*$`)

	wsRe = regexp.MustCompile(`\s+`)
)

// Closings that begin a trailing signature or boilerplate footer block.
// Matched case-insensitively against the start of a line; the line and
// everything after it are dropped. Heuristic: a legitimate mid-body line
// starting with one of these is stripped too.
var signaturePrefixes = []string{
	"sincerely",
	"best regards",
	"kind regards",
	"warm regards",
	"sent from",
	"unsubscribe",
	"privacy policy",
	"terms of service",
}

// Clean strips a raw email body down to the plain text that carries its
// meaning. It is a pure, deterministic function of its input and a fixed
// point: Clean(Clean(x)) == Clean(x).
//
// Steps, in order: decode entities and strip markup, strip URLs and bare
// addresses, drop quoted-reply lines and trailing reply blocks, drop
// trailing signature blocks, collapse whitespace, truncate to
// MaxCleanedLength. An empty or whitespace-only body cleans to "".
func Clean(raw string) string {
	// Every step in cleanOnce leaves the text unchanged or strictly shorter,
	// so iterating to a stable string terminates.
	text := raw
	for {
		next := cleanOnce(text)
		if next == text {
			return text
		}
		text = next
	}
}

func cleanOnce(text string) string {
	// Markup first: later steps assume plain text. Entity decoding unwraps
	// one escaping level at a time, so repeat it until the text settles;
	// nested escaping like &amp;amp;gt; needs several rounds.
	for {
		decoded := html.UnescapeString(text)
		if decoded == text {
			break
		}
		text = decoded
	}
	text = tagRe.ReplaceAllString(text, " ")

	text = urlRe.ReplaceAllString(text, " ")
	text = emailRe.ReplaceAllString(text, " ")

	text = dropQuotedAndSignatureBlocks(text)

	text = wsRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if len(text) > MaxCleanedLength {
		runes := []rune(text)
		if len(runes) > MaxCleanedLength {
			text = strings.TrimSpace(string(runes[:MaxCleanedLength]))
		}
	}

	return text
}

// dropQuotedAndSignatureBlocks removes quoted-reply lines and truncates the
// body at the first reply-chain header or signature marker.
func dropQuotedAndSignatureBlocks(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Quoted reply: skip the line, keep scanning.
		if strings.HasPrefix(trimmed, ">") {
			continue
		}

		// Reply-chain header or signature start: drop the rest of the body.
		if replyHeaderRe.MatchString(trimmed) || sigDelimRe.MatchString(trimmed) {
			break
		}
		if startsWithSignaturePrefix(trimmed) {
			break
		}

		kept = append(kept, line)
	}

	return strings.Join(kept, "\n")
}

func startsWithSignaturePrefix(line string) bool {
	lower := strings.ToLower(line)
	for _, prefix := range signaturePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
