package search

import (
	"testing"

	"github.com/poiesic/mailsift/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchKeyword(t *testing.T) {
	emails := []core.Email{
		{Subject: "Invoice for March", From: "billing@vendor.com", Date: "Mon, 02 Mar 2026", Body: "Your invoice is attached."},
		{Subject: "Team offsite", From: "events@corp.com", Date: "Tue, 03 Mar 2026", Body: "The offsite is in Lisbon this year."},
		{Subject: "Re: budget", From: "cfo@corp.com", Date: "Wed, 04 Mar 2026", Body: "Approved, please proceed with the invoice."},
	}

	t.Run("matches subject", func(t *testing.T) {
		matched := MatchKeyword(emails, "offsite")
		require.Len(t, matched, 1)
		assert.Equal(t, "Team offsite", matched[0].Subject)
	})

	t.Run("matches body across emails preserving order", func(t *testing.T) {
		matched := MatchKeyword(emails, "invoice")
		require.Len(t, matched, 2)
		assert.Equal(t, "Invoice for March", matched[0].Subject)
		assert.Equal(t, "Re: budget", matched[1].Subject)
	})

	t.Run("matches sender", func(t *testing.T) {
		matched := MatchKeyword(emails, "billing@vendor")
		require.Len(t, matched, 1)
	})

	t.Run("matches date", func(t *testing.T) {
		matched := MatchKeyword(emails, "04 Mar")
		require.Len(t, matched, 1)
		assert.Equal(t, "Re: budget", matched[0].Subject)
	})

	t.Run("case insensitive", func(t *testing.T) {
		matched := MatchKeyword(emails, "LISBON")
		require.Len(t, matched, 1)
	})

	t.Run("multi-word keyword matches when all words appear", func(t *testing.T) {
		matched := MatchKeyword(emails, "invoice attached")
		require.Len(t, matched, 1)
		assert.Equal(t, "Invoice for March", matched[0].Subject)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, MatchKeyword(emails, "kubernetes"))
	})

	t.Run("empty keyword matches nothing", func(t *testing.T) {
		assert.Empty(t, MatchKeyword(emails, "   "))
	})
}

func TestTokenizeAndFilter(t *testing.T) {
	tokens := tokenizeAndFilter("The invoice, for (March) is attached!")
	assert.Equal(t, []string{"invoice", "march", "attached"}, tokens)
}

func TestContainsAllQueryWords(t *testing.T) {
	doc := "The quarterly invoice is attached for your review."

	assert.True(t, containsAllQueryWords(doc, "invoice review"))
	assert.True(t, containsAllQueryWords(doc, "the invoice"), "stop words are ignored")
	assert.False(t, containsAllQueryWords(doc, "invoice missing"))
	assert.False(t, containsAllQueryWords(doc, "the a is"), "stop-word-only query never matches")
}
