package mailsift

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/mailsift/ai"
	"github.com/poiesic/mailsift/core"
	"github.com/poiesic/mailsift/mailbox"
)

func testParams() mailbox.Params {
	return mailbox.Params{
		Host:     "imap.example.com",
		Username: "u@example.com",
		Password: "secret",
	}
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(testParams())
	require.NoError(t, err)
	defer client.Close()

	// Nothing is loaded until the first semantic search.
	assert.Equal(t, ai.StateUninitialized, client.Provider().State())
}

func TestNewClient_InvalidParams(t *testing.T) {
	_, err := NewClient(mailbox.Params{})
	assert.ErrorIs(t, err, mailbox.ErrHostRequired)
}

func TestNewClient_InvalidAIConfig(t *testing.T) {
	config := ai.DefaultConfig()
	config.PrimaryModel = ""
	_, err := NewClient(testParams(), WithAIConfig(config))
	assert.Error(t, err)
}

func TestSearchSemantic_NilRequest(t *testing.T) {
	client, err := NewClient(testParams())
	require.NoError(t, err)
	defer client.Close()

	_, err = client.SearchSemantic(context.Background(), nil, 0)
	assert.ErrorIs(t, err, core.ErrInvalidRequest)
}
