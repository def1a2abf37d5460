package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/mailsift/core"
	"github.com/poiesic/mailsift/mailbox"
)

type stubSource struct {
	emails   []core.Email
	err      error
	released bool
}

func (s *stubSource) FetchEmails(_ context.Context, _ string, _ int) ([]core.Email, error) {
	return s.emails, s.err
}

func (s *stubSource) Release() { s.released = true }

type stubSearcher struct {
	result *core.SearchResult
	err    error
	gotReq *core.SearchRequest
	corpus []core.Email
}

func (s *stubSearcher) Search(_ context.Context, emails []core.Email, request core.SearchRequest) (*core.SearchResult, error) {
	s.corpus = emails
	s.gotReq = &request
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func testEmails() []core.Email {
	return []core.Email{
		{Id: 1, Subject: "Team standup notes", From: "alice@example.com", Date: "Mon, 02 Jan 2006 15:04:05 +0000", Body: "notes from standup"},
		{Id: 2, Subject: "Invoice #42", From: "billing@example.com", Date: "Tue, 03 Jan 2006 10:00:00 +0000", Body: "your invoice is attached"},
	}
}

func newTestServer(t *testing.T, source *stubSource, searcher *stubSearcher) (*Server, *mailbox.Params) {
	t.Helper()
	var gotParams mailbox.Params
	factory := func(params mailbox.Params) (EmailSource, error) {
		gotParams = params
		if params.Host == "" {
			return nil, mailbox.ErrHostRequired
		}
		return source, nil
	}
	server, err := NewServer(factory, searcher)
	require.NoError(t, err)
	return server, &gotParams
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

const credentials = `"imap_host": "imap.example.com", "email": "u@example.com", "password": "secret"`

func TestNewServer_Validation(t *testing.T) {
	_, err := NewServer(nil, &stubSearcher{})
	assert.ErrorIs(t, err, ErrSourceFactoryRequired)

	_, err = NewServer(func(mailbox.Params) (EmailSource, error) { return nil, nil }, nil)
	assert.ErrorIs(t, err, ErrSearcherRequired)
}

func TestIndex(t *testing.T) {
	server, _ := newTestServer(t, &stubSource{}, &stubSearcher{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/semantic-search")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestFetch(t *testing.T) {
	source := &stubSource{emails: testEmails()}
	server, gotParams := newTestServer(t, source, &stubSearcher{})

	rec := postJSON(t, server.Router(), "/fetch", `{`+credentials+`, "folder": "Archive", "limit": 10}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Emails []map[string]any `json:"emails"`
		Count  int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Len(t, resp.Emails, 2)
	assert.Equal(t, "Team standup notes", resp.Emails[0]["subject"])
	assert.Equal(t, "1", resp.Emails[0]["id"])

	assert.Equal(t, "imap.example.com", gotParams.Host)
	assert.Equal(t, "u@example.com", gotParams.Username)
	assert.Equal(t, "secret", gotParams.Password)
	assert.True(t, source.released)
}

func TestFetch_InvalidJSON(t *testing.T) {
	server, _ := newTestServer(t, &stubSource{}, &stubSearcher{})
	rec := postJSON(t, server.Router(), "/fetch", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFetch_MissingHost(t *testing.T) {
	server, _ := newTestServer(t, &stubSource{}, &stubSearcher{})
	rec := postJSON(t, server.Router(), "/fetch", `{"email": "u@example.com", "password": "secret"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFetch_SourceUnavailable(t *testing.T) {
	source := &stubSource{err: fmt.Errorf("%w: connection refused", core.ErrSourceUnavailable)}
	server, _ := newTestServer(t, source, &stubSearcher{})

	rec := postJSON(t, server.Router(), "/fetch", `{`+credentials+`}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.True(t, source.released)
}

func TestSearch_Keyword(t *testing.T) {
	source := &stubSource{emails: testEmails()}
	server, _ := newTestServer(t, source, &stubSearcher{})

	rec := postJSON(t, server.Router(), "/search", `{`+credentials+`, "keyword": "invoice"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Matches []map[string]any `json:"matches"`
		Count   int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Invoice #42", resp.Matches[0]["subject"])
}

func TestSearch_MissingKeyword(t *testing.T) {
	server, _ := newTestServer(t, &stubSource{emails: testEmails()}, &stubSearcher{})
	rec := postJSON(t, server.Router(), "/search", `{`+credentials+`}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSemanticSearch(t *testing.T) {
	emails := testEmails()
	searcher := &stubSearcher{result: &core.SearchResult{
		Results: []core.ScoredEmail{
			{Email: emails[0], Score: 0.62, Category: core.ScoreCategoryHigh},
		},
		TotalFound:    1,
		ThresholdUsed: 0.1,
		Query:         "standup notes",
		Model:         "mxbai-embed-large",
	}}
	server, _ := newTestServer(t, &stubSource{emails: emails}, searcher)

	rec := postJSON(t, server.Router(), "/semantic-search",
		`{`+credentials+`, "query": "standup notes", "top_k": 3, "min_threshold": 0.2}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, searcher.gotReq)
	assert.Equal(t, "standup notes", searcher.gotReq.Query)
	assert.Equal(t, 3, searcher.gotReq.TopK)
	assert.InDelta(t, 0.2, searcher.gotReq.MinThreshold, 1e-6)
	assert.Len(t, searcher.corpus, 2)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["total_found"])
	assert.Equal(t, "mxbai-embed-large", resp["model"])

	// Scores are hidden unless the request opts in.
	results := resp["results"].([]any)
	first := results[0].(map[string]any)
	assert.NotContains(t, first, "score")
	assert.NotContains(t, first, "category")
}

func TestSemanticSearch_IncludeScores(t *testing.T) {
	emails := testEmails()
	searcher := &stubSearcher{result: &core.SearchResult{
		Results: []core.ScoredEmail{
			{Email: emails[0], Score: 0.62, Category: core.ScoreCategoryHigh},
		},
		TotalFound: 1,
	}}
	server, _ := newTestServer(t, &stubSource{emails: emails}, searcher)

	rec := postJSON(t, server.Router(), "/semantic-search",
		`{`+credentials+`, "query": "standup notes", "include_scores": true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	first := resp["results"].([]any)[0].(map[string]any)
	assert.InDelta(t, 0.62, first["score"], 1e-6)
	assert.Equal(t, "high", first["category"])
}

func TestSemanticSearch_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid request", fmt.Errorf("%w: query is empty", core.ErrInvalidRequest), http.StatusBadRequest},
		{"model unavailable", fmt.Errorf("%w: load failed", core.ErrModelUnavailable), http.StatusServiceUnavailable},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, &stubSource{emails: testEmails()}, &stubSearcher{err: tt.err})
			rec := postJSON(t, server.Router(), "/semantic-search", `{`+credentials+`, "query": "q"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
