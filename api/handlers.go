package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/poiesic/mailsift/core"
	"github.com/poiesic/mailsift/mailbox"
	"github.com/poiesic/mailsift/search"
)

// mailRequest is the shared request body. Every call carries its own
// credentials; the server stores none.
type mailRequest struct {
	IMAPHost string `json:"imap_host"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Folder   string `json:"folder"`
	Limit    int    `json:"limit"`

	// keyword search
	Keyword string `json:"keyword"`

	// semantic search
	Query         string  `json:"query"`
	TopK          int     `json:"top_k"`
	MinThreshold  float32 `json:"min_threshold"`
	IncludeScores bool    `json:"include_scores"`
}

type emailJSON struct {
	Id      string `json:"id"`
	Subject string `json:"subject"`
	From    string `json:"from"`
	Date    string `json:"date"`
	Body    string `json:"body"`
	Folder  string `json:"folder"`
}

type resultJSON struct {
	emailJSON
	Score    *float32           `json:"score,omitempty"`
	Category core.ScoreCategory `json:"category,omitempty"`
}

type fetchResponse struct {
	Emails []emailJSON `json:"emails"`
	Count  int         `json:"count"`
}

type searchResponse struct {
	Matches []emailJSON `json:"matches"`
	Count   int         `json:"count"`
}

type semanticResponse struct {
	Results       []resultJSON `json:"results"`
	TotalFound    int          `json:"total_found"`
	ThresholdUsed float32      `json:"threshold_used"`
	Query         string       `json:"query"`
	Model         string       `json:"model"`
	Degraded      bool         `json:"degraded"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "mailsift",
		"endpoints": []string{
			"POST /fetch",
			"POST /search",
			"POST /semantic-search",
		},
	})
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	_, emails, ok := s.fetchFromRequest(w, r)
	if !ok {
		return
	}

	out := make([]emailJSON, len(emails))
	for i, e := range emails {
		out[i] = toEmailJSON(e)
	}
	writeJSON(w, http.StatusOK, fetchResponse{Emails: out, Count: len(out)})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, emails, ok := s.fetchFromRequest(w, r)
	if !ok {
		return
	}
	if req.Keyword == "" {
		writeError(w, http.StatusBadRequest, "keyword is required")
		return
	}

	matches := search.MatchKeyword(emails, req.Keyword)
	out := make([]emailJSON, len(matches))
	for i, e := range matches {
		out[i] = toEmailJSON(e)
	}
	writeJSON(w, http.StatusOK, searchResponse{Matches: out, Count: len(out)})
}

func (s *Server) handleSemanticSearch(w http.ResponseWriter, r *http.Request) {
	req, emails, ok := s.fetchFromRequest(w, r)
	if !ok {
		return
	}

	searchReq := core.SearchRequest{
		Query:         req.Query,
		TopK:          req.TopK,
		MinThreshold:  req.MinThreshold,
		Folder:        req.Folder,
		IncludeScores: req.IncludeScores,
	}

	result, err := s.searcher.Search(r.Context(), emails, searchReq)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	out := make([]resultJSON, len(result.Results))
	for i, scored := range result.Results {
		out[i] = resultJSON{emailJSON: toEmailJSON(scored.Email)}
		if req.IncludeScores {
			score := scored.Score
			out[i].Score = &score
			out[i].Category = scored.Category
		}
	}

	writeJSON(w, http.StatusOK, semanticResponse{
		Results:       out,
		TotalFound:    result.TotalFound,
		ThresholdUsed: result.ThresholdUsed,
		Query:         result.Query,
		Model:         result.Model,
		Degraded:      result.Degraded,
	})
}

// fetchFromRequest decodes the body, opens a source for the request's
// credentials and fetches the folder. On failure it writes the error
// response and reports ok=false.
func (s *Server) fetchFromRequest(w http.ResponseWriter, r *http.Request) (*mailRequest, []core.Email, bool) {
	var req mailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, nil, false
	}

	source, err := s.newSource(mailbox.Params{
		Host:     req.IMAPHost,
		Username: req.Email,
		Password: req.Password,
	})
	if err != nil {
		// Factory failures are request problems (missing host or credentials).
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, false
	}
	defer source.Release()

	emails, err := source.FetchEmails(r.Context(), req.Folder, req.Limit)
	if err != nil {
		s.writeDomainError(w, err)
		return nil, nil, false
	}

	return &req, emails, true
}

// writeDomainError maps domain sentinels onto HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrSourceUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, core.ErrModelUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Error("unhandled error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func toEmailJSON(e core.Email) emailJSON {
	return emailJSON{
		Id:      strconv.FormatUint(uint64(e.Id), 10),
		Subject: e.Subject,
		From:    e.From,
		Date:    e.Date,
		Body:    e.Body,
		Folder:  e.Folder,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
