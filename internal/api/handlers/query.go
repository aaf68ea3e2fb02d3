package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/quarry/internal/api"
	"github.com/cloo-solutions/quarry/internal/domain"
	"github.com/cloo-solutions/quarry/internal/service"
)

type AskService interface {
	Ask(ctx context.Context, input service.AskInput) (*service.AskOutput, error)
}

type QueryHandler struct {
	svc AskService
}

func NewQueryHandler(svc AskService) *QueryHandler {
	return &QueryHandler{svc: svc}
}

type AskRequest struct {
	Query    string `json:"query"`
	ForceWeb bool   `json:"force_web"`
}

type SourceResponse struct {
	SourceType string `json:"source_type"`
	Reference  string `json:"reference"`
}

type ResultResponse struct {
	Kind       string  `json:"kind"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	URL        string  `json:"url,omitempty"`
	SourceType string  `json:"source_type,omitempty"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float32 `json:"score"`
}

type SummaryResponse struct {
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	ChunksUsed int    `json:"chunks_used"`
}

type AskResponse struct {
	Answer     string            `json:"answer"`
	Route      string            `json:"route"`
	Sources    []SourceResponse  `json:"sources"`
	Evidence   []ResultResponse  `json:"evidence"`
	WebResults []ResultResponse  `json:"web_results"`
	Summaries  []SummaryResponse `json:"summaries"`
}

func resultsToResponse(results []domain.RetrievedResult) []ResultResponse {
	out := make([]ResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, ResultResponse{
			Kind:       string(r.Kind),
			Title:      r.Title,
			Content:    r.Content,
			URL:        r.URL,
			SourceType: string(r.SourceType),
			ChunkIndex: r.ChunkIndex,
			Score:      r.Score,
		})
	}
	return out
}

func askToResponse(out *service.AskOutput) *AskResponse {
	sources := make([]SourceResponse, 0, len(out.Sources))
	for _, s := range out.Sources {
		sources = append(sources, SourceResponse{
			SourceType: s.SourceType,
			Reference:  s.Reference,
		})
	}

	summaries := make([]SummaryResponse, 0, len(out.Summaries))
	for _, s := range out.Summaries {
		summaries = append(summaries, SummaryResponse{
			Title:      s.Title,
			Summary:    s.Summary,
			ChunksUsed: s.ChunksUsed,
		})
	}

	return &AskResponse{
		Answer:     out.Answer,
		Route:      string(out.Route),
		Sources:    sources,
		Evidence:   resultsToResponse(out.Local),
		WebResults: resultsToResponse(out.Web),
		Summaries:  summaries,
	}
}

func (h *QueryHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Query == "" {
		api.Error(w, http.StatusBadRequest, "query is required")
		return
	}

	out, err := h.svc.Ask(r.Context(), service.AskInput{
		Query:    req.Query,
		ForceWeb: req.ForceWeb,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, askToResponse(out))
}
