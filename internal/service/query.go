package service

import (
	"context"
	"log"
	"time"

	"github.com/cloo-solutions/quarry/internal/domain"
	"github.com/cloo-solutions/quarry/internal/telemetry"
)

// QueryService runs the full ask pipeline: route, retrieve, synthesize,
// summarize.
type QueryService struct {
	retrieval  *RetrievalService
	answer     *AnswerService
	summarizer *SummarizerService
	queryLog   QueryLogRepository
}

// NewQueryService creates a new QueryService instance. queryLog may be nil.
func NewQueryService(retrieval *RetrievalService, answer *AnswerService, summarizer *SummarizerService, queryLog QueryLogRepository) *QueryService {
	return &QueryService{
		retrieval:  retrieval,
		answer:     answer,
		summarizer: summarizer,
		queryLog:   queryLog,
	}
}

// AskInput is one user query plus the forced web search toggle.
type AskInput struct {
	Query    string
	ForceWeb bool
}

// AskOutput is everything the surface displays: the answer with citations,
// the routing label, the raw evidence from each source, and per-document
// summaries.
type AskOutput struct {
	Answer    string
	Route     domain.QueryType
	Sources   []domain.AnswerSource
	Local     []domain.RetrievedResult
	Web       []domain.RetrievedResult
	Summaries []domain.DocumentSummary
}

// Ask processes one query end to end. Retrieval failures degrade per source;
// generation failures are surfaced. When every source comes back empty the
// fixed no-information answer is returned and the model is never called.
func (s *QueryService) Ask(ctx context.Context, input AskInput) (*AskOutput, error) {
	if input.Query == "" {
		return nil, domain.ErrEmptyQuery
	}

	start := time.Now()

	ctx, span := telemetry.StartSpan(ctx, "query.ask", telemetry.SpanAttributes{Operation: "ask"})
	defer span.End()

	retrieved := s.retrieval.Retrieve(ctx, input.Query, input.ForceWeb)

	out := &AskOutput{
		Route:     retrieved.Route,
		Local:     retrieved.Local,
		Web:       retrieved.Web,
		Sources:   []domain.AnswerSource{},
		Summaries: []domain.DocumentSummary{},
	}

	if retrieved.Empty() {
		out.Answer = NoInformationAnswer
		s.logQuery(ctx, input, retrieved, false, start)
		return out, nil
	}

	answer, sources, err := s.answer.GenerateAnswer(ctx, input.Query, retrieved.Local, retrieved.Web)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	out.Answer = answer
	out.Sources = sources

	if len(retrieved.Local) > 0 {
		summaries, err := s.summarizer.Summarize(ctx, retrieved.Local)
		if err != nil {
			// Summaries are secondary evidence; the answer stands without them.
			log.Printf("summarization failed: %v", err)
			telemetry.CaptureError(ctx, err)
		} else {
			out.Summaries = summaries
		}
	}

	s.logQuery(ctx, input, retrieved, true, start)
	return out, nil
}

func (s *QueryService) logQuery(ctx context.Context, input AskInput, retrieved *RetrievalOutput, answered bool, start time.Time) {
	if s.queryLog == nil {
		return
	}
	entry := QueryLogEntry{
		Timestamp:    start.UTC(),
		Query:        input.Query,
		Route:        retrieved.Route,
		ForcedWeb:    input.ForceWeb,
		LocalResults: len(retrieved.Local),
		WebResults:   len(retrieved.Web),
		Answered:     answered,
		DurationMS:   time.Since(start).Milliseconds(),
	}
	if err := s.queryLog.Append(ctx, entry); err != nil {
		log.Printf("failed to append query log: %v", err)
	}
}
