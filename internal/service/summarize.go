package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cloo-solutions/quarry/internal/domain"
)

// DefaultSummaryTopN is the default number of documents to summarize.
const DefaultSummaryTopN = 3

// SummarizerService aggregates retrieved local chunks by document and asks
// the generation model for one strictly-grounded summary per top document.
type SummarizerService struct {
	llm     CompletionClient
	topN    int
	timeout time.Duration
}

// NewSummarizerService creates a new SummarizerService instance
func NewSummarizerService(llm CompletionClient, topN int, timeout time.Duration) *SummarizerService {
	if topN <= 0 {
		topN = DefaultSummaryTopN
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &SummarizerService{llm: llm, topN: topN, timeout: timeout}
}

// Summarize groups local chunk results by title, ranks groups by chunk count
// (ties keep first-seen order), and summarizes the top N. Zero input yields
// zero summaries without calling the model.
func (s *SummarizerService) Summarize(ctx context.Context, local []domain.RetrievedResult) ([]domain.DocumentSummary, error) {
	if len(local) == 0 {
		return []domain.DocumentSummary{}, nil
	}
	if s.llm == nil {
		return nil, domain.ErrGenerationUnavailable
	}

	groups := make(map[string][]domain.RetrievedResult)
	order := make([]string, 0)
	for _, r := range local {
		if _, seen := groups[r.Title]; !seen {
			order = append(order, r.Title)
		}
		groups[r.Title] = append(groups[r.Title], r)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return len(groups[order[i]]) > len(groups[order[j]])
	})

	topN := s.topN
	if topN > len(order) {
		topN = len(order)
	}

	summaries := make([]domain.DocumentSummary, 0, topN)
	for _, title := range order[:topN] {
		chunks := groups[title]
		sort.SliceStable(chunks, func(i, j int) bool {
			return chunks[i].ChunkIndex < chunks[j].ChunkIndex
		})

		contents := make([]string, len(chunks))
		for i, c := range chunks {
			contents[i] = c.Content
		}

		prompt := buildSummaryPrompt(title, strings.Join(contents, "\n\n"))

		llmCtx, cancel := context.WithTimeout(ctx, s.timeout)
		summary, err := s.llm.Complete(llmCtx, prompt)
		cancel()
		if err != nil {
			return nil, domain.GenerationError(fmt.Errorf("summarizing %q: %w", title, err))
		}

		summaries = append(summaries, domain.DocumentSummary{
			Title:      title,
			Summary:    summary,
			ChunksUsed: len(chunks),
		})
	}

	return summaries, nil
}

func buildSummaryPrompt(title, content string) string {
	var b strings.Builder
	b.WriteString("You are an AI assistant summarizing a document for evidence display.\n\n")
	b.WriteString("RULES:\n")
	b.WriteString("1. Use ONLY the provided content\n")
	b.WriteString("2. Do NOT add external knowledge\n")
	b.WriteString("3. Produce a concise, factual summary\n")
	b.WriteString("4. Do NOT hallucinate\n\n")
	b.WriteString("DOCUMENT TITLE:\n")
	b.WriteString(title)
	b.WriteString("\n\nCONTENT:\n")
	b.WriteString(content)
	b.WriteString("\n\nSUMMARY:\n")
	return b.String()
}
