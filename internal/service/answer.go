package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloo-solutions/quarry/internal/domain"
)

// NoInformationAnswer is returned without calling the generation model when
// every retrieval source came back empty.
const NoInformationAnswer = "I couldn't find any relevant information in the documents or the web."

// webReferenceFallback labels a web citation whose result carried no URL.
const webReferenceFallback = "Web Result"

// CompletionClient is the external generation model.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AnswerService assembles retrieved context into a grounded prompt and calls
// the generation model. The grounding instruction (answer only from context,
// decline otherwise) is a prompt-level contract, enforced best-effort by the
// model rather than in code.
type AnswerService struct {
	llm     CompletionClient
	timeout time.Duration
}

// NewAnswerService creates a new AnswerService instance
func NewAnswerService(llm CompletionClient, timeout time.Duration) *AnswerService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &AnswerService{llm: llm, timeout: timeout}
}

// GenerateAnswer builds the grounded prompt from local chunks followed by web
// results and returns the generated answer with one citation per context
// block, in assembly order.
func (s *AnswerService) GenerateAnswer(ctx context.Context, query string, local, web []domain.RetrievedResult) (string, []domain.AnswerSource, error) {
	if s.llm == nil {
		return "", nil, domain.ErrGenerationUnavailable
	}

	contextBlocks := make([]string, 0, len(local)+len(web))
	sources := make([]domain.AnswerSource, 0, len(local)+len(web))

	for _, r := range local {
		contextBlocks = append(contextBlocks, r.Content)
		sources = append(sources, domain.AnswerSource{
			SourceType: domain.AnswerSourceDoc,
			Reference:  fmt.Sprintf("%s – Chunk %d", r.Title, r.ChunkIndex),
		})
	}

	for _, r := range web {
		contextBlocks = append(contextBlocks, r.Content)
		reference := r.URL
		if reference == "" {
			reference = webReferenceFallback
		}
		sources = append(sources, domain.AnswerSource{
			SourceType: domain.AnswerSourceWeb,
			Reference:  reference,
		})
	}

	if len(contextBlocks) == 0 {
		return NoInformationAnswer, []domain.AnswerSource{}, nil
	}

	prompt := buildAnswerPrompt(query, contextBlocks)

	llmCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	answer, err := s.llm.Complete(llmCtx, prompt)
	if err != nil {
		return "", nil, domain.GenerationError(err)
	}

	return answer, sources, nil
}

func buildAnswerPrompt(query string, contextBlocks []string) string {
	var b strings.Builder
	b.WriteString("You are an intelligent AI assistant. ")
	b.WriteString("Answer the user's question ONLY using the provided context. ")
	b.WriteString("If the answer is not present in the context, say ")
	b.WriteString("'I could not find this information in the provided documents.'\n\n")
	b.WriteString("CONTEXT:\n")
	b.WriteString(strings.Join(contextBlocks, "\n\n"))
	b.WriteString("\n\nQUESTION:\n")
	b.WriteString(query)
	b.WriteString("\n\nANSWER:\n")
	return b.String()
}
