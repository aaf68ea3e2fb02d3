package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloo-solutions/quarry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCompletionClient mocks the generation model
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func TestGenerateAnswer_CitationOrderMatchesContextOrder(t *testing.T) {
	llm := new(MockCompletionClient)
	svc := NewAnswerService(llm, time.Minute)

	local := []domain.RetrievedResult{
		{Kind: domain.ResultKindDoc, Content: "chunk one", Title: "trees.pdf", ChunkIndex: 0},
		{Kind: domain.ResultKindDoc, Content: "chunk two", Title: "graphs.pdf", ChunkIndex: 3},
	}
	web := []domain.RetrievedResult{
		{Kind: domain.ResultKindWeb, Content: "web one", URL: "https://example.com/a"},
		{Kind: domain.ResultKindWeb, Content: "web two", URL: ""},
	}

	llm.On("Complete", mock.Anything, mock.Anything).Return("grounded answer", nil)

	answer, sources, err := svc.GenerateAnswer(context.Background(), "question?", local, web)

	require.NoError(t, err)
	assert.Equal(t, "grounded answer", answer)
	require.Len(t, sources, 4)
	assert.Equal(t, domain.AnswerSource{SourceType: "Doc", Reference: "trees.pdf – Chunk 0"}, sources[0])
	assert.Equal(t, domain.AnswerSource{SourceType: "Doc", Reference: "graphs.pdf – Chunk 3"}, sources[1])
	assert.Equal(t, domain.AnswerSource{SourceType: "Web", Reference: "https://example.com/a"}, sources[2])
	assert.Equal(t, domain.AnswerSource{SourceType: "Web", Reference: "Web Result"}, sources[3])
}

func TestGenerateAnswer_PromptContainsContextAndQuestion(t *testing.T) {
	llm := new(MockCompletionClient)
	svc := NewAnswerService(llm, time.Minute)

	local := []domain.RetrievedResult{
		{Kind: domain.ResultKindDoc, Content: "b-trees store many keys per node", Title: "trees.pdf", ChunkIndex: 1},
	}

	var captured string
	llm.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		captured = prompt
		return true
	})).Return("answer", nil)

	_, _, err := svc.GenerateAnswer(context.Background(), "how do b-trees work?", local, nil)

	require.NoError(t, err)
	assert.Contains(t, captured, "b-trees store many keys per node")
	assert.Contains(t, captured, "how do b-trees work?")
	assert.Contains(t, captured, "ONLY using the provided context")
	assert.Contains(t, captured, "I could not find this information")
}

func TestGenerateAnswer_EmptyContextSkipsModel(t *testing.T) {
	llm := new(MockCompletionClient)
	svc := NewAnswerService(llm, time.Minute)

	answer, sources, err := svc.GenerateAnswer(context.Background(), "question?", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, NoInformationAnswer, answer)
	assert.Empty(t, sources)
	llm.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestGenerateAnswer_ModelFailureSurfaced(t *testing.T) {
	llm := new(MockCompletionClient)
	svc := NewAnswerService(llm, time.Minute)

	local := []domain.RetrievedResult{
		{Kind: domain.ResultKindDoc, Content: "content", Title: "a.pdf", ChunkIndex: 0},
	}
	llm.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("model timeout"))

	_, _, err := svc.GenerateAnswer(context.Background(), "question?", local, nil)

	require.Error(t, err)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeUpstream, domainErr.Code)
}

func TestGenerateAnswer_NoModelConfigured(t *testing.T) {
	svc := NewAnswerService(nil, time.Minute)

	_, _, err := svc.GenerateAnswer(context.Background(), "question?", nil, nil)

	assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
}
