package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockEmbeddingAPI struct {
	mock.Mock
}

func (m *MockEmbeddingAPI) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type MockCompletionAPI struct {
	mock.Mock
}

func (m *MockCompletionAPI) CreateCompletion(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func newTestClient(embeddings EmbeddingAPI, completions CompletionAPI, dimensions int) *Client {
	return &Client{
		embeddings:  embeddings,
		completions: completions,
		model:       string(DefaultEmbeddingModel),
		dimensions:  dimensions,
	}
}

func TestGenerateEmbedding_Success(t *testing.T) {
	api := new(MockEmbeddingAPI)
	client := newTestClient(api, nil, 3)

	ctx := context.Background()
	api.On("CreateEmbeddings", ctx, "hello").Return([]float32{0.1, 0.2, 0.3}, nil)

	embedding, err := client.GenerateEmbedding(ctx, "hello")

	assert.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, embedding)
	api.AssertExpectations(t)
}

func TestGenerateEmbedding_EmptyText(t *testing.T) {
	client := newTestClient(new(MockEmbeddingAPI), nil, 3)

	_, err := client.GenerateEmbedding(context.Background(), "")

	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestGenerateEmbedding_WrongDimensions(t *testing.T) {
	api := new(MockEmbeddingAPI)
	client := newTestClient(api, nil, 1536)

	ctx := context.Background()
	api.On("CreateEmbeddings", ctx, "hello").Return([]float32{0.1, 0.2}, nil)

	_, err := client.GenerateEmbedding(ctx, "hello")

	assert.ErrorIs(t, err, ErrWrongDimensions)
}

func TestGenerateEmbedding_APIError(t *testing.T) {
	api := new(MockEmbeddingAPI)
	client := newTestClient(api, nil, 3)

	ctx := context.Background()
	api.On("CreateEmbeddings", ctx, "hello").Return(nil, errors.New("quota exceeded"))

	_, err := client.GenerateEmbedding(ctx, "hello")

	assert.ErrorContains(t, err, "quota exceeded")
}

func TestComplete_Success(t *testing.T) {
	api := new(MockCompletionAPI)
	client := newTestClient(nil, api, 3)

	ctx := context.Background()
	api.On("CreateCompletion", ctx, "prompt text").Return("generated answer", nil)

	answer, err := client.Complete(ctx, "prompt text")

	assert.NoError(t, err)
	assert.Equal(t, "generated answer", answer)
	api.AssertExpectations(t)
}

func TestComplete_EmptyPrompt(t *testing.T) {
	client := newTestClient(nil, new(MockCompletionAPI), 3)

	_, err := client.Complete(context.Background(), "")

	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestNewClientFromEnv_MissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := NewClientFromEnv()

	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestNewClientWithConfig_Defaults(t *testing.T) {
	client := NewClientWithConfig(Config{APIKey: "sk-test"})

	assert.Equal(t, string(DefaultEmbeddingModel), client.ModelID())
	assert.Equal(t, DefaultEmbeddingDimensions, client.Dimensions())
}
