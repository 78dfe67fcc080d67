package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

var ErrEmptyInput = errors.New("embedding input is empty")

type embeddingsAPI interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// OpenAIEmbedder 참가자 소개 텍스트를 OpenAI 임베딩으로 변환
type OpenAIEmbedder struct {
	api     embeddingsAPI
	model   openai.EmbeddingModel
	timeout time.Duration
}

func NewOpenAIEmbedder(apiKey, model string) *OpenAIEmbedder {
	return newEmbedder(openai.NewClient(apiKey), model)
}

func newEmbedder(api embeddingsAPI, model string) *OpenAIEmbedder {
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	return &OpenAIEmbedder{
		api:     api,
		model:   openai.EmbeddingModel(model),
		timeout: 10 * time.Second,
	}
}

// Embed 텍스트 하나를 벡터로 변환
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.api.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embedding response has no data")
	}

	raw := resp.Data[0].Embedding
	vector := make([]float64, len(raw))
	for i, v := range raw {
		vector[i] = float64(v)
	}
	return vector, nil
}
