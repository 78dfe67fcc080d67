package embedding

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	resp     openai.EmbeddingResponse
	err      error
	requests []openai.EmbeddingRequestStrings
}

func (f *fakeAPI) CreateEmbeddings(_ context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	if req, ok := conv.(openai.EmbeddingRequestStrings); ok {
		f.requests = append(f.requests, req)
	}
	return f.resp, f.err
}

func TestOpenAIEmbedder_Embed(t *testing.T) {
	api := &fakeAPI{resp: openai.EmbeddingResponse{
		Data: []openai.Embedding{{Embedding: []float32{0.5, -0.25, 1}}},
	}}
	e := newEmbedder(api, "")

	vector, err := e.Embed(context.Background(), "  looking for investors  ")
	require.NoError(t, err)

	assert.Equal(t, []float64{0.5, -0.25, 1}, vector)
	require.Len(t, api.requests, 1)
	assert.Equal(t, []string{"looking for investors"}, api.requests[0].Input)
	assert.Equal(t, openai.SmallEmbedding3, api.requests[0].Model)
}

func TestOpenAIEmbedder_Errors(t *testing.T) {
	tests := []struct {
		name string
		api  *fakeAPI
		text string
	}{
		{"empty input", &fakeAPI{}, "   "},
		{"api failure", &fakeAPI{err: errors.New("429 too many requests")}, "hello"},
		{"no data", &fakeAPI{}, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newEmbedder(tt.api, "text-embedding-3-small").Embed(context.Background(), tt.text)
			assert.Error(t, err)
		})
	}
}
