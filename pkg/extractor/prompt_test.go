package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptRendererRender(t *testing.T) {
	renderer, err := NewPromptRenderer(testConfig(t), writeTemplate(t))
	require.NoError(t, err)

	out, err := renderer.Render(PromptInputs{
		TweetAuthor: "cryptocaller",
		TweetTime:   "2025-03-01T12:00:00Z",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "cryptocaller")
	assert.Contains(t, out, "2025-03-01T12:00:00Z")
	assert.Contains(t, out, "BTC", "known ticker list is injected by default")
	assert.NotEmpty(t, renderer.Digest())
}

func TestPromptRendererMissingTemplate(t *testing.T) {
	_, err := NewPromptRenderer(testConfig(t), "/nonexistent/extractor.txt")
	require.Error(t, err)
}

func TestNewExtractorValidation(t *testing.T) {
	_, err := NewExtractor(nil, &stubLLM{}, writeTemplate(t))
	assert.Error(t, err)

	_, err = NewExtractor(testConfig(t), nil, writeTemplate(t))
	assert.Error(t, err)

	ex, err := NewExtractor(testConfig(t), &stubLLM{}, writeTemplate(t))
	require.NoError(t, err)
	assert.NotNil(t, ex.GetConfig())

	_, err = ex.ExtractBatch(context.Background(), nil)
	require.NoError(t, err)
}
