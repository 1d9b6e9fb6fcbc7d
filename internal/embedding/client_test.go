package embedding

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(ClientConfig{}, zap.NewNop())
	require.Error(t, err)
}

func TestClientEmbed(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, "http://embeddings.local/v1/embeddings",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{
			"object": "list",
			"model":  "text-embedding-3-small",
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": []float32{0.25, -0.5}},
			},
		}))

	client, err := NewClient(ClientConfig{
		BaseURL: "http://embeddings.local/v1/",
		APIKey:  "test-key",
	}, zap.NewNop())
	require.NoError(t, err)

	vector, err := client.Embed(context.Background(), "Aligners shipped.")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, -0.5}, vector)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestClientEmbedEmptyResponse(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, "http://embeddings.local/v1/embeddings",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{
			"object": "list",
			"data":   []map[string]any{},
		}))

	client, err := NewClient(ClientConfig{BaseURL: "http://embeddings.local/v1"}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.ErrorContains(t, err, "no embedding in response")
}

func TestClientEmbedServerError(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, "http://embeddings.local/v1/embeddings",
		httpmock.NewStringResponder(http.StatusInternalServerError, `{"error":{"message":"boom"}}`))

	client, err := NewClient(ClientConfig{BaseURL: "http://embeddings.local/v1"}, zap.NewNop())
	require.NoError(t, err)

	_, err = client.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.ErrorContains(t, err, "create embedding")
}
