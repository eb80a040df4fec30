package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"style-finder/internal/llm"
)

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	assert.Error(t, err)
}

func TestDescribeOutfitSendsInlineImage(t *testing.T) {
	var path string
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"### 1. Description\nRelaxed"}]}}],"usageMetadata":{"promptTokenCount":3,"candidatesTokenCount":2,"totalTokenCount":5}}`))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), Config{APIKey: "g-key", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	text, err := client.DescribeOutfit(context.Background(), llm.ImageInput{Data: []byte("png"), MIMEType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "### 1. Description\nRelaxed", text)
	assert.True(t, strings.HasSuffix(path, "models/"+defaultModel+":generateContent"), path)

	contents, ok := body["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 1)
	parts := contents[0].(map[string]any)["parts"].([]any)
	require.Len(t, parts, 2)
	inline := parts[1].(map[string]any)["inlineData"].(map[string]any)
	assert.Equal(t, "image/png", inline["mimeType"])
}
