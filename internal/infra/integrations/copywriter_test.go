package integrations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newChatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)

		w.WriteHeader(status)
		json.NewEncoder(w).Encode(chatResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{
				{Message: chatMessage{Role: "assistant", Content: content}},
			},
		})
	}))
}

func newTestCopywriter(url string) *LLMCopywriter {
	logger := zerolog.New(os.Stdout)
	return NewLLMCopywriter(url, "test-key", "test-model", &logger)
}

func TestGenerateCopyParsesFencedJSON(t *testing.T) {
	content := "Here you go:\n```json\n{\"title\": \"Better Keyboard\", \"description\": \"Types well.\", \"highlights\": [\"quiet\"]}\n```"
	srv := newChatServer(t, http.StatusOK, content)
	defer srv.Close()

	copyResult, err := newTestCopywriter(srv.URL).GenerateCopy(context.Background(), ProductBrief{Title: "Keyboard"})
	require.NoError(t, err)
	require.Equal(t, "Better Keyboard", copyResult.Title)
	require.Equal(t, []string{"quiet"}, copyResult.Highlights)
}

// 模型輸出不是JSON時降級為零值 不回傳錯誤
func TestGenerateCopyDegradesOnMalformedOutput(t *testing.T) {
	srv := newChatServer(t, http.StatusOK, "Sorry, I cannot help with that.")
	defer srv.Close()

	copyResult, err := newTestCopywriter(srv.URL).GenerateCopy(context.Background(), ProductBrief{Title: "Keyboard"})
	require.NoError(t, err)
	require.Equal(t, ProductCopy{}, copyResult)
}

func TestScoreProduct(t *testing.T) {
	content := `{"approved": true, "score": 0.92, "reasons": ["clear title"]}`
	srv := newChatServer(t, http.StatusOK, content)
	defer srv.Close()

	score, err := newTestCopywriter(srv.URL).ScoreProduct(context.Background(), ProductBrief{Title: "Keyboard"})
	require.NoError(t, err)
	require.True(t, score.Approved)
	require.InDelta(t, 0.92, score.Score, 0.001)
}

// API層錯誤要往上傳 由caller決定要不要對外回upstream error
func TestCompleteNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestCopywriter(srv.URL).GenerateCopy(context.Background(), ProductBrief{Title: "Keyboard"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}

func TestExtractJSON(t *testing.T) {
	require.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, extractJSON(`{"a":1}`))
	require.Equal(t, "no braces here", extractJSON("no braces here"))
}
