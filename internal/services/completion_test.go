package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCompletionClient(t *testing.T, handler http.HandlerFunc) *CompletionClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewCompletionClient(srv.URL, "test-key", "test-model", 5*time.Second, zap.NewNop())
}

func TestComplete(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}

	client := newTestCompletionClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"choices":[{"message":{"content":"hi there"}}]}`))
	})

	reply, err := client.Complete(context.Background(), "hello")
	require.NoError(t, err)
	require.Equal(t, "hi there", reply)

	require.Equal(t, "Bearer test-key", gotAuth)
	require.Equal(t, "test-model", gotBody["model"])

	// Exactly one message is sent: the current user message, no history.
	messages := gotBody["messages"].([]interface{})
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]interface{})
	require.Equal(t, "user", msg["role"])
	require.Equal(t, "hello", msg["content"])
}

func TestComplete_ErrorStatus(t *testing.T) {
	client := newTestCompletionClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Complete(context.Background(), "hello")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
}

func TestComplete_MalformedBody(t *testing.T) {
	client := newTestCompletionClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := client.Complete(context.Background(), "hello")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
}

func TestComplete_NoChoices(t *testing.T) {
	client := newTestCompletionClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.Complete(context.Background(), "hello")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
}

func TestComplete_MissingReply(t *testing.T) {
	client := newTestCompletionClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{}]}`))
	})

	_, err := client.Complete(context.Background(), "hello")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
}

func TestComplete_EmptyReply(t *testing.T) {
	client := newTestCompletionClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":""}}]}`))
	})

	reply, err := client.Complete(context.Background(), "hello")
	require.NoError(t, err)
	require.Empty(t, reply)
}

func TestComplete_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := NewCompletionClient(srv.URL, "test-key", "test-model", time.Second, zap.NewNop())

	_, err := client.Complete(context.Background(), "hello")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
}
