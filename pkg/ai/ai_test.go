package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		c := NewClient("", "", "", time.Second)
		_, err := c.Complete(context.Background(), "sys", "hello")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("successful completion", func(t *testing.T) {
		var gotReq chatCompletionReq
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/chat/completions", r.URL.Path)
			require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"a concise description"}}]}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "test-key", "", time.Second)
		content, err := c.DraftTaskDescription(context.Background(), "Fix login bug")
		require.NoError(t, err)
		assert.Equal(t, "a concise description", content)
		assert.Equal(t, DefaultModel, gotReq.Model)
		require.Len(t, gotReq.Messages, 2)
		assert.Equal(t, "Fix login bug", gotReq.Messages[1].Content)
	})

	t.Run("upstream error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "test-key", "", time.Second)
		_, err := c.Complete(context.Background(), "sys", "hello")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("empty choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "test-key", "", time.Second)
		_, err := c.Complete(context.Background(), "sys", "hello")
		require.Error(t, err)
	})
}

func TestExtractJSONObject(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
	}

	t.Run("plain json", func(t *testing.T) {
		var p payload
		require.NoError(t, ExtractJSONObject(`{"title":"abc"}`, &p))
		assert.Equal(t, "abc", p.Title)
	})

	t.Run("json inside markdown fence", func(t *testing.T) {
		var p payload
		text := "```json\n{\"title\":\"abc\"}\n```"
		require.NoError(t, ExtractJSONObject(text, &p))
		assert.Equal(t, "abc", p.Title)
	})

	t.Run("no json object", func(t *testing.T) {
		var p payload
		require.Error(t, ExtractJSONObject("no structured data here", &p))
	})
}
