package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriForge/internal/models"
)

func TestHTTPTransport_PostsHistoryAndStreamsBody(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: [DONE]\n")
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.URL, "secret", nil)
	body, err := tr.Open(context.Background(), []models.ChatMessage{models.UserMessage("make a page")})
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "data: [DONE]\n", string(data))
	assert.Equal(t, []models.ChatMessage{{Role: "user", Content: "make a page"}}, got.Messages)
}

func TestHTTPTransport_StatusErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    error
		message string
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":"Rate limits exceeded, please try again later."}`, ErrRateLimited, "Rate limits exceeded, please try again later."},
		{"payment required", http.StatusPaymentRequired, `{"error":"Payment required"}`, ErrPaymentRequired, "Payment required"},
		{"generic", http.StatusInternalServerError, `{"error":"AI gateway error"}`, nil, "AI gateway error"},
		{"non json body", http.StatusBadGateway, `<html>oops</html>`, nil, "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewHTTPTransport(srv.URL, "", nil).Open(context.Background(), nil)

			var te *Error
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.status, te.StatusCode)
			assert.Equal(t, tt.message, te.Message)
			if tt.kind != nil {
				assert.ErrorIs(t, err, tt.kind)
			} else {
				assert.NotErrorIs(t, err, ErrRateLimited)
				assert.NotErrorIs(t, err, ErrPaymentRequired)
			}
		})
	}
}

func TestHTTPTransport_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "0")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := NewHTTPTransport(srv.URL, "", nil).Open(context.Background(), nil)

	require.ErrorIs(t, err, ErrNoBody)
}

func TestHTTPTransport_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPTransport(url, "", nil).Open(context.Background(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reach chat endpoint")
}
