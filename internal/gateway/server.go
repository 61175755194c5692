// Package gateway serves the chat endpoint the client streams from. It
// forwards the conversation to an OpenAI-compatible upstream behind the
// directive system prompt and relays the reply as data lines.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sashabaranov/go-openai"

	"github.com/Rorical/RoriForge/internal/config"
	"github.com/Rorical/RoriForge/internal/logging"
	"github.com/Rorical/RoriForge/internal/metrics"
	"github.com/Rorical/RoriForge/internal/models"
	"github.com/Rorical/RoriForge/internal/stream"
)

// Messages returned to clients. Upstream details stay in the server log.
const (
	MsgRateLimited     = "Rate limits exceeded, please try again later."
	MsgPaymentRequired = "Payment required, please add funds to your workspace."
	MsgUpstream        = "AI gateway error"
)

const maxRequestBody = 4 << 20

var ErrNoAPIKey = errors.New("upstream API key is not configured")

// Streamer opens a streamed chat completion. *openai.Client implements it.
type Streamer interface {
	CreateChatCompletionStream(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionStream, error)
}

type Server struct {
	streamer Streamer
	model    string
	prompt   string
	logger   *slog.Logger
}

// New builds a gateway for the active profile. Without an API key the
// server still starts and answers every chat request with ErrNoAPIKey.
func New(cfg *config.Config) *Server {
	var streamer Streamer
	if cfg.CanServe() {
		clientConfig := openai.DefaultConfig(cfg.GetAPIKey())
		if cfg.GetBaseURL() != "" {
			clientConfig.BaseURL = cfg.GetBaseURL()
		}
		streamer = openai.NewClientWithConfig(clientConfig)
	}
	return NewWithStreamer(streamer, cfg.GetModel())
}

func NewWithStreamer(s Streamer, model string) *Server {
	return &Server{
		streamer: s,
		model:    model,
		prompt:   SystemPrompt,
		logger:   slog.Default().With("component", "gateway"),
	}
}

// Handler routes /chat and /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.handleChat)
	mux.Handle("/metrics", promhttp.Handler())
	return logging.HTTPMiddleware(mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("gateway listening", "addr", addr, "model", s.model, "upstream", s.streamer != nil)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("gateway server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("gateway shutting down")
		return server.Shutdown(shutdownCtx)
	}
}

type chatRequest struct {
	Messages []models.ChatMessage `json:"messages"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	setCORS(w.Header())
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)
	log := s.logger.With("request", requestID)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		log.Warn("bad chat request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if s.streamer == nil {
		log.Error("chat request without upstream", "error", ErrNoAPIKey)
		writeError(w, http.StatusInternalServerError, ErrNoAPIKey.Error())
		return
	}

	start := time.Now()
	upstream, err := s.streamer.CreateChatCompletionStream(r.Context(), s.completionRequest(req.Messages))
	metrics.GatewayUpstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		status, msg := upstreamError(err)
		log.Error("upstream request failed", "status", status, "error", err)
		writeError(w, status, msg)
		return
	}
	defer upstream.Close()

	log.Info("relaying stream", "messages", len(req.Messages))
	s.relay(w, upstream, log)
}

func (s *Server) completionRequest(history []models.ChatMessage) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: s.prompt,
	})
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: messages,
		Stream:   true,
	}
}

// relay writes each upstream chunk as a data line and ends with the done
// sentinel. A failure mid-stream ends the response without the sentinel.
func (s *Server) relay(w http.ResponseWriter, upstream *openai.ChatCompletionStream, log *slog.Logger) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	metrics.GatewayRequestsTotal.WithLabelValues(strconv.Itoa(http.StatusOK)).Inc()
	flusher, _ := w.(http.Flusher)

	chunks := 0
	for {
		resp, err := upstream.Recv()
		if errors.Is(err, io.EOF) {
			if _, err := fmt.Fprintf(w, "data: %s\n\n", stream.DoneToken); err != nil {
				log.Warn("client went away", "error", err)
			}
			if flusher != nil {
				flusher.Flush()
			}
			log.Info("stream finished", "chunks", chunks)
			return
		}
		if err != nil {
			log.Error("upstream stream failed", "chunks", chunks, "error", err)
			return
		}

		payload, err := json.Marshal(resp)
		if err != nil {
			log.Error("failed to encode chunk", "error", err)
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			log.Warn("client went away", "chunks", chunks, "error", err)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
		chunks++
		metrics.GatewayChunksTotal.Inc()
	}
}

// upstreamError maps an upstream failure to the status and message sent to
// the client.
func upstreamError(err error) (int, string) {
	code := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		code = reqErr.HTTPStatusCode
	}

	switch code {
	case http.StatusTooManyRequests:
		return code, MsgRateLimited
	case http.StatusPaymentRequired:
		return code, MsgPaymentRequired
	default:
		return http.StatusInternalServerError, MsgUpstream
	}
}

func setCORS(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	metrics.GatewayRequestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}
