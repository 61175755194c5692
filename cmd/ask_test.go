package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/RoriForge/internal/config"
	"github.com/Rorical/RoriForge/internal/models"
	"github.com/Rorical/RoriForge/internal/transport"
)

const askReply = `data: {"choices":[{"index":0,"delta":{"content":"Created the page.\nFILE_CREATE: site/index.html\n"}}]}

data: {"choices":[{"index":0,"delta":{"content":"` + "```html\\n<h1>Hi</h1>\\n```\\n" + `"}}]}

data: [DONE]

`

func TestRunAsk(t *testing.T) {
	tr := transport.Func(func(context.Context, []models.ChatMessage) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(askReply)), nil
	})
	cfg := config.FromProfile("test", config.Profile{Endpoint: "http://example.invalid/chat"})
	out := t.TempDir()
	var buf bytes.Buffer

	require.NoError(t, runAsk(context.Background(), cfg, tr, "make a page", out, &buf))

	assert.Equal(t, "> create site/index.html (11 bytes)\n"+
		"Created the page.\nFILE_CREATE: site/index.html\n"+
		"  wrote site/index.html\n"+
		"Exported 1 file(s) to "+out+"\n", buf.String())

	data, err := os.ReadFile(filepath.Join(out, "site", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hi</h1>", string(data))
}

func TestRunAsk_TransportError(t *testing.T) {
	tr := transport.Func(func(context.Context, []models.ChatMessage) (io.ReadCloser, error) {
		return nil, &transport.Error{StatusCode: 500, Message: "AI gateway error"}
	})
	cfg := config.FromProfile("test", config.Profile{Endpoint: "http://example.invalid/chat"})
	var buf bytes.Buffer

	err := runAsk(context.Background(), cfg, tr, "hi", "", &buf)

	assert.ErrorContains(t, err, "AI gateway error")
	assert.Empty(t, buf.String())
}
