package stream

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataLine(t *testing.T, content string) string {
	t.Helper()
	payload, err := json.Marshal(openai.ChatCompletionStreamResponse{
		Choices: []openai.ChatCompletionStreamChoice{
			{Delta: openai.ChatCompletionStreamChoiceDelta{Content: content}},
		},
	})
	require.NoError(t, err)
	return "data: " + string(payload) + "\n"
}

func deltas(frames []Frame) []string {
	var out []string
	for _, f := range frames {
		if f.Kind == FrameDelta {
			out = append(out, f.Delta)
		}
	}
	return out
}

func decodeChunks(chunks ...string) ([]Frame, *Decoder) {
	d := NewDecoder(nil)
	var frames []Frame
	for _, c := range chunks {
		frames = append(frames, d.Feed([]byte(c))...)
	}
	frames = append(frames, d.Flush()...)
	return frames, d
}

func TestDecoder_SingleChunk(t *testing.T) {
	raw := dataLine(t, "Hello") + dataLine(t, ", world") + "data: [DONE]\n"

	frames, d := decodeChunks(raw)

	require.Len(t, frames, 3)
	assert.Equal(t, []string{"Hello", ", world"}, deltas(frames))
	assert.Equal(t, FrameDone, frames[2].Kind)
	assert.True(t, d.Done())
}

func TestDecoder_IgnoresCommentsBlankAndUnknownLines(t *testing.T) {
	raw := ": keep-alive\n\n" +
		"event: message\n" +
		dataLine(t, "a") +
		"\n" +
		"id: 42\n" +
		": OPENROUTER PROCESSING\n" +
		dataLine(t, "b")

	frames, d := decodeChunks(raw)

	assert.Equal(t, []string{"a", "b"}, deltas(frames))
	assert.False(t, d.Done())
}

func TestDecoder_StripsCarriageReturns(t *testing.T) {
	raw := strings.ReplaceAll(dataLine(t, "x")+dataLine(t, "y")+"data: [DONE]\n", "\n", "\r\n")

	frames, _ := decodeChunks(raw)

	assert.Equal(t, []string{"x", "y"}, deltas(frames))
	assert.Equal(t, FrameDone, frames[len(frames)-1].Kind)
}

func TestDecoder_StopsAtSentinel(t *testing.T) {
	d := NewDecoder(nil)

	frames := d.Feed([]byte(dataLine(t, "before") + "data: [DONE]\n" + dataLine(t, "after")))
	assert.Equal(t, []string{"before"}, deltas(frames))
	assert.True(t, d.Done())

	assert.Empty(t, d.Feed([]byte(dataLine(t, "later"))))
	assert.Empty(t, d.Flush())
}

func TestDecoder_SentinelToleratesSurroundingWhitespace(t *testing.T) {
	frames, d := decodeChunks("data:   [DONE]  \n")

	require.Len(t, frames, 1)
	assert.Equal(t, FrameDone, frames[0].Kind)
	assert.True(t, d.Done())
}

func TestDecoder_SkipsEmptyAndRoleOnlyDeltas(t *testing.T) {
	raw := `data: {"choices":[{"delta":{"role":"assistant"}}]}` + "\n" +
		`data: {"choices":[]}` + "\n" +
		`data: {"id":"x"}` + "\n" +
		dataLine(t, "text")

	frames, _ := decodeChunks(raw)

	assert.Equal(t, []string{"text"}, deltas(frames))
}

func TestDecoder_RecordSplitAtEveryOffset(t *testing.T) {
	line := dataLine(t, `quoted "value" with ünïcode`)

	for i := 0; i <= len(line); i++ {
		d := NewDecoder(nil)

		var frames []Frame
		frames = append(frames, d.Feed([]byte(line[:i]))...)
		frames = append(frames, d.Feed([]byte(line[i:]))...)
		frames = append(frames, d.Flush()...)

		require.Len(t, frames, 1, "split at %d", i)
		assert.Equal(t, `quoted "value" with ünïcode`, frames[0].Delta, "split at %d", i)
	}
}

func TestDecoder_PartialLineRetainedUntilNewline(t *testing.T) {
	line := dataLine(t, "slow")
	d := NewDecoder(nil)

	assert.Empty(t, d.Feed([]byte(strings.TrimSuffix(line, "\n"))))
	assert.False(t, d.Pending())

	frames := d.Feed([]byte("\n"))
	assert.Equal(t, []string{"slow"}, deltas(frames))
}

func TestDecoder_RewindsRecordContinuedOnNextLine(t *testing.T) {
	d := NewDecoder(nil)

	frames := d.Feed([]byte(`data: {"choices":` + "\n"))
	assert.Empty(t, frames)
	assert.True(t, d.Pending())

	frames = d.Feed([]byte(`[{"delta":{"content":"joined"}}]}` + "\n"))
	assert.Equal(t, []string{"joined"}, deltas(frames))
	assert.False(t, d.Pending())
}

func TestDecoder_RewindSuspendsUntilNextChunk(t *testing.T) {
	d := NewDecoder(nil)

	frames := d.Feed([]byte("data: {broken\n" + dataLine(t, "queued")))
	assert.Empty(t, frames)
	assert.True(t, d.Pending())

	frames = d.Feed([]byte(dataLine(t, "next")))
	assert.Equal(t, []string{"queued", "next"}, deltas(frames))
	assert.False(t, d.Pending())
}

func TestDecoder_DiscardsUnresolvableLineAtStreamEnd(t *testing.T) {
	frames, d := decodeChunks(dataLine(t, "ok"), "data: {never closed\n")

	assert.Equal(t, []string{"ok"}, deltas(frames))
	assert.False(t, d.Pending())
}

func TestDecoder_FlushDecodesUnterminatedLastLine(t *testing.T) {
	frames, _ := decodeChunks(dataLine(t, "a"), strings.TrimSuffix(dataLine(t, "b"), "\n"))

	assert.Equal(t, []string{"a", "b"}, deltas(frames))
}

func TestDecoder_ChunkBoundaryInvariance(t *testing.T) {
	raw := ": hello\n" +
		dataLine(t, "FILE_CREATE: index.html\n") +
		"\r\n" +
		dataLine(t, "```html\n<h1>Hi</h1>\n") +
		dataLine(t, "```\n") +
		"data: [DONE]\n"

	want := "FILE_CREATE: index.html\n```html\n<h1>Hi</h1>\n```\n"

	for i := 0; i <= len(raw); i++ {
		for j := i; j <= len(raw); j += 7 {
			frames, d := decodeChunks(raw[:i], raw[i:j], raw[j:])

			var acc Accumulator
			for _, text := range deltas(frames) {
				acc.Add(text)
			}
			require.Equal(t, want, acc.Text(), "splits at %d/%d", i, j)
			require.True(t, d.Done(), "splits at %d/%d", i, j)
		}
	}
}

func TestDecoder_ByteAtATime(t *testing.T) {
	raw := dataLine(t, "one ") + ": ping\n" + dataLine(t, "two") + "data: [DONE]\n"
	chunks := make([]string, 0, len(raw))
	for i := range raw {
		chunks = append(chunks, raw[i:i+1])
	}

	frames, _ := decodeChunks(chunks...)

	assert.Equal(t, []string{"one ", "two"}, deltas(frames))
}

func TestFrameKindString(t *testing.T) {
	assert.Equal(t, "delta", FrameDelta.String())
	assert.Equal(t, "done", FrameDone.String())
	assert.Equal(t, "unknown", FrameKind(9).String())
}
