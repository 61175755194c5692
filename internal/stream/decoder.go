// Package stream decodes the chat endpoint's line-oriented event stream and
// folds content deltas into the growing assistant reply.
package stream

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// DoneToken is the payload that terminates a stream.
const DoneToken = "[DONE]"

const (
	dataPrefix    = "data:"
	commentPrefix = ":"
)

// FrameKind distinguishes content deltas from the end-of-stream sentinel.
type FrameKind int

const (
	FrameDelta FrameKind = iota
	FrameDone
)

func (k FrameKind) String() string {
	switch k {
	case FrameDelta:
		return "delta"
	case FrameDone:
		return "done"
	default:
		return "unknown"
	}
}

// Frame is one decoded protocol event. Blank, comment and unrecognized lines
// never become frames.
type Frame struct {
	Kind  FrameKind
	Delta string
}

type lineResult int

const (
	lineSkipped lineResult = iota
	lineEmitted
	lineRewound
)

// Decoder turns arbitrarily split text chunks into frames.
//
// Complete lines are extracted from an internal buffer; a trailing partial line
// stays buffered until its newline arrives. A data line whose payload does not
// parse is rewound: it is held in front of the buffer and extraction suspends
// until the next chunk, because the record may continue on the following line.
// If the following line starts a new event instead, the held line is discarded.
type Decoder struct {
	buf     []byte
	pending string
	done    bool
	logger  *slog.Logger
}

func NewDecoder(logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{logger: logger}
}

// Done reports whether the end-of-stream sentinel has been decoded.
func (d *Decoder) Done() bool {
	return d.done
}

// Pending reports whether a rewound line is waiting for more data.
func (d *Decoder) Pending() bool {
	return d.pending != ""
}

// Feed appends a chunk and returns the frames that became complete.
// After the sentinel, further chunks are ignored.
func (d *Decoder) Feed(chunk []byte) []Frame {
	if d.done {
		return nil
	}
	d.buf = append(d.buf, chunk...)
	return d.drain(false)
}

// Flush is called once the underlying stream has closed. It decodes what is
// left in the buffer, including an unterminated last line, and discards a
// rewound line that never resolved.
func (d *Decoder) Flush() []Frame {
	if d.done {
		return nil
	}
	frames := d.drain(true)
	if !d.done && len(d.buf) > 0 {
		line := strings.TrimSuffix(string(d.buf), "\r")
		d.buf = nil
		if frame, res := d.decodeLine(line); res == lineEmitted {
			frames = append(frames, frame)
		}
	}
	if d.pending != "" {
		d.discardPending("stream closed")
	}
	return frames
}

func (d *Decoder) drain(final bool) []Frame {
	var frames []Frame
	for !d.done {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimSuffix(string(d.buf[:i]), "\r")
		d.buf = d.buf[i+1:]

		frame, res := d.decodeLine(line)
		if res == lineRewound && !final {
			break
		}
		if res == lineEmitted {
			frames = append(frames, frame)
		}
	}
	return frames
}

func (d *Decoder) decodeLine(line string) (Frame, lineResult) {
	if d.pending != "" {
		if startsEvent(line) {
			d.discardPending("superseded by next event")
		} else {
			line = d.pending + "\n" + line
			d.pending = ""
		}
	}

	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, commentPrefix) {
		return Frame{}, lineSkipped
	}
	rest, ok := strings.CutPrefix(line, dataPrefix)
	if !ok {
		return Frame{}, lineSkipped
	}

	payload := strings.TrimSpace(rest)
	if payload == DoneToken {
		d.done = true
		return Frame{Kind: FrameDone}, lineEmitted
	}

	var chunk openai.ChatCompletionStreamResponse
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		d.logger.Debug("rewinding undecodable stream line", "bytes", len(line), "error", err)
		d.pending = line
		return Frame{}, lineRewound
	}

	if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
		return Frame{}, lineSkipped
	}
	return Frame{Kind: FrameDelta, Delta: chunk.Choices[0].Delta.Content}, lineEmitted
}

func (d *Decoder) discardPending(reason string) {
	d.logger.Warn("discarding undecodable stream line", "bytes", len(d.pending), "reason", reason)
	d.pending = ""
}

// startsEvent reports whether line begins a new protocol event rather than
// continuing a record split across lines.
func startsEvent(line string) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}
	for _, p := range []string{dataPrefix, commentPrefix, "event:", "id:", "retry:"} {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}
