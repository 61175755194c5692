package stream

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, ctx context.Context, r io.Reader) ([]Frame, error) {
	t.Helper()
	var frames []Frame
	err := ReadFrames(ctx, r, NewDecoder(nil), func(f Frame) error {
		frames = append(frames, f)
		return nil
	})
	return frames, err
}

func TestReadFrames_OneByteReader(t *testing.T) {
	raw := dataLine(t, "ab") + dataLine(t, "cd") + "data: [DONE]\n"

	frames, err := collect(t, context.Background(), iotest.OneByteReader(strings.NewReader(raw)))

	require.NoError(t, err)
	assert.Equal(t, []string{"ab", "cd"}, deltas(frames))
	assert.Equal(t, FrameDone, frames[len(frames)-1].Kind)
}

func TestReadFrames_StopsReadingAfterSentinel(t *testing.T) {
	raw := dataLine(t, "x") + "data: [DONE]\n"
	r := io.MultiReader(strings.NewReader(raw), iotest.ErrReader(errors.New("must not be read")))

	frames, err := collect(t, context.Background(), r)

	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, deltas(frames))
}

func TestReadFrames_EOFWithoutSentinelIsCompletion(t *testing.T) {
	raw := dataLine(t, "partial")

	frames, err := collect(t, context.Background(), strings.NewReader(raw))

	require.NoError(t, err)
	assert.Equal(t, []string{"partial"}, deltas(frames))
}

func TestReadFrames_ReadErrorIsReturned(t *testing.T) {
	boom := errors.New("connection reset")
	r := io.MultiReader(strings.NewReader(dataLine(t, "x")), iotest.ErrReader(boom))

	frames, err := collect(t, context.Background(), r)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"x"}, deltas(frames))
}

func TestReadFrames_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := collect(t, ctx, strings.NewReader(dataLine(t, "x")))

	require.ErrorIs(t, err, context.Canceled)
}

func TestReadFrames_CallbackErrorStops(t *testing.T) {
	stop := errors.New("stop")
	raw := dataLine(t, "a") + dataLine(t, "b")
	calls := 0

	err := ReadFrames(context.Background(), strings.NewReader(raw), NewDecoder(nil), func(Frame) error {
		calls++
		return stop
	})

	require.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
