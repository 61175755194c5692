package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
)

const readChunkSize = 4096

// ReadFrames reads r chunk by chunk, decoding each chunk as soon as it
// arrives, and calls fn for every frame in order. It returns nil when the
// sentinel is decoded or r reaches EOF, and a wrapped error when a read fails,
// the context is cancelled, or fn returns an error.
func ReadFrames(ctx context.Context, r io.Reader, d *Decoder, fn func(Frame) error) error {
	buf := make([]byte, readChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stream cancelled: %w", err)
		}

		n, readErr := r.Read(buf)
		if n > 0 {
			for _, frame := range d.Feed(buf[:n]) {
				if err := fn(frame); err != nil {
					return err
				}
			}
			if d.Done() {
				return nil
			}
		}

		if errors.Is(readErr, io.EOF) {
			for _, frame := range d.Flush() {
				if err := fn(frame); err != nil {
					return err
				}
			}
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("failed to read stream: %w", readErr)
		}
	}
}
