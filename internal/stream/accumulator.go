package stream

import "strings"

// Accumulate appends a delta to the text received so far.
func Accumulate(prior, delta string) string {
	return prior + delta
}

// Accumulator folds deltas, in decode order, into the full reply text.
type Accumulator struct {
	text   strings.Builder
	deltas int
}

// Add applies one delta and returns the full text after it.
func (a *Accumulator) Add(delta string) string {
	a.text.WriteString(delta)
	a.deltas++
	return a.text.String()
}

func (a *Accumulator) Text() string {
	return a.text.String()
}

// Deltas returns how many deltas have been applied.
func (a *Accumulator) Deltas() int {
	return a.deltas
}

func (a *Accumulator) Reset() {
	a.text.Reset()
	a.deltas = 0
}
