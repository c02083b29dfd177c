package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// TeeWriter copies every write to all of its writers. A failing writer
// does not stop the rest; its error is returned alongside the others.
type TeeWriter struct {
	writers []io.Writer
}

func NewTeeWriter(writers ...io.Writer) *TeeWriter {
	return &TeeWriter{
		writers: writers,
	}
}

func (tw *TeeWriter) Write(p []byte) (int, error) {
	var err error
	for _, w := range tw.writers {
		if _, wErr := w.Write(p); wErr != nil {
			err = multierr.Append(err, wErr)
		}
	}
	return len(p), err
}
