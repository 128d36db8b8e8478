package outputproviders

import (
	"errors"
	"fmt"
	"log/slog"
)

// MultiWriter fans output out to several sinks.
type MultiWriter struct {
	writers       []OutputWriter
	flushFailures int
}

func NewMultiWriter(writers ...OutputWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write writes p to every sink, even after one of them fails.
func (mw *MultiWriter) Write(p []byte) (int, error) {
	var errs []error
	for _, w := range mw.writers {
		n, err := w.Write(p)
		if err == nil && n < len(p) {
			err = fmt.Errorf("short write: %d of %d bytes", n, len(p))
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Flush flushes every sink. Individual failures are counted, not returned.
func (mw *MultiWriter) Flush() error {
	for _, w := range mw.writers {
		if err := w.Flush(); err != nil {
			mw.flushFailures++
			slog.Debug("Redirection flush failed", "error", err)
		}
	}
	return nil
}

// FlushFailures returns the number of sink flushes that failed so far.
func (mw *MultiWriter) FlushFailures() int {
	return mw.flushFailures
}

// Close closes every sink and reports all failures as one error.
func (mw *MultiWriter) Close() error {
	var errs []error
	for _, w := range mw.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to close %d of %d redirection writers: %w", len(errs), len(mw.writers), errors.Join(errs...))
	}
	return nil
}
