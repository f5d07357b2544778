package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerWritesFramesAndClears(t *testing.T) {
	var out bytes.Buffer
	s := newSpinnerTo(context.Background(), &out, "Fetching axios")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	text := out.String()
	if !strings.Contains(text, "Fetching axios") {
		t.Errorf("output missing message: %q", text)
	}
	if !strings.HasSuffix(text, "\r") {
		t.Errorf("output does not end with a line clear: %q", text)
	}
	if s.Cancelled() {
		t.Error("explicit Stop reported as context cancellation")
	}
}

func TestSpinnerParentContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	s := newSpinnerTo(ctx, &out, "Working")
	s.Start()

	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("spinner not cancelled after parent context cancellation")
	}
}

func TestSpinnerStopIdempotent(t *testing.T) {
	var out bytes.Buffer
	s := newSpinnerTo(context.Background(), &out, "Working")
	s.Start()
	s.Stop()
	s.Stop()
}
