package diag

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// captureSink records events for assertions.
type captureSink struct {
	mu     sync.Mutex
	events []Event
}

func (c *captureSink) Log(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func TestNoopSink(t *testing.T) {
	var s NoopSink
	s.Log(Event{Message: "dropped"}) // Must not panic
}

func TestMultiSinkFanOut(t *testing.T) {
	a := &captureSink{}
	b := &captureSink{}
	m := NewMultiSink(a, b, NoopSink{})

	m.Log(Event{Message: "hello"})

	if len(a.events) != 1 || len(b.events) != 1 {
		t.Errorf("fan-out delivered %d/%d events, want 1/1", len(a.events), len(b.events))
	}
}

func TestFileSinkRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boot.blog")

	sink, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("NewFileSink() error = %v", err)
	}

	events := []Event{
		{Timestamp: time.Now(), BootID: "boot-1", Phase: PhaseInit, Severity: SeverityInfo, Message: "guard armed"},
		{Timestamp: time.Now(), BootID: "boot-1", Phase: PhaseFault, Severity: SeverityError, Message: "page fault",
			Exception: &ExceptionEvent{Vector: 14, VectorName: "PAGE_FAULT", ErrorCode: 2}},
		{Timestamp: time.Now(), BootID: "boot-1", Phase: PhaseReset, Severity: SeverityInfo, Message: "resetting"},
	}
	for _, e := range events {
		sink.Log(e)
	}

	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	sink.Log(Event{Message: "after close"}) // Silently ignored

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	defer r.Close()

	got, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("read %d events, want %d", len(got), len(events))
	}
	for i := range events {
		if got[i].Message != events[i].Message {
			t.Errorf("event %d message = %q, want %q", i, got[i].Message, events[i].Message)
		}
	}
}

func TestReaderFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boot.blog")

	sink, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("NewFileSink() error = %v", err)
	}
	sink.Log(Event{BootID: "boot-1", Phase: PhaseInit, Severity: SeverityInfo})
	sink.Log(Event{BootID: "boot-1", Phase: PhaseFault, Severity: SeverityError})
	sink.Log(Event{BootID: "boot-2", Phase: PhaseFault, Severity: SeverityFatal})
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	t.Run("ByPhase", func(t *testing.T) {
		phase := PhaseFault
		r, err := NewFilteredReader(path, Filter{Phase: &phase})
		if err != nil {
			t.Fatalf("NewFilteredReader() error = %v", err)
		}
		defer r.Close()

		got, err := r.ReadAll()
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d events, want 2", len(got))
		}
	})

	t.Run("ByBootID", func(t *testing.T) {
		r, err := NewFilteredReader(path, Filter{BootID: "boot-2"})
		if err != nil {
			t.Fatalf("NewFilteredReader() error = %v", err)
		}
		defer r.Close()

		got, err := r.ReadAll()
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if len(got) != 1 || got[0].Severity != SeverityFatal {
			t.Errorf("got %d events (first severity %v), want the single fatal event", len(got), got[0].Severity)
		}
	})

	t.Run("ByMinSeverity", func(t *testing.T) {
		min := SeverityError
		r, err := NewFilteredReader(path, Filter{MinSeverity: &min})
		if err != nil {
			t.Fatalf("NewFilteredReader() error = %v", err)
		}
		defer r.Close()

		got, err := r.ReadAll()
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if len(got) != 2 {
			t.Errorf("got %d events, want 2", len(got))
		}
	})
}

func TestReaderNextEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.blog")

	sink, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("NewFileSink() error = %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	defer r.Close()

	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next() on empty file error = %v, want io.EOF", err)
	}
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	adapter := NewSlogAdapter(logger)

	adapter.Log(Event{
		BootID:   "boot-1",
		Phase:    PhaseFault,
		Severity: SeverityError,
		Message:  "page fault",
		Exception: &ExceptionEvent{
			Vector: 14, VectorName: "PAGE_FAULT", ErrorCode: 2, FaultAddress: 0x1000,
		},
	})

	out := buf.String()
	for _, want := range []string{"page fault", "PAGE_FAULT", "boot-1", "level=ERROR"} {
		if !strings.Contains(out, want) {
			t.Errorf("slog output missing %q: %s", want, out)
		}
	}
}
