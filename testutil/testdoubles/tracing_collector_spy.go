package testdoubles

import (
	"context"
	"sync"

	"github.com/pagebound/bookcatalog-go/bookcatalog"
)

// SpySpanRecord represents one finished span.
type SpySpanRecord struct {
	Name       string
	Status     string
	Attributes map[string]string
}

// SpanContextSpy is the span handle handed out by TracingCollectorSpy.
type SpanContextSpy struct {
	mu         sync.Mutex
	name       string
	status     string
	attributes map[string]string
}

// SetStatus records the span status.
func (s *SpanContextSpy) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = status
}

// AddAttribute records one span attribute.
func (s *SpanContextSpy) AddAttribute(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attributes[key] = value
}

// TracingCollectorSpy captures span lifecycles for testing. It implements the
// bookcatalog.TracingCollector interface.
type TracingCollectorSpy struct {
	mu            sync.Mutex
	startedSpans  []string
	finishedSpans []SpySpanRecord
}

// NewTracingCollectorSpy creates a new TracingCollectorSpy.
func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{
		startedSpans:  make([]string, 0),
		finishedSpans: make([]SpySpanRecord, 0),
	}
}

// StartSpan records the span start and returns a SpanContextSpy handle.
func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, bookcatalog.SpanContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.startedSpans = append(s.startedSpans, name)

	return ctx, &SpanContextSpy{name: name, attributes: copyLabels(attrs)}
}

// FinishSpan records the finished span with its final status and attributes.
func (s *TracingCollectorSpy) FinishSpan(spanCtx bookcatalog.SpanContext, status string, attrs map[string]string) {
	spy, ok := spanCtx.(*SpanContextSpy)
	if !ok {
		return
	}

	spy.mu.Lock()
	record := SpySpanRecord{
		Name:       spy.name,
		Status:     status,
		Attributes: copyLabels(spy.attributes),
	}
	spy.mu.Unlock()

	for key, value := range attrs {
		record.Attributes[key] = value
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.finishedSpans = append(s.finishedSpans, record)
}

// StartedSpans returns a copy of the names of all started spans.
func (s *TracingCollectorSpy) StartedSpans() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, len(s.startedSpans))
	copy(names, s.startedSpans)

	return names
}

// FinishedSpans returns a copy of all finished span records.
func (s *TracingCollectorSpy) FinishedSpans() []SpySpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]SpySpanRecord, len(s.finishedSpans))
	copy(records, s.finishedSpans)

	return records
}

// HasFinishedSpan reports whether a span with the given name and status was finished.
func (s *TracingCollectorSpy) HasFinishedSpan(name, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.finishedSpans {
		if record.Name == name && record.Status == status {
			return true
		}
	}

	return false
}
