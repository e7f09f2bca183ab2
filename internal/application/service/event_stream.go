package service

import (
	"context"
	"errors"
	"sync"

	"crew-agent/internal/application/port/output"
	"crew-agent/internal/domain/entity"
)

const defaultStreamBuffer = 64

var ErrStreamClosed = errors.New("event stream closed")

var _ output.EventSink = (*EventStream)(nil)

// EventStream is a bounded FIFO between one producer and one consumer.
// Emit blocks while the buffer is full and gives up when ctx is done, so a
// vanished consumer never wedges the producer. Close is the end-of-stream
// marker.
type EventStream struct {
	ch     chan entity.Event
	mu     sync.RWMutex
	closed bool
}

func NewEventStream(buffer int) *EventStream {
	if buffer <= 0 {
		buffer = defaultStreamBuffer
	}
	return &EventStream{ch: make(chan entity.Event, buffer)}
}

func (s *EventStream) Emit(ctx context.Context, ev entity.Event) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrStreamClosed
	}

	select {
	case s.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *EventStream) Events() <-chan entity.Event {
	return s.ch
}

func (s *EventStream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
