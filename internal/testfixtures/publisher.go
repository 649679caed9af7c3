package testfixtures

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
)

// RecordingPublisher guarda os eventos publicados, na ordem.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
	closed bool
}

func (p *RecordingPublisher) Publish(_ context.Context, ev notify.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *RecordingPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *RecordingPublisher) Events() []notify.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notify.Event, len(p.events))
	copy(out, p.events)
	return out
}

func (p *RecordingPublisher) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
