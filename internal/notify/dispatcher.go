package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const publishTimeout = 5 * time.Second

// Dispatcher entrega eventos em segundo plano; a API nunca espera o broker.
type Dispatcher struct {
	pub    Publisher
	logger *slog.Logger
	queue  chan Event
	done   chan struct{}
	once   sync.Once
}

func NewDispatcher(pub Publisher, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		pub:    pub,
		logger: logger,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := d.pub.Publish(ctx, ev); err != nil {
			d.logger.Error("notification publish failed",
				"event_id", ev.ID,
				"event_type", ev.Type,
				"err", err,
			)
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	select {
	case d.queue <- ev:
	default:
		// fila cheia: descarta, a agenda já foi gravada
		d.logger.Warn("notification queue full, dropping event", "event_type", ev.Type)
	}
}

// Close drena a fila e fecha o publisher.
func (d *Dispatcher) Close() error {
	if d == nil {
		return nil
	}

	var err error
	d.once.Do(func() {
		close(d.queue)
		<-d.done
		err = d.pub.Close()
	})
	return err
}
