package audit

import (
	"context"
	"log/slog"
	"sync"
)

type Event struct {
	ActorKind  string
	UserID     *uint
	CustomerID *uint
	Action     string
	Entity     string
	EntityID   *uint
	Metadata   any
}

// Recorder grava um evento de auditoria (Logger em produção).
type Recorder interface {
	Log(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	recorder Recorder
	logger   *slog.Logger
	queue    chan Event
	done     chan struct{}
	once     sync.Once
}

func NewDispatcher(recorder Recorder, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		recorder: recorder,
		logger:   logger,
		queue:    make(chan Event, 100), // buffer seguro
		done:     make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.recorder.Log(context.Background(), ev); err != nil {
			d.logger.Error("audit error", "action", ev.Action, "err", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos audit (nunca quebrar API)
		d.logger.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close espera a fila esvaziar.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() {
		close(d.queue)
		<-d.done
	})
}
