package audit

import (
	"sync"

	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// AppointmentEvent is the common shape for lifecycle audit entries.
// actorID 0 means the system (sweep).
func AppointmentEvent(action string, actorID uint, appointmentID uint, meta any) Event {
	ev := Event{
		Action:   action,
		Entity:   "appointment",
		EntityID: &appointmentID,
		Metadata: meta,
	}
	if actorID != 0 {
		ev.UserID = &actorID
	}
	return ev
}

type Recorder interface {
	Log(ev Event) error
}

type Dispatcher struct {
	recorder Recorder
	queue    chan Event

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(recorder Recorder) *Dispatcher {
	d := &Dispatcher{
		recorder: recorder,
		queue:    make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.recorder.Log(ev); err != nil {
			logger.Error("audit error", "action", ev.Action, "error", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		// never break the request over an audit entry
		logger.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close drains pending events.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}
