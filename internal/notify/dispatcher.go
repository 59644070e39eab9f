package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
)

const (
	DefaultQueueSize      = 100
	DefaultDeliverTimeout = 10 * time.Second
)

// Dispatcher is the one place where the notification policy lives:
// delivery happens off the caller's path, failures and panics are logged and
// counted, and nothing is ever returned to the caller.
type Dispatcher struct {
	sink    Sink
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan Notice
	wg     sync.WaitGroup
}

func NewDispatcher(sink Sink, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	d := &Dispatcher{
		sink:    sink,
		timeout: DefaultDeliverTimeout,
		queue:   make(chan Notice, queueSize),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for n := range d.queue {
		d.deliver(n)
	}
}

func (d *Dispatcher) deliver(n Notice) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("notification sink panicked",
				"type", n.Type, "appointment_id", n.AppointmentID, "panic", fmt.Sprint(r))
			metrics.RecordNotificationFailure(n.Type, "panic")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.sink.Deliver(ctx, n); err != nil {
		logger.Error("notification delivery failed",
			"type", n.Type, "appointment_id", n.AppointmentID, "error", err)
		metrics.RecordNotificationFailure(n.Type, "deliver")
	}
}

// Dispatch queues notices without blocking. A full queue or a closed
// dispatcher drops the notice.
func (d *Dispatcher) Dispatch(notices ...Notice) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, n := range notices {
		if d.closed {
			logger.Warn("notification dispatcher closed, dropping notice", "type", n.Type)
			metrics.RecordNotificationFailure(n.Type, "closed")
			continue
		}

		select {
		case d.queue <- n:
		default:
			logger.Warn("notification queue full, dropping notice",
				"type", n.Type, "appointment_id", n.AppointmentID)
			metrics.RecordNotificationFailure(n.Type, "queue_full")
		}
	}
}

// Close stops accepting notices and waits for queued ones to be delivered.
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
