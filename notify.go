package pomelo

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrEventInvalid = errors.New("event invalid")

// Event is anything a transaction can emit. Kind names the event type
// for handlers, something like message.changed.
type Event interface {
	Kind() string
}

// Notification wraps one committed event for delivery.
type Notification struct {
	ID    string    `json:"id"`
	Kind  string    `json:"kind"`
	At    time.Time `json:"at"`
	Event Event     `json:"event"`
}

// NotificationHandler receives committed events one by one on the
// notifier goroutine, in commit order. A handler that cannot keep up
// eventually makes commits wait.
type NotificationHandler func(n Notification)

type action func()

type notifier struct {
	started bool
	handler NotificationHandler
	queue   chan action
	lg      *zap.Logger
}

func newNotifier(handler NotificationHandler, queueSize int, lg *zap.Logger) *notifier {
	return &notifier{
		handler: handler,
		queue:   make(chan action, queueSize),
		lg:      lg,
	}
}

func (n *notifier) start() error {
	if n.started {
		return errors.New("notifier already started")
	}

	n.started = true

	go n.run()

	return nil
}

// stop - waits until every queued notification has been handled, then
// shuts the delivery goroutine down.
func (n *notifier) stop() error {
	if n.started {
		resultChan := make(chan bool)

		n.queue <- func() {
			close(n.queue)
			resultChan <- true
		}

		<-resultChan
		n.started = false
	}

	return nil
}

// dispatch - queues one notification per event, preserving emit order.
func (n *notifier) dispatch(evs []Event) {
	if !n.started {
		return
	}

	for _, ev := range evs {
		ntf := Notification{
			ID:    uuid.NewString(),
			Kind:  ev.Kind(),
			At:    time.Now().UTC(),
			Event: ev,
		}

		n.queue <- func() {
			n.handler(ntf)
			n.lg.Debug("notification delivered",
				zap.String("id", ntf.ID),
				zap.String("kind", ntf.Kind),
			)
		}
	}
}

func (n *notifier) run() {
	for a := range n.queue {
		if a == nil {
			return
		}

		a()
	}
}
