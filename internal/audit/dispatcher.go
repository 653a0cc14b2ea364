package audit

import "github.com/sirupsen/logrus"

type Event struct {
	ActorID   *uint
	ActorRole string
	Action    string
	Entity    string
	EntityID  *uint
	Metadata  any
}

// Sink records one audit event durably. Logger is the gorm-backed sink.
type Sink interface {
	Log(actorID *uint, actorRole, action, entity string, entityID *uint, metadata any) error
}

type Dispatcher struct {
	sink  Sink
	log   *logrus.Logger
	queue chan Event
}

func NewDispatcher(sink Sink, log *logrus.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		log:   log,
		queue: make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.sink.Log(
			ev.ActorID,
			ev.ActorRole,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			d.log.WithError(err).Warn("audit write failed")
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		// full queue drops the event, the API never blocks on audit
		d.log.Warn("audit queue full, dropping event")
	}
}
