package events

import (
	"sync"

	"go.uber.org/zap"
)

// Emitter delivers event records to the outside world.
type Emitter interface {
	Emit(Event)
}

// EmitterFunc is an adapter to allow the use of ordinary functions as
// Emitter.
type EmitterFunc func(Event)

// Emit implements Emitter.
func (f EmitterFunc) Emit(e Event) {
	f(e)
}

// Discard is an Emitter dropping all events.
var Discard Emitter = EmitterFunc(func(Event) {})

// LogEmitter writes NEP-297 lines of the events into the log.
type LogEmitter struct {
	log *zap.Logger
}

// NewLogEmitter returns LogEmitter writing into l.
func NewLogEmitter(l *zap.Logger) *LogEmitter {
	return &LogEmitter{log: l}
}

// Emit implements Emitter.
func (x *LogEmitter) Emit(e Event) {
	line, err := Format(e)
	if err != nil {
		x.log.Error("failed to format event", zap.String("event", e.Name()), zap.Error(err))
		return
	}

	x.log.Info(line, zap.String("event", e.Name()))
}

// Recorder keeps all emitted events in memory.
type Recorder struct {
	mtx    sync.Mutex
	events []Event
}

// Emit implements Emitter.
func (x *Recorder) Emit(e Event) {
	x.mtx.Lock()
	x.events = append(x.events, e)
	x.mtx.Unlock()
}

// Events returns copy of the recorded events in emission order.
func (x *Recorder) Events() []Event {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	return append([]Event(nil), x.events...)
}

// Reset drops all recorded events.
func (x *Recorder) Reset() {
	x.mtx.Lock()
	x.events = nil
	x.mtx.Unlock()
}

// Multi returns Emitter passing events to every one of es.
func Multi(es ...Emitter) Emitter {
	return EmitterFunc(func(e Event) {
		for i := range es {
			es[i].Emit(e)
		}
	})
}
