package mocks

import (
	"context"
	"sync"

	"github.com/Domenick1991/restate/internal/kafka"
)

// EventRecorder collects emitted events for assertions.
type EventRecorder struct {
	mu     sync.Mutex
	Events []kafka.Event
}

func (r *EventRecorder) Emit(_ context.Context, event kafka.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, event)
}

func (r *EventRecorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		types = append(types, e.Type)
	}
	return types
}

func (r *EventRecorder) Last() kafka.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Events) == 0 {
		return kafka.Event{}
	}
	return r.Events[len(r.Events)-1]
}
