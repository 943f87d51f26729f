package queue

import (
	"context"

	"github.com/ecoscope/siagatani/internal/domain/slope"
)

// HandlerQueue supports setting a handler for job delivery.
type HandlerQueue interface {
	slope.JobQueue
	SetHandler(handler Handler)
}

// Handler executes a delivered job.
type Handler func(ctx context.Context, name string, payload map[string]any)

// ImmediateQueue calls the handler on enqueue without persisting the job.
type ImmediateQueue struct {
	handler Handler
}

// NewImmediateQueue constructs the queue.
func NewImmediateQueue(handler Handler) *ImmediateQueue {
	return &ImmediateQueue{handler: handler}
}

// SetHandler replaces the handler used for queued jobs.
func (q *ImmediateQueue) SetHandler(handler Handler) {
	q.handler = handler
}

// Enqueue invokes the handler asynchronously. The request context is
// detached so dispatch survives the end of the HTTP request.
func (q *ImmediateQueue) Enqueue(ctx context.Context, name string, payload any) error {
	typed, ok := payload.(map[string]any)
	if !ok {
		typed = map[string]any{}
	}
	if q.handler == nil {
		return nil
	}
	go q.handler(context.WithoutCancel(ctx), name, typed)
	return nil
}

var _ HandlerQueue = (*ImmediateQueue)(nil)
