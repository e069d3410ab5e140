// Package publisher fronts an audit.Store with optional asynchronous buffering.
package publisher

import (
	"context"
	"errors"
	"sync"
	"time"

	id "lifeline/pkg/domain"
	audit "lifeline/pkg/platform/audit"
)

var ErrBufferFull = errors.New("audit buffer full")

// Publisher writes events to a store. In async mode events go through a
// bounded channel drained by a single goroutine; Emit never blocks on the store.
type Publisher struct {
	store audit.Store

	bufferSize int
	inbox      chan audit.Event
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer enables async mode with a channel of the given capacity.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.bufferSize = size
		}
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufferSize > 0 {
		p.inbox = make(chan audit.Event, p.bufferSize)
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.inbox {
		// Detached from the emitter's context so cancellation after Emit does not lose events.
		_ = p.store.Append(context.Background(), event)
	}
}

// Emit records an event. A zero Timestamp is set to now.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}

	select {
	case p.inbox <- event:
		return nil
	default:
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrBufferFull
}

func (p *Publisher) List(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	return p.store.ListByUser(ctx, userID)
}

// Close stops accepting events and waits until buffered events are stored.
// Emit must not be called after Close.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		if p.inbox != nil {
			close(p.inbox)
			p.wg.Wait()
		}
	})
}
