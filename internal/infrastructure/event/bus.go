package event

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/timebill/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrBusStopped is returned when publishing to a stopped asynchronous bus
var ErrBusStopped = errors.New("event bus is stopped")

// InMemoryEventBus implements EventBus with in-memory pub/sub.
// By default events are dispatched on the publishing goroutine. With
// WithAsync, Publish enqueues and a fixed set of workers dispatch.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger

	async      bool
	workers    int
	bufferSize int
	queue      chan envelope

	running atomic.Bool
	mu      sync.RWMutex
	wg      sync.WaitGroup
}

type envelope struct {
	ctx   context.Context
	event shared.DomainEvent
}

// BusOption configures an InMemoryEventBus
type BusOption func(*InMemoryEventBus)

// WithAsync dispatches events on workers goroutines fed by a queue of
// bufferSize. Start must be called before publishing.
func WithAsync(workers, bufferSize int) BusOption {
	return func(b *InMemoryEventBus) {
		if workers <= 0 {
			workers = 1
		}
		if bufferSize < 0 {
			bufferSize = 0
		}
		b.async = true
		b.workers = workers
		b.bufferSize = bufferSize
	}
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger, opts ...BusOption) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish delivers events to their handlers. Handler errors are logged and
// never returned, so one failing handler does not block the others.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if !b.async {
		for _, event := range events {
			b.dispatch(ctx, event)
		}
		return nil
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.running.Load() {
		return ErrBusStopped
	}
	// Handlers run after the publisher returns, so drop its cancellation.
	detached := context.WithoutCancel(ctx)
	for _, event := range events {
		select {
		case b.queue <- envelope{ctx: detached, event: event}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe registers a handler for specific event types
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed",
		zap.Strings("event_types", eventTypes),
	)
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
	b.logger.Debug("handler unsubscribed")
}

// Start launches the dispatch workers of an asynchronous bus
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running.Load() {
		return nil
	}
	if b.async {
		b.queue = make(chan envelope, b.bufferSize)
		for i := 0; i < b.workers; i++ {
			b.wg.Add(1)
			go b.worker(b.queue)
		}
	}
	b.running.Store(true)
	b.logger.Info("event bus started",
		zap.Bool("async", b.async),
		zap.Int("workers", b.workers),
	)
	return nil
}

// Stop closes the queue and waits for queued events to be dispatched,
// or for ctx to end.
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.running.Load() {
		b.mu.Unlock()
		return nil
	}
	b.running.Store(false)
	if b.queue != nil {
		close(b.queue)
		b.queue = nil
	}
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		b.logger.Warn("event bus stop timed out with events pending")
		return ctx.Err()
	}
}

func (b *InMemoryEventBus) worker(queue <-chan envelope) {
	defer b.wg.Done()
	for env := range queue {
		b.dispatch(env.ctx, env.event)
	}
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, event shared.DomainEvent) {
	for _, handler := range b.registry.GetHandlers(event.EventType()) {
		if err := b.dispatchToHandler(ctx, handler, event); err != nil {
			b.logger.Error("handler failed to process event",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.Error(err),
			)
		}
	}
}

// dispatchToHandler runs one handler, turning a panic into an error
func (b *InMemoryEventBus) dispatchToHandler(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
			err = errors.New("event handler panicked")
		}
	}()

	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
