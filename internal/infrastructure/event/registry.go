package event

import (
	"reflect"
	"slices"
	"sync"

	"github.com/timebill/backend/internal/domain/shared"
)

// HandlerRegistry maps event types to their handlers
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	wildcard []shared.EventHandler
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[string][]shared.EventHandler),
	}
}

// Register adds handler for eventTypes, or for every event when none are
// given. Registering the same handler twice for a type is a no-op.
// Handlers of a non-comparable type, such as func or slice based ones,
// are never deduplicated and cannot be unregistered.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		if !containsHandler(r.wildcard, handler) {
			r.wildcard = append(r.wildcard, handler)
		}
		return
	}

	for _, eventType := range eventTypes {
		if !containsHandler(r.handlers[eventType], handler) {
			r.handlers[eventType] = append(r.handlers[eventType], handler)
		}
	}
}

// Unregister removes handler from every event type
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	same := func(h shared.EventHandler) bool { return sameHandler(h, handler) }
	r.wildcard = slices.DeleteFunc(r.wildcard, same)
	for eventType, handlers := range r.handlers {
		remaining := slices.DeleteFunc(handlers, same)
		if len(remaining) == 0 {
			delete(r.handlers, eventType)
			continue
		}
		r.handlers[eventType] = remaining
	}
}

// GetHandlers returns the type-specific handlers followed by the wildcard ones.
// The returned slice is a copy.
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeHandlers := r.handlers[eventType]
	result := make([]shared.EventHandler, 0, len(typeHandlers)+len(r.wildcard))
	result = append(result, typeHandlers...)
	return append(result, r.wildcard...)
}

// Len returns the number of distinct registered handlers
func (r *HandlerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var seen []shared.EventHandler
	add := func(handlers []shared.EventHandler) {
		for _, h := range handlers {
			if !containsHandler(seen, h) {
				seen = append(seen, h)
			}
		}
	}
	add(r.wildcard)
	for _, handlers := range r.handlers {
		add(handlers)
	}
	return len(seen)
}

func containsHandler(handlers []shared.EventHandler, handler shared.EventHandler) bool {
	return slices.ContainsFunc(handlers, func(h shared.EventHandler) bool { return sameHandler(h, handler) })
}

// sameHandler compares by identity without panicking on non-comparable values
func sameHandler(a, b shared.EventHandler) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) || !reflect.ValueOf(a).Comparable() {
		return false
	}
	return a == b
}
