package db

import (
	"context"
	"sync"
)

// Handle is a lazily opened, shared store connection. The first successful
// open is cached; a failed open is retried on the next Get.
type Handle[T any] struct {
	mu    sync.Mutex
	open  func(context.Context) (T, error)
	close func(T)
	v     T
	ok    bool
}

func NewHandle[T any](open func(context.Context) (T, error), close func(T)) *Handle[T] {
	return &Handle[T]{open: open, close: close}
}

func (h *Handle[T]) Get(ctx context.Context) (T, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ok {
		return h.v, nil
	}
	v, err := h.open(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	h.v, h.ok = v, true
	return v, nil
}

// Close releases the cached value, if any. The handle may be reopened afterwards.
func (h *Handle[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ok && h.close != nil {
		h.close(h.v)
	}
	var zero T
	h.v, h.ok = zero, false
}
