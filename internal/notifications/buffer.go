package notifications

import (
	"context"
	"sync"
)

// Buffer collects notifications emitted while serving one request so they can
// be returned to the client as toasts.
type Buffer struct {
	mu    sync.Mutex
	items []Notification
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Notify(_ context.Context, n Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, n)
}

// Drain returns the collected notifications and empties the buffer.
func (b *Buffer) Drain() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items
	b.items = nil
	if out == nil {
		return []Notification{}
	}
	return out
}

type bufferKey struct{}

// WithBuffer attaches buf to ctx.
func WithBuffer(ctx context.Context, buf *Buffer) context.Context {
	return context.WithValue(ctx, bufferKey{}, buf)
}

// BufferFromContext returns the buffer attached to ctx, if any.
func BufferFromContext(ctx context.Context) (*Buffer, bool) {
	buf, ok := ctx.Value(bufferKey{}).(*Buffer)
	return buf, ok && buf != nil
}

// ContextSink forwards notifications to the Buffer carried by the context.
// Notifications on a context without a buffer are dropped.
type ContextSink struct{}

func (ContextSink) Notify(ctx context.Context, n Notification) {
	if buf, ok := BufferFromContext(ctx); ok {
		buf.Notify(ctx, n)
	}
}
