package bridge

import (
	"bridges/internal/ctxstore"
	"bridges/internal/logger"
)

// Snapshot is one version of the bridge context.
type Snapshot = ctxstore.Snapshot

// UpdateContext sets key in the live context and records a new snapshot.
func (b *Bridge) UpdateContext(key string, value any) {
	b.context.Set(key, value)
	logger.ContextOperation("update", key, b.context.Len())
}

// ClearContext empties the context and resets history to one empty snapshot.
func (b *Bridge) ClearContext() {
	b.context.Clear()
	logger.ContextOperation("clear", "", b.context.Len())
}

// RestoreContext makes history[index] the live context again. The restore is
// recorded as a new snapshot; history never shrinks.
func (b *Bridge) RestoreContext(index int) error {
	if _, ok := b.context.Restore(index); !ok {
		return &HistoryIndexError{Index: index, Len: b.context.Len()}
	}
	logger.ContextOperation("restore", "", b.context.Len())
	return nil
}

// ContextHistory returns every snapshot, oldest first.
func (b *Bridge) ContextHistory() []Snapshot {
	return b.context.History()
}

// Context returns the live context as a new map. Values are the stored
// references; snapshots in ContextHistory hold independent copies.
func (b *Bridge) Context() map[string]any {
	return b.context.Values()
}

// ContextValue reads key from the live context.
func (b *Bridge) ContextValue(key string) (any, bool) {
	return b.context.Get(key)
}

// ContextKeys returns the live context keys in lexical order.
func (b *Bridge) ContextKeys() []string {
	return b.context.Keys()
}
