// Package ctxstore keeps the shared key-value context of a bridge together with
// its full version history.
//
// Every snapshot is an immutable radix tree. A mutation inserts into the latest
// tree and appends the new version, so snapshots share structure with their
// predecessors instead of copying the whole context.
//
// The live context holds the caller's values; snapshots hold private deep
// copies taken when the snapshot is recorded. Values without pointers, maps or
// slices are shared between snapshots. Mutable values (including stored
// objects such as class instances) are copied again on every snapshot, so each
// snapshot reflects the context exactly as it was. Reads from a snapshot
// return fresh copies.
package ctxstore

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	iradix "github.com/hashicorp/go-immutable-radix"
)

// Snapshot is one immutable version of the context.
type Snapshot struct {
	ID      string
	Created time.Time
	tree    *iradix.Tree
}

// Get returns a copy of the value stored under key.
func (s Snapshot) Get(key string) (any, bool) {
	if s.tree == nil {
		return nil, false
	}
	v, ok := s.tree.Get([]byte(key))
	if !ok {
		return nil, false
	}
	return Clone(v), true
}

// Len returns the number of keys in the snapshot.
func (s Snapshot) Len() int {
	if s.tree == nil {
		return 0
	}
	return s.tree.Len()
}

// Keys returns all keys in lexical order.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, s.Len())
	s.walk(func(k string, _ any) {
		keys = append(keys, k)
	})
	return keys
}

// Map returns a deep copy of the snapshot as a plain map.
func (s Snapshot) Map() map[string]any {
	m := make(map[string]any, s.Len())
	s.walk(func(k string, v any) {
		m[k] = Clone(v)
	})
	return m
}

func (s Snapshot) walk(fn func(k string, v any)) {
	if s.tree == nil {
		return
	}
	s.tree.Root().Walk(func(k []byte, v interface{}) bool {
		fn(string(k), v)
		return false
	})
}

// Option configures a Store.
type Option func(*Store)

// WithIDFunc sets the generator for snapshot IDs.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock sets the time source for snapshot creation times.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// Store is the live context plus its append-only history. The last snapshot
// records the live context as of the latest mutation. Store is not safe for
// concurrent use.
type Store struct {
	live    map[string]any
	history []Snapshot
	newID   func() string
	now     func() time.Time
}

// New creates a store whose history holds a single empty snapshot.
func New(opts ...Option) *Store {
	s := &Store{
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

func (s *Store) snapshot(tree *iradix.Tree) Snapshot {
	return Snapshot{ID: s.newID(), Created: s.now(), tree: tree}
}

func (s *Store) reset() {
	s.live = make(map[string]any)
	s.history = []Snapshot{s.snapshot(iradix.New())}
}

// Current returns the latest snapshot.
func (s *Store) Current() Snapshot {
	return s.history[len(s.history)-1]
}

// Get reads key from the live context. The value is the stored reference, not
// a copy, so objects kept in the context can be mutated in place.
func (s *Store) Get(key string) (any, bool) {
	v, ok := s.live[key]
	return v, ok
}

// Values returns the live context as a new map holding the stored references.
func (s *Store) Values() map[string]any {
	return maps.Clone(s.live)
}

// Keys returns the live keys in lexical order.
func (s *Store) Keys() []string {
	return slices.Sorted(maps.Keys(s.live))
}

// Set stores value under key and appends a snapshot of the whole live context
// to history.
func (s *Store) Set(key string, value any) Snapshot {
	s.live[key] = value

	txn := s.Current().tree.Txn()
	for k, v := range s.live {
		if k == key || !shareable(v) {
			txn.Insert([]byte(k), Clone(v))
		}
	}
	snap := s.snapshot(txn.Commit())
	s.history = append(s.history, snap)
	return snap
}

// Clear empties the context and discards all history.
func (s *Store) Clear() {
	s.reset()
}

// Restore makes history[index] the live context again and records the
// restoration as a new history entry. It reports false if index is out of
// range.
func (s *Store) Restore(index int) (Snapshot, bool) {
	if index < 0 || index >= len(s.history) {
		return Snapshot{}, false
	}
	snap := s.snapshot(s.history[index].tree)
	s.live = snap.Map()
	s.history = append(s.history, snap)
	return snap, true
}

// History returns every snapshot, oldest first.
func (s *Store) History() []Snapshot {
	out := make([]Snapshot, len(s.history))
	copy(out, s.history)
	return out
}

// Len returns the history length.
func (s *Store) Len() int {
	return len(s.history)
}
