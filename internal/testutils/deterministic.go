// Package testutils provides deterministic generators and helpers for tests
// and for the CLI's --test-mode. Deterministic values keep the production
// formats so output stays comparable.
package testutils

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// BaseTime is the first timestamp returned by a deterministic clock.
var BaseTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// IDGenerator returns a snapshot ID generator. In test mode it yields UUIDs
// like 00000001-0000-4000-8000-000000000001, 00000002-..., in order; otherwise
// random UUIDs.
func IDGenerator(testMode bool) func() string {
	if !testMode {
		return uuid.NewString
	}

	var (
		mu sync.Mutex
		n  uint64
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%08x-0000-4000-8000-%012x", n, n)
	}
}

// Clock returns a time source. In test mode each call returns a time one
// second after the previous one, starting at BaseTime; otherwise time.Now.
func Clock(testMode bool) func() time.Time {
	if !testMode {
		return time.Now
	}

	var (
		mu sync.Mutex
		n  int64
	)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := BaseTime.Add(time.Duration(n) * time.Second)
		n++
		return t
	}
}
