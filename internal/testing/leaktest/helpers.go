// Package leaktest checks that code under test does not leave goroutines behind.
package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// settleTimeout is how long Check waits for goroutines to wind down.
const settleTimeout = 2 * time.Second

// GoroutineChecker records the goroutine count at creation and compares it
// against the count when Check is called.
type GoroutineChecker struct {
	before int
	t      testing.TB
}

// NewGoroutineChecker creates a new checker and records the current goroutine count
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()

	runtime.Gosched()
	time.Sleep(10 * time.Millisecond)

	return &GoroutineChecker{
		before: runtime.NumGoroutine(),
		t:      t,
	}
}

// Check fails the test if, after up to settleTimeout, more than tolerance
// goroutines remain beyond the recorded baseline.
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	limit := g.before + tolerance
	deadline := time.Now().Add(settleTimeout)
	after := runtime.NumGoroutine()
	for after > limit && time.Now().Before(deadline) {
		runtime.Gosched()
		time.Sleep(10 * time.Millisecond)
		after = runtime.NumGoroutine()
	}

	if after > limit {
		g.t.Errorf("Potential goroutine leak: before=%d, after=%d, leaked=%d (tolerance=%d)",
			g.before, after, after-g.before, tolerance)
	}
}
