// Package exclusive enforces the single-mutable-view discipline of the linear containers at
// runtime.
//
// A container embeds a Guard. Handing out a view that may write into the container's storage
// (an entry handle, a mutable iterator) acquires the guard, and ending that view releases it.
// While the guard is held, the container's own mutating methods and any further exclusive
// acquisition panic. Range loops over the container register themselves as shared borrowers for the
// duration of the loop, which blocks mutation in the same way. Other read-only access is never
// checked.
//
// A Guard is not a lock: it never blocks and it does not make a container safe for concurrent
// use. It only turns aliasing mistakes into loud failures at the call site that caused them.
package exclusive

import (
	"fmt"
	"sync"

	"github.com/Scusemua/go-utils/config"
	"github.com/Scusemua/go-utils/logger"
	"github.com/petermattis/goid"
)

var (
	log     logger.Logger
	logOnce sync.Once
)

func getLogger() logger.Logger {
	logOnce.Do(func() {
		config.InitLogger(&log, "ExclusiveGuard ")
	})
	return log
}

// ViolationError is the panic value raised when an exclusively borrowed container is mutated, or
// borrowed a second time.
type ViolationError struct {
	// Op is the operation that was attempted.
	Op string

	// Holder names the view currently holding the guard, or the outstanding shared borrows.
	Holder string

	// Goroutine is the ID of the goroutine that took the borrow.
	Goroutine int64
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("cannot %s: container is borrowed by %s (taken on goroutine %d)",
		e.Op, e.Holder, e.Goroutine)
}

// Guard records whether a container is currently lent out through an exclusive view.
//
// The zero value is an unheld Guard.
type Guard struct {
	holder    string
	goroutine int64
	held      bool
	shared    int
}

// Acquire takes the guard on behalf of holder.
//
// Acquire panics with a *ViolationError if the guard is already held.
func (g *Guard) Acquire(holder string) {
	g.Check("acquire " + holder)

	g.holder = holder
	g.goroutine = goid.Get()
	g.held = true
}

// Release gives the guard back. Releasing an unheld guard is a no-op.
func (g *Guard) Release() {
	if !g.held {
		return
	}
	g.holder = ""
	g.held = false
}

// Share registers a read-only borrower, typically a range loop. Shared borrows nest and do not
// conflict with each other or with an exclusive holder, but while any is outstanding Check and
// Acquire panic.
func (g *Guard) Share() {
	if g.shared == 0 && !g.held {
		g.goroutine = goid.Get()
	}
	g.shared++
}

// Unshare ends a borrow registered with Share.
func (g *Guard) Unshare() {
	if g.shared > 0 {
		g.shared--
	}
}

// Check panics with a *ViolationError if the guard is held or shared. op names the attempted
// operation and is only used to build the panic message.
func (g *Guard) Check(op string) {
	if !g.held && g.shared == 0 {
		return
	}

	holder := g.holder
	if !g.held {
		holder = fmt.Sprintf("%d read-only iteration(s)", g.shared)
	}

	err := &ViolationError{
		Op:        op,
		Holder:    holder,
		Goroutine: g.goroutine,
	}
	getLogger().Error("%v (current goroutine: %d)", err, goid.Get())
	panic(err)
}

// Shared returns the number of outstanding read-only borrows.
func (g *Guard) Shared() int {
	return g.shared
}

// Held returns true if an exclusive view is currently alive.
func (g *Guard) Held() bool {
	return g.held
}

// Holder returns the name of the view holding the guard, or the empty string.
func (g *Guard) Holder() string {
	return g.holder
}
