package internal

import (
	"fmt"

	"github.com/petermattis/goid"
)

// goroutineGuard pins a scheduler to the goroutine that created it.
type goroutineGuard struct {
	gid int64
}

func newGoroutineGuard() goroutineGuard {
	return goroutineGuard{gid: goid.Get()}
}

func (g goroutineGuard) check() {
	if gid := goid.Get(); gid != g.gid {
		panic(fmt.Errorf("%w: created on goroutine %d, called from %d", ErrWrongGoroutine, g.gid, gid))
	}
}
