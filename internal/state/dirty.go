package state

import "sync/atomic"

// Dirty signals that a redraw is owed. Mark is safe from any goroutine and
// never blocks.
type Dirty struct {
	flag atomic.Bool
	wake chan struct{}
}

// NewDirty returns a signal that starts dirty so the first frame is painted.
func NewDirty() *Dirty {
	d := &Dirty{wake: make(chan struct{}, 1)}
	d.Mark()
	return d
}

// Mark sets the flag and wakes a waiting renderer.
func (d *Dirty) Mark() {
	if d == nil {
		return
	}
	d.flag.Store(true)
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Take clears the flag and reports whether it was set.
func (d *Dirty) Take() bool {
	if d == nil {
		return false
	}
	return d.flag.Swap(false)
}

// Pending reports the flag without clearing it.
func (d *Dirty) Pending() bool {
	if d == nil {
		return false
	}
	return d.flag.Load()
}

// Wake is signalled at most once per burst of Mark calls.
func (d *Dirty) Wake() <-chan struct{} {
	return d.wake
}
