package parallel

import "sync"

// Barrier is a reusable rendezvous point for a fixed number of parties.
//
// The last party to arrive in a phase runs the action while holding the
// barrier lock, so the action never overlaps with other actions and sees
// every write made by the parties before they arrived. Breaking the
// barrier releases all waiters, present and future.
type Barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
	waiting int
	phase   int
	broken  bool
	action  func(phase int)
}

// NewBarrier returns a barrier for parties goroutines. action may be nil.
func NewBarrier(parties int, action func(phase int)) *Barrier {
	b := &Barrier{parties: max(parties, 1), action: action}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until all parties have arrived or the barrier is broken.
// It reports whether the phase completed.
//
// If the action panics, the barrier is broken and the panic continues in
// the goroutine that ran it.
func (b *Barrier) Wait() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.broken {
		return false
	}
	b.waiting++
	if b.waiting == b.parties {
		b.advance()
		return true
	}

	phase := b.phase
	for phase == b.phase && !b.broken {
		b.cond.Wait()
	}
	return phase != b.phase
}

func (b *Barrier) advance() {
	completed := false
	defer func() {
		if !completed {
			b.broken = true
			b.cond.Broadcast()
		}
	}()
	if b.action != nil {
		b.action(b.phase)
	}
	b.phase++
	b.waiting = 0
	completed = true
	b.cond.Broadcast()
}

// Break releases every waiter. Subsequent calls to Wait return false
// immediately.
func (b *Barrier) Break() {
	b.mu.Lock()
	b.broken = true
	b.mu.Unlock()
	b.cond.Broadcast()
}

// Broken reports whether Break was called.
func (b *Barrier) Broken() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.broken
}

// Phase returns the number of completed phases.
func (b *Barrier) Phase() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.phase
}
