package service

import "sync"

// CodeLocks serializes stock mutations per item code. The outbound path
// aggregates stock across rows before deducting, which is only safe when no
// concurrent mutation for the same code interleaves between the check and
// the writes. One registry is shared by every service that moves stock, so
// an exchange return and an outbound deduction of the same code never race.
type CodeLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewCodeLocks() *CodeLocks {
	return &CodeLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for a code and returns its unlock function
func (c *CodeLocks) Lock(code string) func() {
	c.mu.Lock()
	lock, ok := c.locks[code]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[code] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
