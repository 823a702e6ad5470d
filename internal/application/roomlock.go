package application

import "sync"

// roomLocks serializes check-then-insert submissions per room. The repository
// re-runs the conflict check inside its transaction; this lock keeps the
// common contended path from burning transactions on guaranteed losers and
// covers stores without transactional conflict checks.
type roomLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for roomID, creating it on first use. The returned
// function releases it.
func (r *roomLocks) Lock(roomID string) func() {
	r.mu.Lock()
	lock, ok := r.locks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[roomID] = lock
	}
	r.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
