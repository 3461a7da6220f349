package services

import "sync"

// roomLocks serializes booking creation per room. The overlap check and the
// booking insert are separate store operations; without serialization two
// concurrent requests for the same room can both pass the check. The unique
// conflict-key index remains as the store-level backstop for identical
// ranges, but only this lock rejects overlapping-but-not-identical ones.
type roomLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[uint]*sync.Mutex)}
}

// forRoom returns the mutex guarding a room, creating it on first use.
// Entries are never evicted; the map is bounded by the number of rooms.
func (r *roomLocks) forRoom(roomID uint) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[roomID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[roomID] = l
	}
	return l
}
