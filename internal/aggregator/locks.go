package aggregator

import "sync"

// stationLocks serializes rebuilds per station. The map only ever grows by
// one entry per station seen this process lifetime, which is bounded by the
// number of stations in an election.
type stationLocks struct {
	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

func newStationLocks() *stationLocks {
	return &stationLocks{locks: make(map[uint64]*sync.Mutex)}
}

// lock acquires the station's mutex and returns its unlock function
func (s *stationLocks) lock(stationID uint64) func() {
	s.mu.Lock()
	l, ok := s.locks[stationID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[stationID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
