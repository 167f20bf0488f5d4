package consumer

import "sync"

// CommitState is the last committed record offset per partition, as seen by
// one loop. It only moves forward.
type CommitState struct {
	mu      sync.RWMutex
	offsets map[int]int64
}

// NewCommitState creates an empty state.
func NewCommitState() *CommitState {
	return &CommitState{offsets: make(map[int]int64)}
}

// Advance records offset as committed for partition. It returns false and
// leaves the state alone when offset is not past the current one.
func (s *CommitState) Advance(partition int, offset int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.offsets[partition]; ok && offset <= cur {
		return false
	}
	s.offsets[partition] = offset
	return true
}

// Committed returns the last committed record offset of partition.
func (s *CommitState) Committed(partition int) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	off, ok := s.offsets[partition]
	return off, ok
}

// Snapshot returns a copy of all committed offsets.
func (s *CommitState) Snapshot() map[int]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int]int64, len(s.offsets))
	for p, off := range s.offsets {
		out[p] = off
	}
	return out
}
