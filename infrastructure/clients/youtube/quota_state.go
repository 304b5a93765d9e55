package youtube

import (
	"context"
	"sort"
	"sync"
)

// MemoryQuotaState keeps rotation bookkeeping in process.
type MemoryQuotaState struct {
	mu        sync.Mutex
	cursor    int
	exhausted map[int]struct{}
}

func NewMemoryQuotaState() *MemoryQuotaState {
	return &MemoryQuotaState{exhausted: make(map[int]struct{})}
}

func (s *MemoryQuotaState) Load(ctx context.Context) (int, []int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor, sortedIndices(s.exhausted), nil
}

func (s *MemoryQuotaState) SetCursor(ctx context.Context, cursor int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = cursor
	return nil
}

func (s *MemoryQuotaState) MarkExhausted(ctx context.Context, index, next int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exhausted[index] = struct{}{}
	s.cursor = next
	return nil
}

func (s *MemoryQuotaState) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = 0
	s.exhausted = make(map[int]struct{})
	return nil
}

func sortedIndices(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for i := range set {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
