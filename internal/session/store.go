// Package session keeps completed seek and enter results in memory.
package session

import (
	"slices"
	"sync"

	"bytemomo/harpoon/internal/domain"
)

// Store is safe for concurrent use. Results are copied on the way in and out
// and only ever replaced whole.
type Store struct {
	mu     sync.RWMutex
	seeks  map[string]domain.SeekResult
	enters map[string]domain.EnterResult
}

func NewStore() *Store {
	return &Store{
		seeks:  make(map[string]domain.SeekResult),
		enters: make(map[string]domain.EnterResult),
	}
}

func (s *Store) PutSeek(res domain.SeekResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeks[res.ScanID] = res.Clone()
}

func (s *Store) GetSeek(scanID string) (domain.SeekResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.seeks[scanID]
	if !ok {
		return domain.SeekResult{}, false
	}
	return res.Clone(), true
}

func (s *Store) PutEnter(res domain.EnterResult) {
	res.Loot = slices.Clone(res.Loot)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enters[res.SessionID] = res
}

func (s *Store) GetEnter(sessionID string) (domain.EnterResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.enters[sessionID]
	res.Loot = slices.Clone(res.Loot)
	return res, ok
}

var (
	_ domain.SeekRepo  = (*Store)(nil)
	_ domain.EnterRepo = (*Store)(nil)
)
