package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/okian/rallyscore/internal/domain/model"
)

type match struct {
	sections []model.Section
	ids      map[string]struct{}
}

// MemoryStore is an in-memory Store. Readers receive deep copies, so a
// snapshot stays valid while writers replace or extend the match.
type MemoryStore struct {
	mu          sync.RWMutex
	matches     map[string]*match
	total       int
	maxSections int
	onResize    func(matches, sections int)
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		matches:  make(map[string]*match),
		onResize: func(int, int) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func cloneSection(sec model.Section) model.Section {
	if sec.Summary != nil {
		sum := *sec.Summary
		sec.Summary = &sum
	}
	return sec
}

func checkMatchID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidMatchID
	}
	return nil
}

// Replace implements Store.
func (s *MemoryStore) Replace(_ context.Context, matchID string, sections []model.Section) error {
	if err := checkMatchID(matchID); err != nil {
		return err
	}
	if s.maxSections > 0 && len(sections) > s.maxSections {
		return fmt.Errorf("%w: %d > %d", ErrTooManySections, len(sections), s.maxSections)
	}
	m := &match{
		sections: make([]model.Section, 0, len(sections)),
		ids:      make(map[string]struct{}, len(sections)),
	}
	for i, sec := range sections {
		if strings.TrimSpace(sec.ID) == "" {
			return fmt.Errorf("%w: empty id at index %d", ErrInvalidSectionID, i)
		}
		if _, dup := m.ids[sec.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateSection, sec.ID)
		}
		m.ids[sec.ID] = struct{}{}
		m.sections = append(m.sections, cloneSection(sec))
	}

	s.mu.Lock()
	if old, ok := s.matches[matchID]; ok {
		s.total -= len(old.sections)
	}
	s.matches[matchID] = m
	s.total += len(m.sections)
	matches, total := len(s.matches), s.total
	s.mu.Unlock()

	s.onResize(matches, total)
	return nil
}

// Append implements Store.
func (s *MemoryStore) Append(_ context.Context, matchID string, sec model.Section) error {
	if err := checkMatchID(matchID); err != nil {
		return err
	}
	if strings.TrimSpace(sec.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidSectionID)
	}

	s.mu.Lock()
	m, ok := s.matches[matchID]
	if !ok {
		m = &match{ids: make(map[string]struct{})}
	}
	if _, dup := m.ids[sec.ID]; dup {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrDuplicateSection, sec.ID)
	}
	if s.maxSections > 0 && len(m.sections) >= s.maxSections {
		s.mu.Unlock()
		return fmt.Errorf("%w: limit %d", ErrTooManySections, s.maxSections)
	}
	m.ids[sec.ID] = struct{}{}
	m.sections = append(m.sections, cloneSection(sec))
	s.matches[matchID] = m
	s.total++
	matches, total := len(s.matches), s.total
	s.mu.Unlock()

	s.onResize(matches, total)
	return nil
}

// Sections implements Store.
func (s *MemoryStore) Sections(_ context.Context, matchID string) ([]model.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[matchID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, matchID)
	}
	out := make([]model.Section, len(m.sections))
	for i, sec := range m.sections {
		out[i] = cloneSection(sec)
	}
	return out, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, matchID string) error {
	s.mu.Lock()
	m, ok := s.matches[matchID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrNotFound, matchID)
	}
	delete(s.matches, matchID)
	s.total -= len(m.sections)
	matches, total := len(s.matches), s.total
	s.mu.Unlock()

	s.onResize(matches, total)
	return nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) (matches, sections int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matches), s.total
}
