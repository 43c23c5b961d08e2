// Package rally turns raw section records into point events, one per rally.
package rally

import (
	"fmt"

	"github.com/okian/rallyscore/internal/domain/model"
)

// Config is the per-call attribution policy.
type Config struct {
	// DefaultWinner is credited whenever a section's point winner is missing
	// or not one of the two sides. Ambiguous rallies are attributed, never
	// dropped.
	DefaultWinner model.Side
}

// Validate reports whether the policy can attribute every section.
func (c Config) Validate() error {
	if !c.DefaultWinner.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidDefaultWinner, c.DefaultWinner)
	}
	return nil
}

// Extract attributes every section to exactly one side, preserving order.
// A section without a summary fails with ErrMalformedSection.
func Extract(sections []model.Section, cfg Config) ([]model.PointEvent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	events := make([]model.PointEvent, 0, len(sections))
	for i, s := range sections {
		if s.Summary == nil {
			return nil, fmt.Errorf("%w: section %q at index %d has no summary", ErrMalformedSection, s.ID, i)
		}
		ev := model.PointEvent{SectionID: s.ID, Winner: s.Summary.PointWinner}
		if !ev.Winner.Valid() {
			ev.Winner = cfg.DefaultWinner
			ev.Defaulted = true
		}
		events = append(events, ev)
	}
	return events, nil
}

// CountDefaulted returns how many events were attributed by the tie-break.
func CountDefaulted(events []model.PointEvent) int {
	n := 0
	for _, ev := range events {
		if ev.Defaulted {
			n++
		}
	}
	return n
}
