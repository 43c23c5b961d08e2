// Package repository holds the section provider: ordered rally records per
// match, handed out as immutable snapshots.
package repository

import (
	"context"

	"github.com/okian/rallyscore/internal/domain/model"
)

// Store provides read/write access to match sections.
type Store interface {
	// Replace stores sections as the full, ordered section list of matchID.
	Replace(ctx context.Context, matchID string, sections []model.Section) error

	// Append adds one section at the end of matchID, creating the match if
	// needed. Returns ErrDuplicateSection if the id is already present.
	Append(ctx context.Context, matchID string, section model.Section) error

	// Sections returns a copy of the ordered sections of matchID.
	// Returns ErrNotFound if the match is unknown.
	Sections(ctx context.Context, matchID string) ([]model.Section, error)

	// Delete drops matchID. Returns ErrNotFound if the match is unknown.
	Delete(ctx context.Context, matchID string) error

	// Count returns the number of matches and sections held.
	Count(ctx context.Context) (matches, sections int)
}
