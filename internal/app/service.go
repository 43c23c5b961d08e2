// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	repository "github.com/okian/rallyscore/internal/adapters/repository"
	"github.com/okian/rallyscore/internal/domain/manual"
	"github.com/okian/rallyscore/internal/domain/model"
	"github.com/okian/rallyscore/internal/domain/rally"
	"github.com/okian/rallyscore/internal/domain/scoring"
	"github.com/okian/rallyscore/internal/domain/segment"
	"github.com/okian/rallyscore/pkg/logger"
	"github.com/okian/rallyscore/pkg/metrics"
)

// Service implements the API dependencies for rally score derivation.
type Service struct {
	mu sync.RWMutex

	store repository.Store

	// Configuration
	defaultWinner model.Side
	maxSections   int

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore replaces the in-memory section store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDefaultWinner sets the side credited for rallies without a usable
// point winner. Invalid sides are ignored.
func WithDefaultWinner(side model.Side) Option {
	return func(s *Service) {
		if side.Valid() {
			s.defaultWinner = side
		}
	}
}

// WithMaxSections bounds the sections of one match in the default store.
func WithMaxSections(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSections = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultWinner: model.SideTop,
		maxSections:   10_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore(
			repository.WithMaxSections(s.maxSections),
			repository.WithSizeHook(metrics.UpdateStoreSize),
		)
	}
	return s
}

// Start prepares the service for requests.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.started = true
	s.logger.Info(ctx, "rally score service started",
		logger.String("defaultWinner", s.defaultWinner.String()),
		logger.Int("maxSections", s.maxSections),
	)
	return nil
}

// Stop marks the service as stopped. Stored matches are kept.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "rally score service stopped")
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Get()
	}
	return l
}

// policy resolves the attribution policy for one call. SideUnknown selects
// the configured default.
func (s *Service) policy(override model.Side) rally.Config {
	if override.Valid() {
		return rally.Config{DefaultWinner: override}
	}
	return rally.Config{DefaultWinner: s.defaultWinner}
}

// errorKind is the metrics label for err.
func errorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, repository.ErrNotFound):
		return "match_not_found"
	case errors.Is(err, scoring.ErrSectionNotFound):
		return "section_not_found"
	case errors.Is(err, rally.ErrMalformedSection):
		return "malformed_section"
	case errors.Is(err, rally.ErrInvalidDefaultWinner):
		return "invalid_default_winner"
	case errors.Is(err, manual.ErrInvalidPlayerIndex):
		return "invalid_side"
	case errors.Is(err, manual.ErrInvalidDirection):
		return "invalid_direction"
	case errors.Is(err, repository.ErrDuplicateSection):
		return "duplicate_section"
	case errors.Is(err, repository.ErrTooManySections):
		return "too_many_sections"
	default:
		return "internal"
	}
}

// ReplaceSections stores sections as the full section list of a match.
func (s *Service) ReplaceSections(ctx context.Context, matchID string, sections []model.Section) error {
	if err := s.store.Replace(ctx, matchID, sections); err != nil {
		metrics.RecordErrorByType(errorKind(err), "warning")
		return fmt.Errorf("replace sections of %q: %w", matchID, err)
	}
	s.log().Debug(ctx, "sections replaced",
		logger.String("match", matchID),
		logger.Int("sections", len(sections)),
	)
	return nil
}

// AppendSection adds one section at the end of a match.
func (s *Service) AppendSection(ctx context.Context, matchID string, section model.Section) error {
	if err := s.store.Append(ctx, matchID, section); err != nil {
		metrics.RecordErrorByType(errorKind(err), "warning")
		return fmt.Errorf("append section to %q: %w", matchID, err)
	}
	s.log().Debug(ctx, "section appended",
		logger.String("match", matchID),
		logger.String("section", section.ID),
	)
	return nil
}

// DeleteMatch drops a match and its sections.
func (s *Service) DeleteMatch(ctx context.Context, matchID string) error {
	if err := s.store.Delete(ctx, matchID); err != nil {
		return fmt.Errorf("delete match %q: %w", matchID, err)
	}
	s.log().Info(ctx, "match deleted", logger.String("match", matchID))
	return nil
}

// analyse loads a match and runs extraction and segmentation, recording
// metrics for operation.
func (s *Service) analyse(ctx context.Context, operation, matchID string, override model.Side) (segment.Result, error) {
	start := time.Now()
	sections, err := s.store.Sections(ctx, matchID)
	if err != nil {
		return segment.Result{}, err
	}
	events, res, err := scoring.Analyse(sections, s.policy(override))
	if err != nil {
		s.log().Warn(ctx, "cannot analyse match",
			logger.String("operation", operation),
			logger.String("match", matchID),
			logger.Error(err),
		)
		return segment.Result{}, err
	}
	defaulted := rally.CountDefaulted(events)
	if defaulted > 0 {
		s.log().Debug(ctx, "rallies attributed by tie-break",
			logger.String("match", matchID),
			logger.Int("defaulted", defaulted),
		)
	}
	metrics.RecordPointsExtracted(len(events), defaulted)
	metrics.RecordGamesSegmented(len(res.Games))
	metrics.RecordReplayLatency(float64(time.Since(start).Microseconds()) / 1000)
	return res, nil
}

// Score returns the score displayed at sectionID of a match. override
// replaces the default winner for this call when it is a valid side.
func (s *Service) Score(ctx context.Context, matchID, sectionID string, override model.Side) (scoring.PointScore, error) {
	res, err := s.analyse(ctx, "score", matchID, override)
	var ps scoring.PointScore
	if err == nil {
		ps, err = scoring.Lookup(res, sectionID)
	}
	metrics.RecordScoreQuery("score", errorKind(err))
	if err != nil {
		return scoring.PointScore{}, fmt.Errorf("score %q at %q: %w", matchID, sectionID, err)
	}
	return ps, nil
}

// Games returns the games of a match. The last game may be incomplete.
func (s *Service) Games(ctx context.Context, matchID string, override model.Side) ([]model.Game, error) {
	res, err := s.analyse(ctx, "games", matchID, override)
	metrics.RecordScoreQuery("games", errorKind(err))
	if err != nil {
		return nil, fmt.Errorf("games of %q: %w", matchID, err)
	}
	return res.Games, nil
}

// Timeline returns the score after every section of a match.
func (s *Service) Timeline(ctx context.Context, matchID string, override model.Side) ([]scoring.PointScore, error) {
	start := time.Now()
	sections, err := s.store.Sections(ctx, matchID)
	var tl []scoring.PointScore
	if err == nil {
		tl, err = scoring.Timeline(sections, s.policy(override))
	}
	metrics.RecordScoreQuery("timeline", errorKind(err))
	if err != nil {
		return nil, fmt.Errorf("timeline of %q: %w", matchID, err)
	}
	metrics.RecordReplayLatency(float64(time.Since(start).Microseconds()) / 1000)
	return tl, nil
}

// SeedManual returns a fresh editor state for sectionID. Any previous
// edits of the caller are discarded.
func (s *Service) SeedManual(ctx context.Context, matchID, sectionID string, override model.Side) (manual.State, error) {
	ps, err := s.Score(ctx, matchID, sectionID, override)
	if err != nil {
		return manual.State{}, err
	}
	return manual.Seed(ps.Score), nil
}

// ApplyManual presses the dir button for side on the editor state.
func (s *Service) ApplyManual(ctx context.Context, state manual.State, side model.Side, dir manual.Direction) (manual.State, manual.Kind, error) {
	next, kind, err := manual.Apply(state, side, dir)
	if err != nil {
		metrics.RecordErrorByType(errorKind(err), "warning")
		return state, manual.KindNoop, err
	}
	metrics.RecordManualTransition(string(dir), string(kind))
	s.log().Debug(ctx, "manual transition",
		logger.String("direction", string(dir)),
		logger.String("side", side.String()),
		logger.String("kind", string(kind)),
		logger.String("score", next.Pair().String()),
	)
	return next, kind, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches, sections := s.store.Count(context.Background())
	metrics.UpdateStoreSize(matches, sections)
	return map[string]any{
		"started":       s.started,
		"defaultWinner": s.defaultWinner.String(),
		"maxSections":   s.maxSections,
		"matches":       matches,
		"sections":      sections,
	}
}
