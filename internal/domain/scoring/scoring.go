// Package scoring derives the displayed in-game score from rally outcomes.
//
// Every call recomputes from the supplied sections; nothing is cached, so
// concurrent callers may share the same slice freely.
package scoring

import (
	"fmt"

	"github.com/okian/rallyscore/internal/domain/model"
	"github.com/okian/rallyscore/internal/domain/rally"
	"github.com/okian/rallyscore/internal/domain/segment"
)

// Deuce is reached once both sides hold at least this many points.
const deucePoints = 3

// PointScore is the score shown after one section.
type PointScore struct {
	SectionID string          `json:"sectionId"`
	GameIndex int             `json:"gameIndex"`
	NewGame   bool            `json:"newGame"`
	Winner    model.Side      `json:"winner"`
	Score     model.ScorePair `json:"score"`
}

// TokensFor maps the running counts of an unfinished game to tokens.
func TokensFor(top, bottom int) model.ScorePair {
	if top >= deucePoints && bottom >= deucePoints {
		switch {
		case top == bottom:
			return model.ScorePair{Top: model.Forty, Bottom: model.Forty}
		case top > bottom:
			return model.ScorePair{Top: model.Advantage, Bottom: model.Forty}
		default:
			return model.ScorePair{Top: model.Forty, Bottom: model.Advantage}
		}
	}
	return model.ScorePair{Top: model.TokenForCount(top), Bottom: model.TokenForCount(bottom)}
}

// wonBy is the terminal pair for a game closed by side.
func wonBy(side model.Side) model.ScorePair {
	if side == model.SideTop {
		return model.ScorePair{Top: model.Won, Bottom: model.Lost}
	}
	return model.ScorePair{Top: model.Lost, Bottom: model.Won}
}

// replay runs the events of one game up to and including position upto.
func replay(g model.Game, upto int) model.ScorePair {
	var counts segment.Counts
	for i := 0; i <= upto && i < len(g.Events); i++ {
		if counts.Add(g.Events[i].Winner) {
			return wonBy(g.Events[i].Winner)
		}
	}
	return TokensFor(counts.Top, counts.Bottom)
}

// Analyse extracts and segments sections in one step.
func Analyse(sections []model.Section, cfg rally.Config) ([]model.PointEvent, segment.Result, error) {
	events, err := rally.Extract(sections, cfg)
	if err != nil {
		return nil, segment.Result{}, err
	}
	return events, segment.Segment(events), nil
}

// ScoreAt returns the score pair displayed at targetID. The winning point
// of a game reads WON/LOST; every other point reads 0/15/30/40/AD.
func ScoreAt(sections []model.Section, targetID string, cfg rally.Config) (model.ScorePair, error) {
	_, res, err := Analyse(sections, cfg)
	if err != nil {
		return model.ScorePair{}, err
	}
	ps, err := Lookup(res, targetID)
	if err != nil {
		return model.ScorePair{}, err
	}
	return ps.Score, nil
}

// Lookup replays the game holding targetID within an already segmented
// match.
func Lookup(res segment.Result, targetID string) (PointScore, error) {
	g, pos, ok := res.GameOf(targetID)
	if !ok {
		return PointScore{}, fmt.Errorf("%w: %q", ErrSectionNotFound, targetID)
	}
	return PointScore{
		SectionID: targetID,
		GameIndex: g.Index,
		NewGame:   res.IsNewGameStart(targetID),
		Winner:    g.Events[pos].Winner,
		Score:     replay(g, pos),
	}, nil
}

// Timeline returns the score after every section in a single pass.
func Timeline(sections []model.Section, cfg rally.Config) ([]PointScore, error) {
	events, err := rally.Extract(sections, cfg)
	if err != nil {
		return nil, err
	}
	out := make([]PointScore, 0, len(events))
	var (
		counts segment.Counts
		game   int
	)
	for i, ev := range events {
		ps := PointScore{
			SectionID: ev.SectionID,
			GameIndex: game,
			NewGame:   i > 0 && counts == (segment.Counts{}),
			Winner:    ev.Winner,
		}
		if counts.Add(ev.Winner) {
			ps.Score = wonBy(ev.Winner)
			counts = segment.Counts{}
			game++
		} else {
			ps.Score = TokensFor(counts.Top, counts.Bottom)
		}
		out = append(out, ps)
	}
	return out, nil
}
