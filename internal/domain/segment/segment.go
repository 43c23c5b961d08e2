// Package segment partitions a stream of point events into games.
package segment

import "github.com/okian/rallyscore/internal/domain/model"

// Game win condition on raw point counts.
const (
	minWinningPoints = 4
	minWinningLead   = 2
)

// Wins reports whether a side holding count points against opp has won
// the game. Deuce and Advantage need no special case: the test runs on
// integers, and tokens are derived from the differential afterwards.
func Wins(count, opp int) bool {
	return count >= minWinningPoints && count-opp >= minWinningLead
}

// Counts is the running point tally of the current game.
type Counts struct {
	Top    int
	Bottom int
}

// Add credits one point to side and reports whether it won the game.
func (c *Counts) Add(side model.Side) bool {
	switch side {
	case model.SideTop:
		c.Top++
		return Wins(c.Top, c.Bottom)
	case model.SideBottom:
		c.Bottom++
		return Wins(c.Bottom, c.Top)
	default:
		return false
	}
}

// Result is the segmentation of a point stream.
type Result struct {
	Games []model.Game
	// NewGameStarts holds the section ids that open a game after a
	// finished one. The first point of the stream is never included.
	NewGameStarts map[string]struct{}
}

// IsNewGameStart reports whether id opens a new game.
func (r Result) IsNewGameStart(id string) bool {
	_, ok := r.NewGameStarts[id]
	return ok
}

// GameOf returns the game containing id and the event's position in it.
func (r Result) GameOf(id string) (model.Game, int, bool) {
	for _, g := range r.Games {
		for i, ev := range g.Events {
			if ev.SectionID == id {
				return g, i, true
			}
		}
	}
	return model.Game{}, 0, false
}

// Segment walks events in order and closes a game on every winning point.
func Segment(events []model.PointEvent) Result {
	res := Result{NewGameStarts: make(map[string]struct{})}
	var (
		counts  Counts
		current []model.PointEvent
	)
	for i, ev := range events {
		current = append(current, ev)
		if !counts.Add(ev.Winner) {
			continue
		}
		res.Games = append(res.Games, model.Game{
			Index:    len(res.Games),
			Events:   current,
			Winner:   ev.Winner,
			Complete: true,
		})
		current = nil
		counts = Counts{}
		if i+1 < len(events) {
			res.NewGameStarts[events[i+1].SectionID] = struct{}{}
		}
	}
	if len(current) > 0 {
		res.Games = append(res.Games, model.Game{Index: len(res.Games), Events: current})
	}
	return res
}
