// Package manual implements the score editor's step-wise up/down control.
//
// A State is seeded from a replayed score and afterwards evolves only
// through Up and Down. All operations return a new value; the caller owns
// the state and re-seeds it whenever a different point is selected.
package manual

import (
	"fmt"

	"github.com/okian/rallyscore/internal/domain/model"
)

// Kind names the transition an operation performed.
type Kind string

// Transition kinds.
const (
	KindStep      Kind = "step"
	KindAdvantage Kind = "advantage"
	KindDeuce     Kind = "deuce"
	KindWin       Kind = "win"
	KindRestore   Kind = "restore"
	KindNoop      Kind = "noop"
)

// Direction selects an editor button.
type Direction string

// Editor buttons.
const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// State is the editor's score. Score1 belongs to the top side and Score2 to
// the bottom side. Prev1/Prev2 hold the pair as it was right before the last
// transition into Deuce, Advantage or a win, so Down can undo it exactly.
type State struct {
	Score1 model.Token  `json:"score1"`
	Score2 model.Token  `json:"score2"`
	Prev1  *model.Token `json:"prevScore1,omitempty"`
	Prev2  *model.Token `json:"prevScore2,omitempty"`
}

// Seed builds a fresh state with no undo memory.
func Seed(p model.ScorePair) State {
	return State{Score1: p.Top, Score2: p.Bottom}
}

// Pair returns the current tokens as a score pair.
func (s State) Pair() model.ScorePair {
	return model.ScorePair{Top: s.Score1, Bottom: s.Score2}
}

// HasWinLoss reports whether the game shown is already decided.
func HasWinLoss(s State) bool {
	return s.Score1.Terminal() || s.Score2.Terminal()
}

func (s State) hasMemory() bool {
	return s.Prev1 != nil && s.Prev2 != nil
}

// tokens returns the mover's and opponent's tokens for side.
func (s State) tokens(side model.Side) (model.Token, model.Token) {
	if side == model.SideTop {
		return s.Score1, s.Score2
	}
	return s.Score2, s.Score1
}

// with returns a memoryless state holding mover/opp for side.
func with(side model.Side, mover, opp model.Token) State {
	if side == model.SideTop {
		return State{Score1: mover, Score2: opp}
	}
	return State{Score1: opp, Score2: mover}
}

// remember attaches s's current pair as undo memory to next.
func (s State) remember(next State) State {
	p1, p2 := s.Score1, s.Score2
	next.Prev1, next.Prev2 = &p1, &p2
	return next
}

func checkSide(side model.Side) error {
	if !side.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPlayerIndex, uint8(side))
	}
	return nil
}

// Up awards one point to side.
func Up(s State, side model.Side) (State, error) {
	next, _, err := UpKind(s, side)
	return next, err
}

// UpKind is Up that also reports the transition performed.
func UpKind(s State, side model.Side) (State, Kind, error) {
	if err := checkSide(side); err != nil {
		return s, KindNoop, err
	}
	if HasWinLoss(s) {
		return s, KindNoop, nil
	}
	t, o := s.tokens(side)
	switch t {
	case model.Love, model.Fifteen, model.Thirty:
		return with(side, t+1, o), KindStep, nil
	case model.Forty:
		switch o {
		case model.Forty:
			return s.remember(with(side, model.Advantage, model.Forty)), KindAdvantage, nil
		case model.Advantage:
			return s.remember(with(side, model.Forty, model.Forty)), KindDeuce, nil
		default:
			return s.remember(with(side, model.Won, model.Lost)), KindWin, nil
		}
	case model.Advantage:
		return s.remember(with(side, model.Won, model.Lost)), KindWin, nil
	}
	return s, KindNoop, nil
}

// Down takes one point back from side.
func Down(s State, side model.Side) (State, error) {
	next, _, err := DownKind(s, side)
	return next, err
}

// DownKind is Down that also reports the transition performed.
//
// With undo memory the remembered pair is restored whichever side is
// pressed. Without it the mover steps back 40→30→15→0 (clamped) and
// AD→40; a move that would leave an ungrammatical pair is ignored.
func DownKind(s State, side model.Side) (State, Kind, error) {
	if err := checkSide(side); err != nil {
		return s, KindNoop, err
	}
	if s.hasMemory() {
		return State{Score1: *s.Prev1, Score2: *s.Prev2}, KindRestore, nil
	}
	t, o := s.tokens(side)
	switch t {
	case model.Love:
		return with(side, model.Love, o), KindNoop, nil
	case model.Fifteen, model.Thirty:
		return with(side, t-1, o), KindStep, nil
	case model.Forty:
		if o == model.Advantage {
			return s, KindNoop, nil
		}
		return with(side, model.Thirty, o), KindStep, nil
	case model.Advantage:
		return with(side, model.Forty, o), KindDeuce, nil
	}
	return s, KindNoop, nil
}

// Apply presses the dir button for side.
func Apply(s State, side model.Side, dir Direction) (State, Kind, error) {
	switch dir {
	case DirectionUp:
		return UpKind(s, side)
	case DirectionDown:
		return DownKind(s, side)
	}
	return s, KindNoop, fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
}
