package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidToken is returned when a score token cannot be decoded.
var ErrInvalidToken = errors.New("invalid score token")

// Token is a displayable in-game score for one side.
type Token uint8

// Score tokens. Won and Lost only appear on the point that closes a game.
const (
	Love Token = iota
	Fifteen
	Thirty
	Forty
	Advantage
	Won
	Lost
)

var tokenNames = [...]string{
	Love:      "0",
	Fifteen:   "15",
	Thirty:    "30",
	Forty:     "40",
	Advantage: "AD",
	Won:       "WON",
	Lost:      "LOST",
}

func (t Token) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("Token(%d)", uint8(t))
}

// Terminal reports whether t marks a finished game.
func (t Token) Terminal() bool {
	return t == Won || t == Lost
}

// TokenForCount maps a plain point count 0..3 to 0/15/30/40. Counts above
// three clamp to Forty; negative counts clamp to Love.
func TokenForCount(n int) Token {
	switch {
	case n <= 0:
		return Love
	case n == 1:
		return Fifteen
	case n == 2:
		return Thirty
	default:
		return Forty
	}
}

// ParseToken decodes the textual form of a token. "ADVANTAGE" is accepted
// as a long form of "AD".
func ParseToken(v string) (Token, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "0":
		return Love, nil
	case "15":
		return Fifteen, nil
	case "30":
		return Thirty, nil
	case "40":
		return Forty, nil
	case "AD", "ADVANTAGE":
		return Advantage, nil
	case "WON":
		return Won, nil
	case "LOST":
		return Lost, nil
	}
	return Love, fmt.Errorf("%w: %q", ErrInvalidToken, v)
}

func (t Token) MarshalText() ([]byte, error) {
	if int(t) >= len(tokenNames) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidToken, uint8(t))
	}
	return []byte(tokenNames[t]), nil
}

func (t *Token) UnmarshalText(text []byte) error {
	v, err := ParseToken(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// UnmarshalJSON accepts the string form as well as bare numbers 0/15/30/40.
func (t *Token) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		return t.UnmarshalText([]byte(s))
	}
	return t.UnmarshalText(data)
}

// ScorePair is the score of both sides at one point.
type ScorePair struct {
	Top    Token `json:"top"`
	Bottom Token `json:"bottom"`
}

// Get returns the token held by side. It returns Love for SideUnknown.
func (p ScorePair) Get(side Side) Token {
	switch side {
	case SideTop:
		return p.Top
	case SideBottom:
		return p.Bottom
	default:
		return Love
	}
}

func (p ScorePair) String() string {
	return p.Top.String() + "-" + p.Bottom.String()
}
