// Package model contains domain models passed between layers.
package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Side is one of the two competing parties, named after the court half
// they occupy in the analysed video.
type Side uint8

// Known sides. SideUnknown is the zero value and never appears downstream
// of point extraction.
const (
	SideUnknown Side = iota
	SideTop
	SideBottom
)

// Valid reports whether s is one of the two playing sides.
func (s Side) Valid() bool {
	return s == SideTop || s == SideBottom
}

// Opponent returns the other side. SideUnknown has no opponent.
func (s Side) Opponent() Side {
	switch s {
	case SideTop:
		return SideBottom
	case SideBottom:
		return SideTop
	default:
		return SideUnknown
	}
}

func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// ParseSide maps "top"/"bottom" (any case) to a Side. Anything else yields
// SideUnknown.
func ParseSide(v string) Side {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "top":
		return SideTop
	case "bottom":
		return SideBottom
	default:
		return SideUnknown
	}
}

// MarshalJSON encodes valid sides as their name and SideUnknown as null.
func (s Side) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts "top"/"bottom" or the numeric player index 0/1.
// Unrecognised values decode to SideUnknown rather than failing, so that
// garbled point winners reach the tie-break policy instead of rejecting the
// whole payload.
func (s *Side) UnmarshalJSON(data []byte) error {
	*s = SideUnknown
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return nil //nolint:nilerr // malformed string is an unknown side
		}
		*s = ParseSide(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return nil //nolint:nilerr // objects, arrays and bools are unknown sides
	}
	switch n.String() {
	case "0":
		*s = SideTop
	case "1":
		*s = SideBottom
	}
	return nil
}
