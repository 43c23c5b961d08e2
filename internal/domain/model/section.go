package model

// Summary is the per-rally analysis attached to a section.
type Summary struct {
	PointWinner Side `json:"pointWinner"`
	RallySize   int  `json:"rallySize"`
	ValidRally  bool `json:"validRally"`
}

// Section is one rally record supplied by the section provider. Order is
// the slice position; callers keep it monotonic in time.
type Section struct {
	ID      string   `json:"id"`
	Summary *Summary `json:"summary"` // nil when the record carries no analysis at all
}

// PointEvent credits one section to exactly one side.
type PointEvent struct {
	SectionID string `json:"sectionId"`
	Winner    Side   `json:"winner"`
	Defaulted bool   `json:"defaulted"` // winner came from the tie-break policy
}

// Game is a contiguous run of points closed by a game-winning point.
// The trailing game of a stream may still be in progress.
type Game struct {
	Index    int          `json:"index"`
	Events   []PointEvent `json:"events"`
	Winner   Side         `json:"winner"`
	Complete bool         `json:"complete"`
}

// Start returns the section id of the first point, or "" for an empty game.
func (g Game) Start() string {
	if len(g.Events) == 0 {
		return ""
	}
	return g.Events[0].SectionID
}
