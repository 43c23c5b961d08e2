package replaytool

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/okian/rallyscore/internal/domain/model"
	"github.com/okian/rallyscore/internal/domain/scoring"
)

// Report is the replay output.
type Report struct {
	Points    []scoring.PointScore `json:"points"`
	Games     []model.Game         `json:"games"`
	Defaulted int                  `json:"defaulted"`

	defaulted map[string]bool
}

func newReport(points []scoring.PointScore, games []model.Game) *Report {
	r := &Report{Points: points, Games: games, defaulted: make(map[string]bool)}
	if r.Points == nil {
		r.Points = []scoring.PointScore{}
	}
	if r.Games == nil {
		r.Games = []model.Game{}
	}
	for _, g := range games {
		for _, ev := range g.Events {
			if ev.Defaulted {
				r.defaulted[ev.SectionID] = true
				r.Defaulted++
			}
		}
	}
	return r
}

// WriteJSON prints r as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteTable prints one row per point and a line per game. Points whose
// winner came from the tie-break are starred.
func (r *Report) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GAME\tSECTION\tWINNER\tSCORE")
	for i, p := range r.Points {
		winner := p.Winner.String()
		if r.defaulted[p.SectionID] {
			winner += "*"
		}
		// The game number only heads its first row.
		game := ""
		if i == 0 || p.NewGame {
			game = strconv.Itoa(p.GameIndex + 1)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", game, p.SectionID, winner, p.Score)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	for _, g := range r.Games {
		last := g.Events[len(g.Events)-1].SectionID
		if g.Complete {
			fmt.Fprintf(w, "game %d: %s won (%s..%s, %d points)\n", g.Index+1, g.Winner, g.Start(), last, len(g.Events))
		} else {
			fmt.Fprintf(w, "game %d: in progress (%s..%s, %d points)\n", g.Index+1, g.Start(), last, len(g.Events))
		}
	}
	if r.Defaulted > 0 {
		fmt.Fprintf(w, "* %d rallies credited by the tie-break\n", r.Defaulted)
	}
	return nil
}
