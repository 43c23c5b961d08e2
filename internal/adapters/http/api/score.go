package api

import (
	"context"
	"net/http"

	"github.com/okian/rallyscore/internal/domain/model"
	"github.com/okian/rallyscore/internal/domain/scoring"
)

// ScoreDependencies defines the read-side score derivations.
type ScoreDependencies interface {
	Score(ctx context.Context, matchID, sectionID string, override model.Side) (scoring.PointScore, error)
	Games(ctx context.Context, matchID string, override model.Side) ([]model.Game, error)
	Timeline(ctx context.Context, matchID string, override model.Side) ([]scoring.PointScore, error)
}

// ScoreHandler handles score queries.
type ScoreHandler struct {
	deps ScoreDependencies
	rsp  *responder
}

type gamesResponse struct {
	Match string       `json:"match"`
	Games []model.Game `json:"games"`
}

type timelineResponse struct {
	Match  string               `json:"match"`
	Points []scoring.PointScore `json:"points"`
}

// HandleScore handles GET /matches/{match}/score?section=ID.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score"
	section, err := sectionParam(op, r)
	if err != nil {
		h.rsp.fail(w, r, err)
		return
	}
	override, err := winnerParam(op, r)
	if err != nil {
		h.rsp.fail(w, r, err)
		return
	}
	ps, err := h.deps.Score(r.Context(), r.PathValue("match"), section, override)
	if err != nil {
		h.rsp.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// HandleGames handles GET /matches/{match}/games.
func (h *ScoreHandler) HandleGames(w http.ResponseWriter, r *http.Request) {
	const op = "api.games"
	override, err := winnerParam(op, r)
	if err != nil {
		h.rsp.fail(w, r, err)
		return
	}
	match := r.PathValue("match")
	games, err := h.deps.Games(r.Context(), match, override)
	if err != nil {
		h.rsp.fail(w, r, Wrap(op, err))
		return
	}
	if games == nil {
		games = []model.Game{}
	}
	writeJSON(w, http.StatusOK, gamesResponse{Match: match, Games: games})
}

// HandleTimeline handles GET /matches/{match}/timeline.
func (h *ScoreHandler) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	const op = "api.timeline"
	override, err := winnerParam(op, r)
	if err != nil {
		h.rsp.fail(w, r, err)
		return
	}
	match := r.PathValue("match")
	points, err := h.deps.Timeline(r.Context(), match, override)
	if err != nil {
		h.rsp.fail(w, r, Wrap(op, err))
		return
	}
	if points == nil {
		points = []scoring.PointScore{}
	}
	writeJSON(w, http.StatusOK, timelineResponse{Match: match, Points: points})
}
