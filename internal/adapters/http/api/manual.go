package api

import (
	"context"
	"net/http"

	"github.com/okian/rallyscore/internal/domain/manual"
	"github.com/okian/rallyscore/internal/domain/model"
)

// ManualDependencies defines the score editor operations.
type ManualDependencies interface {
	SeedManual(ctx context.Context, matchID, sectionID string, override model.Side) (manual.State, error)
	ApplyManual(ctx context.Context, state manual.State, side model.Side, dir manual.Direction) (manual.State, manual.Kind, error)
}

// ManualHandler handles score editor requests. The editor state lives with
// the client and travels in every request.
type ManualHandler struct {
	deps ManualDependencies
	rsp  *responder
}

type moveRequest struct {
	State manual.State `json:"state"`
	Side  model.Side   `json:"side"`
}

type manualResponse struct {
	State      manual.State `json:"state"`
	Kind       manual.Kind  `json:"kind,omitempty"`
	HasWinLoss bool         `json:"hasWinLoss"`
}

// HandleSeed handles POST /matches/{match}/manual?section=ID. It returns a
// fresh state for the selected point.
func (h *ManualHandler) HandleSeed(w http.ResponseWriter, r *http.Request) {
	const op = "api.manual_seed"
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
	state, err := h.deps.SeedManual(r.Context(), r.PathValue("match"), section, override)
	if err != nil {
		h.rsp.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, manualResponse{State: state, HasWinLoss: manual.HasWinLoss(state)})
}

// HandleMove returns the handler for POST /manual/{dir}.
func (h *ManualHandler) HandleMove(dir manual.Direction) http.HandlerFunc {
	op := "api.manual_" + string(dir)
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveRequest
		if err := h.rsp.decode(op, w, r, &req); err != nil {
			h.rsp.fail(w, r, err)
			return
		}
		next, kind, err := h.deps.ApplyManual(r.Context(), req.State, req.Side, dir)
		if err != nil {
			h.rsp.fail(w, r, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, manualResponse{State: next, Kind: kind, HasWinLoss: manual.HasWinLoss(next)})
	}
}
