package api

import (
	"context"
	"net/http"

	"github.com/okian/rallyscore/internal/domain/model"
)

// SectionDependencies defines the section ingest operations.
type SectionDependencies interface {
	ReplaceSections(ctx context.Context, matchID string, sections []model.Section) error
	AppendSection(ctx context.Context, matchID string, section model.Section) error
	DeleteMatch(ctx context.Context, matchID string) error
}

// SectionsHandler handles section ingest requests.
type SectionsHandler struct {
	deps SectionDependencies
	rsp  *responder
}

type sectionsAck struct {
	Match    string `json:"match"`
	Sections int    `json:"sections,omitempty"`
	Section  string `json:"section,omitempty"`
}

// HandleReplace handles PUT /matches/{match}/sections. The body is the
// ordered JSON array of sections.
func (h *SectionsHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	const op = "api.replace_sections"
	match := r.PathValue("match")
	var sections []model.Section
	if err := h.rsp.decode(op, w, r, &sections); err != nil {
		h.rsp.fail(w, r, err)
		return
	}
	if err := h.deps.ReplaceSections(r.Context(), match, sections); err != nil {
		h.rsp.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sectionsAck{Match: match, Sections: len(sections)})
}

// HandleAppend handles POST /matches/{match}/sections with one section.
func (h *SectionsHandler) HandleAppend(w http.ResponseWriter, r *http.Request) {
	const op = "api.append_section"
	match := r.PathValue("match")
	var section model.Section
	if err := h.rsp.decode(op, w, r, &section); err != nil {
		h.rsp.fail(w, r, err)
		return
	}
	if err := h.deps.AppendSection(r.Context(), match, section); err != nil {
		h.rsp.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, sectionsAck{Match: match, Section: section.ID})
}

// HandleDelete handles DELETE /matches/{match}.
func (h *SectionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_match"
	if err := h.deps.DeleteMatch(r.Context(), r.PathValue("match")); err != nil {
		h.rsp.fail(w, r, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
