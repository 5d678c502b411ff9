package http

import (
	"net/http"

	"bboard/internal/domain"
	"bboard/internal/dto"
)

func (h *Handler) createNote(w http.ResponseWriter, r *http.Request) {
	var req dto.NoteCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.notes.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	kind := domain.TargetKind(r.URL.Query().Get("kind"))
	target := r.URL.Query().Get("target")
	out, err := h.notes.For(r.Context(), kind, target)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) resolveNote(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid id"})
		return
	}
	exists, err := h.notes.Resolve(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NoteResolveResponse{NoteID: id, TargetExists: exists})
}
