package http

import (
	"net/http"
	"strconv"

	"bboard/internal/dto"

	"github.com/go-chi/chi/v5"
)

func uintParam(r *http.Request, name string) (uint, bool) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}

func (h *Handler) listTopRubrics(w http.ResponseWriter, r *http.Request) {
	out, err := h.rubrics.ListTopLevel(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) listSubRubrics(w http.ResponseWriter, r *http.Request) {
	out, err := h.rubrics.ListSub(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) listSubRubricsOf(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid id"})
		return
	}
	out, err := h.rubrics.ListSubOf(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createRubric(w http.ResponseWriter, r *http.Request) {
	var req dto.RubricCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.rubrics.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) deleteRubric(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid id"})
		return
	}
	if err := h.rubrics.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
