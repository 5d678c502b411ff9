package http

import (
	"net/http"

	"bboard/internal/dto"
)

func (h *Handler) bbComments(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid id"})
		return
	}
	out, err := h.comments.ListForBb(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) submitComment(w http.ResponseWriter, r *http.Request) {
	id, ok := uintParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid id"})
		return
	}
	var req dto.CommentCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	// Authenticated posters get their username as the display name; only
	// that string is stored, never the account link.
	if user, authed := userFrom(r.Context()); authed && req.Author == "" {
		req.Author = user.Username
	}
	res, err := h.comments.Submit(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) hideComment(w http.ResponseWriter, r *http.Request) {
	h.setCommentActive(w, r, false)
}

func (h *Handler) unhideComment(w http.ResponseWriter, r *http.Request) {
	h.setCommentActive(w, r, true)
}

func (h *Handler) setCommentActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := uintParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid id"})
		return
	}
	if err := h.comments.SetActive(r.Context(), id, active); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
