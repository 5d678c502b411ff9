package http

import (
	"net/http"

	"bboard/internal/dto"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) activate(w http.ResponseWriter, r *http.Request) {
	res, err := h.accounts.Activate(r.Context(), chi.URLParam(r, "sign"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.accounts.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
		return
	}
	writeJSON(w, http.StatusOK, dto.ProfileResponse{
		UserID:       user.ID.String(),
		Username:     user.Username,
		SendMessages: user.SendMessages,
		IsActivated:  user.IsActivated,
	})
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
		return
	}
	var req dto.ProfileUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.accounts.UpdateProfile(r.Context(), user.ID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
		return
	}
	var req dto.PasswordChangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.accounts.ChangePassword(r.Context(), user.ID, req); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteAccount is the self-service teardown: the caller's own account goes
// away together with every listing it owns.
func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
		return
	}
	if err := h.accounts.Delete(r.Context(), user.ID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) myBbs(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
		return
	}
	bbs, err := h.store.Bbs().ListByAuthor(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]dto.BbSummary, 0, len(bbs))
	for _, bb := range bbs {
		out = append(out, dto.BbSummary{
			ID:        bb.ID,
			Title:     bb.Title,
			Content:   bb.Content,
			Price:     bb.Price,
			CreatedAt: bb.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
