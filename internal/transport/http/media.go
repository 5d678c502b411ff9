package http

import (
	"context"
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
)

// BlobReader streams stored image files. Nil when no object storage is
// configured.
type BlobReader interface {
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

func (h *Handler) serveMedia(w http.ResponseWriter, r *http.Request) {
	if h.media == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}
	key := chi.URLParam(r, "*")
	if key == "" {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}

	body, err := h.media.Download(r.Context(), key)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}
	defer body.Close()

	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	_, _ = io.Copy(w, body)
}
