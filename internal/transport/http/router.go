package http

import (
	"net/http"
	"strings"
	"time"

	"bboard/internal/service"
	"bboard/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	accounts service.AccountService
	rubrics  service.RubricService
	bbs      service.BbService
	comments service.CommentService
	notes    service.NoteService
	tokens   service.TokenService
	store    *store.Store
	media    BlobReader
}

func NewHandler(accounts service.AccountService, rubrics service.RubricService, bbs service.BbService, comments service.CommentService, notes service.NoteService, tokens service.TokenService, st *store.Store, media BlobReader) *Handler {
	return &Handler{
		accounts: accounts,
		rubrics:  rubrics,
		bbs:      bbs,
		comments: comments,
		notes:    notes,
		tokens:   tokens,
		store:    st,
		media:    media,
	}
}

type RouterConfig struct {
	CORSOrigins string
	// TrustProxy enables X-Forwarded-For/X-Real-IP resolution; leave off
	// when clients connect directly, or they could spoof their way past
	// the per-IP rate limit.
	TrustProxy bool
}

func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	// rate limit (100 req / minute by IP)
	r.Use(httprate.LimitByIP(100, 1*time.Minute))

	origins := strings.Split(cfg.CORSOrigins, ",")
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   originsIfSet(origins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Read-only projection; paths are the external contract.
	r.Get("/bbs/", h.feed)
	r.Get("/bbs/{id}", h.bbDetail)
	r.Get("/bbs/{id}/comments/", h.bbComments)
	r.Get("/media/*", h.serveMedia)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/accounts/register", h.register)
		r.Get("/accounts/activate/{sign}", h.activate)
		r.Post("/auth/login", h.login)

		r.Get("/rubrics/", h.listTopRubrics)
		r.Get("/rubrics/sub/", h.listSubRubrics)
		r.Get("/rubrics/{id}/sub/", h.listSubRubricsOf)
		r.Get("/rubrics/{id}/bbs", h.feedByRubric)
		r.Post("/rubrics", h.createRubric)
		r.Delete("/rubrics/{id}", h.deleteRubric)

		r.Get("/notes", h.listNotes)
		r.Post("/notes", h.createNote)
		r.Get("/notes/{id}/resolve", h.resolveNote)

		r.Group(func(r chi.Router) {
			r.Use(optionalAuth(h.tokens, h.store))
			r.Post("/bbs/{id}/comments", h.submitComment)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth(h.tokens, h.store))

			r.Get("/accounts/me", h.me)
			r.Put("/accounts/me", h.updateProfile)
			r.Post("/accounts/me/password", h.changePassword)
			r.Delete("/accounts/me", h.deleteAccount)
			r.Get("/accounts/me/bbs", h.myBbs)

			r.Post("/bbs", h.createBb)
			r.Put("/bbs/{id}", h.updateBb)
			r.Delete("/bbs/{id}", h.deleteBb)
			r.Post("/bbs/{id}/images", h.attachImage)
			r.Delete("/images/{id}", h.deleteImage)

			r.Post("/comments/{id}/hide", h.hideComment)
			r.Post("/comments/{id}/unhide", h.unhideComment)
		})
	})

	return r
}

func originsIfSet(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if s := strings.TrimSpace(o); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
