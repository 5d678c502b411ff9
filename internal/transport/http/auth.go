package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bboard/internal/domain"
	"bboard/internal/service"
	"bboard/internal/store"
)

type userKey struct{}

func contextWithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func userFrom(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey{}).(*domain.User)
	return u, ok
}

func bearerToken(r *http.Request) (string, bool) {
	raw := r.Header.Get("Authorization")
	if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return "", false
	}
	return strings.TrimSpace(raw[len("Bearer "):]), true
}

// resolveUser turns a bearer token into a live user row. Re-resolving on
// every request is what makes tokens of deleted accounts die.
func resolveUser(r *http.Request, tokens service.TokenService, st *store.Store) (*domain.User, error) {
	tok, ok := bearerToken(r)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	userID, err := tokens.Verify(r.Context(), tok)
	if err != nil {
		return nil, err
	}
	user, err := st.Users().GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}
	return user, nil
}

// requireAuth rejects requests without a valid bearer token.
func requireAuth(tokens service.TokenService, st *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolveUser(r, tokens, st)
			if err != nil {
				writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(contextWithUser(r.Context(), user)))
		})
	}
}

// optionalAuth attaches the user when a valid token is present and lets the
// request through anonymously otherwise.
func optionalAuth(tokens service.TokenService, st *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := bearerToken(r); ok {
				if user, err := resolveUser(r, tokens, st); err == nil {
					r = r.WithContext(contextWithUser(r.Context(), user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
