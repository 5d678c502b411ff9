package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"bboard/internal/dto"
	"bboard/internal/observability/metrics"
	impl "bboard/internal/service/impl"
	"bboard/internal/store"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	metrics.MustRegister("test")
	os.Exit(m.Run())
}

type testEnv struct {
	router  *chi.Mux
	st      *store.Store
	handler *Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	st := store.New(db)
	if err := st.AutoMigrate(); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	pw := impl.NewPasswordServiceArgon2id()
	tokens := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     "bboard-test",
		AccessTTL:  time.Hour,
		SigningKey: []byte("test-secret"),
	})
	signer := impl.NewActivationSignerHS256(impl.SignerConfig{
		Issuer:     "bboard-test",
		SigningKey: []byte("test-secret"),
		TTL:        time.Hour,
	})
	accounts := impl.NewAccountService(st, pw, tokens, signer, impl.NewLogNotifier(), nil, impl.AccountConfig{
		PreActivated:      true,
		ActivationBaseURL: "http://localhost:8080",
	})
	bbs, err := impl.NewBbService(st, nil, "")
	if err != nil {
		t.Fatalf("bb service: %v", err)
	}
	rubrics := impl.NewRubricService(st)
	comments := impl.NewCommentService(st)
	notes := impl.NewNoteService(st)

	h := NewHandler(accounts, rubrics, bbs, comments, notes, tokens, st, nil)
	return &testEnv{router: NewRouter(h, RouterConfig{}), st: st, handler: h}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return out
}

// registerAndLogin drives the real endpoints so the token matches what a
// client would hold.
func (e *testEnv) registerAndLogin(t *testing.T, username string) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/v1/accounts/register", "", dto.RegisterRequest{
		Username: username,
		Password: "correct horse",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, http.MethodPost, "/v1/auth/login", "", dto.LoginRequest{
		Username: username,
		Password: "correct horse",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", rec.Code, rec.Body.String())
	}
	return decode[dto.TokenResponse](t, rec).AccessToken
}

func (e *testEnv) seedRubricPair(t *testing.T) (topID, subID uint) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/v1/rubrics", "", dto.RubricCreateRequest{Name: "Electronics", Order: 1})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create top rubric: status %d body %s", rec.Code, rec.Body.String())
	}
	top := decode[dto.RubricResponse](t, rec)

	rec = e.do(t, http.MethodPost, "/v1/rubrics", "", dto.RubricCreateRequest{Name: "Phones", Order: 1, ParentID: &top.ID})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create sub rubric: status %d body %s", rec.Code, rec.Body.String())
	}
	return top.ID, decode[dto.RubricResponse](t, rec).ID
}

func TestPublicFeedAndDetail(t *testing.T) {
	env := newTestEnv(t)
	_, subID := env.seedRubricPair(t)
	token := env.registerAndLogin(t, "alice")

	rec := env.do(t, http.MethodPost, "/v1/bbs", token, dto.BbCreateRequest{
		RubricID: subID,
		Title:    "Used phone",
		Content:  "Works fine",
		Price:    500,
		Contacts: "555-0100",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create bb: status %d body %s", rec.Code, rec.Body.String())
	}
	created := decode[dto.BbDetail](t, rec)

	rec = env.do(t, http.MethodGet, "/bbs/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("feed: status %d", rec.Code)
	}
	feed := decode[[]dto.BbSummary](t, rec)
	if len(feed) != 1 || feed[0].Price != 500 {
		t.Fatalf("unexpected feed: %+v", feed)
	}

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/bbs/%d", created.ID), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("detail: status %d", rec.Code)
	}
	detail := decode[dto.BbDetail](t, rec)
	if detail.Rubric != "Electronics - Phones" {
		t.Fatalf("expected rubric chain, got %q", detail.Rubric)
	}

	rec = env.do(t, http.MethodGet, "/bbs/9999", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeactivatedListingHiddenFromFeed(t *testing.T) {
	env := newTestEnv(t)
	_, subID := env.seedRubricPair(t)
	token := env.registerAndLogin(t, "alice")

	rec := env.do(t, http.MethodPost, "/v1/bbs", token, dto.BbCreateRequest{RubricID: subID, Title: "Used phone"})
	created := decode[dto.BbDetail](t, rec)

	inactive := false
	rec = env.do(t, http.MethodPut, fmt.Sprintf("/v1/bbs/%d", created.ID), token, dto.BbUpdateRequest{
		RubricID: subID, Title: "Used phone", IsActive: &inactive,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", rec.Code, rec.Body.String())
	}

	feed := decode[[]dto.BbSummary](t, env.do(t, http.MethodGet, "/bbs/", "", nil))
	if len(feed) != 0 {
		t.Fatalf("expected empty feed, got %+v", feed)
	}

	// Direct lookup still works.
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/bbs/%d", created.ID), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("detail of hidden listing: status %d", rec.Code)
	}
}

func TestBbWritesRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	_, subID := env.seedRubricPair(t)

	rec := env.do(t, http.MethodPost, "/v1/bbs", "", dto.BbCreateRequest{RubricID: subID, Title: "Used phone"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/v1/bbs", "not-a-token", dto.BbCreateRequest{RubricID: subID, Title: "Used phone"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bogus token, got %d", rec.Code)
	}
}

func TestBbValidationStatus(t *testing.T) {
	env := newTestEnv(t)
	_, subID := env.seedRubricPair(t)
	token := env.registerAndLogin(t, "alice")

	rec := env.do(t, http.MethodPost, "/v1/bbs", token, dto.BbCreateRequest{RubricID: subID, Title: ""})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body %s", rec.Code, rec.Body.String())
	}
	body := decode[struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}](t, rec)
	if body.Fields["title"] == "" {
		t.Fatalf("expected a title field error, got %+v", body)
	}
}

func TestGuestAndAuthenticatedComments(t *testing.T) {
	env := newTestEnv(t)
	_, subID := env.seedRubricPair(t)
	token := env.registerAndLogin(t, "alice")

	rec := env.do(t, http.MethodPost, "/v1/bbs", token, dto.BbCreateRequest{RubricID: subID, Title: "Used phone"})
	bb := decode[dto.BbDetail](t, rec)

	// Guests supply their display name.
	rec = env.do(t, http.MethodPost, fmt.Sprintf("/v1/bbs/%d/comments", bb.ID), "", dto.CommentCreateRequest{
		Author: "passer-by", Content: "still available?",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("guest comment: status %d body %s", rec.Code, rec.Body.String())
	}

	// Authenticated posters fall back to their username.
	rec = env.do(t, http.MethodPost, fmt.Sprintf("/v1/bbs/%d/comments", bb.ID), token, dto.CommentCreateRequest{
		Content: "bump",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("authed comment: status %d body %s", rec.Code, rec.Body.String())
	}
	if got := decode[dto.CommentResponse](t, rec).Author; got != "alice" {
		t.Fatalf("expected author alice, got %q", got)
	}

	list := decode[[]dto.CommentResponse](t, env.do(t, http.MethodGet, fmt.Sprintf("/bbs/%d/comments/", bb.ID), "", nil))
	if len(list) != 2 {
		t.Fatalf("expected 2 comments, got %+v", list)
	}

	rec = env.do(t, http.MethodGet, "/bbs/9999/comments/", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCommentModerationEndpoints(t *testing.T) {
	env := newTestEnv(t)
	_, subID := env.seedRubricPair(t)
	token := env.registerAndLogin(t, "alice")

	rec := env.do(t, http.MethodPost, "/v1/bbs", token, dto.BbCreateRequest{RubricID: subID, Title: "Used phone"})
	bb := decode[dto.BbDetail](t, rec)

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/v1/bbs/%d/comments", bb.ID), "", dto.CommentCreateRequest{
		Author: "guest", Content: "spam",
	})
	cm := decode[dto.CommentResponse](t, rec)

	if rec := env.do(t, http.MethodPost, fmt.Sprintf("/v1/comments/%d/hide", cm.ID), token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("hide: status %d", rec.Code)
	}
	list := decode[[]dto.CommentResponse](t, env.do(t, http.MethodGet, fmt.Sprintf("/bbs/%d/comments/", bb.ID), "", nil))
	if len(list) != 0 {
		t.Fatalf("expected hidden comment filtered, got %+v", list)
	}
	if rec := env.do(t, http.MethodPost, fmt.Sprintf("/v1/comments/%d/unhide", cm.ID), token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("unhide: status %d", rec.Code)
	}
}

func TestActivateBadSignatureStatus(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/v1/accounts/activate/garbage", "", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body %s", rec.Code, rec.Body.String())
	}
	if decode[errorBody](t, rec).Error != "bad signature" {
		t.Fatalf("expected the bad signature body")
	}
}

func TestRubricDeleteConflict(t *testing.T) {
	env := newTestEnv(t)
	topID, subID := env.seedRubricPair(t)
	token := env.registerAndLogin(t, "alice")

	env.do(t, http.MethodPost, "/v1/bbs", token, dto.BbCreateRequest{RubricID: subID, Title: "Used phone"})

	if rec := env.do(t, http.MethodDelete, fmt.Sprintf("/v1/rubrics/%d", subID), "", nil); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for referenced rubric, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodDelete, fmt.Sprintf("/v1/rubrics/%d", topID), "", nil); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for rubric with children, got %d", rec.Code)
	}
}

func TestProfileEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "alice")

	rec := env.do(t, http.MethodGet, "/v1/accounts/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: status %d body %s", rec.Code, rec.Body.String())
	}
	if got := decode[dto.ProfileResponse](t, rec).Username; got != "alice" {
		t.Fatalf("expected alice, got %q", got)
	}

	rec = env.do(t, http.MethodPut, "/v1/accounts/me", token, dto.ProfileUpdateRequest{Username: "alice2"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update profile: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/v1/accounts/me/password", token, dto.PasswordChangeRequest{
		OldPassword: "correct horse",
		NewPassword: "battery staple",
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("change password: status %d body %s", rec.Code, rec.Body.String())
	}

	// The session token survives; the new credential gates the next login.
	rec = env.do(t, http.MethodPost, "/v1/auth/login", "", dto.LoginRequest{Username: "alice2", Password: "battery staple"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login after change: status %d body %s", rec.Code, rec.Body.String())
	}
	rec = env.do(t, http.MethodPost, "/v1/auth/login", "", dto.LoginRequest{Username: "alice2", Password: "correct horse"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected old password rejected, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/v1/accounts/me/password", token, dto.PasswordChangeRequest{
		OldPassword: "battery staple",
		NewPassword: "short",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for a short password, got %d", rec.Code)
	}
}

func TestAccountDeletionKillsTokenAndListings(t *testing.T) {
	env := newTestEnv(t)
	_, subID := env.seedRubricPair(t)
	token := env.registerAndLogin(t, "alice")

	rec := env.do(t, http.MethodPost, "/v1/bbs", token, dto.BbCreateRequest{RubricID: subID, Title: "Used phone"})
	bb := decode[dto.BbDetail](t, rec)

	if rec := env.do(t, http.MethodDelete, "/v1/accounts/me", token, nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete account: status %d body %s", rec.Code, rec.Body.String())
	}

	// The stateless token dies with the row behind it.
	if rec := env.do(t, http.MethodGet, "/v1/accounts/me/bbs", token, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after deletion, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, fmt.Sprintf("/bbs/%d", bb.ID), "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected listing gone, got %d", rec.Code)
	}

	if _, err := env.st.Bbs().GetByID(context.Background(), bb.ID); err == nil {
		t.Fatalf("expected bb row removed")
	}
}

// The per-IP rate limit keys on RemoteAddr unless forwarded headers are
// trusted, which makes the TrustProxy switch observable: spoofed
// X-Forwarded-For values only spread the budget when the proxy is trusted.
func TestTrustProxyGatesForwardedHeaders(t *testing.T) {
	env := newTestEnv(t)

	hammer := func(router http.Handler) int {
		last := 0
		for i := 0; i < 101; i++ {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i%250))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			last = rec.Code
		}
		return last
	}

	// Direct deployment: every request shares the one real RemoteAddr, so
	// the 101st request trips the limit no matter what the header claims.
	if code := hammer(env.router); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 with untrusted forwarded headers, got %d", code)
	}

	// Behind a trusted proxy the forwarded addresses are the clients.
	h := env.handler
	trusting := NewRouter(h, RouterConfig{TrustProxy: true})
	if code := hammer(trusting); code != http.StatusOK {
		t.Fatalf("expected 200 with trusted forwarded headers, got %d", code)
	}
}

func TestMediaWithoutObjectStorage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/media/images/2024/01/01/x.jpg", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without object storage, got %d", rec.Code)
	}
}

func TestNotesEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/v1/notes", "", dto.NoteCreateRequest{
		Content:    "dangling on purpose",
		TargetKind: "bb",
		TargetID:   "424242",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create note: status %d body %s", rec.Code, rec.Body.String())
	}
	note := decode[dto.NoteResponse](t, rec)

	rec = env.do(t, http.MethodGet, "/v1/notes?kind=bb&target=424242", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list notes: status %d", rec.Code)
	}
	if list := decode[[]dto.NoteResponse](t, rec); len(list) != 1 {
		t.Fatalf("expected 1 note, got %+v", list)
	}

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/v1/notes/%d/resolve", note.ID), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("resolve: status %d", rec.Code)
	}
	if res := decode[dto.NoteResolveResponse](t, rec); res.TargetExists {
		t.Fatalf("expected a dangling target")
	}

	rec = env.do(t, http.MethodGet, "/v1/notes?kind=planet&target=1", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown kind, got %d", rec.Code)
	}
}
