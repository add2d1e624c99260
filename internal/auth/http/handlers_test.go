package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gatehouse/gatehouse/internal/auth/service"
	"github.com/gatehouse/gatehouse/internal/auth/store/drivers/sqlite"
	"github.com/gatehouse/gatehouse/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "test-issuer"

type fixture struct {
	svc    *service.AuthService
	sender *captureSender
}

// captureSender records issued redemption URLs so tests can walk the full
// magic-link flow without a mailbox.
type captureSender struct {
	urls []string
}

func (s *captureSender) Send(_ context.Context, _, redemptionURL string) error {
	s.urls = append(s.urls, redemptionURL)
	return nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewHS256([]byte("test-secret-test-secret-32-bytes"), testIssuer)
	require.NoError(t, err)

	sender := &captureSender{}
	return &fixture{
		svc: &service.AuthService{
			Store:   st,
			Signer:  signer,
			Issuer:  testIssuer,
			BaseURL: "http://localhost:3000",
			Sender:  sender,
		},
		sender: sender,
	}
}

func (f *fixture) post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) signup(t *testing.T, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	h := &SignupHandler{AuthService: f.svc}
	return f.post(t, h, "/auth/signup", `{"email":"`+email+`","password":"`+password+`"}`)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatalf("response carries no %s cookie", SessionCookieName)
	return nil
}

func TestSignupHandler(t *testing.T) {
	t.Run("creates user and sets session cookie", func(t *testing.T) {
		f := newFixture(t)

		rec := f.signup(t, "alice@example.com", "secret1")
		require.Equal(t, http.StatusCreated, rec.Code)

		body := decodeBody[authResponse](t, rec)
		require.Equal(t, "User created successfully", body.Message)
		require.Equal(t, "alice@example.com", body.User.Email)
		require.NotEmpty(t, body.User.ID)

		c := sessionCookie(t, rec)
		require.True(t, c.HttpOnly)
		require.Equal(t, "/", c.Path)
		require.Equal(t, 604800, c.MaxAge)
		require.Equal(t, http.SameSiteStrictMode, c.SameSite)
		require.False(t, c.Secure, "secure stays off outside production")

		// The cookie value is a signed session for the created user, with
		// the expiry baked into the credential itself.
		claims, err := f.svc.Signer.(*jwtx.HS256).Verify(c.Value)
		require.NoError(t, err)
		require.Equal(t, body.User.ID, claims.Subject)
		require.Equal(t, jwtx.DefaultSessionTTL, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	})

	t.Run("secure cookie in production mode", func(t *testing.T) {
		f := newFixture(t)
		h := &SignupHandler{AuthService: f.svc, Cookies: SessionCookieWriter{Secure: true}}

		rec := f.post(t, h, "/auth/signup", `{"email":"alice@example.com","password":"secret1"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		require.True(t, sessionCookie(t, rec).Secure)
	})

	t.Run("validation failures", func(t *testing.T) {
		f := newFixture(t)

		cases := []struct {
			name    string
			body    string
			status  int
			message string
		}{
			{"malformed json", `{`, http.StatusBadRequest, "Invalid request body"},
			{"missing password", `{"email":"alice@example.com"}`, http.StatusBadRequest, "Email and password are required"},
			{"missing email", `{"password":"secret1"}`, http.StatusBadRequest, "Email and password are required"},
			{"bad email", `{"email":"not-an-email","password":"secret1"}`, http.StatusBadRequest, "Invalid email format"},
			{"short password", `{"email":"alice@example.com","password":"abc12"}`, http.StatusBadRequest, "Password must be at least 6 characters"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				h := &SignupHandler{AuthService: f.svc}
				rec := f.post(t, h, "/auth/signup", tc.body)
				require.Equal(t, tc.status, rec.Code)
				require.Equal(t, tc.message, decodeBody[errorResponse](t, rec).Message)
			})
		}
	})

	t.Run("conflict on taken email", func(t *testing.T) {
		f := newFixture(t)

		require.Equal(t, http.StatusCreated, f.signup(t, "alice@example.com", "secret1").Code)

		rec := f.signup(t, "alice@example.com", "other-password")
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Equal(t, "User already exists", decodeBody[errorResponse](t, rec).Message)
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("sets session cookie on success", func(t *testing.T) {
		f := newFixture(t)
		require.Equal(t, http.StatusCreated, f.signup(t, "alice@example.com", "secret1").Code)

		h := &LoginHandler{AuthService: f.svc}
		rec := f.post(t, h, "/auth/login", `{"email":"alice@example.com","password":"secret1"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody[authResponse](t, rec)
		require.Equal(t, "Login successful", body.Message)
		require.Equal(t, "alice@example.com", body.User.Email)

		c := sessionCookie(t, rec)
		claims, err := f.svc.Signer.(*jwtx.HS256).Verify(c.Value)
		require.NoError(t, err)
		require.Equal(t, body.User.ID, claims.Subject)
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newFixture(t)
		h := &LoginHandler{AuthService: f.svc}

		rec := f.post(t, h, "/auth/login", `{"email":"alice@example.com"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Email and password are required", decodeBody[errorResponse](t, rec).Message)
	})

	t.Run("unknown email and wrong password yield identical responses", func(t *testing.T) {
		f := newFixture(t)
		require.Equal(t, http.StatusCreated, f.signup(t, "alice@example.com", "secret1").Code)

		h := &LoginHandler{AuthService: f.svc}
		unknown := f.post(t, h, "/auth/login", `{"email":"nobody@example.com","password":"secret1"}`)
		wrong := f.post(t, h, "/auth/login", `{"email":"alice@example.com","password":"wrong-password"}`)

		require.Equal(t, http.StatusUnauthorized, unknown.Code)
		require.Equal(t, http.StatusUnauthorized, wrong.Code)
		require.Equal(t, unknown.Body.String(), wrong.Body.String())
		require.Empty(t, unknown.Result().Cookies())
	})
}

func TestMagicLinkHandler(t *testing.T) {
	t.Run("identical response whether or not the email is registered", func(t *testing.T) {
		f := newFixture(t)
		require.Equal(t, http.StatusCreated, f.signup(t, "alice@example.com", "secret1").Code)

		h := &MagicLinkHandler{AuthService: f.svc}
		registered := f.post(t, h, "/auth/magic-link", `{"email":"alice@example.com"}`)
		unregistered := f.post(t, h, "/auth/magic-link", `{"email":"nobody@example.com"}`)

		require.Equal(t, http.StatusOK, registered.Code)
		require.Equal(t, http.StatusOK, unregistered.Code)
		require.Equal(t, registered.Body.String(), unregistered.Body.String())
		require.Equal(t, "Magic link sent if email exists", decodeBody[messageResponse](t, registered).Message)

		// Only the registered address actually got a link.
		require.Len(t, f.sender.urls, 1)
	})

	t.Run("missing email", func(t *testing.T) {
		f := newFixture(t)
		h := &MagicLinkHandler{AuthService: f.svc}

		rec := f.post(t, h, "/auth/magic-link", `{}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Email is required", decodeBody[errorResponse](t, rec).Message)
	})
}

func TestVerifyHandler(t *testing.T) {
	get := func(t *testing.T, f *fixture, target string) *httptest.ResponseRecorder {
		t.Helper()
		h := &VerifyHandler{AuthService: f.svc}
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("redeems link and sets session cookie", func(t *testing.T) {
		f := newFixture(t)
		created := f.signup(t, "alice@example.com", "secret1")
		require.Equal(t, http.StatusCreated, created.Code)

		h := &MagicLinkHandler{AuthService: f.svc}
		require.Equal(t, http.StatusOK,
			f.post(t, h, "/auth/magic-link", `{"email":"alice@example.com"}`).Code)
		require.Len(t, f.sender.urls, 1)

		rec := get(t, f, f.sender.urls[0])
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody[authResponse](t, rec)
		require.Equal(t, "Login successful", body.Message)
		require.Equal(t, "alice@example.com", body.User.Email)

		c := sessionCookie(t, rec)
		claims, err := f.svc.Signer.(*jwtx.HS256).Verify(c.Value)
		require.NoError(t, err)
		require.Equal(t, body.User.ID, claims.Subject)
	})

	t.Run("second redemption fails like an unknown token", func(t *testing.T) {
		f := newFixture(t)
		require.Equal(t, http.StatusCreated, f.signup(t, "alice@example.com", "secret1").Code)

		h := &MagicLinkHandler{AuthService: f.svc}
		require.Equal(t, http.StatusOK,
			f.post(t, h, "/auth/magic-link", `{"email":"alice@example.com"}`).Code)

		require.Equal(t, http.StatusOK, get(t, f, f.sender.urls[0]).Code)

		reused := get(t, f, f.sender.urls[0])
		unknown := get(t, f, "/auth/verify?token=deadbeef")

		require.Equal(t, http.StatusUnauthorized, reused.Code)
		require.Equal(t, http.StatusUnauthorized, unknown.Code)
		require.Equal(t, unknown.Body.String(), reused.Body.String())
		require.Equal(t, "Invalid or expired magic link", decodeBody[errorResponse](t, reused).Message)
	})

	t.Run("missing token", func(t *testing.T) {
		f := newFixture(t)

		rec := get(t, f, "/auth/verify")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Token is required", decodeBody[errorResponse](t, rec).Message)
	})
}
