package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	authhttp "github.com/gatehouse/gatehouse/internal/auth/http"
	"github.com/gatehouse/gatehouse/internal/auth/service"
	"github.com/gatehouse/gatehouse/internal/auth/store/drivers/sqlite"
	"github.com/gatehouse/gatehouse/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

/*
 * End-to-end tests exercising the full HTTP surface: real router, real
 * middleware chain, real sqlite store. Only mail delivery is replaced, with
 * a sender that records redemption URLs.
 */

const (
	testIssuer = "gatehouse-auth-test"
	testSecret = "e2e-test-secret-with-enough-bytes"
)

// linkRecorder captures redemption URLs instead of sending mail.
type linkRecorder struct {
	mu   sync.Mutex
	urls []string
}

func (r *linkRecorder) Send(_ context.Context, _, redemptionURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urls = append(r.urls, redemptionURL)
	return nil
}

func (r *linkRecorder) last(t *testing.T) string {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.urls, "no magic link was issued")
	return r.urls[len(r.urls)-1]
}

type testService struct {
	baseURL string
	store   *sqlite.Store
	signer  *jwtx.HS256
	links   *linkRecorder
}

// setupAuthServer wires up the service the same way the application does and
// serves it over an httptest server. Every test gets its own store and its
// own rate-limit counters.
func setupAuthServer(t *testing.T) *testService {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewHS256([]byte(testSecret), testIssuer)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	links := &linkRecorder{}

	router := authhttp.NewRouter("e2e-test", st, logger)
	router.AuthService = &service.AuthService{
		Store:   st,
		Signer:  signer,
		Issuer:  testIssuer,
		BaseURL: "http://localhost",
		Sender:  links,
	}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testService{
		baseURL: server.URL,
		store:   st,
		signer:  signer,
		links:   links,
	}
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// sessionCookie returns the auth_token cookie set on the response, failing
// the test when it is absent.
func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()

	for _, c := range resp.Cookies() {
		if c.Name == authhttp.SessionCookieName {
			return c
		}
	}
	t.Fatalf("response carries no %s cookie", authhttp.SessionCookieName)
	return nil
}

// redemptionPath rewrites a captured redemption URL onto the test server's
// base URL; the configured BaseURL is an external origin the test server
// does not actually listen on.
func (s *testService) redemptionPath(t *testing.T, link string) string {
	t.Helper()

	i := strings.Index(link, "/auth/verify")
	require.GreaterOrEqual(t, i, 0)
	return s.baseURL + link[i:]
}
