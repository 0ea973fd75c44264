package echoweb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/auth"
	"github.com/trezcool/academia/core/catalog"
	catalogsvc "github.com/trezcool/academia/services/catalog"
	emailsvc "github.com/trezcool/academia/services/email"
)

type nopLogger struct{}

func (nopLogger) Enable(bool) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{}) {}
func (nopLogger) Error(string, ...interface{}) {}

// fakeGateway scripts the identity backend per test. verifyDelay keeps the
// startup verification in flight long enough to observe the loading state.
type fakeGateway struct {
	mu          sync.Mutex
	creds       auth.CredentialStore
	password    string
	token       string
	loginErr    error
	verifyDelay time.Duration
	loginCalls  int
}

var _ auth.Gateway = (*fakeGateway)(nil)

func (gw *fakeGateway) Login(_ context.Context, _, password string) (string, error) {
	gw.mu.Lock()
	gw.loginCalls++
	gw.mu.Unlock()
	if gw.loginErr != nil {
		return "", gw.loginErr
	}
	if password != gw.password {
		return "", auth.NewCredentialsError("Invalid email or password.")
	}
	return gw.token, nil
}

func (gw *fakeGateway) VerifySession(ctx context.Context) (string, error) {
	if gw.verifyDelay > 0 {
		select {
		case <-time.After(gw.verifyDelay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	token, err := gw.creds.Load()
	if err != nil || token != gw.token {
		return "", nil
	}
	return token, nil
}

type testServer struct {
	*server
	gateway *fakeGateway
	repo    *catalog.DummyRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	conf := &core.Config{
		Debug:        true,
		TestMode:     true,
		AppName:      "Academia",
		ContactEmail: "contact@academia.test",
	}
	conf.API.Timeout = 5 * time.Second

	validate, translator := core.NewValidator()
	core.InitValidators(validate, translator)

	gateway := &fakeGateway{password: "s3cr3t", token: "tok-1"}
	repo := &catalog.DummyRepository{}

	srv := NewServer(&Options{
		Conf:           conf,
		Logger:         nopLogger{},
		EmailSvc:       emailsvc.NewConsoleServiceMock(conf),
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
		NewGateway: func(creds auth.CredentialStore) auth.Gateway {
			gateway.creds = creds
			return gateway
		},
		NewCatalog: func(token catalogsvc.TokenFunc) *catalog.Service {
			return catalog.NewService(repo)
		},
	}).(*server)

	return &testServer{server: srv, gateway: gateway, repo: repo}
}

// do replays the cookies returned by earlier requests so a test reads like
// one browser clicking through the site.
func (ts *testServer) do(req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	return rec
}

func mergeCookies(cookies []*http.Cookie, rec *httptest.ResponseRecorder) []*http.Cookie {
	byName := make(map[string]*http.Cookie, len(cookies))
	for _, cookie := range cookies {
		byName[cookie.Name] = cookie
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(byName, cookie.Name)
			continue
		}
		byName[cookie.Name] = cookie
	}
	merged := make([]*http.Cookie, 0, len(byName))
	for _, cookie := range byName {
		merged = append(merged, cookie)
	}
	return merged
}

func checkRedirect(t *testing.T, rec *httptest.ResponseRecorder, target string) {
	t.Helper()
	if rec.Code != http.StatusFound {
		t.Fatalf("code = %d; want %d (body: %s)", rec.Code, http.StatusFound, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != target {
		t.Errorf("Location = %q; want %q", loc, target)
	}
}

func checkBodyEqual(t *testing.T, got, want string) {
	t.Helper()
	if got == want {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	t.Errorf("body mismatch:\n%s", diff)
}
