package echoweb

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/academia/core/catalog"
	emailsvc "github.com/trezcool/academia/services/email"
)

func newFormRequest(path string, vals url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestGuardAnonymous(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil), nil)
	checkRedirect(t, rec, "/login?next="+url.QueryEscape("/dashboard"))

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/", nil), nil)
	checkRedirect(t, rec, "/home")

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/home", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/login", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginFlow(t *testing.T) {
	ts := newTestServer(t)

	// one browser session throughout
	rec := ts.do(httptest.NewRequest(http.MethodGet, "/home", nil), nil)
	cookies := mergeCookies(nil, rec)

	// bad password renders the backend's message inline
	rec = ts.do(newFormRequest("/login", url.Values{
		"email":    {"student@academia.test"},
		"password": {"nope"},
	}), cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password.")
	assert.Contains(t, rec.Body.String(), "student@academia.test") // form keeps the email

	// missing fields never reach the gateway
	calls := ts.gateway.loginCalls
	rec = ts.do(newFormRequest("/login", url.Values{"email": {"not-an-email"}}), cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, calls, ts.gateway.loginCalls)

	// happy path lands on the dashboard with the token mirrored to a cookie
	rec = ts.do(newFormRequest("/login", url.Values{
		"email":    {"student@academia.test"},
		"password": {"s3cr3t"},
		"next":     {"/dashboard/quizzes"},
	}), cookies)
	checkRedirect(t, rec, "/dashboard/quizzes")
	cookies = mergeCookies(cookies, rec)
	var tokenCookie *http.Cookie
	for _, cookie := range cookies {
		if cookie.Name == tokenCookieName {
			tokenCookie = cookie
		}
	}
	if assert.NotNil(t, tokenCookie) {
		assert.Equal(t, "tok-1", tokenCookie.Value)
	}

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil), cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Overview")

	// authenticated visitors are bounced off the login page and the root
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/login", nil), cookies)
	checkRedirect(t, rec, "/dashboard")
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/", nil), cookies)
	checkRedirect(t, rec, "/dashboard")

	// logout drops the token cookie and closes the dashboard
	rec = ts.do(newFormRequest("/logout", nil), cookies)
	checkRedirect(t, rec, "/home")
	cookies = mergeCookies(cookies, rec)
	for _, cookie := range cookies {
		assert.NotEqual(t, tokenCookieName, cookie.Name)
	}
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil), cookies)
	checkRedirect(t, rec, "/login?next="+url.QueryEscape("/dashboard"))
}

func TestOpenRedirectRejected(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(newFormRequest("/login", url.Values{
		"email":    {"student@academia.test"},
		"password": {"s3cr3t"},
		"next":     {"https://evil.test/phish"},
	}), nil)
	checkRedirect(t, rec, "/dashboard")
}

func TestTokenCookieRestoresSession(t *testing.T) {
	ts := newTestServer(t)

	// a fresh browser session carrying a valid token cookie verifies on
	// startup and goes straight through
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: "tok-1"})
	rec := ts.do(req, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// a stale token fails verification silently; back to the login page
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: "tok-stale"})
	rec = ts.do(req, nil)
	checkRedirect(t, rec, "/login?next="+url.QueryEscape("/dashboard"))
}

func TestStartupLoadingPlaceholder(t *testing.T) {
	ts := newTestServer(t)
	ts.gateway.verifyDelay = 200 * time.Millisecond
	ts.sessions.startupWait = 10 * time.Millisecond

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: "tok-1"})
	rec := ts.do(req, nil)
	cookies := mergeCookies(nil, rec)

	assert.Equal(t, http.StatusOK, rec.Code)
	var want bytes.Buffer
	if err := newTemplateRenderer().Render(&want, "loading", nil, nil); err != nil {
		t.Fatalf("rendering loading page: %v", err)
	}
	checkBodyEqual(t, rec.Body.String(), want.String())

	// once the verification settles, the same session is let through
	time.Sleep(300 * time.Millisecond)
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil), cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Overview")
}

func TestContactForm(t *testing.T) {
	ts := newTestServer(t)
	defer emailsvc.ClearSentMessages()

	rec := ts.do(newFormRequest("/contact", url.Values{
		"name":    {"Jane Roe"},
		"email":   {"jane@academia.test"},
		"subject": {"Pricing"},
		"message": {"Do you have a student plan?"},
	}), nil)
	checkRedirect(t, rec, "/home?sent=1#contact")

	if assert.Len(t, emailsvc.SentMessages, 1) {
		msg := emailsvc.SentMessages[0]
		assert.Equal(t, "[Contact] Pricing", msg.Subject)
		assert.Equal(t, "contact@academia.test", msg.To[0].Address)
		assert.Equal(t, "jane@academia.test", msg.ReplyTo.Address)
		assert.Contains(t, msg.BodyStr, "student plan")
	}

	// invalid form re-renders with field errors and sends nothing
	emailsvc.ClearSentMessages()
	rec = ts.do(newFormRequest("/contact", url.Values{"name": {"Jane Roe"}}), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Jane Roe")
	assert.Empty(t, emailsvc.SentMessages)
}

func TestDashboardPages(t *testing.T) {
	now := time.Now()
	anns := []catalog.Announcement{
		{ID: "a1", Title: "Welcome back", Content: "Semester starts Monday", Author: "Dean", Role: "all", CreatedAt: now.Add(-48 * time.Hour)},
		{ID: "a2", Title: "Lab safety", Content: "Goggles required", Author: "Dr. Chem", Role: "teacher", CreatedAt: now.Add(-2 * time.Hour)},
	}
	quizzes := []catalog.Quiz{
		{ID: "q1", Question: "What is 2+2?", Course: "Math", Topic: "Arithmetic", DueDate: now.Add(72 * time.Hour)},
		{ID: "q2", Question: "Define osmosis", Course: "Biology", Topic: "Cells", DueDate: now.Add(-24 * time.Hour)},
	}

	ts := newTestServer(t)
	ts.repo.Announcements = anns
	ts.repo.Quizzes = quizzes

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: "tok-1"})
	rec := ts.do(req, nil)
	cookies := mergeCookies(nil, rec)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome back")
	assert.Contains(t, rec.Body.String(), "What is 2+2?")
	assert.Contains(t, rec.Body.String(), "Math")

	// announcements: role filter drops the non-matching entry
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/dashboard/announcements?role=teacher", nil), cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Lab safety")
	assert.NotContains(t, rec.Body.String(), "Welcome back")

	// quizzes: search matches course names too
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/dashboard/quizzes?search=bio", nil), cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Define osmosis")
	assert.NotContains(t, rec.Body.String(), "What is 2+2?")
}

func TestDashboardLoadFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.repo.Err = assert.AnError

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: "tok-1"})
	rec := ts.do(req, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to load")
	assert.Contains(t, rec.Body.String(), "Retry")
}

func TestUnknownPathRedirectsToRoot(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/no/such/page", nil), nil)
	checkRedirect(t, rec, "/")
}
