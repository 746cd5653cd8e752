package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"mymat/internal/config"
	"mymat/internal/http/handlers"
	applog "mymat/internal/log"
	"mymat/internal/metrics"
	"mymat/internal/repos"
)

// testApp is the full application on an in-memory database plus a small cookie jar.
type testApp struct {
	t    *testing.T
	app  *fiber.App
	db   *sqlx.DB
	deps *handlers.Deps
	jar  map[string]string
}

func testConfig(t *testing.T) config.Config {
	cfg := config.Defaults()
	cfg.DBDSN = ":memory:"
	cfg.TemplatesDir = "../../web/templates"
	cfg.StaticDir = "../../web/static"
	cfg.MediaDir = t.TempDir()
	cfg.JWTSecret = "test-secret"
	cfg.RateLimit = 1000
	return cfg
}

func newTestApp(t *testing.T, tweak ...func(*config.Config)) *testApp {
	t.Helper()
	cfg := testConfig(t)
	for _, f := range tweak {
		f(&cfg)
	}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	deps := handlers.NewDeps(db, cfg, repos.NewCartRepo(db), metrics.New())
	return &testApp{t: t, app: handlers.NewApp(deps), db: db, deps: deps, jar: map[string]string{}}
}

// do sends req with the jar's cookies and records any cookies the response sets.
func (a *testApp) do(req *http.Request) *http.Response {
	a.t.Helper()
	for name, v := range a.jar {
		req.AddCookie(&http.Cookie{Name: name, Value: v})
	}
	resp, err := a.app.Test(req, -1)
	if err != nil {
		a.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	for _, c := range resp.Cookies() {
		if c.Value == "" || c.MaxAge < 0 {
			delete(a.jar, c.Name)
			continue
		}
		a.jar[c.Name] = c.Value
	}
	return resp
}

func (a *testApp) get(path string) *http.Response {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// csrf returns the token from the csrf_ cookie, fetching the login page first if needed.
func (a *testApp) csrf() string {
	a.t.Helper()
	if tok := a.jar["csrf_"]; tok != "" {
		return tok
	}
	a.get("/login")
	tok := a.jar["csrf_"]
	if tok == "" {
		a.t.Fatal("csrf token missing")
	}
	return tok
}

func (a *testApp) postForm(path string, form url.Values) *http.Response {
	a.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", a.csrf())
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *testApp) sendJSON(method, path string, body any, header ...string) *http.Response {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	return a.do(req)
}

// signInAs binds a fresh session to a seeded user id.
func (a *testApp) signInAs(userID string) {
	a.t.Helper()
	sid := "sid-" + userID
	require.NoError(a.t, repos.NewUserRepo(a.db).BindSession(context.Background(), sid, userID))
	a.jar["sid"] = sid
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	ReqID  string         `json:"req_id"`
	UserID string         `json:"user_id"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

// captureLogs collects every event the application logs while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	buf := &lockedBuf{}
	applog.SetOutput(buf)
	defer applog.SetOutput(io.Discard)

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.b.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
