package routes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/drugis/mcda-patient/app"
	"github.com/drugis/mcda-patient/config"
	"github.com/drugis/mcda-patient/database"
	"github.com/drugis/mcda-patient/store"
)

const testPassword = "sekret"

// stubRenderer stands in for the deployed template files: it records
// every template name and payload a handler asks for.
type renderCall struct {
	status int
	name   string
	data   map[string]any
}

type stubRenderer struct {
	mu    sync.Mutex
	calls []renderCall
}

func (s *stubRenderer) Render(w http.ResponseWriter, status int, name string, data any) {
	s.mu.Lock()
	s.calls = append(s.calls, renderCall{status, name, data.(map[string]any)})
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte("render:" + name))
}

func (s *stubRenderer) last(t *testing.T) renderCall {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		t.Fatal("expected a render call")
	}
	return s.calls[len(s.calls)-1]
}

func newTestApp(t *testing.T) (app.App, *stubRenderer) {
	t.Helper()

	cfg := config.Config{
		DBUrl:         "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared",
		AdminPassword: testPassword,
		WebHost:       "https://example.com",
	}
	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	renderer := &stubRenderer{}
	return app.App{
		Store:    store.New(db),
		Renderer: renderer,
		Config:   cfg,
	}, renderer
}

func newTestServer(t *testing.T) (http.Handler, app.App, *stubRenderer) {
	t.Helper()
	a, renderer := newTestApp(t)
	return Wire(a), a, renderer
}

func adminGet(h http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	req.SetBasicAuth("admin", testPassword)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func adminPost(h http.Handler, path string, fields url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(fields.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("admin", testPassword)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

var reAdminLocation = regexp.MustCompile(`^/admin/(\d+)$`)

// createQuestionnaire posts the admin new-questionnaire form and
// returns the id from the redirect location.
func createQuestionnaire(t *testing.T, h http.Handler, title, problem, questions string) int {
	t.Helper()

	w := adminPost(h, "/admin/new", url.Values{
		"title":     {title},
		"problem":   {problem},
		"questions": {questions},
	})
	if w.Code != http.StatusFound {
		t.Fatalf("create questionnaire: status %d, body %q", w.Code, w.Body.String())
	}

	match := reAdminLocation.FindStringSubmatch(w.Header().Get("Location"))
	if match == nil {
		t.Fatalf("create questionnaire: unexpected redirect %q", w.Header().Get("Location"))
	}
	id, _ := strconv.Atoi(match[1])
	return id
}

// waitFor polls cond until it holds; used for the fire-and-forget
// visit timestamp write.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}
