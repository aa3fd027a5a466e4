package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bloomberg/go-testgroup"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pescuma/locmeta/lib/consoles"
	"github.com/pescuma/locmeta/lib/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sampleRecords() []*model.LineRecord {
	line := func(commit string, day, hour int, file, typ string) *model.LineRecord {
		return &model.LineRecord{
			Commit:   commit,
			Author:   "Jane",
			DateTime: time.Date(2024, 1, day, hour, 0, 0, 0, time.UTC),
			File:     file,
			Line:     1,
			Depth:    2,
			Length:   10,
			Type:     typ,
		}
	}

	return []*model.LineRecord{
		line("c1", 1, 10, "index.js", "js"),
		line("c1", 1, 10, "index.js", "js"),
		line("c1", 1, 10, "main.js", "js"),
		line("c2", 5, 22, "style.css", "css"),
		line("c2", 5, 22, "style.css", "css"),
	}
}

func newTestServer(load Loader, opts *Options) http.Handler {
	s := newServer(consoles.NewConsole(io.Discard, false), opts)
	s.load(load)
	return s.router()
}

func do(t *testgroup.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t.T, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var result map[string]any
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" && rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t.T, json.Unmarshal(rec.Body.Bytes(), &result))
	}

	return rec, result
}

func TestServer(t *testing.T) {
	testgroup.RunInParallel(t, &ServerTests{})
}

type ServerTests struct {
}

func (g *ServerTests) handler() http.Handler {
	return newTestServer(func() ([]*model.LineRecord, error) { return sampleRecords(), nil }, nil)
}

func (g *ServerTests) Summary(t *testgroup.T) {
	rec, body := do(t, g.handler(), "GET", "/api/summary", nil)

	t.Equal(http.StatusOK, rec.Code)
	t.Equal(2.0, body["commits"])
	t.Equal(3.0, body["files"])
	t.Equal(5.0, body["totalLoc"])
	t.Equal(2.0, body["maxDepth"])
}

func (g *ServerTests) Commits(t *testgroup.T) {
	rec, body := do(t, g.handler(), "GET", "/api/commits?sort=totalLines&limit=1", nil)

	t.Equal(http.StatusOK, rec.Code)
	t.Equal(2.0, body["total"])

	data := body["data"].([]any)
	require.Len(t.T, data, 1)
	t.Equal("c1", data[0].(map[string]any)["id"])
	t.Equal(3.0, data[0].(map[string]any)["totalLines"])
	t.NotContains(rec.Body.String(), "index.js")
}

func (g *ServerTests) CommitsByAuthor(t *testgroup.T) {
	_, body := do(t, g.handler(), "GET", "/api/commits?author=nobody", nil)

	t.Equal(0.0, body["total"])
}

func (g *ServerTests) CommitsUnknownSort(t *testgroup.T) {
	rec, _ := do(t, g.handler(), "GET", "/api/commits?sort=nope", nil)

	t.Equal(http.StatusBadRequest, rec.Code)
}

func (g *ServerTests) Commit(t *testgroup.T) {
	rec, body := do(t, g.handler(), "GET", "/api/commits/c2", nil)

	t.Equal(http.StatusOK, rec.Code)
	t.Equal("c2", body["commit"].(map[string]any)["id"])
	t.Equal(22.0, body["commit"].(map[string]any)["hourFrac"])
	t.Equal("Friday, January 5, 2024", body["tooltip"].(map[string]any)["date"])
	t.Len(body["files"], 1)

	rec, _ = do(t, g.handler(), "GET", "/api/commits/nope", nil)
	t.Equal(http.StatusNotFound, rec.Code)
}

func (g *ServerTests) Narrative(t *testgroup.T) {
	rec, _ := do(t, g.handler(), "GET", "/api/narrative", nil)

	t.Equal(http.StatusOK, rec.Code)

	var steps []map[string]any
	require.NoError(t.T, json.Unmarshal(rec.Body.Bytes(), &steps))
	require.Len(t.T, steps, 2)
	t.Contains(steps[0]["text"], "first commit")
	t.Equal(2.0, steps[0]["files"])
}

func (g *ServerTests) Breakdown(t *testgroup.T) {
	rec, _ := do(t, g.handler(), "GET", "/api/breakdown", nil)

	var entries []map[string]any
	require.NoError(t.T, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t.T, entries, 2)
	t.Equal("JS", entries[0]["label"])
	t.Equal(60.0, entries[0]["percent"])
}

func (g *ServerTests) Files(t *testgroup.T) {
	_, body := do(t, g.handler(), "GET", "/api/files?file=*.css", nil)

	t.Equal(1.0, body["total"])

	rec, _ := do(t, g.handler(), "GET", "/api/files?file=%5B", nil)
	t.Equal(http.StatusBadRequest, rec.Code)
}

func (g *ServerTests) Session(t *testgroup.T) {
	h := g.handler()

	rec, body := do(t, h, "POST", "/api/sessions", nil)
	require.Equal(t.T, http.StatusCreated, rec.Code)
	id := body["id"].(string)
	t.NotEmpty(id)

	_, body = do(t, h, "POST", "/api/sessions/"+id+"/progress", gin.H{"progress": 0})
	t.Equal(1.0, body["commits"])

	_, body = do(t, h, "POST", "/api/sessions/"+id+"/step", gin.H{"step": 1})
	t.Equal(2.0, body["commits"])
	t.Equal(1.0, body["step"])

	_, body = do(t, h, "POST", "/api/sessions/"+id+"/brush", gin.H{"rect": gin.H{"x0": 0, "y0": 0, "x1": 1000, "y1": 600}})
	t.Equal("2 commits selected", body["selectionText"])
	t.Len(body["breakdown"], 2)

	_, body = do(t, h, "POST", "/api/sessions/"+id+"/hover", gin.H{"commit": "c1"})
	t.Equal("c1", body["tooltip"].(map[string]any)["shortId"])

	_, body = do(t, h, "POST", "/api/sessions/"+id+"/leave", nil)
	t.Nil(body["tooltip"])

	_, body = do(t, h, "POST", "/api/sessions/"+id+"/brush", gin.H{"rect": nil})
	t.Equal("No commits selected", body["selectionText"])

	_, body = do(t, h, "GET", "/api/sessions/"+id, nil)
	t.Equal(2.0, body["commits"])

	rec, _ = do(t, h, "POST", "/api/sessions/"+id+"/step", gin.H{"step": 5})
	t.Equal(http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, "POST", "/api/sessions/"+id+"/progress", gin.H{})
	t.Equal(http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, "GET", "/chart?session="+id, nil)
	t.Equal(http.StatusOK, rec.Code)

	rec, _ = do(t, h, "DELETE", "/api/sessions/"+id, nil)
	t.Equal(http.StatusOK, rec.Code)

	rec, _ = do(t, h, "GET", "/api/sessions/"+id, nil)
	t.Equal(http.StatusNotFound, rec.Code)
}

func (g *ServerTests) Chart(t *testgroup.T) {
	rec, _ := do(t, g.handler(), "GET", "/chart?progress=50", nil)

	t.Equal(http.StatusOK, rec.Code)
	t.Contains(rec.Header().Get("Content-Type"), "text/html")
	t.Contains(rec.Body.String(), "Commits by time of day")
	t.Contains(rec.Body.String(), "<dt>COMMITS</dt><dd>2</dd>")
	t.Contains(rec.Body.String(), "<dt>TOTAL LOC</dt><dd>5</dd>")
	t.Contains(rec.Body.String(), "<dt>MAX DEPTH</dt><dd>2</dd>")
	t.Contains(rec.Body.String(), "No commits selected")
}

func (g *ServerTests) Metrics(t *testgroup.T) {
	h := g.handler()
	_, body := do(t, h, "POST", "/api/sessions", nil)
	do(t, h, "POST", "/api/sessions/"+body["id"].(string)+"/progress", gin.H{"progress": 10})

	rec, _ := do(t, h, "GET", "/metrics", nil)

	t.Equal(http.StatusOK, rec.Code)
	t.Contains(rec.Body.String(), "locmeta_sessions 1")
	t.Contains(rec.Body.String(), `locmeta_session_events_total{event="progress"} 1`)
	t.Contains(rec.Body.String(), "locmeta_loaded_lines 5")
}

func (g *ServerTests) NoSourceFile(t *testgroup.T) {
	rec, _ := do(t, g.handler(), "GET", "/loc.csv", nil)

	t.Equal(http.StatusNotFound, rec.Code)
}

func TestSourceFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "loc.csv")
	require.NoError(t, os.WriteFile(file, []byte("commit,author\n"), 0o600))

	h := newTestServer(func() ([]*model.LineRecord, error) { return nil, nil }, &Options{Source: file})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/loc.csv", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "commit,author\n", rec.Body.String())
}

func TestLoadFailure(t *testing.T) {
	t.Parallel()

	h := newTestServer(func() ([]*model.LineRecord, error) { return nil, errors.New("boom") }, nil)

	for _, path := range []string{"/api/summary", "/api/commits", "/api/narrative", "/api/breakdown"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.JSONEq(t, `{"error": "Error loading code analysis data. Please try again later."}`, rec.Body.String(), path)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/sessions", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/chart", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error loading code analysis data. Please try again later.")
	assert.Contains(t, rec.Body.String(), "Error loading chart data. Please try again later.")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "locmeta_load_failures_total 1")
}

func TestEmptyData(t *testing.T) {
	t.Parallel()

	h := newTestServer(func() ([]*model.LineRecord, error) { return nil, nil }, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/summary", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"commits":0,"files":0,"totalLoc":0,"maxDepth":null,"longestLine":null,"maxLines":null}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/chart", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No commits")
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	one, five := 1, 5

	assert.Equal(t, []int{2, 3}, paginate([]int{1, 2, 3}, &one, nil))
	assert.Equal(t, []int{1}, paginate([]int{1, 2, 3}, nil, &one))
	assert.Equal(t, []int{}, paginate([]int{1, 2, 3}, &five, nil))

	minusOne, minusTwo := -1, -2

	assert.Equal(t, []int{1, 2, 3}, paginate([]int{1, 2, 3}, &minusTwo, nil))
	assert.Equal(t, []int{}, paginate([]int{1, 2, 3}, nil, &minusOne))
	assert.Equal(t, []int{}, paginate([]int{1, 2, 3}, &minusOne, &minusOne))
}

func TestNegativePaging(t *testing.T) {
	t.Parallel()

	h := newTestServer(func() ([]*model.LineRecord, error) { return sampleRecords(), nil }, nil)

	for _, path := range []string{"/api/commits?offset=-1", "/api/commits?limit=-1", "/api/files?offset=-2", "/api/files?limit=-3"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "negative", path)
	}
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func newSessionsServer(opts *Options) (*server, *fakeClock, http.Handler) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}

	s := newServer(consoles.NewConsole(io.Discard, false), opts)
	s.now = clock.Now
	s.load(func() ([]*model.LineRecord, error) { return sampleRecords(), nil })

	return s, clock, s.router()
}

func createSession(t *testing.T, h http.Handler) string {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/sessions", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["id"].(string)
}

func getStatus(h http.Handler, path string) (int, string) {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	return rec.Code, rec.Body.String()
}

func TestIdleSessionsExpire(t *testing.T) {
	t.Parallel()

	s, clock, h := newSessionsServer(&Options{SessionTTL: 10 * time.Minute})

	stale := createSession(t, h)
	clock.now = clock.now.Add(5 * time.Minute)
	used := createSession(t, h)

	clock.now = clock.now.Add(8 * time.Minute)
	code, _ := getStatus(h, "/api/sessions/"+used)
	assert.Equal(t, http.StatusOK, code)

	_, metrics := getStatus(h, "/metrics")
	assert.Contains(t, metrics, "locmeta_sessions 2")

	clock.now = clock.now.Add(time.Minute)
	fresh := createSession(t, h)

	assert.Len(t, s.sessions, 2)
	assert.NotContains(t, s.sessions, stale)

	code, _ = getStatus(h, "/api/sessions/"+stale)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = getStatus(h, "/api/sessions/"+fresh)
	assert.Equal(t, http.StatusOK, code)

	_, metrics = getStatus(h, "/metrics")
	assert.Contains(t, metrics, "locmeta_sessions 2")
}

func TestExpiredSessionIsClosedOnAccess(t *testing.T) {
	t.Parallel()

	_, clock, h := newSessionsServer(&Options{SessionTTL: time.Minute})

	id := createSession(t, h)
	clock.now = clock.now.Add(2 * time.Minute)

	code, _ := getStatus(h, "/api/sessions/"+id)
	assert.Equal(t, http.StatusNotFound, code)

	_, metrics := getStatus(h, "/metrics")
	assert.Contains(t, metrics, "locmeta_sessions 0")
}

func TestSessionsAreCapped(t *testing.T) {
	t.Parallel()

	_, clock, h := newSessionsServer(&Options{MaxSessions: 2})

	first := createSession(t, h)
	clock.now = clock.now.Add(time.Second)
	second := createSession(t, h)
	clock.now = clock.now.Add(time.Second)

	// Using the first one makes the second the least recently used
	code, _ := getStatus(h, "/api/sessions/"+first)
	require.Equal(t, http.StatusOK, code)
	clock.now = clock.now.Add(time.Second)

	third := createSession(t, h)

	code, _ = getStatus(h, "/api/sessions/"+second)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = getStatus(h, "/api/sessions/"+first)
	assert.Equal(t, http.StatusOK, code)
	code, _ = getStatus(h, "/api/sessions/"+third)
	assert.Equal(t, http.StatusOK, code)

	_, metrics := getStatus(h, "/metrics")
	assert.Contains(t, metrics, "locmeta_sessions 2")
}
