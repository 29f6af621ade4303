package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/observability"
	"github.com/matzehuels/forcegraph/pkg/observability/prom"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/scene"
)

const sampleGraph = `{
  "nodes": [
    {"id": "a", "force": {"x": 0, "y": 0}},
    {"id": "b", "force": {"x": 100, "y": 0}}
  ],
  "links": [{"source": "a", "target": "b"}]
}`

func staticConfig() config.Config {
	cfg := config.Default()
	cfg.StaticGraphWithDragAndDrop = true
	return cfg
}

func newTestServer(t *testing.T, cfg config.Config, opts ...Option) (*Server, *httptest.Server, context.CancelFunc) {
	t.Helper()
	quiet := log.New(io.Discard)
	sc, err := scene.New(cfg, scene.WithID("test"), scene.WithLogger(quiet))
	if err != nil {
		t.Fatalf("scene.New: %v", err)
	}
	opts = append([]Option{WithLogger(quiet), WithFrameInterval(time.Millisecond)}, opts...)
	s := New(sc, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run returned %v", err)
		}
		ts.Close()
	})
	return s, ts, cancel
}

// waitFrame polls until a frame with n nodes is published.
func waitFrame(t *testing.T, s *Server, n int) render.Frame {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f, ok := s.Frame(); ok && len(f.Nodes()) == n {
			return f
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("no frame with %d nodes published", n)
	return render.Frame{}
}

func do(t *testing.T, method, url, contentType, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func putSample(t *testing.T, ts *httptest.Server) {
	t.Helper()
	resp := do(t, http.MethodPut, ts.URL+"/graph", "application/json", sampleGraph)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("PUT /graph status = %d, body %s", resp.StatusCode, readBody(t, resp))
	}
}

func TestFrameRoutes(t *testing.T) {
	s, ts, _ := newTestServer(t, staticConfig())
	putSample(t, ts)
	waitFrame(t, s, 2)

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/frame", "application/json", `"view_box"`},
		{"/graph.svg", "image/svg+xml", "<svg"},
		{"/graph.svg?labels=false&background=white", "image/svg+xml", "white"},
		{"/graph.dot", "text/vnd.graphviz", "layout=neato"},
		{"/layout", "application/json", `"positions"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := do(t, http.MethodGet, ts.URL+tt.path, "", "")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if body := readBody(t, resp); !strings.Contains(body, tt.contains) {
				t.Errorf("body does not contain %q:\n%s", tt.contains, body)
			}
		})
	}

	resp := do(t, http.MethodGet, ts.URL+"/frame", "", "")
	var f render.Frame
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if got := len(f.Links()); got != 1 {
		t.Errorf("frame has %d links, want 1", got)
	}
}

func TestFrameBeforeRender(t *testing.T) {
	sc, _ := scene.New(config.Default(), scene.WithLogger(log.New(io.Discard)))
	ts := httptest.NewServer(New(sc).Handler())
	defer ts.Close()

	resp := do(t, http.MethodGet, ts.URL+"/frame", "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	var e errorResponse
	json.NewDecoder(resp.Body).Decode(&e)
	if e.Code != string(errors.ErrCodeNotFound) {
		t.Errorf("code = %q, want %q", e.Code, errors.ErrCodeNotFound)
	}
}

func TestPutGraphErrors(t *testing.T) {
	_, ts, _ := newTestServer(t, staticConfig())

	tests := []struct {
		name        string
		path        string
		contentType string
		body        string
		want        int
	}{
		{"malformed json", "/graph", "application/json", `{"nodes": [`, http.StatusBadRequest},
		{"unknown keys ignored", "/graph", "application/json", `{"nodes": [{"id": "a", "tooltip": "x"}], "vertices": []}`, http.StatusNoContent},
		{"empty id", "/graph", "application/json", `{"nodes": [{"id": ""}]}`, http.StatusBadRequest},
		{"unsupported type", "/graph", "text/csv", "a,b", http.StatusUnsupportedMediaType},
		{"unsupported format", "/graph?format=xml", "", "<g/>", http.StatusUnsupportedMediaType},
		{"yaml", "/graph", "application/yaml", "nodes:\n  - id: a\n", http.StatusNoContent},
		{"toml", "/graph?format=toml", "", "[[nodes]]\nid = \"a\"\n", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPut, ts.URL+tt.path, tt.contentType, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tt.want, readBody(t, resp))
			}
		})
	}
}

func TestDrag(t *testing.T) {
	s, ts, _ := newTestServer(t, staticConfig())
	putSample(t, ts)
	waitFrame(t, s, 2)

	steps := []struct {
		body string
		want int
	}{
		{`{"id": "a", "phase": "start"}`, http.StatusNoContent},
		{`{"id": "a", "phase": "move", "dx": 10, "dy": -5}`, http.StatusNoContent},
		{`{"id": "a", "phase": "end"}`, http.StatusNoContent},
		{`{"id": "a", "phase": "fling"}`, http.StatusBadRequest},
		{`{"id": "zzz", "phase": "start"}`, http.StatusNotFound},
		{`{"id": "a", "phase": "start", "extra": 1}`, http.StatusBadRequest},
	}
	for _, st := range steps {
		resp := do(t, http.MethodPost, ts.URL+"/drag", "application/json", st.body)
		if resp.StatusCode != st.want {
			t.Errorf("POST /drag %s: status = %d, want %d", st.body, resp.StatusCode, st.want)
		}
	}

	resp := do(t, http.MethodGet, ts.URL+"/layout", "", "")
	var l graph.Layout
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		t.Fatal(err)
	}
	p, ok := l.Lookup("a")
	if !ok || p.X != 10 || p.Y != -5 {
		t.Errorf("a = %v, want a@(10.0,-5.0)", p)
	}
}

func TestDragDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.StaticGraph = true
	s, ts, _ := newTestServer(t, cfg)
	putSample(t, ts)
	waitFrame(t, s, 2)

	resp := do(t, http.MethodPost, ts.URL+"/drag", "application/json", `{"id": "a", "phase": "start"}`)
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnsupportedMediaType)
	}
}

func TestZoom(t *testing.T) {
	s, ts, _ := newTestServer(t, staticConfig())
	putSample(t, ts)
	waitFrame(t, s, 2)

	tests := []struct {
		name   string
		body   string
		status int
		wantK  float64
	}{
		{"factor", `{"factor": 2}`, http.StatusOK, 2},
		{"clamped", `{"factor": 1000}`, http.StatusOK, 8},
		{"reset", `{"reset": true}`, http.StatusOK, 1},
		{"transform", `{"transform": {"x": 10, "y": 20, "k": 0.5}}`, http.StatusOK, 0.5},
		{"empty", `{}`, http.StatusBadRequest, 0},
		{"negative", `{"factor": -1}`, http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/zoom", "application/json", tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}
			var tr scene.Transform
			json.NewDecoder(resp.Body).Decode(&tr)
			if tr.K != tt.wantK {
				t.Errorf("k = %v, want %v", tr.K, tt.wantK)
			}
		})
	}
}

func TestFocus(t *testing.T) {
	s, ts, _ := newTestServer(t, staticConfig())
	putSample(t, ts)
	waitFrame(t, s, 2)

	if resp := do(t, http.MethodPost, ts.URL+"/focus", "application/json", `{"id": "b"}`); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("focus b: status = %d", resp.StatusCode)
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		if f, _ := s.Frame(); f.Focused == "b" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("focused frame never published")
		}
		time.Sleep(2 * time.Millisecond)
	}

	if resp := do(t, http.MethodPost, ts.URL+"/focus", "application/json", `{"id": "nope"}`); resp.StatusCode != http.StatusNotFound {
		t.Errorf("focus unknown: status = %d, want 404", resp.StatusCode)
	}
	if resp := do(t, http.MethodPost, ts.URL+"/focus", "application/json", `{"id": ""}`); resp.StatusCode != http.StatusNoContent {
		t.Errorf("unfocus: status = %d, want 204", resp.StatusCode)
	}
}

func TestWebSocket(t *testing.T) {
	s, ts, _ := newTestServer(t, staticConfig())
	putSample(t, ts)
	waitFrame(t, s, 2)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var f render.Frame
	if err := json.Unmarshal(msg, &f); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := len(f.Nodes()); got != 2 {
		t.Errorf("streamed frame has %d nodes, want 2", got)
	}

	// A zoom produces a fresh frame for subscribers.
	do(t, http.MethodPost, ts.URL+"/zoom", "application/json", `{"factor": 2}`)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read after zoom: %v", err)
		}
		json.Unmarshal(msg, &f)
		if f.Scale == 2 {
			break
		}
	}
}

func TestMetrics(t *testing.T) {
	defer observability.Reset()
	reg := prometheus.NewRegistry()
	prom.Register(reg)
	_, ts, _ := newTestServer(t, staticConfig(), WithMetrics(reg))

	do(t, http.MethodGet, ts.URL+"/healthz", "", "")
	body := readBody(t, do(t, http.MethodGet, ts.URL+"/metrics", "", ""))

	want := `forcegraph_http_requests_total{method="GET",route="/healthz",status="204"} 1`
	if !strings.Contains(body, want) {
		t.Errorf("metrics missing %q", want)
	}
}

func TestUpdateAfterStop(t *testing.T) {
	s, _, cancel := newTestServer(t, staticConfig())
	cancel()
	<-s.done

	err := s.Update(context.Background(), graph.Graph{Nodes: []graph.Node{{ID: "a"}}})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Update after stop = %v, want %s", err, errors.ErrCodeUnsupported)
	}
}
