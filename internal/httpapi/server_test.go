package httpapi

import (
	"bytes"
	"encoding/json"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/whiteboard/internal/engine"
	"github.com/example/whiteboard/internal/history"
	"github.com/example/whiteboard/internal/surface"
	"github.com/sirupsen/logrus"
)

func newTestServer(t *testing.T) (*httptest.Server, *engine.Engine) {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)
	eng := engine.New(120, 100, engine.WithLogger(logrus.NewEntry(l)))
	s := New(eng)
	s.log = logrus.NewEntry(l)
	ts := httptest.NewServer(s.Router(nil))
	t.Cleanup(ts.Close)
	return ts, eng
}

func call(t *testing.T, ts *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func result(t *testing.T, data []byte) Result {
	t.Helper()
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return res
}

var white = color.RGBA{255, 255, 255, 255}

const stroke = `{"events":[
	{"kind":"down","x":10,"y":20},
	{"kind":"move","x":60,"y":20},
	{"kind":"up"}
]}`

func TestStatus(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, data := call(t, ts, http.MethodGet, "/api/status", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code %d", resp.StatusCode)
	}
	var st engine.Status
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.ToolName != "pen" || st.ColorHex != "#000000" || st.UndoDepth != 1 || st.Width != 120 || st.Limit != history.DefaultLimit {
		t.Fatalf("unexpected status %+v", st)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Fatalf("missing request id header")
	}
}

func TestEventsUndoRedo(t *testing.T) {
	ts, eng := newTestServer(t)
	resp, data := call(t, ts, http.MethodPost, "/api/events", stroke)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("events: %d %s", resp.StatusCode, data)
	}
	res := result(t, data)
	if !res.Changed || res.Status.UndoDepth != 2 {
		t.Fatalf("events result %+v", res)
	}
	if eng.Surface().At(surface.Pt(35, 20)) == white {
		t.Fatalf("stroke not drawn")
	}
	_, data = call(t, ts, http.MethodPost, "/api/undo", "")
	if res := result(t, data); !res.Changed || res.Status.UndoDepth != 1 || res.Status.RedoDepth != 1 {
		t.Fatalf("undo result %+v", res)
	}
	_, data = call(t, ts, http.MethodPost, "/api/redo", "")
	if res := result(t, data); !res.Changed || res.Status.UndoDepth != 2 || res.Status.RedoDepth != 0 {
		t.Fatalf("redo result %+v", res)
	}
}

func TestStrictNoOps(t *testing.T) {
	ts, _ := newTestServer(t)
	cases := []struct {
		path string
		body string
		code int
	}{
		{"/api/undo?strict=true", "", http.StatusConflict},
		{"/api/redo?strict=1", "", http.StatusConflict},
		{"/api/text/commit?strict=1", "", http.StatusConflict},
		{"/api/events?strict=1", `{"events":[{"kind":"down","touch":true}]}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		resp, data := call(t, ts, http.MethodPost, tc.path, tc.body)
		if resp.StatusCode != tc.code {
			t.Fatalf("%s: code %d, want %d (%s)", tc.path, resp.StatusCode, tc.code, data)
		}
		var er ErrorResponse
		if err := json.Unmarshal(data, &er); err != nil || er.Error == "" || er.RequestID == "" {
			t.Fatalf("%s: error body %s", tc.path, data)
		}
	}

	resp, data := call(t, ts, http.MethodPost, "/api/undo", "")
	if resp.StatusCode != http.StatusOK || result(t, data).Changed {
		t.Fatalf("lenient undo: %d %s", resp.StatusCode, data)
	}
}

func TestBadRequests(t *testing.T) {
	ts, _ := newTestServer(t)
	cases := []struct {
		method, path, body string
	}{
		{http.MethodPost, "/api/events", `{"events":[{"kind":"hover","x":1,"y":1}]}`},
		{http.MethodPost, "/api/events", `not json`},
		{http.MethodPut, "/api/config", `{"tool":"brush"}`},
		{http.MethodPut, "/api/config", `{"color":"nope"}`},
		{http.MethodPut, "/api/config", `{"width":50}`},
		{http.MethodPost, "/api/resize", `{"width":0,"height":10}`},
		{http.MethodPost, "/api/text", `{"text":"hi"}`},
	}
	for _, tc := range cases {
		resp, data := call(t, ts, tc.method, tc.path, tc.body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s %s %s: code %d (%s)", tc.method, tc.path, tc.body, resp.StatusCode, data)
		}
	}
}

func TestConfigAndText(t *testing.T) {
	ts, eng := newTestServer(t)
	resp, data := call(t, ts, http.MethodPut, "/api/config", `{"tool":"text","color":"red","font":24}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("config: %d %s", resp.StatusCode, data)
	}
	res := result(t, data)
	if !res.Changed || res.Status.ToolName != "text" || res.Status.ColorHex != "#FF0000" || res.Status.ActiveSize != 24 {
		t.Fatalf("config result %+v", res)
	}

	call(t, ts, http.MethodPost, "/api/events", `{"events":[{"kind":"down","x":10,"y":10},{"kind":"up"}]}`)
	if eng.State() != engine.Typing {
		t.Fatalf("state %v, want typing", eng.State())
	}
	call(t, ts, http.MethodPost, "/api/text", `{"text":"hellox"}`)
	call(t, ts, http.MethodPost, "/api/text", `{"backspace":1}`)
	if pending, ok := eng.PendingText(); !ok || pending.Text != "hello" {
		t.Fatalf("pending text %+v", pending)
	}
	_, data = call(t, ts, http.MethodPost, "/api/text/commit", "")
	if res := result(t, data); !res.Changed || res.Status.UndoDepth != 2 {
		t.Fatalf("commit result %+v", res)
	}

	call(t, ts, http.MethodPost, "/api/events", `{"events":[{"kind":"down","x":10,"y":60}]}`)
	call(t, ts, http.MethodPost, "/api/text", `{"text":"gone","replace":true}`)
	_, data = call(t, ts, http.MethodPost, "/api/text/cancel", "")
	if res := result(t, data); !res.Changed || res.Status.UndoDepth != 2 {
		t.Fatalf("cancel result %+v", res)
	}
}

func TestClearResizeCanvas(t *testing.T) {
	ts, _ := newTestServer(t)
	call(t, ts, http.MethodPost, "/api/events", stroke)

	_, data := call(t, ts, http.MethodPost, "/api/clear", "")
	if res := result(t, data); res.Status.UndoDepth != 1 || res.Status.RedoDepth != 0 {
		t.Fatalf("clear result %+v", res)
	}
	_, data = call(t, ts, http.MethodPost, "/api/resize", `{"width":64,"height":48}`)
	if res := result(t, data); !res.Changed || res.Status.Width != 64 || res.Status.Height != 48 {
		t.Fatalf("resize result %+v", res)
	}

	resp, data := call(t, ts, http.MethodGet, "/api/canvas.png", "")
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("canvas: %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode canvas: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Fatalf("canvas bounds %v", b)
	}
}

func TestOversizedResizeKeepsServing(t *testing.T) {
	ts, _ := newTestServer(t)
	for _, body := range []string{
		`{"width":1,"height":1,"scale":1e300}`,
		`{"width":100000,"height":100000}`,
		`{"width":64,"height":48,"scale":9}`,
	} {
		if resp, data := call(t, ts, http.MethodPost, "/api/resize", body); resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("resize %s: %d %s", body, resp.StatusCode, data)
		}
	}
	resp, data := call(t, ts, http.MethodGet, "/api/status", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status after rejected resize: %d", resp.StatusCode)
	}
	var st engine.Status
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.Width != 120 || st.Height != 100 {
		t.Fatalf("rejected resize changed size: %+v", st)
	}
}

func TestCORS(t *testing.T) {
	ts, _ := newTestServer(t)
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/status", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow origin = %q", got)
	}

	req, _ = http.NewRequest(http.MethodOptions, ts.URL+"/api/status", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("foreign origin allowed: %q", got)
	}
}
