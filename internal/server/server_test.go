package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pulsegraph/pkg/cache"
	"github.com/matzehuels/pulsegraph/pkg/core/timeline"
	"github.com/matzehuels/pulsegraph/pkg/graph"
	"github.com/matzehuels/pulsegraph/pkg/observability"
	"github.com/matzehuels/pulsegraph/pkg/playback"
)

func fptr(v float64) *float64 { return &v }

func testData() graph.Data {
	return graph.Data{
		Nodes: []graph.Node{
			{ID: "gw", Label: "Gateway"},
			{ID: "svc"},
			{ID: "db"},
		},
		Links: []graph.Link{
			{Source: "gw", Target: "svc"},
			{Source: "svc", Target: "db"},
		},
	}
}

func testSequence() *timeline.Sequence {
	return &timeline.Sequence{
		Name: "request-flow",
		Steps: []timeline.Action{
			{From: "gw", To: "svc", LinkStyle: "secure", TargetNodeState: "received", Duration: fptr(0.1)},
			{From: "svc", To: "db", TargetNodeState: "queried", Duration: fptr(0.1)},
		},
	}
}

func newTestServer() *Server {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := playback.NewRunner(cache.NewMemoryCache(), nil, logger)
	return New(DefaultConfig(), runner, NewMemoryStore(), logger)
}

// do runs one request against the router and returns the recorder.
func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	rr := do(t, newTestServer(), http.MethodGet, "/healthz", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %q, want ok", resp["status"])
	}
}

func TestSimulate(t *testing.T) {
	srv := newTestServer()
	opts := playback.Options{
		Data:     testData(),
		Sequence: testSequence(),
		Formats:  []string{playback.FormatJSON},
	}

	rr := do(t, srv, http.MethodPost, "/v1/simulate", opts)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp SimulateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.RunID == "" {
		t.Error("runId missing")
	}
	if len(resp.Snapshot.Nodes) != 3 {
		t.Errorf("snapshot nodes = %d, want 3", len(resp.Snapshot.Nodes))
	}
	if resp.Stats.Nodes != 3 || resp.Stats.Links != 2 {
		t.Errorf("stats = %+v", resp.Stats)
	}
	if resp.Stats.Events != 2 {
		t.Errorf("events = %d, want 2", resp.Stats.Events)
	}
	if resp.Artifacts["json"] == nil {
		t.Error("json artifact missing")
	}

	// The run is archived and retrievable.
	rr = do(t, srv, http.MethodGet, "/v1/runs/"+resp.RunID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get run status = %d", rr.Code)
	}
	var rec RunRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}
	if rec.ID != resp.RunID {
		t.Errorf("archived id = %q, want %q", rec.ID, resp.RunID)
	}
	if rec.Sequence != "request-flow" {
		t.Errorf("archived sequence = %q", rec.Sequence)
	}

	// And it shows up in the listing.
	rr = do(t, srv, http.MethodGet, "/v1/runs", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list status = %d", rr.Code)
	}
	var list RunList
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Runs) != 1 || list.Runs[0].ID != resp.RunID {
		t.Errorf("list = %+v", list.Runs)
	}
}

func TestSimulateBadBody(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/v1/simulate", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error == "" {
		t.Error("error message missing")
	}
}

func TestSimulateInvalidOptions(t *testing.T) {
	srv := newTestServer()
	data := testData()
	data.Nodes = append(data.Nodes, graph.Node{ID: "gw"}) // duplicate id

	rr := do(t, srv, http.MethodPost, "/v1/simulate", playback.Options{Data: data})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rr.Code, rr.Body.String())
	}
}

func TestLayout(t *testing.T) {
	srv := newTestServer()
	opts := playback.Options{Data: testData()}

	rr := do(t, srv, http.MethodPost, "/v1/layout", opts)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var resp LayoutResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Snapshot.Nodes) != 3 {
		t.Errorf("snapshot nodes = %d, want 3", len(resp.Snapshot.Nodes))
	}
	if resp.Cached {
		t.Error("first layout should not be cached")
	}

	// Identical request hits the layout cache.
	rr = do(t, srv, http.MethodPost, "/v1/layout", opts)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var second LayoutResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &second); err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Error("second layout should be cached")
	}
	if len(second.Snapshot.Nodes) != len(resp.Snapshot.Nodes) {
		t.Errorf("cached snapshot differs: %d vs %d nodes",
			len(second.Snapshot.Nodes), len(resp.Snapshot.Nodes))
	}
}

func TestGetRunNotFound(t *testing.T) {
	rr := do(t, newTestServer(), http.MethodGet, "/v1/runs/nope", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestListRunsInvalidLimit(t *testing.T) {
	rr := do(t, newTestServer(), http.MethodGet, "/v1/runs?limit=bogus", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer()
	srv.Metrics().Register()
	defer observability.Reset()

	// Serve one request so the counters have samples.
	if rr := do(t, srv, http.MethodGet, "/healthz", nil); rr.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rr.Code)
	}

	rr := do(t, srv, http.MethodGet, "/metrics", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "pulsegraph_http_requests_total") {
		t.Error("request counter missing from exposition")
	}
	if !strings.Contains(body, `path="/healthz"`) {
		t.Error("healthz sample missing from exposition")
	}
}
