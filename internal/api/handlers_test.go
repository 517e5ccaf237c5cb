package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gpsnav-vrp/internal/config"
	"gpsnav-vrp/internal/graph"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(config.Default())
}

func seedGraph(t *testing.T, s *Server) string {
	t.Helper()
	raw := graph.RawData{
		Nodes: map[int64]graph.Node{
			1: {ID: 1, Lat: 17.735, Lon: 83.315},
			2: {ID: 2, Lat: 17.736, Lon: 83.316},
			3: {ID: 3, Lat: 17.737, Lon: 83.317},
			4: {ID: 4, Lat: 17.738, Lon: 83.318},
		},
		Ways: []graph.Way{
			{ID: 1, NodeRefs: []int64{1, 2, 3, 4}, Tags: map[string]string{"highway": "residential"}},
		},
	}
	g, err := graph.Build(raw, true)
	if err != nil {
		t.Fatal(err)
	}
	return s.Store.InsertGraph(g)
}

func TestHealthReady(t *testing.T) {
	s := newTestServer(t)
	rr := httptest.NewRecorder()
	s.HealthHandler(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("health: got %d", rr.Code)
	}
	var healthResp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &healthResp); err != nil {
		t.Fatal(err)
	}
	if healthResp.Status != "healthy" {
		t.Fatalf("health: expected status %q, got %q", "healthy", healthResp.Status)
	}

	rr = httptest.NewRecorder()
	s.ReadyHandler(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("ready: got %d", rr.Code)
	}
}

func TestVrpMapUnknownGraph404(t *testing.T) {
	s := newTestServer(t)
	body := []byte(`{"graph_id":"does-not-exist","depot":{"lat":17.735,"lon":83.315},"customers":[{"lat":17.736,"lon":83.316}]}`)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/vrp/map", bytes.NewReader(body))
	s.VrpMapHandler(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestVrpMapEmptyCustomers400(t *testing.T) {
	s := newTestServer(t)
	graphID := seedGraph(t, s)
	body := []byte(`{"graph_id":"` + graphID + `","depot":{"lat":17.735,"lon":83.315},"customers":[]}`)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/vrp/map", bytes.NewReader(body))
	s.VrpMapHandler(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

// TestFullPipeline exercises upload-free graph seeding through map ->
// generate -> solve -> solution -> export, the same path a client drives
// through the real HTTP surface.
func TestFullPipeline(t *testing.T) {
	s := newTestServer(t)
	graphID := seedGraph(t, s)

	mapBody := []byte(`{"graph_id":"` + graphID + `","depot":{"lat":17.735,"lon":83.315},"customers":[{"lat":17.736,"lon":83.316},{"lat":17.737,"lon":83.317},{"lat":17.738,"lon":83.318}]}`)
	rr := httptest.NewRecorder()
	s.VrpMapHandler(rr, httptest.NewRequest(http.MethodPost, "/vrp/map", bytes.NewReader(mapBody)))
	if rr.Code != http.StatusOK {
		t.Fatalf("map: got %d: %s", rr.Code, rr.Body.String())
	}

	genBody := []byte(`{"graph_id":"` + graphID + `","vehicles":2,"capacity":50,"constraints":{}}`)
	rr = httptest.NewRecorder()
	s.VrpGenerateHandler(rr, httptest.NewRequest(http.MethodPost, "/vrp/generate", bytes.NewReader(genBody)))
	if rr.Code != http.StatusOK {
		t.Fatalf("generate: got %d: %s", rr.Code, rr.Body.String())
	}
	var genResp struct {
		VrpID string `json:"vrp_id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &genResp); err != nil {
		t.Fatal(err)
	}

	solveBody := []byte(`{"vrp_id":"` + genResp.VrpID + `","algorithm":"multi_start"}`)
	rr = httptest.NewRecorder()
	s.VrpSolveHandler(rr, httptest.NewRequest(http.MethodPost, "/vrp/solve", bytes.NewReader(solveBody)))
	if rr.Code != http.StatusOK {
		t.Fatalf("solve: got %d: %s", rr.Code, rr.Body.String())
	}
	var solveResp struct {
		SolutionID string `json:"solution_id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &solveResp); err != nil {
		t.Fatal(err)
	}
	if solveResp.SolutionID == "" {
		t.Fatal("expected a solution id")
	}

	rr = httptest.NewRecorder()
	s.VrpSolutionHandler(rr, httptest.NewRequest(http.MethodGet, "/vrp/solution/"+solveResp.SolutionID, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("get solution: got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	s.VrpSolutionHandler(rr, httptest.NewRequest(http.MethodGet, "/vrp/solution/"+solveResp.SolutionID+"/export?format=geojson", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("export geojson: got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	s.VrpSolutionHandler(rr, httptest.NewRequest(http.MethodGet, "/vrp/solution/"+solveResp.SolutionID+"/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("solution metrics: got %d", rr.Code)
	}
}

func TestVrpSolveUnknownVrp404(t *testing.T) {
	s := newTestServer(t)
	body := []byte(`{"vrp_id":"does-not-exist","algorithm":"greedy"}`)
	rr := httptest.NewRecorder()
	s.VrpSolveHandler(rr, httptest.NewRequest(http.MethodPost, "/vrp/solve", bytes.NewReader(body)))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestVrpSolveInvalidAlgorithm400(t *testing.T) {
	s := newTestServer(t)
	body := []byte(`{"vrp_id":"anything","algorithm":"not-a-real-one"}`)
	rr := httptest.NewRecorder()
	s.VrpSolveHandler(rr, httptest.NewRequest(http.MethodPost, "/vrp/solve", bytes.NewReader(body)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
