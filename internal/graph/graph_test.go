package graph

import (
	"math"
	"testing"

	"gpsnav-vrp/internal/geo"
)

func sampleRaw() RawData {
	nodes := map[int64]Node{
		1: {ID: 1, Lat: 17.735, Lon: 83.315},
		2: {ID: 2, Lat: 17.737, Lon: 83.320},
		3: {ID: 3, Lat: 17.740, Lon: 83.310},
		4: {ID: 4, Lat: 17.733, Lon: 83.318},
		5: {ID: 5, Lat: 10.000, Lon: 10.000}, // not referenced by any way
	}
	ways := []Way{
		{ID: 100, NodeRefs: []int64{1, 2, 3, 4}, Tags: map[string]string{"highway": "residential"}},
		{ID: 101, NodeRefs: []int64{1, 5}, Tags: map[string]string{"highway": "footway"}},
	}
	return RawData{Nodes: nodes, Ways: ways}
}

func TestBuildRoadsOnlyFiltersByTagValue(t *testing.T) {
	g, err := Build(sampleRaw(), true)
	if err != nil {
		t.Fatal(err)
	}
	if g.WayCount() != 1 {
		t.Fatalf("expected 1 drivable way, got %d", g.WayCount())
	}
	if _, ok := g.Nodes[5]; ok {
		t.Fatal("node 5 should be dropped: only referenced by a footway")
	}
	if len(g.Nodes) != 4 {
		t.Fatalf("expected 4 nodes retained, got %d", len(g.Nodes))
	}
}

func TestBuildWithoutFilterKeepsEverything(t *testing.T) {
	g, err := Build(sampleRaw(), false)
	if err != nil {
		t.Fatal(err)
	}
	if g.WayCount() != 2 || len(g.Nodes) != 5 {
		t.Fatalf("expected everything retained, got ways=%d nodes=%d", g.WayCount(), len(g.Nodes))
	}
}

func TestSnapCorrectness(t *testing.T) {
	g, err := Build(sampleRaw(), true)
	if err != nil {
		t.Fatal(err)
	}
	q := geo.Coordinate{Lat: 17.736, Lon: 83.319}

	nodeID, dist := g.Snap(q)

	// Brute force to confirm exactness.
	var wantID int64
	wantDist := math.Inf(1)
	for id, n := range g.Nodes {
		d := geo.HaversineMeters(q, geo.Coordinate{Lat: n.Lat, Lon: n.Lon})
		if d < wantDist || (d == wantDist && id < wantID) {
			wantDist = d
			wantID = id
		}
	}
	if nodeID != wantID {
		t.Fatalf("snap returned node %d, brute force wants %d", nodeID, wantID)
	}
	if math.Abs(dist-wantDist) > 1e-6 {
		t.Fatalf("snap distance %v != brute force %v", dist, wantDist)
	}
}

func TestSnapOutsideBBoxStillReturnsNode(t *testing.T) {
	g, err := Build(sampleRaw(), true)
	if err != nil {
		t.Fatal(err)
	}
	q := geo.Coordinate{Lat: 18.5, Lon: 84.5}
	id, dist := g.Snap(q)
	if id == 0 {
		t.Fatal("expected a node id")
	}
	if dist <= 1000 {
		t.Fatalf("expected distance > 1000m for far query, got %v", dist)
	}
}

func TestBuildEmptyAfterFilterFails(t *testing.T) {
	raw := RawData{
		Nodes: map[int64]Node{1: {ID: 1, Lat: 0, Lon: 0}},
		Ways:  []Way{{ID: 1, NodeRefs: []int64{1}, Tags: map[string]string{"highway": "footway"}}},
	}
	if _, err := Build(raw, true); err == nil {
		t.Fatal("expected error for empty graph after filtering")
	}
}
