package export

import (
	"testing"
	"time"

	"gpsnav-vrp/internal/geo"
	"gpsnav-vrp/internal/solve"
	"gpsnav-vrp/internal/vrpmodel"
)

func testInstanceAndSolution(t *testing.T) (*vrpmodel.Instance, *vrpmodel.Solution) {
	t.Helper()
	inst, err := vrpmodel.NewBuilder().
		Depot("Depot", geo.Coordinate{Lat: 17.735, Lon: 83.315}).
		Customer("C1", geo.Coordinate{Lat: 17.737, Lon: 83.320}, 10, nil, 600).
		Customer("C2", geo.Coordinate{Lat: 17.740, Lon: 83.310}, 10, nil, 600).
		Vehicle(100, nil, nil).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	sol, _, err := solve.Solve(inst, solve.Greedy)
	if err != nil {
		t.Fatal(err)
	}
	return inst, sol
}

func TestToSolutionJSONExpandsLocations(t *testing.T) {
	inst, sol := testInstanceAndSolution(t)
	out := ToSolutionJSON(inst, sol, Meta{SolutionID: "s1", VrpID: "v1", Algorithm: "greedy", CreatedAt: time.Unix(0, 0)})
	if len(out.Routes) != len(sol.Routes) {
		t.Fatalf("expected %d routes, got %d", len(sol.Routes), len(out.Routes))
	}
	for _, r := range out.Routes {
		if len(r.Locations) != len(r.Path) {
			t.Fatalf("expected expanded locations to match path length")
		}
	}
}

func TestToGeoJSONFeatureCounts(t *testing.T) {
	inst, sol := testInstanceAndSolution(t)
	fc := ToGeoJSON(inst, sol)
	wantLines := len(sol.Routes)
	wantPoints := len(inst.Locations)
	if len(fc.Features) != wantLines+wantPoints {
		t.Fatalf("expected %d features, got %d", wantLines+wantPoints, len(fc.Features))
	}
}
