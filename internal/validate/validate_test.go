package validate

import (
	"testing"

	"gpsnav-vrp/internal/geo"
	"gpsnav-vrp/internal/solve"
	"gpsnav-vrp/internal/vrpmodel"
)

func TestValidateValidSolution(t *testing.T) {
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
	report := Validate(inst, sol)
	if !report.Valid {
		t.Fatalf("expected valid solution, violations: %v", report.Violations)
	}
}

func TestValidateDetectsMissingCoverage(t *testing.T) {
	inst, err := vrpmodel.NewBuilder().
		Depot("Depot", geo.Coordinate{Lat: 0, Lon: 0}).
		Customer("C1", geo.Coordinate{Lat: 0.01, Lon: 0}, 5, nil, 0).
		Customer("C2", geo.Coordinate{Lat: 0, Lon: 0.01}, 5, nil, 0).
		Vehicle(100, nil, nil).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	sol := &vrpmodel.Solution{
		Routes: []vrpmodel.Route{{VehicleID: 0, Path: []uint32{1}, Distance: 100, Duration: 10, Demand: 5}},
	}
	report := Validate(inst, sol)
	if report.Valid {
		t.Fatal("expected invalid solution due to missing coverage")
	}
}

func TestValidateDetectsCapacityViolation(t *testing.T) {
	inst, err := vrpmodel.NewBuilder().
		Depot("Depot", geo.Coordinate{Lat: 0, Lon: 0}).
		Customer("C1", geo.Coordinate{Lat: 0.01, Lon: 0}, 50, nil, 0).
		Vehicle(10, nil, nil).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	sol := &vrpmodel.Solution{
		Routes: []vrpmodel.Route{{VehicleID: 0, Path: []uint32{1}, Distance: 100, Duration: 10, Demand: 50}},
	}
	report := Validate(inst, sol)
	if report.Valid {
		t.Fatal("expected capacity violation")
	}
}
