package vrpmodel

import (
	"testing"

	"gpsnav-vrp/internal/geo"
)

func smallInstance(t *testing.T) *Instance {
	t.Helper()
	inst, err := NewBuilder().
		Depot("Depot", geo.Coordinate{Lat: 17.735, Lon: 83.315}).
		Customer("C1", geo.Coordinate{Lat: 17.737, Lon: 83.320}, 10, nil, 600).
		Customer("C2", geo.Coordinate{Lat: 17.740, Lon: 83.310}, 10, nil, 600).
		Customer("C3", geo.Coordinate{Lat: 17.733, Lon: 83.318}, 10, nil, 600).
		Vehicle(100, nil, nil).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	return inst
}

func TestBuildAssignsDenseIDsDepotZero(t *testing.T) {
	inst := smallInstance(t)
	if inst.Locations[0].ID != 0 {
		t.Fatalf("depot must be id 0, got %d", inst.Locations[0].ID)
	}
	for i, l := range inst.Locations {
		if int(l.ID) != i {
			t.Fatalf("ids must be dense: index %d has id %d", i, l.ID)
		}
	}
}

func TestBuildRejectsNoVehicles(t *testing.T) {
	_, err := NewBuilder().
		Depot("Depot", geo.Coordinate{Lat: 0, Lon: 0}).
		Customer("C1", geo.Coordinate{Lat: 1, Lon: 1}, 1, nil, 0).
		Build()
	if err == nil {
		t.Fatal("expected error with no vehicles")
	}
}

func TestBuildRejectsNegativeDemand(t *testing.T) {
	_, err := NewBuilder().
		Depot("Depot", geo.Coordinate{Lat: 0, Lon: 0}).
		Customer("C1", geo.Coordinate{Lat: 1, Lon: 1}, -1, nil, 0).
		Vehicle(10, nil, nil).
		Build()
	if err == nil {
		t.Fatal("expected error with negative demand")
	}
}

func TestDistanceMatrixFrozenAndDiagonalZero(t *testing.T) {
	inst := smallInstance(t)
	for i := range inst.Locations {
		if inst.DistanceMatrix[i][i] != 0 {
			t.Fatalf("diagonal must be zero at %d", i)
		}
	}
}
