package geo

import (
	"math"
	"testing"
)

func TestHaversineSymmetry(t *testing.T) {
	a := Coordinate{Lat: 17.735, Lon: 83.315}
	b := Coordinate{Lat: 17.740, Lon: 83.310}
	d1 := HaversineMeters(a, b)
	d2 := HaversineMeters(b, a)
	if math.Abs(d1-d2) > 1e-6 {
		t.Fatalf("haversine not symmetric: %v vs %v", d1, d2)
	}
}

func TestHaversineIdenticalPoints(t *testing.T) {
	a := Coordinate{Lat: 10, Lon: 10}
	if d := HaversineMeters(a, a); d != 0 {
		t.Fatalf("expected 0 for identical points, got %v", d)
	}
}

func TestHaversineBerlinParis(t *testing.T) {
	berlin := Coordinate{Lat: 52.5200, Lon: 13.4050}
	paris := Coordinate{Lat: 48.8566, Lon: 2.3522}
	d := HaversineMeters(berlin, paris)
	want := 878000.0
	if math.Abs(d-want) > want*0.05 {
		t.Fatalf("expected ~%v m, got %v", want, d)
	}
}

func TestMatrixDiagonalZero(t *testing.T) {
	locs := []Coordinate{
		{Lat: 17.735, Lon: 83.315},
		{Lat: 17.737, Lon: 83.320},
		{Lat: 17.740, Lon: 83.310},
	}
	d := Matrix(locs, Haversine)
	for i := range locs {
		if d[i][i] != 0 {
			t.Fatalf("diagonal not zero at %d: %v", i, d[i][i])
		}
	}
}

func TestMatrixSymmetric(t *testing.T) {
	locs := []Coordinate{
		{Lat: 17.735, Lon: 83.315},
		{Lat: 17.737, Lon: 83.320},
		{Lat: 17.740, Lon: 83.310},
		{Lat: 17.733, Lon: 83.318},
	}
	d := Matrix(locs, Haversine)
	for i := range locs {
		for j := range locs {
			if math.Abs(d[i][j]-d[j][i]) > 1e-6 {
				t.Fatalf("matrix not symmetric at (%d,%d)", i, j)
			}
		}
	}
}

func TestManhattanAndEuclideanNonNegative(t *testing.T) {
	a := Coordinate{Lat: 10, Lon: 10}
	b := Coordinate{Lat: 10.01, Lon: 10.02}
	if ManhattanMeters(a, b) <= 0 {
		t.Fatalf("expected positive manhattan distance")
	}
	if EuclideanMeters(a, b) <= 0 {
		t.Fatalf("expected positive euclidean distance")
	}
}

func TestCentroid(t *testing.T) {
	coords := []Coordinate{{Lat: 0, Lon: 0}, {Lat: 2, Lon: 2}, {Lat: 4, Lon: 4}}
	c, ok := Centroid(coords)
	if !ok || math.Abs(c.Lat-2) > 1e-6 || math.Abs(c.Lon-2) > 1e-6 {
		t.Fatalf("unexpected centroid: %+v", c)
	}
}

func TestBoundingBox(t *testing.T) {
	coords := []Coordinate{{Lat: 1, Lon: 5}, {Lat: -1, Lon: 8}, {Lat: 3, Lon: 2}}
	min, max, ok := BoundingBox(coords)
	if !ok {
		t.Fatal("expected ok")
	}
	if min.Lat != -1 || min.Lon != 2 || max.Lat != 3 || max.Lon != 8 {
		t.Fatalf("unexpected bbox: min=%+v max=%+v", min, max)
	}
}
