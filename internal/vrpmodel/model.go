// Package vrpmodel defines the VRP data model: locations, vehicles, the
// frozen instance, routes, and solutions.
package vrpmodel

import (
	"gpsnav-vrp/internal/geo"
	"gpsnav-vrp/internal/vrperr"
)

// TimeWindow is accepted in the wire format and stored on a Location but
// is advisory only in this version — it is never used to reject a solve.
type TimeWindow struct {
	Start float64 // seconds from an arbitrary epoch
	End   float64
}

func (tw TimeWindow) valid() bool { return tw.Start <= tw.End }

// Location is a depot (id 0) or customer stop.
type Location struct {
	ID          uint32
	Name        string
	Coord       geo.Coordinate
	Demand      float64
	TimeWindow  *TimeWindow
	ServiceTime float64
}

// Vehicle is one vehicle available at a single depot.
type Vehicle struct {
	ID          uint32
	Capacity    float64
	MaxDistance *float64
	MaxDuration *float64
	DepotID     uint32
}

// Instance is a frozen, read-only VRP input. Once Build returns an
// Instance it must never be mutated; it is safe for concurrent solvers to
// share a reference.
type Instance struct {
	Locations      []Location // index 0 is always the depot
	Vehicles       []Vehicle
	Method         geo.Method
	DistanceMatrix [][]float64
	SpeedMps       float64
}

func (i *Instance) Depot() Location { return i.Locations[0] }

func (i *Instance) Centroid() (geo.Coordinate, bool) {
	coords := make([]geo.Coordinate, len(i.Locations))
	for idx, l := range i.Locations {
		coords[idx] = l.Coord
	}
	return geo.Centroid(coords)
}

func (i *Instance) BoundingBox() (min, max geo.Coordinate, ok bool) {
	coords := make([]geo.Coordinate, len(i.Locations))
	for idx, l := range i.Locations {
		coords[idx] = l.Coord
	}
	return geo.BoundingBox(coords)
}

// Route is a single vehicle's path, excluding the depot at either end.
type Route struct {
	VehicleID uint32
	Path      []uint32 // location ids, depot excluded
	Distance  float64
	Duration  float64
	Demand    float64
}

// Solution is an ordered set of routes with aggregate totals.
type Solution struct {
	Routes          []Route
	TotalDistance   float64
	TotalDuration   float64
	NumVehiclesUsed int
}

// Builder incrementally assembles an Instance. Location ids are assigned
// densely starting from 0 at Build time, depot always 0.
type Builder struct {
	depot     *Location
	customers []Location
	vehicles  []Vehicle
	method    geo.Method
	speedMps  float64
}

func NewBuilder() *Builder {
	return &Builder{method: geo.Haversine, speedMps: 15}
}

func (b *Builder) WithMethod(m geo.Method) *Builder {
	b.method = m
	return b
}

func (b *Builder) WithSpeed(speedMps float64) *Builder {
	b.speedMps = speedMps
	return b
}

func (b *Builder) Depot(name string, coord geo.Coordinate) *Builder {
	loc := Location{Name: name, Coord: coord, Demand: 0, ServiceTime: 0}
	b.depot = &loc
	return b
}

func (b *Builder) Customer(name string, coord geo.Coordinate, demand float64, tw *TimeWindow, serviceTime float64) *Builder {
	b.customers = append(b.customers, Location{Name: name, Coord: coord, Demand: demand, TimeWindow: tw, ServiceTime: serviceTime})
	return b
}

func (b *Builder) Vehicle(capacity float64, maxDistance, maxDuration *float64) *Builder {
	b.vehicles = append(b.vehicles, Vehicle{Capacity: capacity, MaxDistance: maxDistance, MaxDuration: maxDuration})
	return b
}

// Build validates and freezes the instance, computing its distance matrix
// in parallel.
func (b *Builder) Build() (*Instance, error) {
	if b.depot == nil {
		return nil, vrperr.NewInvalidInput("no depot provided")
	}
	if len(b.vehicles) == 0 {
		return nil, vrperr.NewInvalidInput("no vehicles provided")
	}
	if len(b.customers) == 0 {
		return nil, vrperr.NewInvalidInput("no customers provided")
	}

	locs := make([]Location, 0, len(b.customers)+1)
	depot := *b.depot
	depot.ID = 0
	locs = append(locs, depot)
	for idx, c := range b.customers {
		if c.Demand < 0 {
			return nil, vrperr.NewInvalidInput("negative demand is not allowed")
		}
		if c.ServiceTime < 0 {
			return nil, vrperr.NewInvalidInput("negative service time is not allowed")
		}
		if c.TimeWindow != nil && !c.TimeWindow.valid() {
			return nil, vrperr.NewInvalidInput("time window start must be <= end")
		}
		c.ID = uint32(idx + 1)
		locs = append(locs, c)
	}

	vehicles := make([]Vehicle, len(b.vehicles))
	for idx, v := range b.vehicles {
		v.ID = uint32(idx)
		v.DepotID = 0
		vehicles[idx] = v
	}

	coords := make([]geo.Coordinate, len(locs))
	for idx, l := range locs {
		coords[idx] = l.Coord
	}
	d := geo.Matrix(coords, b.method)

	return &Instance{
		Locations:      locs,
		Vehicles:       vehicles,
		Method:         b.method,
		DistanceMatrix: d,
		SpeedMps:       b.speedMps,
	}, nil
}
