// Package export renders a Solution into the two wire formats §4.H
// defines: Solution-JSON (with expanded per-route locations and solver
// metadata) and a GeoJSON FeatureCollection suitable for map overlays.
package export

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"gpsnav-vrp/internal/vrpmodel"
)

// Meta carries the solver bookkeeping that accompanies a Solution-JSON
// response but is not part of the Solution entity itself.
type Meta struct {
	SolutionID string
	VrpID      string
	Algorithm  string
	SolveTimeMs int64
	CreatedAt  time.Time
}

// LocationView is a Location expanded for embedding in a route's JSON.
type LocationView struct {
	ID          uint32  `json:"id"`
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Demand      float64 `json:"demand"`
	ServiceTime float64 `json:"service_time"`
}

// RouteJSON is a Route plus its expanded visit-order locations.
type RouteJSON struct {
	VehicleID uint32         `json:"vehicle_id"`
	Path      []uint32       `json:"path"`
	Distance  float64        `json:"distance"`
	Duration  float64        `json:"duration"`
	Demand    float64        `json:"demand"`
	Locations []LocationView `json:"locations"`
}

// SolutionJSON is the full Solution-JSON wire shape of §4.H.
type SolutionJSON struct {
	SolutionID      string      `json:"solution_id"`
	VrpID           string      `json:"vrp_id"`
	Algorithm       string      `json:"algorithm"`
	CreatedAt       int64       `json:"created_at"`
	SolveTimeMs     int64       `json:"solve_time_ms"`
	Routes          []RouteJSON `json:"routes"`
	TotalDistance   float64     `json:"total_distance"`
	TotalDuration   float64     `json:"total_duration"`
	VehiclesUsed    int         `json:"vehicles_used"`
}

// ToSolutionJSON builds the Solution-JSON representation.
func ToSolutionJSON(inst *vrpmodel.Instance, sol *vrpmodel.Solution, meta Meta) SolutionJSON {
	out := SolutionJSON{
		SolutionID:    meta.SolutionID,
		VrpID:         meta.VrpID,
		Algorithm:     meta.Algorithm,
		CreatedAt:     meta.CreatedAt.Unix(),
		SolveTimeMs:   meta.SolveTimeMs,
		TotalDistance: sol.TotalDistance,
		TotalDuration: sol.TotalDuration,
		VehiclesUsed:  sol.NumVehiclesUsed,
	}
	for _, r := range sol.Routes {
		rj := RouteJSON{
			VehicleID: r.VehicleID,
			Path:      r.Path,
			Distance:  r.Distance,
			Duration:  r.Duration,
			Demand:    r.Demand,
		}
		for _, id := range r.Path {
			loc := inst.Locations[id]
			rj.Locations = append(rj.Locations, LocationView{
				ID: loc.ID, Name: loc.Name, Lat: loc.Coord.Lat, Lon: loc.Coord.Lon,
				Demand: loc.Demand, ServiceTime: loc.ServiceTime,
			})
		}
		out.Routes = append(out.Routes, rj)
	}
	return out
}

// ToGeoJSON builds a FeatureCollection: one LineString per route
// (depot -> customers -> depot, [lon,lat] order) and one Point per
// location, depot included.
func ToGeoJSON(inst *vrpmodel.Instance, sol *vrpmodel.Solution) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	depot := inst.Depot()

	for _, r := range sol.Routes {
		line := make(orb.LineString, 0, len(r.Path)+2)
		line = append(line, orb.Point{depot.Coord.Lon, depot.Coord.Lat})
		for _, id := range r.Path {
			loc := inst.Locations[id]
			line = append(line, orb.Point{loc.Coord.Lon, loc.Coord.Lat})
		}
		line = append(line, orb.Point{depot.Coord.Lon, depot.Coord.Lat})

		f := geojson.NewFeature(line)
		f.Properties = geojson.Properties{
			"route_id":   r.VehicleID,
			"vehicle_id": r.VehicleID,
			"distance":   r.Distance,
			"duration":   r.Duration,
			"demand":     r.Demand,
		}
		fc.Append(f)
	}

	for _, loc := range inst.Locations {
		typ := "customer"
		if loc.ID == 0 {
			typ = "depot"
		}
		f := geojson.NewFeature(orb.Point{loc.Coord.Lon, loc.Coord.Lat})
		f.Properties = geojson.Properties{
			"id":     loc.ID,
			"name":   loc.Name,
			"demand": loc.Demand,
			"type":   typ,
		}
		fc.Append(f)
	}

	return fc
}
