// Package solve implements the VRP solvers: greedy nearest/farthest-start,
// Clarke-Wright savings, and the multi-start meta-heuristic that picks the
// best feasible result among them.
package solve

import (
	"fmt"
	"sort"

	"gpsnav-vrp/internal/vrpmodel"
	"gpsnav-vrp/internal/vrperr"
)

// Algorithm is the closed set of solver variants the service exposes.
type Algorithm string

const (
	Greedy         Algorithm = "greedy"
	GreedyFarthest Algorithm = "greedy_farthest"
	ClarkeWright   Algorithm = "clarke_wright"
	MultiStart     Algorithm = "multi_start"
)

// Report carries solver diagnostics that accompany a Solution or an
// Infeasible failure: the algorithm that ran and, on failure, the
// unassigned customer ids. It does not record a per-route state trace.
type Report struct {
	Algorithm           Algorithm
	UnassignedCustomers []uint32
	SubFailures         map[Algorithm]error // populated only by MultiStart when every sub-solver fails
}

// routeState tracks one vehicle's route under construction: the
// Empty -> Building -> Closed machine of §4.E.4.
type routeState struct {
	vehicle  vrpmodel.Vehicle
	current  uint32
	path     []uint32
	remCap   float64
	distSoFar float64
	durSoFar  float64
}

func newRouteState(v vrpmodel.Vehicle) *routeState {
	return &routeState{vehicle: v, current: 0, remCap: v.Capacity}
}

func (r *routeState) building() bool { return len(r.path) > 0 }

// feasibleInsert reports whether appending candidate c (not yet in the
// route) keeps every hard constraint satisfied, accounting for the
// eventual return-to-depot leg.
func feasibleInsert(inst *vrpmodel.Instance, r *routeState, c vrpmodel.Location) bool {
	if c.Demand > r.remCap {
		return false
	}
	d := inst.DistanceMatrix
	legOut := d[r.current][c.ID]
	legBack := d[c.ID][0]
	totalDist := r.distSoFar + legOut + legBack
	if v := r.vehicle.MaxDistance; v != nil && totalDist > *v {
		return false
	}
	speed := inst.SpeedMps
	if speed <= 0 {
		speed = 15
	}
	totalDur := r.durSoFar + legOut/speed + c.ServiceTime + legBack/speed
	if v := r.vehicle.MaxDuration; v != nil && totalDur > *v {
		return false
	}
	return true
}

func (r *routeState) commit(inst *vrpmodel.Instance, c vrpmodel.Location) {
	speed := inst.SpeedMps
	if speed <= 0 {
		speed = 15
	}
	d := inst.DistanceMatrix
	leg := d[r.current][c.ID]
	r.distSoFar += leg
	r.durSoFar += leg/speed + c.ServiceTime
	r.remCap -= c.Demand
	r.path = append(r.path, c.ID)
	r.current = c.ID
}

func (r *routeState) close(inst *vrpmodel.Instance) vrpmodel.Route {
	d := inst.DistanceMatrix
	speed := inst.SpeedMps
	if speed <= 0 {
		speed = 15
	}
	back := d[r.current][0]
	totalDist := r.distSoFar + back
	totalDur := r.durSoFar + back/speed
	demand := r.vehicle.Capacity - r.remCap
	return vrpmodel.Route{
		VehicleID: r.vehicle.ID,
		Path:      append([]uint32(nil), r.path...),
		Distance:  totalDist,
		Duration:  totalDur,
		Demand:    demand,
	}
}

// Solve dispatches to the requested algorithm.
func Solve(inst *vrpmodel.Instance, algo Algorithm) (*vrpmodel.Solution, *Report, error) {
	switch algo {
	case Greedy:
		return solveGreedy(inst, false)
	case GreedyFarthest:
		return solveGreedy(inst, true)
	case ClarkeWright:
		return solveClarkeWright(inst)
	case MultiStart:
		return solveMultiStart(inst)
	default:
		return nil, nil, vrperr.NewInvalidInput(fmt.Sprintf("unknown algorithm: %s", algo))
	}
}

func finalizeSolution(routes []vrpmodel.Route) *vrpmodel.Solution {
	sol := &vrpmodel.Solution{}
	for _, r := range routes {
		if len(r.Path) == 0 {
			continue
		}
		sol.Routes = append(sol.Routes, r)
		sol.TotalDistance += r.Distance
		sol.TotalDuration += r.Duration
		sol.NumVehiclesUsed++
	}
	return sol
}

func sortedUint32(s map[uint32]bool) []uint32 {
	out := make([]uint32, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
