package solve

import (
	"fmt"
	"sort"

	"gpsnav-vrp/internal/vrpmodel"
	"gpsnav-vrp/internal/vrperr"
)

type cwRoute struct {
	customers []uint32 // ordered, depot excluded
}

type saving struct {
	i, j  uint32
	value float64
}

// solveClarkeWright implements the classic savings algorithm: start with
// one route per customer, then greedily merge route pairs by descending
// savings whenever the customers are current route endpoints in different
// routes and the merged route is feasible on capacity, max_distance, and
// max_duration.
func solveClarkeWright(inst *vrpmodel.Instance) (*vrpmodel.Solution, *Report, error) {
	customers := inst.Locations[1:]
	routeOf := make(map[uint32]*cwRoute, len(customers))
	var routes []*cwRoute
	for _, c := range customers {
		r := &cwRoute{customers: []uint32{c.ID}}
		routes = append(routes, r)
		routeOf[c.ID] = r
	}

	savings := computeSavings(inst, customers)

	for _, s := range savings {
		ri, rj := routeOf[s.i], routeOf[s.j]
		if ri == nil || rj == nil || ri == rj {
			continue
		}
		if !isEndpoint(ri, s.i) || !isEndpoint(rj, s.j) {
			continue
		}
		merged := mergeRoutes(ri, s.i, rj, s.j)
		dist, dur, demand := routeMetrics(inst, merged.customers)
		if !anyVehicleFits(inst, dist, dur, demand) {
			continue
		}
		for _, cid := range merged.customers {
			routeOf[cid] = merged
		}
		routes = replaceRoutes(routes, ri, rj, merged)
	}

	// Deterministic assignment order: by each route's minimum customer id.
	sort.Slice(routes, func(a, b int) bool {
		return minID(routes[a].customers) < minID(routes[b].customers)
	})

	used := make([]bool, len(inst.Vehicles))
	var built []vrpmodel.Route
	var unassigned []uint32

	for _, r := range routes {
		dist, dur, demand := routeMetrics(inst, r.customers)
		vidx := firstFittingVehicle(inst, used, dist, dur, demand)
		if vidx < 0 {
			unassigned = append(unassigned, r.customers...)
			continue
		}
		used[vidx] = true
		built = append(built, vrpmodel.Route{
			VehicleID: inst.Vehicles[vidx].ID,
			Path:      append([]uint32(nil), r.customers...),
			Distance:  dist,
			Duration:  dur,
			Demand:    demand,
		})
	}

	if len(unassigned) > 0 {
		sort.Slice(unassigned, func(i, j int) bool { return unassigned[i] < unassigned[j] })
		return nil, &Report{Algorithm: ClarkeWright, UnassignedCustomers: unassigned},
			vrperr.NewInfeasible("no vehicle available for one or more merged routes",
				fmt.Sprintf("unassigned=%v", unassigned))
	}

	return finalizeSolution(built), &Report{Algorithm: ClarkeWright}, nil
}

func computeSavings(inst *vrpmodel.Instance, customers []vrpmodel.Location) []saving {
	d := inst.DistanceMatrix
	var out []saving
	for a := 0; a < len(customers); a++ {
		for b := a + 1; b < len(customers); b++ {
			i, j := customers[a].ID, customers[b].ID
			s := d[0][i] + d[0][j] - d[i][j]
			out = append(out, saving{i: i, j: j, value: s})
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].value != out[b].value {
			return out[a].value > out[b].value
		}
		minA, maxA := minMax(out[a].i, out[a].j)
		minB, maxB := minMax(out[b].i, out[b].j)
		if minA != minB {
			return minA < minB
		}
		return maxA < maxB
	})
	return out
}

func minMax(a, b uint32) (uint32, uint32) {
	if a < b {
		return a, b
	}
	return b, a
}

func isEndpoint(r *cwRoute, id uint32) bool {
	n := len(r.customers)
	return n > 0 && (r.customers[0] == id || r.customers[n-1] == id)
}

// mergeRoutes reorients ri so i is its tail and rj so j is its head, then
// concatenates them, making i and j adjacent.
func mergeRoutes(ri *cwRoute, i uint32, rj *cwRoute, j uint32) *cwRoute {
	left := reorientToTail(ri.customers, i)
	right := reorientToHead(rj.customers, j)
	merged := make([]uint32, 0, len(left)+len(right))
	merged = append(merged, left...)
	merged = append(merged, right...)
	return &cwRoute{customers: merged}
}

func reorientToTail(cs []uint32, end uint32) []uint32 {
	if len(cs) > 0 && cs[len(cs)-1] == end {
		return append([]uint32(nil), cs...)
	}
	return reversed(cs)
}

func reorientToHead(cs []uint32, end uint32) []uint32 {
	if len(cs) > 0 && cs[0] == end {
		return append([]uint32(nil), cs...)
	}
	return reversed(cs)
}

func reversed(cs []uint32) []uint32 {
	out := make([]uint32, len(cs))
	for i, v := range cs {
		out[len(cs)-1-i] = v
	}
	return out
}

func replaceRoutes(routes []*cwRoute, a, b, merged *cwRoute) []*cwRoute {
	out := make([]*cwRoute, 0, len(routes)-1)
	for _, r := range routes {
		if r == a || r == b {
			continue
		}
		out = append(out, r)
	}
	return append(out, merged)
}

func minID(ids []uint32) uint32 {
	m := ids[0]
	for _, v := range ids[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func routeMetrics(inst *vrpmodel.Instance, customers []uint32) (dist, dur, demand float64) {
	d := inst.DistanceMatrix
	speed := inst.SpeedMps
	if speed <= 0 {
		speed = 15
	}
	prev := uint32(0)
	for _, id := range customers {
		leg := d[prev][id]
		dist += leg
		dur += leg / speed
		loc := inst.Locations[id]
		dur += loc.ServiceTime
		demand += loc.Demand
		prev = id
	}
	dist += d[prev][0]
	dur += d[prev][0] / speed
	return dist, dur, demand
}

func anyVehicleFits(inst *vrpmodel.Instance, dist, dur, demand float64) bool {
	for _, v := range inst.Vehicles {
		if fits(v, dist, dur, demand) {
			return true
		}
	}
	return false
}

func firstFittingVehicle(inst *vrpmodel.Instance, used []bool, dist, dur, demand float64) int {
	for idx, v := range inst.Vehicles {
		if used[idx] {
			continue
		}
		if fits(v, dist, dur, demand) {
			return idx
		}
	}
	return -1
}

func fits(v vrpmodel.Vehicle, dist, dur, demand float64) bool {
	if demand > v.Capacity {
		return false
	}
	if v.MaxDistance != nil && dist > *v.MaxDistance {
		return false
	}
	if v.MaxDuration != nil && dur > *v.MaxDuration {
		return false
	}
	return true
}
