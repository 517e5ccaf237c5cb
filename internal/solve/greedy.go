package solve

import (
	"fmt"

	"gpsnav-vrp/internal/vrpmodel"
	"gpsnav-vrp/internal/vrperr"
)

// solveGreedy implements both nearest-start and farthest-start variants.
// The farthest-start rule only applies to the first pick of each route;
// every subsequent pick is nearest-to-current, and ties are broken by
// lower location id for determinism.
func solveGreedy(inst *vrpmodel.Instance, farthestStart bool) (*vrpmodel.Solution, *Report, error) {
	unvisited := make(map[uint32]bool, len(inst.Locations)-1)
	for _, l := range inst.Locations[1:] {
		unvisited[l.ID] = true
	}

	algo := Greedy
	if farthestStart {
		algo = GreedyFarthest
	}

	var routes []vrpmodel.Route
	for _, v := range inst.Vehicles {
		if len(unvisited) == 0 {
			break
		}
		rs := newRouteState(v)
		first := true
		for {
			cand := pickNext(inst, rs, unvisited, farthestStart && first)
			if cand == nil {
				break
			}
			rs.commit(inst, *cand)
			delete(unvisited, cand.ID)
			first = false
		}
		if rs.building() {
			routes = append(routes, rs.close(inst))
		}
	}

	if len(unvisited) > 0 {
		return nil, &Report{Algorithm: algo, UnassignedCustomers: sortedUint32(unvisited)},
			vrperr.NewInfeasible("no feasible route exists for all customers",
				fmt.Sprintf("unassigned=%v", sortedUint32(unvisited)))
	}

	return finalizeSolution(routes), &Report{Algorithm: algo}, nil
}

// pickNext selects the next customer to append to rs. When useFarthest is
// true (only for the first pick of a route), it picks the feasible
// customer maximizing D[depot][c]; otherwise it picks the feasible
// customer minimizing D[current][c]. Ties break on lower location id.
func pickNext(inst *vrpmodel.Instance, rs *routeState, unvisited map[uint32]bool, useFarthest bool) *vrpmodel.Location {
	ids := sortedUint32(unvisited)
	var best *vrpmodel.Location
	var bestScore float64
	d := inst.DistanceMatrix

	for _, id := range ids {
		loc := inst.Locations[id]
		if !feasibleInsert(inst, rs, loc) {
			continue
		}
		var score float64
		if useFarthest {
			score = -d[0][id] // maximize distance from depot == minimize negative
		} else {
			score = d[rs.current][id]
		}
		if best == nil || score < bestScore {
			best = &loc
			bestScore = score
		}
	}
	return best
}
