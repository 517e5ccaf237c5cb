package solve

import (
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"gpsnav-vrp/internal/vrpmodel"
	"gpsnav-vrp/internal/vrperr"
)

// defaultSubSolvers is the base solver set multi-start dispatches: both
// greedy variants plus Clarke-Wright.
var defaultSubSolvers = []Algorithm{Greedy, GreedyFarthest, ClarkeWright}

type subResult struct {
	algo Algorithm
	sol  *vrpmodel.Solution
	err  error
}

// solveMultiStart runs the default sub-solvers in parallel and returns the
// feasible solution with the lowest total_distance. Ties break by fewer
// vehicles used, then lower total_distance again (already the primary
// key), then lexicographically smaller route vehicle-id sequence.
func solveMultiStart(inst *vrpmodel.Instance) (*vrpmodel.Solution, *Report, error) {
	results := make([]subResult, len(defaultSubSolvers))

	var g errgroup.Group
	for idx, algo := range defaultSubSolvers {
		idx, algo := idx, algo
		g.Go(func() error {
			sol, _, err := Solve(inst, algo)
			results[idx] = subResult{algo: algo, sol: sol, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var feasible []subResult
	subFailures := map[Algorithm]error{}
	for _, r := range results {
		if r.err != nil {
			subFailures[r.algo] = r.err
			continue
		}
		feasible = append(feasible, r)
	}

	if len(feasible) == 0 {
		return nil, &Report{Algorithm: MultiStart, SubFailures: subFailures},
			vrperr.NewInfeasible("all sub-solvers failed", aggregateCauses(subFailures))
	}

	sort.SliceStable(feasible, func(a, b int) bool {
		sa, sb := feasible[a].sol, feasible[b].sol
		if sa.TotalDistance != sb.TotalDistance {
			return sa.TotalDistance < sb.TotalDistance
		}
		if sa.NumVehiclesUsed != sb.NumVehiclesUsed {
			return sa.NumVehiclesUsed < sb.NumVehiclesUsed
		}
		return routeIDSequence(sa) < routeIDSequence(sb)
	})

	best := feasible[0]
	return best.sol, &Report{Algorithm: MultiStart}, nil
}

func routeIDSequence(sol *vrpmodel.Solution) string {
	s := ""
	for _, r := range sol.Routes {
		s += fmt.Sprintf("%d,", r.VehicleID)
	}
	return s
}

func aggregateCauses(failures map[Algorithm]error) string {
	out := ""
	algos := make([]string, 0, len(failures))
	for a := range failures {
		algos = append(algos, string(a))
	}
	sort.Strings(algos)
	for _, a := range algos {
		out += fmt.Sprintf("%s: %v; ", a, failures[Algorithm(a)])
	}
	return out
}
