// Package validate checks a solved Solution against its Instance for the
// hard constraints of §4.I: coverage, capacity, distance, duration.
package validate

import (
	"fmt"
	"strings"

	"gpsnav-vrp/internal/vrpmodel"
)

// Report is the result of validating one Solution against its Instance.
type Report struct {
	Valid               bool
	Violations          []string
	CapacityUtilization float64 // average demand/capacity across used vehicles
	DistanceUtilization *float64
	DurationUtilization *float64
}

func (r *Report) addViolation(format string, args ...any) {
	r.Valid = false
	r.Violations = append(r.Violations, fmt.Sprintf(format, args...))
}

// Summary renders a short human-readable report, supplementing the wire
// JSON form with the kind of narrative the original prototype's
// get_validation_report produced.
func (r *Report) Summary() string {
	var b strings.Builder
	if r.Valid {
		b.WriteString("solution is valid\n")
	} else {
		fmt.Fprintf(&b, "solution has %d violation(s):\n", len(r.Violations))
		for _, v := range r.Violations {
			fmt.Fprintf(&b, "  - %s\n", v)
		}
	}
	fmt.Fprintf(&b, "capacity utilization: %.2f%%\n", r.CapacityUtilization*100)
	return b.String()
}

// Validate checks coverage, per-route capacity, and per-route
// max_distance/max_duration when set. Time windows are advisory in this
// version (§9) and never cause a violation here.
func Validate(inst *vrpmodel.Instance, sol *vrpmodel.Solution) *Report {
	r := &Report{Valid: true}

	checkCoverage(inst, sol, r)

	vehiclesByID := make(map[uint32]vrpmodel.Vehicle, len(inst.Vehicles))
	for _, v := range inst.Vehicles {
		vehiclesByID[v.ID] = v
	}

	var totalUtil float64
	var maxDistUtil, maxDurUtil float64
	haveDistLimit, haveDurLimit := false, false

	for _, route := range sol.Routes {
		v, ok := vehiclesByID[route.VehicleID]
		if !ok {
			r.addViolation("route references unknown vehicle %d", route.VehicleID)
			continue
		}
		if route.Demand > v.Capacity+1e-9 {
			r.addViolation("route for vehicle %d carries demand %.2f exceeding capacity %.2f", v.ID, route.Demand, v.Capacity)
		}
		if v.Capacity > 0 {
			totalUtil += route.Demand / v.Capacity
		}
		if v.MaxDistance != nil {
			haveDistLimit = true
			if route.Distance > *v.MaxDistance+1e-9 {
				r.addViolation("route for vehicle %d distance %.2f exceeds max_distance %.2f", v.ID, route.Distance, *v.MaxDistance)
			}
			if u := route.Distance / *v.MaxDistance; u > maxDistUtil {
				maxDistUtil = u
			}
		}
		if v.MaxDuration != nil {
			haveDurLimit = true
			if route.Duration > *v.MaxDuration+1e-9 {
				r.addViolation("route for vehicle %d duration %.2f exceeds max_duration %.2f", v.ID, route.Duration, *v.MaxDuration)
			}
			if u := route.Duration / *v.MaxDuration; u > maxDurUtil {
				maxDurUtil = u
			}
		}
		if route.Distance < 0 || route.Duration < 0 {
			r.addViolation("route for vehicle %d has a negative distance or duration", v.ID)
		}
	}

	if len(sol.Routes) > 0 {
		r.CapacityUtilization = totalUtil / float64(len(sol.Routes))
	}
	if haveDistLimit {
		r.DistanceUtilization = &maxDistUtil
	}
	if haveDurLimit {
		r.DurationUtilization = &maxDurUtil
	}

	return r
}

func checkCoverage(inst *vrpmodel.Instance, sol *vrpmodel.Solution, r *Report) {
	want := make(map[uint32]bool, len(inst.Locations)-1)
	for _, l := range inst.Locations[1:] {
		want[l.ID] = true
	}
	seen := make(map[uint32]int)
	for _, route := range sol.Routes {
		for _, id := range route.Path {
			seen[id]++
		}
	}
	for id := range want {
		switch seen[id] {
		case 0:
			r.addViolation("location %d is not served by any route", id)
		case 1:
			// covered exactly once, as required
		default:
			r.addViolation("location %d is served %d times", id, seen[id])
		}
	}
	for id := range seen {
		if !want[id] {
			r.addViolation("route references location %d which is not in the instance", id)
		}
	}
}
