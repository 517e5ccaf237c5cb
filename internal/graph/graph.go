// Package graph holds the road-network graph: the filtered node/way set
// produced from an OSM extract, plus its nearest-node spatial index.
package graph

import (
	"math"
	"sort"

	"gpsnav-vrp/internal/geo"
	"gpsnav-vrp/internal/vrperr"
)

// DrivableHighways is the accepted set of `highway` tag values retained by
// a roads-only filter. footway/path/cycleway/steps are deliberately
// excluded.
var DrivableHighways = map[string]bool{
	"motorway":       true,
	"trunk":          true,
	"primary":        true,
	"secondary":      true,
	"tertiary":       true,
	"unclassified":   true,
	"residential":    true,
	"service":        true,
	"motorway_link":  true,
	"trunk_link":     true,
	"primary_link":   true,
	"secondary_link": true,
	"tertiary_link":  true,
	"living_street":  true,
}

// Node is an OSM node retained in the graph.
type Node struct {
	ID   int64
	Lat  float64
	Lon  float64
	Tags map[string]string
}

// Way is an OSM way retained in the graph.
type Way struct {
	ID       int64
	NodeRefs []int64
	Tags     map[string]string
}

// IsDrivable reports whether w's highway tag is in the accepted set.
func (w Way) IsDrivable() bool {
	v, ok := w.Tags["highway"]
	return ok && DrivableHighways[v]
}

// BBox is a tight bounding box in degrees.
type BBox struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

// RawData is the unfiltered decode result from the OSM parser: every node
// and way seen in the stream, before the roads-only filter runs.
type RawData struct {
	Nodes map[int64]Node
	Ways  []Way
}

// Graph is the filtered, immutable-after-publish road network plus its
// nearest-node index. Once Build returns, a Graph is safe for unsynchronized
// concurrent reads.
type Graph struct {
	Nodes    map[int64]Node
	Ways     []Way
	Filtered bool
	BBox     BBox

	index *grid
}

// Build filters raw data (if roadsOnly) and constructs the nearest-node
// index. Node count and way count are reported for the upload response.
func Build(raw RawData, roadsOnly bool) (*Graph, error) {
	g := &Graph{Filtered: roadsOnly}

	var ways []Way
	if roadsOnly {
		for _, w := range raw.Ways {
			if w.IsDrivable() {
				ways = append(ways, w)
			}
		}
	} else {
		ways = append(ways, raw.Ways...)
	}

	used := make(map[int64]bool)
	for _, w := range ways {
		for _, ref := range w.NodeRefs {
			used[ref] = true
		}
	}

	nodes := make(map[int64]Node)
	if roadsOnly {
		for id := range used {
			if n, ok := raw.Nodes[id]; ok {
				nodes[id] = n
			}
		}
	} else {
		for id, n := range raw.Nodes {
			nodes[id] = n
		}
	}

	if len(nodes) == 0 {
		return nil, vrperr.NewMalformed("graph has no nodes after filtering")
	}

	g.Nodes = nodes
	g.Ways = ways
	g.BBox = computeBBox(nodes)
	g.index = buildGrid(nodes, g.BBox)
	return g, nil
}

func computeBBox(nodes map[int64]Node) BBox {
	bb := BBox{MinLat: math.Inf(1), MinLon: math.Inf(1), MaxLat: math.Inf(-1), MaxLon: math.Inf(-1)}
	for _, n := range nodes {
		if n.Lat < bb.MinLat {
			bb.MinLat = n.Lat
		}
		if n.Lat > bb.MaxLat {
			bb.MaxLat = n.Lat
		}
		if n.Lon < bb.MinLon {
			bb.MinLon = n.Lon
		}
		if n.Lon > bb.MaxLon {
			bb.MaxLon = n.Lon
		}
	}
	return bb
}

// Snap returns the node whose Haversine distance to q is minimal, with
// ties broken by lower node_id. Out-of-bbox queries are not errors — the
// nearest node is still returned, with a larger distance.
func (g *Graph) Snap(q geo.Coordinate) (nodeID int64, distanceM float64) {
	return g.index.nearest(q)
}

// NodeCount and WayCount support the upload response and /stats.
func (g *Graph) NodeCount() int { return len(g.Nodes) }
func (g *Graph) WayCount() int  { return len(g.Ways) }

// grid is a uniform bucketed spatial index over the graph bbox. Cell size
// is chosen from node density so expected bucket occupancy is O(1).
// Queries expand outward in rings of cells until a candidate is found and
// the current ring's minimum possible distance exceeds the best distance
// seen so far — guaranteeing an exact nearest match, not an approximation.
type grid struct {
	cellLat, cellLon float64
	bbox             BBox
	cells            map[[2]int][]int64
	nodes            map[int64]Node
}

func buildGrid(nodes map[int64]Node, bbox BBox) *grid {
	n := len(nodes)
	if n == 0 {
		n = 1
	}
	// Target ~2 nodes per cell on average.
	targetCells := math.Max(1, float64(n)/2)
	side := math.Sqrt(targetCells)

	latSpan := bbox.MaxLat - bbox.MinLat
	lonSpan := bbox.MaxLon - bbox.MinLon
	if latSpan <= 0 {
		latSpan = 0.001
	}
	if lonSpan <= 0 {
		lonSpan = 0.001
	}

	g := &grid{
		cellLat: latSpan / side,
		cellLon: lonSpan / side,
		bbox:    bbox,
		cells:   make(map[[2]int][]int64),
		nodes:   nodes,
	}
	if g.cellLat <= 0 {
		g.cellLat = 0.0001
	}
	if g.cellLon <= 0 {
		g.cellLon = 0.0001
	}

	ids := make([]int64, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		n := nodes[id]
		key := g.cellKey(n.Lat, n.Lon)
		g.cells[key] = append(g.cells[key], id)
	}
	return g
}

func (g *grid) cellKey(lat, lon float64) [2]int {
	ci := int(math.Floor((lat - g.bbox.MinLat) / g.cellLat))
	cj := int(math.Floor((lon - g.bbox.MinLon) / g.cellLon))
	return [2]int{ci, cj}
}

// cellSideLowerBoundM returns a per-ring distance bound that is never
// larger than the shorter metric side of a grid cell. A node in ring r+1
// is separated from the query's cell by at least r whole cells along one
// axis, so r times this bound never exceeds its distance, and the ring
// early-termination in nearest cannot stop the search before a genuinely
// closer node in a farther ring has been ruled out. A degree of longitude
// covers fewer meters the farther a cell sits from the equator (it scales
// with cos(lat)), so the longitude side is priced at whichever bbox edge
// latitude has the larger absolute value — the point in the graph where
// longitude is most compressed.
func (g *grid) cellSideLowerBoundM() float64 {
	refLat := g.bbox.MinLat
	if math.Abs(g.bbox.MaxLat) > math.Abs(refLat) {
		refLat = g.bbox.MaxLat
	}
	latSideM := geo.HaversineMeters(
		geo.Coordinate{Lat: refLat, Lon: 0},
		geo.Coordinate{Lat: refLat + g.cellLat, Lon: 0},
	)
	lonSideM := geo.HaversineMeters(
		geo.Coordinate{Lat: refLat, Lon: 0},
		geo.Coordinate{Lat: refLat, Lon: g.cellLon},
	)
	return math.Min(latSideM, lonSideM)
}

func (g *grid) nearest(q geo.Coordinate) (int64, float64) {
	origin := g.cellKey(q.Lat, q.Lon)
	bestID := int64(0)
	bestDist := math.Inf(1)
	found := false

	cellSideM := g.cellSideLowerBoundM()
	if cellSideM <= 0 {
		cellSideM = 1
	}

	for ring := 0; ring < 100_000; ring++ {
		any := g.scanRing(origin, ring, q, &bestID, &bestDist, &found)
		// Once something has been found, stop once the closest possible
		// point in the next unvisited ring cannot beat bestDist.
		if found {
			minPossibleNext := float64(ring) * cellSideM
			if minPossibleNext > bestDist {
				return bestID, bestDist
			}
		}
		if !any && ring > 0 && found {
			// No nodes at all in this ring and we already have a match;
			// keep expanding one more ring as a safety margin handled by
			// the distance check above.
		}
		if ring > 2000 {
			break
		}
	}
	// The ring cap was reached before the best candidate could be proven
	// nearest (or before any node was found): finish with a full scan.
	for id, n := range g.nodes {
		d := geo.HaversineMeters(q, geo.Coordinate{Lat: n.Lat, Lon: n.Lon})
		if d < bestDist || (d == bestDist && id < bestID) {
			bestDist = d
			bestID = id
		}
	}
	return bestID, bestDist
}

func (g *grid) scanRing(origin [2]int, ring int, q geo.Coordinate, bestID *int64, bestDist *float64, found *bool) bool {
	any := false
	visit := func(ci, cj int) {
		key := [2]int{ci, cj}
		ids, ok := g.cells[key]
		if !ok {
			return
		}
		any = true
		for _, id := range ids {
			n := g.nodes[id]
			d := geo.HaversineMeters(q, geo.Coordinate{Lat: n.Lat, Lon: n.Lon})
			if d < *bestDist || (d == *bestDist && id < *bestID) {
				*bestDist = d
				*bestID = id
				*found = true
			}
		}
	}

	if ring == 0 {
		visit(origin[0], origin[1])
		return any
	}
	for di := -ring; di <= ring; di++ {
		visit(origin[0]+di, origin[1]-ring)
		visit(origin[0]+di, origin[1]+ring)
	}
	for dj := -ring + 1; dj <= ring-1; dj++ {
		visit(origin[0]-ring, origin[1]+dj)
		visit(origin[0]+ring, origin[1]+dj)
	}
	return any
}
