// Package osmingest decodes a binary OSM extract (PBF) into the raw
// node/way data graph.Build expects. Roads-only filtering happens one
// layer up, in internal/graph, per §4.C.
package osmingest

import (
	"context"
	"io"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"gpsnav-vrp/internal/graph"
	"gpsnav-vrp/internal/vrperr"
)

// Warning is returned alongside a partial RawData when the scanner reports
// an error after at least one node or way was decoded — the caller (the
// handler layer) decides whether to accept truncated input.
type Warning struct {
	Truncated bool
	Cause     error
}

func (w *Warning) Error() string {
	if w.Cause != nil {
		return "truncated OSM stream: " + w.Cause.Error()
	}
	return "truncated OSM stream"
}

// Parse streams PBF blocks from r and accumulates dense node groups and
// way groups into graph.RawData. Relations are skipped, matching the
// scope of §4.B (nodes and ways only).
func Parse(ctx context.Context, r io.Reader) (graph.RawData, error) {
	raw := graph.RawData{Nodes: make(map[int64]graph.Node)}

	scanner := osmpbf.New(ctx, r, 3)
	defer scanner.Close()

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			raw.Nodes[int64(o.ID)] = graph.Node{
				ID:   int64(o.ID),
				Lat:  o.Lat,
				Lon:  o.Lon,
				Tags: tagsToMap(o.Tags),
			}
		case *osm.Way:
			refs := make([]int64, len(o.Nodes))
			for i, wn := range o.Nodes {
				refs[i] = int64(wn.ID)
			}
			raw.Ways = append(raw.Ways, graph.Way{
				ID:       int64(o.ID),
				NodeRefs: refs,
				Tags:     tagsToMap(o.Tags),
			})
		case *osm.Relation:
			// Relations are out of scope for §4.B; skip.
		}
	}

	if err := scanner.Err(); err != nil {
		if len(raw.Nodes) > 0 || len(raw.Ways) > 0 {
			return raw, &Warning{Truncated: true, Cause: err}
		}
		return raw, vrperr.NewMalformed("failed to decode OSM stream: " + err.Error())
	}

	return raw, nil
}

func tagsToMap(tags osm.Tags) map[string]string {
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		m[t.Key] = t.Value
	}
	return m
}
