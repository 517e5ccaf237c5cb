package session

import (
	"sort"
	"time"

	"gpsnav-vrp/internal/graph"
	"gpsnav-vrp/internal/vrpmodel"
)

// GraphEntity wraps a published road-network graph.
type GraphEntity struct {
	ID    string
	Graph *graph.Graph
}

// MappedLocation is one snapped coordinate: the graph node it resolved to
// and the distance between the query point and that node.
type MappedLocation struct {
	NodeID             int64
	Lat                float64
	Lon                float64
	DistanceToOriginal float64
	Name               string
}

// MappingEntity is the result of snapping a depot and customer list
// against a Graph. It carries its own id, distinct from the graph_id it
// references.
type MappingEntity struct {
	ID        string
	GraphID   string
	Depot     MappedLocation
	Customers []MappedLocation
	CreatedAt time.Time
}

// InstanceEntity wraps a frozen VrpInstance plus the mapping it was built
// from.
type InstanceEntity struct {
	ID        string
	MappingID string
	GraphID   string
	Instance  *vrpmodel.Instance
}

// SolutionEntity wraps a solved Solution plus solver bookkeeping.
type SolutionEntity struct {
	ID          string
	VrpID       string
	Solution    *vrpmodel.Solution
	Algorithm   string
	SolveTimeMs int64
	CreatedAt   time.Time
}

// Stats reports the current size of each registry, per §4.F and the
// /health and /stats endpoints.
type Stats struct {
	Graphs       int `json:"graphs"`
	Mappings     int `json:"mappings"`
	VrpInstances int `json:"vrp_instances"`
	Solutions    int `json:"solutions"`
}

// Store is the process-wide session store: one registry per entity kind.
type Store struct {
	graphs    *registry[GraphEntity]
	mappings  *registry[MappingEntity]
	instances *registry[InstanceEntity]
	solutions *registry[SolutionEntity]
}

func New() *Store {
	return &Store{
		graphs:    newRegistry[GraphEntity](),
		mappings:  newRegistry[MappingEntity](),
		instances: newRegistry[InstanceEntity](),
		solutions: newRegistry[SolutionEntity](),
	}
}

func (s *Store) InsertGraph(g *graph.Graph) string {
	id := s.graphs.insert(GraphEntity{Graph: g})
	return id
}

func (s *Store) GetGraph(id string) (GraphEntity, error) { return s.graphs.get(id) }
func (s *Store) DeleteGraph(id string)                   { s.graphs.delete(id) }

func (s *Store) InsertMapping(m MappingEntity) string {
	id := s.mappings.insert(m)
	return id
}

func (s *Store) GetMapping(id string) (MappingEntity, error) { return s.mappings.get(id) }

// LatestMappingForGraph returns the most recently inserted mapping for a
// graph id. Mappings carry their own id rather than being keyed directly
// by graph_id, so /vrp/generate's graph_id-only request shape resolves
// "the mapping for this graph" as the newest one on record.
func (s *Store) LatestMappingForGraph(graphID string) (MappingEntity, bool) {
	candidates := s.mappings.filter(func(m MappingEntity) bool { return m.GraphID == graphID })
	if len(candidates) == 0 {
		return MappingEntity{}, false
	}
	best := candidates[0]
	for _, m := range candidates[1:] {
		if m.CreatedAt.After(best.CreatedAt) {
			best = m
		}
	}
	return best, true
}

func (s *Store) InsertInstance(i InstanceEntity) string {
	return s.instances.insert(i)
}

func (s *Store) GetInstance(id string) (InstanceEntity, error) { return s.instances.get(id) }

func (s *Store) InsertSolution(sol SolutionEntity) string {
	return s.solutions.insert(sol)
}

func (s *Store) GetSolution(id string) (SolutionEntity, error) { return s.solutions.get(id) }

// SolutionsForVrp returns all solutions derived from a given vrp id,
// newest first by insertion (undefined order across equal timestamps).
func (s *Store) SolutionsForVrp(vrpID string) []SolutionEntity {
	out := s.solutions.filter(func(se SolutionEntity) bool { return se.VrpID == vrpID })
	sort.SliceStable(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out
}

func (s *Store) Stats() Stats {
	return Stats{
		Graphs:       s.graphs.count(),
		Mappings:     s.mappings.count(),
		VrpInstances: s.instances.count(),
		Solutions:    s.solutions.count(),
	}
}

// Reap sweeps every registry for entries older than maxAge. Each
// registry's writer lock is held only briefly and independently, so no
// handler ever holds two registries' writer locks at once.
func (s *Store) Reap(maxAge time.Duration) {
	s.graphs.reap(maxAge)
	s.mappings.reap(maxAge)
	s.instances.reap(maxAge)
	s.solutions.reap(maxAge)
}
