package api

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"gpsnav-vrp/internal/buildinfo"
	"gpsnav-vrp/internal/export"
	"gpsnav-vrp/internal/geo"
	"gpsnav-vrp/internal/graph"
	"gpsnav-vrp/internal/metrics"
	"gpsnav-vrp/internal/osmingest"
	"gpsnav-vrp/internal/session"
	"gpsnav-vrp/internal/solve"
	"gpsnav-vrp/internal/validate"
	"gpsnav-vrp/internal/vrperr"
	"gpsnav-vrp/internal/vrpmodel"
)

// defaultCustomerDemand is the uniform demand assigned to every customer by
// /vrp/generate — the original prototype never collected per-customer
// demand on this endpoint ("Default demand - could be made configurable",
// handlers.rs::generate_vrp).
const defaultCustomerDemand = 10.0

// defaultServiceTimeSecs is used when constraints.service_time is unset.
const defaultServiceTimeSecs = 300.0

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"stats":     s.Store.Stats(),
	})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) StatsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Store.Stats())
}

func (s *Server) DebugHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"build": buildinfo.Info(),
		"config": map[string]any{
			"port":                  s.Cfg.Port,
			"cleanup_interval_secs": s.Cfg.CleanupIntervalSecs,
			"data_retention_hours":  s.Cfg.DataRetentionHours,
			"default_speed_mps":     s.Cfg.DefaultSpeedMps,
		},
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

// OSMUploadHandler accepts either a multipart "file" field or a "file_url"
// field, stages the bytes to a temporary file whose lifetime spans the
// whole parse call (§5's staging-file contract), and publishes the
// resulting Graph.
func (s *Server) OSMUploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, vrperr.NewInvalidInput("method not allowed"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.Cfg.MaxRequestBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, vrperr.NewInvalidInput("failed to parse multipart form: "+err.Error()))
		return
	}

	roadsOnly := true
	if v := r.FormValue("roads_only"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			roadsOnly = b
		}
	}

	tmp, err := os.CreateTemp("", "osm-upload-*.pbf")
	if err != nil {
		writeError(w, vrperr.NewInternal("failed to create staging file"))
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if file, _, ferr := r.FormFile("file"); ferr == nil {
		defer file.Close()
		if _, err := io.Copy(tmp, file); err != nil {
			tmp.Close()
			writeError(w, vrperr.NewInternal("failed to stage uploaded file"))
			return
		}
	} else if url := r.FormValue("file_url"); url != "" {
		resp, err := http.Get(url)
		if err != nil {
			tmp.Close()
			writeError(w, vrperr.NewInvalidInput("failed to download file_url: "+err.Error()))
			return
		}
		defer resp.Body.Close()
		if _, err := io.Copy(tmp, resp.Body); err != nil {
			tmp.Close()
			writeError(w, vrperr.NewInternal("failed to stage downloaded file"))
			return
		}
	} else {
		tmp.Close()
		writeError(w, vrperr.NewInvalidInput("either file or file_url is required"))
		return
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		writeError(w, vrperr.NewInternal("failed to rewind staging file"))
		return
	}

	parseStart := time.Now()
	raw, perr := osmingest.Parse(r.Context(), tmp)
	tmp.Close()
	metrics.OSMParseDuration.Observe(time.Since(parseStart).Seconds())

	var warn *osmingest.Warning
	if perr != nil {
		if w2, ok := perr.(*osmingest.Warning); ok {
			warn = w2
		} else {
			writeError(w, vrperr.As(perr))
			return
		}
	}

	g, gerr := graph.Build(raw, roadsOnly)
	if gerr != nil {
		writeError(w, vrperr.As(gerr))
		return
	}

	graphID := s.Store.InsertGraph(g)

	message := "Successfully parsed OSM data"
	if warn != nil {
		message += " (truncated input accepted: " + warn.Error() + ")"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"graph_id": graphID,
		"nodes":    g.NodeCount(),
		"edges":    g.WayCount(),
		"message":  message,
	})
}

// OSMExportHandler serves GET /osm/{graph_id}/export: a round-trip JSON
// rendering of the parsed Graph (from osm_parser.rs::export_to_json).
func (s *Server) OSMExportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, vrperr.NewInvalidInput("method not allowed"))
		return
	}
	trimmed := strings.TrimPrefix(r.URL.Path, "/osm/")
	if !strings.HasSuffix(trimmed, "/export") {
		writeError(w, vrperr.NewNotFound("unknown route"))
		return
	}
	graphID := strings.TrimSuffix(trimmed, "/export")

	ge, err := s.Store.GetGraph(graphID)
	if err != nil {
		writeError(w, err)
		return
	}

	type nodeView struct {
		ID   int64             `json:"id"`
		Lat  float64           `json:"lat"`
		Lon  float64           `json:"lon"`
		Tags map[string]string `json:"tags,omitempty"`
	}
	type wayView struct {
		ID       int64             `json:"id"`
		NodeRefs []int64           `json:"node_refs"`
		Tags     map[string]string `json:"tags,omitempty"`
	}

	nodes := make([]nodeView, 0, len(ge.Graph.Nodes))
	for _, n := range ge.Graph.Nodes {
		nodes = append(nodes, nodeView{ID: n.ID, Lat: n.Lat, Lon: n.Lon, Tags: n.Tags})
	}
	ways := make([]wayView, 0, len(ge.Graph.Ways))
	for _, wy := range ge.Graph.Ways {
		ways = append(ways, wayView{ID: wy.ID, NodeRefs: wy.NodeRefs, Tags: wy.Tags})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"filtered": ge.Graph.Filtered,
		"bbox":     ge.Graph.BBox,
		"nodes":    nodes,
		"ways":     ways,
	})
}

func (s *Server) VrpMapHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, vrperr.NewInvalidInput("method not allowed"))
		return
	}
	var req mapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, vrperr.NewInvalidInput("malformed JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	ge, err := s.Store.GetGraph(req.GraphID)
	if err != nil {
		writeError(w, err)
		return
	}

	snap := func(c coordinateInput) session.MappedLocation {
		nodeID, dist := ge.Graph.Snap(geo.Coordinate{Lat: c.Lat, Lon: c.Lon})
		n := ge.Graph.Nodes[nodeID]
		return session.MappedLocation{NodeID: nodeID, Lat: n.Lat, Lon: n.Lon, DistanceToOriginal: dist, Name: c.Name}
	}

	mappedDepot := snap(req.Depot)
	mappedCustomers := make([]session.MappedLocation, 0, len(req.Customers))
	for _, c := range req.Customers {
		mappedCustomers = append(mappedCustomers, snap(c))
	}

	mappingID := s.Store.InsertMapping(session.MappingEntity{
		GraphID:   req.GraphID,
		Depot:     mappedDepot,
		Customers: mappedCustomers,
		CreatedAt: time.Now(),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"mapping_id":       mappingID,
		"mapped_depot":     mappedDepot,
		"mapped_customers": mappedCustomers,
	})
}

func (s *Server) VrpGenerateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, vrperr.NewInvalidInput("method not allowed"))
		return
	}
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, vrperr.NewInvalidInput("malformed JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	if _, err := s.Store.GetGraph(req.GraphID); err != nil {
		writeError(w, err)
		return
	}
	mapping, ok := s.Store.LatestMappingForGraph(req.GraphID)
	if !ok {
		writeError(w, vrperr.NewNotFound("no mapping exists for graph "+req.GraphID))
		return
	}

	serviceTime := defaultServiceTimeSecs
	if req.Constraints.ServiceTime != nil {
		serviceTime = *req.Constraints.ServiceTime
	}

	builder := vrpmodel.NewBuilder().WithMethod(geo.Haversine).WithSpeed(s.Cfg.DefaultSpeedMps)
	builder = builder.Depot("Depot", geo.Coordinate{Lat: mapping.Depot.Lat, Lon: mapping.Depot.Lon})
	for i, c := range mapping.Customers {
		name := c.Name
		if name == "" {
			name = "Customer " + strconv.Itoa(i+1)
		}
		builder = builder.Customer(name, geo.Coordinate{Lat: c.Lat, Lon: c.Lon}, defaultCustomerDemand, nil, serviceTime)
	}
	for i := 0; i < req.Vehicles; i++ {
		builder = builder.Vehicle(req.Capacity, req.Constraints.MaxDistance, req.Constraints.MaxDuration)
	}

	matrixStart := time.Now()
	instance, err := builder.Build()
	metrics.MatrixBuildDuration.Observe(time.Since(matrixStart).Seconds())
	if err != nil {
		writeError(w, err)
		return
	}

	vrpID := s.Store.InsertInstance(session.InstanceEntity{
		MappingID: mapping.ID,
		GraphID:   req.GraphID,
		Instance:  instance,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"vrp_id":      vrpID,
		"customers":   len(mapping.Customers),
		"vehicles":    req.Vehicles,
		"depot_count": 1,
	})
}

func (s *Server) VrpSolveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, vrperr.NewInvalidInput("method not allowed"))
		return
	}
	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, vrperr.NewInvalidInput("malformed JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	ie, err := s.Store.GetInstance(req.VrpID)
	if err != nil {
		writeError(w, err)
		return
	}

	start := time.Now()
	sol, _, serr := solve.Solve(ie.Instance, solve.Algorithm(req.Algorithm))
	solveTimeMs := time.Since(start).Milliseconds()

	outcome := "ok"
	if serr != nil {
		outcome = "infeasible"
	}
	metrics.SolveDuration.WithLabelValues(req.Algorithm, outcome).Observe(time.Since(start).Seconds())

	if serr != nil {
		writeError(w, serr)
		return
	}

	now := time.Now()
	solutionID := s.Store.InsertSolution(session.SolutionEntity{
		VrpID:       req.VrpID,
		Solution:    sol,
		Algorithm:   req.Algorithm,
		SolveTimeMs: solveTimeMs,
		CreatedAt:   now,
	})

	meta := export.Meta{SolutionID: solutionID, VrpID: req.VrpID, Algorithm: req.Algorithm, SolveTimeMs: solveTimeMs, CreatedAt: now}
	writeJSON(w, http.StatusOK, export.ToSolutionJSON(ie.Instance, sol, meta))
}

// VrpSolutionHandler dispatches GET /vrp/solution/{id}, .../export, and the
// supplemented .../metrics endpoint by path suffix.
func (s *Server) VrpSolutionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, vrperr.NewInvalidInput("method not allowed"))
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/vrp/solution/")
	switch {
	case strings.HasSuffix(rest, "/export"):
		s.solutionExport(w, r, strings.TrimSuffix(rest, "/export"))
	case strings.HasSuffix(rest, "/metrics"):
		s.solutionMetrics(w, r, strings.TrimSuffix(rest, "/metrics"))
	default:
		s.solutionGet(w, r, rest)
	}
}

func (s *Server) lookupSolutionAndInstance(id string) (session.SolutionEntity, session.InstanceEntity, error) {
	se, err := s.Store.GetSolution(id)
	if err != nil {
		return session.SolutionEntity{}, session.InstanceEntity{}, err
	}
	ie, err := s.Store.GetInstance(se.VrpID)
	if err != nil {
		return session.SolutionEntity{}, session.InstanceEntity{}, err
	}
	return se, ie, nil
}

func (s *Server) solutionGet(w http.ResponseWriter, r *http.Request, id string) {
	se, ie, err := s.lookupSolutionAndInstance(id)
	if err != nil {
		writeError(w, err)
		return
	}
	meta := export.Meta{SolutionID: id, VrpID: se.VrpID, Algorithm: se.Algorithm, SolveTimeMs: se.SolveTimeMs, CreatedAt: se.CreatedAt}
	writeJSON(w, http.StatusOK, export.ToSolutionJSON(ie.Instance, se.Solution, meta))
}

func (s *Server) solutionExport(w http.ResponseWriter, r *http.Request, id string) {
	se, ie, err := s.lookupSolutionAndInstance(id)
	if err != nil {
		writeError(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	switch format {
	case "json":
		meta := export.Meta{SolutionID: id, VrpID: se.VrpID, Algorithm: se.Algorithm, SolveTimeMs: se.SolveTimeMs, CreatedAt: se.CreatedAt}
		writeJSON(w, http.StatusOK, export.ToSolutionJSON(ie.Instance, se.Solution, meta))
	case "geojson":
		writeJSON(w, http.StatusOK, export.ToGeoJSON(ie.Instance, se.Solution))
	default:
		writeError(w, vrperr.NewInvalidInput("unsupported export format: "+format))
	}
}

// solutionMetrics serves the supplemented GET /vrp/solution/{id}/metrics
// endpoint: per-route distance summary statistics, grounded on the
// original prototype's utils.rs::SolutionMetrics.
func (s *Server) solutionMetrics(w http.ResponseWriter, r *http.Request, id string) {
	se, ie, err := s.lookupSolutionAndInstance(id)
	if err != nil {
		writeError(w, err)
		return
	}
	report := validate.Validate(ie.Instance, se.Solution)
	writeJSON(w, http.StatusOK, map[string]any{
		"solution_metrics": solutionMetricsOf(se.Solution),
		"validation": map[string]any{
			"valid":                report.Valid,
			"violations":           report.Violations,
			"capacity_utilization": report.CapacityUtilization,
			"distance_utilization": report.DistanceUtilization,
			"duration_utilization": report.DurationUtilization,
			"summary":              report.Summary(),
		},
	})
}
