package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gpsnav-vrp/internal/config"
	"gpsnav-vrp/internal/metrics"
	"gpsnav-vrp/internal/session"
)

// Server wires the session store, configuration, and metrics registry into
// a set of HTTP handlers.
type Server struct {
	Store *session.Store
	Cfg   config.Config
}

// NewServer builds a Server from a loaded configuration.
func NewServer(cfg config.Config) *Server {
	return &Server{Store: session.New(), Cfg: cfg}
}

// StartReaper launches the background TTL sweep on a ticker, returning a
// stop channel the caller can close on shutdown.
func (s *Server) StartReaper() chan struct{} {
	stop := make(chan struct{})
	interval := time.Duration(s.Cfg.CleanupIntervalSecs) * time.Second
	retention := time.Duration(s.Cfg.DataRetentionHours) * time.Hour
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.Store.Reap(retention)
				stats := s.Store.Stats()
				metrics.Sessions.WithLabelValues("graphs").Set(float64(stats.Graphs))
				metrics.Sessions.WithLabelValues("mappings").Set(float64(stats.Mappings))
				metrics.Sessions.WithLabelValues("vrp_instances").Set(float64(stats.VrpInstances))
				metrics.Sessions.WithLabelValues("solutions").Set(float64(stats.Solutions))
			}
		}
	}()
	return stop
}

// Routes registers every handler on a flat mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.HealthHandler)
	mux.HandleFunc("/readyz", s.ReadyHandler)
	mux.HandleFunc("/stats", s.StatsHandler)
	mux.HandleFunc("/debug", s.DebugHandler)

	mux.HandleFunc("/osm/upload", s.OSMUploadHandler)
	mux.HandleFunc("/osm/", s.OSMExportHandler)

	mux.HandleFunc("/vrp/map", s.VrpMapHandler)
	mux.HandleFunc("/vrp/generate", s.VrpGenerateHandler)
	mux.HandleFunc("/vrp/solve", s.VrpSolveHandler)
	mux.HandleFunc("/vrp/solution/", s.VrpSolutionHandler)

	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
}

// Handler wraps mux with the ambient middleware stack: rate limiting,
// CORS, then request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Routes(mux)

	rl := newRateLimiter(s.Cfg.RateRPS, s.Cfg.RateBurst)
	var h http.Handler = mux
	h = rateLimitMiddleware(rl)(h)
	h = corsMiddleware(s.Cfg.CORSAllowOrigins)(h)
	h = logMiddleware(h)
	return h
}
