// Package server exposes simulation snapshots over HTTP. It polls the
// core's read-only accessors; nothing here mutates simulation state.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/factory-sim/factory-sim/ingest"
	"github.com/factory-sim/factory-sim/sim"
)

const indexHTML = `<html>
<head><title>Factory Simulation Dashboard</title></head>
<body>
<h1>Factory Simulation Dashboard</h1>
<ul>
<li><a href="/status">System Status</a></li>
<li><a href="/snapshot">Full Snapshot</a></li>
<li><a href="/report">Last Run Report</a></li>
<li><a href="/data">Latest Ingested Records</a></li>
<li><a href="/metrics">Prometheus Metrics</a></li>
</ul>
</body>
</html>
`

// Server serves the simulation snapshot API.
type Server struct {
	httpServer *http.Server

	simulator *sim.Simulator
	report    *sim.Report
	buffer    *ingest.Buffer

	registry          *prometheus.Registry
	vehiclesProduced  *prometheus.GaugeVec
	stockLevel        prometheus.Gauge
	maintenanceEvents prometheus.Gauge
}

// New creates a server over a finished simulation run. The buffer may be
// nil when persistence is disabled.
func New(addr string, simulator *sim.Simulator, report *sim.Report, buffer *ingest.Buffer) *Server {
	s := &Server{
		simulator: simulator,
		report:    report,
		buffer:    buffer,
		registry:  prometheus.NewRegistry(),
		vehiclesProduced: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "factory_vehicles_produced",
			Help: "Vehicles produced per line in the last run.",
		}, []string{"line"}),
		stockLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "factory_stock_level",
			Help: "Raw material stock level at the end of the last run.",
		}),
		maintenanceEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "factory_maintenance_events",
			Help: "Maintenance log entries in the last run.",
		}),
	}
	s.registry.MustRegister(s.vehiclesProduced, s.stockLevel, s.maintenanceEvents)

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/report", s.handleReport).Methods(http.MethodGet)
	r.HandleFunc("/vehicles/{line:[0-9]+}/{id:[0-9]+}", s.handleVehicle).Methods(http.MethodGet)
	r.HandleFunc("/data", s.handleData).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	s.httpServer = &http.Server{Addr: addr, Handler: r}
	return s
}

// Start serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	logrus.Infof("server: listening on %s", s.httpServer.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) snapshot() *sim.Snapshot {
	snap := s.simulator.Snapshot()
	s.updateMetrics(snap)
	return snap
}

func (s *Server) updateMetrics(snap *sim.Snapshot) {
	perLine := make(map[int]int)
	for _, v := range snap.Vehicles {
		perLine[v.LineID]++
	}
	for line, count := range perLine {
		s.vehiclesProduced.WithLabelValues(strconv.Itoa(line)).Set(float64(count))
	}
	s.stockLevel.Set(float64(snap.Stock))
	s.maintenanceEvents.Set(float64(len(snap.MaintenanceLog)))
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(indexHTML))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshot()
	status := map[string]any{
		"clock":              snap.Clock,
		"vehicles":           len(snap.Vehicles),
		"stock":              snap.Stock,
		"maintenance_events": len(snap.MaintenanceLog),
	}
	if s.buffer != nil {
		status["pending_records"] = s.buffer.PendingCount()
		status["flushed_records"] = s.buffer.FlushedCount()
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshot())
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	if s.report == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no completed run"})
		return
	}
	writeJSON(w, http.StatusOK, s.report)
}

func (s *Server) handleVehicle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	lineID, _ := strconv.Atoi(vars["line"])
	vehicleID, _ := strconv.Atoi(vars["id"])
	v, ok := s.simulator.FindVehicle(lineID, vehicleID)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "vehicle not found"})
		return
	}
	writeJSON(w, http.StatusOK, v.Summary())
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	if s.buffer == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "ingestion disabled"})
		return
	}
	n := 100
	if raw := r.URL.Query().Get("records"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "records must be a positive integer"})
			return
		}
		n = parsed
	}
	writeJSON(w, http.StatusOK, s.buffer.Latest(n))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("server: encoding response: %v", err)
	}
}
