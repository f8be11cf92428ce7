// Package api serves the dashboard's HTTP surface: snapshot data, derived
// statistics, image listings, snapshot upload, and the debug chart pages.
package api

import (
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/roadwatch/trafficdash/internal/fsutil"
	"github.com/roadwatch/trafficdash/internal/monitoring"
	"github.com/roadwatch/trafficdash/internal/store"
	"github.com/roadwatch/trafficdash/internal/timeutil"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	store   *store.Store
	history *store.History
	fs      fsutil.FileSystem
	clock   timeutil.Clock
	units   string
}

func NewServer(st *store.Store, history *store.History, fs fsutil.FileSystem, clock timeutil.Clock, units string) *Server {
	return &Server{
		store:   st,
		history: history,
		fs:      fs,
		clock:   clock,
		units:   units,
	}
}

// rng returns a fresh source for the request at hand. Handlers never share
// one; the derived views draw random fallbacks and a shared source would
// need locking.
func (s *Server) rng() *rand.Rand {
	return rand.New(rand.NewSource(s.clock.Now().UnixNano()))
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/data", s.showData)
	mux.HandleFunc("/api/summary", s.showSummary)
	mux.HandleFunc("/api/stats/speed", s.showSpeedStats)
	mux.HandleFunc("/api/stats/helmet", s.showHelmetStats)
	mux.HandleFunc("/api/stats/vehicles", s.showVehicleStats)
	mux.HandleFunc("/api/stats/regions", s.showRegionStats)
	mux.HandleFunc("/api/stats/volume", s.showVolumeStats)
	mux.HandleFunc("/api/upload/data", s.uploadData)
	mux.HandleFunc("/api/ingests", s.showIngests)
	mux.HandleFunc("/api/images/vehicles", s.listVehicleImages)
	mux.HandleFunc("/api/images/plates", s.listPlateImages)
	mux.HandleFunc("/api/images/", s.serveImage)
	mux.HandleFunc("/api/version", s.showVersion)
	mux.HandleFunc("/charts", s.showChartDashboard)
	mux.HandleFunc("/charts/speed", s.showSpeedChart)
	mux.HandleFunc("/charts/vehicles", s.showVehicleChart)
	mux.HandleFunc("/charts/helmet", s.showHelmetChart)
	mux.HandleFunc("/charts/volume", s.showVolumeChart)
	if s.history != nil {
		s.history.AttachAdminRoutes(mux)
	}
	return mux
}
