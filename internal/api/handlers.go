package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/roadwatch/trafficdash/internal/analytics"
	"github.com/roadwatch/trafficdash/internal/httputil"
	"github.com/roadwatch/trafficdash/internal/records"
	"github.com/roadwatch/trafficdash/internal/security"
	"github.com/roadwatch/trafficdash/internal/store"
	"github.com/roadwatch/trafficdash/internal/units"
	"github.com/roadwatch/trafficdash/internal/version"
)

// parseFrame reads the timeframe query parameter, defaulting to hourly.
func parseFrame(r *http.Request) (analytics.TimeFrame, error) {
	return analytics.ParseTimeFrame(r.URL.Query().Get("timeframe"))
}

// loadFiltered reads a dataset and restricts it to the requested frame.
func (s *Server) loadFiltered(ds store.Dataset, frame analytics.TimeFrame) (records.Set, error) {
	set, err := s.store.ReadSet(ds)
	if err != nil {
		return nil, err
	}
	return analytics.FilterByTimeFrame(set, frame, s.clock, s.rng()), nil
}

// showData returns the raw snapshots. With ?dataset= it returns that one
// snapshot; without it, all three keyed by dataset token.
func (s *Server) showData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	if token := r.URL.Query().Get("dataset"); token != "" {
		ds, err := store.ParseDataset(token)
		if err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		raw, err := s.store.ReadRaw(ds)
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("Failed to read snapshot: %v", err))
			return
		}
		httputil.WriteJSONOK(w, raw)
		return
	}

	var all fullSnapshot
	for token, dst := range map[string]*map[string]json.RawMessage{
		"speed":   &all.Speed,
		"license": &all.License,
		"helmet":  &all.Helmet,
	} {
		ds, _ := store.ParseDataset(token)
		raw, err := s.store.ReadRaw(ds)
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("Failed to read snapshot: %v", err))
			return
		}
		*dst = raw
	}

	var err error
	if all.VehicleImages, err = s.store.VehicleImages(); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to list images: %v", err))
		return
	}
	if all.PlateImages, err = s.store.LicensePlateImages(); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to list images: %v", err))
		return
	}
	if all.VehicleImages == nil {
		all.VehicleImages = []store.Image{}
	}
	if all.PlateImages == nil {
		all.PlateImages = []store.Image{}
	}
	httputil.WriteJSONOK(w, all)
}

type fullSnapshot struct {
	Speed         map[string]json.RawMessage `json:"speed"`
	License       map[string]json.RawMessage `json:"license"`
	Helmet        map[string]json.RawMessage `json:"helmet"`
	VehicleImages []store.Image              `json:"vehicleImages"`
	PlateImages   []store.Image              `json:"plateImages"`
}

func (s *Server) showSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	frame, err := parseFrame(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	speeds, err := s.loadFiltered(store.SpeedData, frame)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to load speed data: %v", err))
		return
	}
	licenses, err := s.loadFiltered(store.LicenseData, frame)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to load license data: %v", err))
		return
	}
	helmets, err := s.loadFiltered(store.HelmetData, frame)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to load helmet data: %v", err))
		return
	}

	summary := analytics.Summarize(speeds, licenses, helmets, s.rng())
	summary.AverageSpeed = int(units.ConvertSpeed(float64(summary.AverageSpeed), s.units))
	httputil.WriteJSONOK(w, summary)
}

type speedStatsResponse struct {
	analytics.SpeedStatistics
	Buckets []analytics.SpeedBucket `json:"buckets"`
	Label   string                  `json:"label"`
	Units   string                  `json:"units"`
}

func (s *Server) showSpeedStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	frame, err := parseFrame(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	set, err := s.loadFiltered(store.SpeedData, frame)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to load speed data: %v", err))
		return
	}

	stats, buckets := analytics.AggregateSpeeds(set)
	stats.AverageSpeed = units.ConvertSpeed(stats.AverageSpeed, s.units)
	stats.MaxSpeed = units.ConvertSpeed(stats.MaxSpeed, s.units)

	httputil.WriteJSONOK(w, speedStatsResponse{
		SpeedStatistics: stats,
		Buckets:         buckets,
		Label:           frame.Label(),
		Units:           s.units,
	})
}

func (s *Server) showHelmetStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	frame, err := parseFrame(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	set, err := s.loadFiltered(store.HelmetData, frame)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to load helmet data: %v", err))
		return
	}

	httputil.WriteJSONOK(w, analytics.AggregateHelmet(set, frame, s.clock, s.rng()))
}

type vehicleStatsResponse struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
	Label  string         `json:"label"`
}

func (s *Server) showVehicleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	frame, err := parseFrame(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	set, err := s.loadFiltered(store.LicenseData, frame)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to load license data: %v", err))
		return
	}

	hist := analytics.ClassifyVehicles(set, s.rng())
	counts := make(map[string]int, len(analytics.Categories))
	for _, c := range analytics.Categories {
		counts[string(c)] = hist[c]
	}
	httputil.WriteJSONOK(w, vehicleStatsResponse{
		Counts: counts,
		Total:  hist.Total(),
		Label:  frame.Label(),
	})
}

type regionStatsResponse struct {
	Regions []analytics.RegionCount `json:"regions"`
	Total   int                     `json:"total"`
}

func (s *Server) showRegionStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	set, err := s.store.ReadSet(store.LicenseData)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to load license data: %v", err))
		return
	}

	regions, total := analytics.AggregateRegions(set)
	httputil.WriteJSONOK(w, regionStatsResponse{Regions: regions, Total: total})
}

func (s *Server) showVolumeStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	frame, err := parseFrame(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	set, err := s.loadFiltered(store.SpeedData, frame)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to load speed data: %v", err))
		return
	}

	httputil.WriteJSONOK(w, analytics.AggregateVolume(set, frame, s.clock, s.rng()))
}

type uploadResponse struct {
	IngestID string `json:"ingestId"`
	Added    int    `json:"added"`
	Updated  int    `json:"updated"`
}

// uploadData merges an uploaded snapshot into a dataset and records the
// ingest. The body is the same shape as the snapshot files: a JSON object
// keyed by record id.
func (s *Server) uploadData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	ds, err := store.ParseDataset(r.URL.Query().Get("dataset"))
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	var incoming map[string]json.RawMessage
	if err := httputil.DecodeJSON(r, &incoming); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("Invalid snapshot body: %v", err))
		return
	}

	added, updated, err := s.store.Merge(ds, incoming)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to merge snapshot: %v", err))
		return
	}

	resp := uploadResponse{Added: added, Updated: updated}
	if s.history != nil {
		id, err := s.history.RecordIngest(ds, added, updated, r.RemoteAddr)
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("Failed to record ingest: %v", err))
			return
		}
		resp.IngestID = id
	}
	httputil.WriteJSONOK(w, resp)
}

func (s *Server) showIngests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.history == nil {
		httputil.NotFound(w, "ingest history not enabled")
		return
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			httputil.BadRequest(w, "Invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	ingests, err := s.history.RecentIngests(limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to list ingests: %v", err))
		return
	}
	if ingests == nil {
		ingests = []store.Ingest{}
	}
	httputil.WriteJSONOK(w, ingests)
}

func (s *Server) listVehicleImages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	images, err := s.store.VehicleImages()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to list images: %v", err))
		return
	}
	if images == nil {
		images = []store.Image{}
	}
	httputil.WriteJSONOK(w, images)
}

func (s *Server) listPlateImages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	images, err := s.store.LicensePlateImages()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to list images: %v", err))
		return
	}
	if images == nil {
		images = []store.Image{}
	}
	httputil.WriteJSONOK(w, images)
}

// serveImage streams one captured frame from the data directory. The name
// is validated before touching the filesystem.
func (s *Server) serveImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	name := r.URL.Path[len("/api/images/"):]
	if err := security.ValidateImageName(name); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	path := filepath.Join(s.store.Dir(), name)
	if err := security.ValidatePathWithinDirectory(path, s.store.Dir()); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		httputil.NotFound(w, "image not found")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) showVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, map[string]string{
		"version":   version.Version,
		"gitSha":    version.GitSHA,
		"buildTime": version.BuildTime,
	})
}
