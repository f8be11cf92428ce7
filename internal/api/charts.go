package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/roadwatch/trafficdash/internal/analytics"
	"github.com/roadwatch/trafficdash/internal/httputil"
	"github.com/roadwatch/trafficdash/internal/store"
)

// The chart pages are debugging endpoints that render the derived views as
// standalone HTML, so the aggregation pipeline can be inspected without the
// frontend.

const dashboardHTML = `<!DOCTYPE html>
<html>
<head><title>Traffic Dashboard Debug Charts</title></head>
<body style="margin:0;background:#100c2a">
<iframe src="/charts/speed%[1]s" style="width:100%%;height:520px;border:0"></iframe>
<iframe src="/charts/vehicles%[1]s" style="width:100%%;height:520px;border:0"></iframe>
<iframe src="/charts/helmet%[1]s" style="width:100%%;height:520px;border:0"></iframe>
<iframe src="/charts/volume%[1]s" style="width:100%%;height:520px;border:0"></iframe>
</body>
</html>`

func (s *Server) showChartDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	qs := ""
	if frame := r.URL.Query().Get("timeframe"); frame != "" {
		if _, err := analytics.ParseTimeFrame(frame); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		qs = "?timeframe=" + frame
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(fmt.Sprintf(dashboardHTML, qs)))
}

func (s *Server) showSpeedChart(w http.ResponseWriter, r *http.Request) {
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

	labels := make([]string, len(buckets))
	data := make([]opts.BarData, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label
		data[i] = opts.BarData{Value: b.Count}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Speed Distribution", Theme: "dark", Width: "900px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Speed Distribution (km/h)",
			Subtitle: fmt.Sprintf("%s avg=%.0f max=%.0f speeding=%d", frame.Label(), stats.AverageSpeed, stats.MaxSpeed, stats.SpeedingCount),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("vehicles", data)

	s.renderChart(w, bar)
}

func (s *Server) showVehicleChart(w http.ResponseWriter, r *http.Request) {
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

	data := make([]opts.PieData, 0, len(analytics.Categories))
	for _, c := range analytics.Categories {
		data = append(data, opts.PieData{Name: string(c), Value: hist[c]})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Vehicle Types", Theme: "dark", Width: "900px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Vehicle Type Distribution", Subtitle: frame.Label()}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	pie.AddSeries("vehicles", data)

	s.renderChart(w, pie)
}

func (s *Server) showHelmetChart(w http.ResponseWriter, r *http.Request) {
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
	snap := analytics.AggregateHelmet(set, frame, s.clock, s.rng())

	data := make([]opts.LineData, len(snap.Series))
	for i, p := range snap.Series {
		data[i] = opts.LineData{Value: p}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Helmet Compliance", Theme: "dark", Width: "900px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Helmet Compliance Rate",
			Subtitle: fmt.Sprintf("%s current=%s trend=%s", frame.Label(), snap.Display, snap.Trend),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 100, Name: "%"}),
	)
	line.SetXAxis(snap.SeriesLabels)
	line.AddSeries("compliance", data, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	s.renderChart(w, line)
}

func (s *Server) showVolumeChart(w http.ResponseWriter, r *http.Request) {
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
	report := analytics.AggregateVolume(set, frame, s.clock, s.rng())

	data := make([]opts.BarData, len(report.Counts))
	for i, c := range report.Counts {
		data[i] = opts.BarData{Value: c}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Traffic Volume", Theme: "dark", Width: "900px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Traffic Volume",
			Subtitle: fmt.Sprintf("%s total=%d peak=%d at %s", frame.Label(), report.Total, report.Peak, report.PeakLabel),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(report.Labels)
	bar.AddSeries("vehicles", data)

	s.renderChart(w, bar)
}

type chartRenderer interface {
	Render(w io.Writer) error
}

func (s *Server) renderChart(w http.ResponseWriter, chart chartRenderer) {
	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
