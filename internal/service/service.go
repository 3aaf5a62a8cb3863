// Package service implements the analytical core: device registry, reading
// ingestion with anomaly detection, energy and cost analysis, the
// recommendation lifecycle, and report aggregation. All components share one
// store snapshot and operate synchronously.
package service

import (
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/greenwatt/energy-monitor/internal/store"
)

// base carries the dependencies every component shares. The clock is a
// field so window math is deterministic under test.
type base struct {
	store *store.Store
	log   zerolog.Logger
	now   func() time.Time
}

type Services struct {
	Devices         *DeviceService
	Readings        *ReadingService
	Analyzer        *AnalyzerService
	Costs           *CostService
	Recommendations *RecommendationService
	Reports         *ReportService
}

func New(st *store.Store, log zerolog.Logger) *Services {
	return newWithClock(st, log, time.Now)
}

func newWithClock(st *store.Store, log zerolog.Logger, now func() time.Time) *Services {
	b := base{store: st, log: log, now: now}
	devices := &DeviceService{base: b}
	readings := &ReadingService{base: b, devices: devices}
	analyzer := &AnalyzerService{base: b, devices: devices, readings: readings}
	costs := &CostService{base: b, readings: readings}
	recs := &RecommendationService{base: b, devices: devices, analyzer: analyzer}
	reports := &ReportService{base: b, analyzer: analyzer, costs: costs}
	return &Services{
		Devices:         devices,
		Readings:        readings,
		Analyzer:        analyzer,
		Costs:           costs,
		Recommendations: recs,
		Reports:         reports,
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

// peakHour reports whether the local hour falls in the 08:00-22:00 peak
// window; the complement is the valley window.
func peakHour(t time.Time) bool {
	h := t.Hour()
	return h >= 8 && h < 22
}
