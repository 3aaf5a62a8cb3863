// Package store holds the whole system state as one snapshot document and
// rewrites it wholesale through an injectable Persister. This mirrors the
// flat-file contract of the surrounding shells: load-all-or-seed-defaults on
// startup, replace-all on every mutating call. Not safe for concurrent
// writers.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/greenwatt/energy-monitor/internal/domain"
)

// Collection keys inside the snapshot document.
const (
	ColDevices         = "devices"
	ColReadings        = "energy_readings"
	ColTariffs         = "tariff_rates"
	ColCostAnalysis    = "cost_analysis"
	ColRecommendations = "recommendations"
	ColAlerts          = "alerts"
	ColMaintenance     = "maintenance_schedule"
	ColReports         = "reports"
	ColBudgets         = "energy_budgets"
)

// Snapshot is the persisted document. EnergyConsumption and EnergySavings
// are reserved collections carried through load/save untouched.
type Snapshot struct {
	Devices           []domain.Device           `json:"devices"`
	Readings          []domain.Reading          `json:"energy_readings"`
	EnergyConsumption []json.RawMessage         `json:"energy_consumption"`
	TariffRates       []domain.TariffRate       `json:"tariff_rates"`
	CostAnalysis      []domain.CostRecord       `json:"cost_analysis"`
	EnergySavings     []json.RawMessage         `json:"energy_savings"`
	Recommendations   []domain.Recommendation   `json:"recommendations"`
	Alerts            []domain.Alert            `json:"alerts"`
	Maintenance       []domain.MaintenanceEntry `json:"maintenance_schedule"`
	Reports           []domain.Report           `json:"reports"`
	Budgets           []domain.EnergyBudget     `json:"energy_budgets"`
	Settings          domain.SystemSettings     `json:"system_settings"`
	IDCounters        map[string]int            `json:"id_counters"`
}

// Persister is the durable side of the store. Load returns (nil, nil) when
// no usable document exists yet.
type Persister interface {
	Load() (*Snapshot, error)
	Save(*Snapshot) error
}

type Store struct {
	persister Persister
	snap      *Snapshot
}

// Open loads the document through p, seeding and persisting defaults when
// none exists.
func Open(p Persister) (*Store, error) {
	snap, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("store: load: %w", err)
	}
	st := &Store{persister: p, snap: snap}
	if snap == nil {
		st.snap = DefaultSnapshot()
		if err := st.Save(); err != nil {
			return nil, err
		}
		return st, nil
	}
	st.healCounters()
	return st, nil
}

// Snapshot exposes the live in-memory state. Callers mutate it directly
// and then call Save.
func (s *Store) Snapshot() *Snapshot { return s.snap }

// Save rewrites the whole document.
func (s *Store) Save() error {
	if err := s.persister.Save(s.snap); err != nil {
		return fmt.Errorf("store: save: %w", err)
	}
	return nil
}

// NextID assigns the next collection-scoped identifier, e.g. DEV001. The
// counter is persisted with the document so ids stay monotonic even if
// entries are ever removed.
func (s *Store) NextID(prefix, collection string) string {
	if s.snap.IDCounters == nil {
		s.snap.IDCounters = make(map[string]int)
	}
	s.snap.IDCounters[collection]++
	return fmt.Sprintf("%s%03d", prefix, s.snap.IDCounters[collection])
}

// healCounters raises counters to at least the collection lengths, so
// documents written before counters existed never reissue an id.
func (s *Store) healCounters() {
	if s.snap.IDCounters == nil {
		s.snap.IDCounters = make(map[string]int)
	}
	lengths := map[string]int{
		ColDevices:         len(s.snap.Devices),
		ColReadings:        len(s.snap.Readings),
		ColTariffs:         len(s.snap.TariffRates),
		ColCostAnalysis:    len(s.snap.CostAnalysis),
		ColRecommendations: len(s.snap.Recommendations),
		ColAlerts:          len(s.snap.Alerts),
		ColMaintenance:     len(s.snap.Maintenance),
		ColReports:         len(s.snap.Reports),
	}
	for col, n := range lengths {
		if s.snap.IDCounters[col] < n {
			s.snap.IDCounters[col] = n
		}
	}
}

// DefaultSnapshot seeds the document the way a fresh installation looks:
// the two time-of-day tariffs and the stock system settings.
func DefaultSnapshot() *Snapshot {
	effective := domain.NewDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local))
	return &Snapshot{
		Devices:           []domain.Device{},
		Readings:          []domain.Reading{},
		EnergyConsumption: []json.RawMessage{},
		TariffRates: []domain.TariffRate{
			{
				ID:            "TARIFF001",
				Name:          "Peak Tariff",
				Kind:          domain.TariffPeak,
				TimeStart:     "08:00:00",
				TimeEnd:       "22:00:00",
				RatePerKWh:    0.85,
				Season:        "summer",
				EffectiveDate: effective,
			},
			{
				ID:            "TARIFF002",
				Name:          "Valley Tariff",
				Kind:          domain.TariffValley,
				TimeStart:     "22:00:00",
				TimeEnd:       "08:00:00",
				RatePerKWh:    0.45,
				Season:        "summer",
				EffectiveDate: effective,
			},
		},
		CostAnalysis:    []domain.CostRecord{},
		EnergySavings:   []json.RawMessage{},
		Recommendations: []domain.Recommendation{},
		Alerts:          []domain.Alert{},
		Maintenance:     []domain.MaintenanceEntry{},
		Reports:         []domain.Report{},
		Budgets:         []domain.EnergyBudget{},
		Settings: domain.SystemSettings{
			MonitoringInterval: 15,
			AlertThresholds: domain.AlertThresholds{
				HighConsumption: 1.2,
				LowEfficiency:   0.8,
				CostOverrun:     1.1,
			},
			ReportGeneration: domain.ReportGeneration{
				AutoGenerate: true,
				Frequency:    "monthly",
				Recipients:   []string{},
			},
			EnergyTargets: domain.EnergyTargets{
				MonthlyReduction:      10.0,
				EfficiencyImprovement: 5.0,
				CostReduction:         8.0,
			},
		},
		IDCounters: map[string]int{ColTariffs: 2},
	}
}
