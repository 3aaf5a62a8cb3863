package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/greenwatt/energy-monitor/internal/domain"
	"github.com/greenwatt/energy-monitor/internal/store"
)

// ReportService folds per-device analysis and cost results into persisted
// report documents.
type ReportService struct {
	base
	analyzer *AnalyzerService
	costs    *CostService
}

type DeviceDaySummary struct {
	DeviceID       string  `json:"device_id"`
	DeviceName     string  `json:"device_name"`
	DeviceType     string  `json:"device_type"`
	EnergyConsumed float64 `json:"energy_consumed"`
	Cost           float64 `json:"cost"`
	Efficiency     float64 `json:"efficiency"`
	Status         string  `json:"status"`
}

type EfficiencySummary struct {
	AverageEfficiency float64 `json:"average_efficiency"`
	MaxEfficiency     float64 `json:"max_efficiency"`
	MinEfficiency     float64 `json:"min_efficiency"`
}

type DailyReport struct {
	ReportType        string             `json:"report_type"`
	Date              domain.Date        `json:"date"`
	Devices           []DeviceDaySummary `json:"devices"`
	TotalConsumption  float64            `json:"total_consumption"`
	TotalCost         float64            `json:"total_cost"`
	AlertsCount       int                `json:"alerts_count"`
	EfficiencySummary *EfficiencySummary `json:"efficiency_summary,omitempty"`
}

// Daily composes the per-device day view. Devices without data contribute
// zero rows rather than failing the report. The composed report is
// persisted as a first-class entity.
func (s *ReportService) Daily(date domain.Date) (*DailyReport, error) {
	snap := s.store.Snapshot()
	report := &DailyReport{
		ReportType: "daily",
		Date:       date,
		Devices:    []DeviceDaySummary{},
	}

	for _, dev := range snap.Devices {
		row := DeviceDaySummary{
			DeviceID:   dev.ID,
			DeviceName: dev.Name,
			DeviceType: dev.Type,
			Status:     dev.Status,
		}
		if dc, err := s.costs.ComputeDailyCost(dev.ID, date); err == nil {
			row.Cost = dc.TotalCost
		}
		if ea, err := s.analyzer.AnalyzeConsumption(dev.ID, 1); err == nil {
			row.EnergyConsumed = ea.TotalEnergyKWh
			row.Efficiency = ea.EfficiencyPercentage
		}
		report.Devices = append(report.Devices, row)
		report.TotalConsumption += row.EnergyConsumed
		report.TotalCost += row.Cost
	}

	for _, a := range snap.Alerts {
		if domain.NewDate(a.Timestamp.Time()).String() == date.String() {
			report.AlertsCount++
		}
	}

	var efficiencies []float64
	for _, d := range report.Devices {
		if d.Efficiency > 0 {
			efficiencies = append(efficiencies, d.Efficiency)
		}
	}
	if len(efficiencies) > 0 {
		sum, maxE, minE := 0.0, efficiencies[0], efficiencies[0]
		for _, e := range efficiencies {
			sum += e
			if e > maxE {
				maxE = e
			}
			if e < minE {
				minE = e
			}
		}
		report.EfficiencySummary = &EfficiencySummary{
			AverageEfficiency: round2(sum / float64(len(efficiencies))),
			MaxEfficiency:     maxE,
			MinEfficiency:     minE,
		}
	}

	if err := s.persist(fmt.Sprintf("%s daily energy report", date), "daily",
		date, date, report.TotalConsumption, report.TotalCost, report); err != nil {
		return nil, err
	}
	return report, nil
}

type DeviceMonthSummary struct {
	DeviceID                string  `json:"device_id"`
	DeviceName              string  `json:"device_name"`
	DeviceType              string  `json:"device_type"`
	MonthlyConsumption      float64 `json:"monthly_consumption"`
	MonthlyCost             float64 `json:"monthly_cost"`
	AverageDailyConsumption float64 `json:"average_daily_consumption"`
	AverageDailyCost        float64 `json:"average_daily_cost"`
}

type MonthlyReport struct {
	ReportType       string               `json:"report_type"`
	Year             int                  `json:"year"`
	Month            int                  `json:"month"`
	PeriodStart      domain.Date          `json:"period_start"`
	PeriodEnd        domain.Date          `json:"period_end"`
	Devices          []DeviceMonthSummary `json:"devices"`
	TotalConsumption float64              `json:"total_consumption"`
	TotalCost        float64              `json:"total_cost"`
}

// Monthly composes the per-device month view through the monthly cost
// path and persists the result.
func (s *ReportService) Monthly(year, month int) (*MonthlyReport, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, -1)

	snap := s.store.Snapshot()
	report := &MonthlyReport{
		ReportType:  "monthly",
		Year:        year,
		Month:       month,
		PeriodStart: domain.NewDate(start),
		PeriodEnd:   domain.NewDate(end),
		Devices:     []DeviceMonthSummary{},
	}

	for _, dev := range snap.Devices {
		mc, err := s.costs.MonthlyCostFor(dev.ID, year, month)
		if err != nil {
			continue
		}
		row := DeviceMonthSummary{
			DeviceID:                dev.ID,
			DeviceName:              dev.Name,
			DeviceType:              dev.Type,
			MonthlyConsumption:      mc.TotalEnergyKWh,
			MonthlyCost:             mc.TotalCost,
			AverageDailyConsumption: mc.AverageDailyEnergy,
			AverageDailyCost:        mc.AverageDailyCost,
		}
		report.Devices = append(report.Devices, row)
		report.TotalConsumption += row.MonthlyConsumption
		report.TotalCost += row.MonthlyCost
	}

	if err := s.persist(fmt.Sprintf("%04d-%02d monthly energy report", year, month), "monthly",
		report.PeriodStart, report.PeriodEnd, report.TotalConsumption, report.TotalCost, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) persist(name, reportType string, start, end domain.Date, consumption, cost float64, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	snap := s.store.Snapshot()
	record := domain.Report{
		ID:               s.store.NextID("RPT", store.ColReports),
		Name:             name,
		Type:             reportType,
		PeriodStart:      start,
		PeriodEnd:        end,
		TotalConsumption: round3(consumption),
		TotalCost:        round2(cost),
		GeneratedDate:    domain.NewTimestamp(s.now()),
		Data:             data,
	}
	snap.Reports = append(snap.Reports, record)
	if err := s.store.Save(); err != nil {
		return err
	}
	s.log.Info().Str("report_id", record.ID).Str("type", reportType).Msg("report generated")
	return nil
}

// List returns the persisted report records.
func (s *ReportService) List() []domain.Report {
	snap := s.store.Snapshot()
	out := make([]domain.Report, len(snap.Reports))
	copy(out, snap.Reports)
	return out
}

// Export writes a persisted report to a standalone JSON file in dir and
// returns the file path.
func (s *ReportService) Export(reportID, dir string) (string, error) {
	snap := s.store.Snapshot()
	var report *domain.Report
	for i := range snap.Reports {
		if snap.Reports[i].ID == reportID {
			report = &snap.Reports[i]
			break
		}
	}
	if report == nil {
		return "", fmt.Errorf("%w: report %s", ErrNotFound, reportID)
	}

	path := filepath.Join(dir, fmt.Sprintf("report_%s_%s.json", report.ID, report.Type))
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("export report: %w", err)
	}
	return path, nil
}
