package service

import (
	"fmt"
	"time"

	"github.com/greenwatt/energy-monitor/internal/domain"
	"github.com/greenwatt/energy-monitor/internal/store"
)

// defaultRate applies when no tariff entry matches the requested kind.
const defaultRate = 0.65

// CostService applies time-of-day tariffs to the reading history.
type CostService struct {
	base
	readings *ReadingService
}

// TariffRate returns the rate of the first tariff entry of the given kind.
// The date selects among seasonal entries once those exist; the seeded
// table has one entry per kind.
func (s *CostService) TariffRate(kind string, date domain.Date) float64 {
	_ = date
	for _, t := range s.store.Snapshot().TariffRates {
		if t.Kind == kind {
			return t.RatePerKWh
		}
	}
	return defaultRate
}

type DailyCost struct {
	DeviceID        string      `json:"device_id"`
	Date            domain.Date `json:"date"`
	TotalCost       float64     `json:"total_cost"`
	PeakCost        float64     `json:"peak_cost"`
	ValleyCost      float64     `json:"valley_cost"`
	TotalEnergyKWh  float64     `json:"total_energy_kwh"`
	AverageRate     float64     `json:"average_rate"`
	PeakEnergyKWh   float64     `json:"peak_energy_kwh"`
	ValleyEnergyKWh float64     `json:"valley_energy_kwh"`
}

// ComputeDailyCost is the pure query: it costs every reading in the
// trailing 24h window by the [8,22) peak split and leaves the store
// untouched. The date labels the result.
func (s *CostService) ComputeDailyCost(deviceID string, date domain.Date) (*DailyCost, error) {
	if s.readings.devices.find(deviceID) == nil {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}
	readings := s.readings.Window(deviceID, 24)
	if len(readings) == 0 {
		return nil, fmt.Errorf("%w: device %s", ErrNoData, deviceID)
	}

	peakRate := s.TariffRate(domain.TariffPeak, date)
	valleyRate := s.TariffRate(domain.TariffValley, date)

	var peakCost, valleyCost, peakEnergy, valleyEnergy float64
	for _, r := range readings {
		if peakHour(r.Timestamp.Time()) {
			peakEnergy += r.EnergyConsumed
			peakCost += r.EnergyConsumed * peakRate
		} else {
			valleyEnergy += r.EnergyConsumed
			valleyCost += r.EnergyConsumed * valleyRate
		}
	}
	totalCost := peakCost + valleyCost
	totalEnergy := peakEnergy + valleyEnergy
	averageRate := 0.0
	if totalEnergy > 0 {
		averageRate = totalCost / totalEnergy
	}

	return &DailyCost{
		DeviceID:        deviceID,
		Date:            date,
		TotalCost:       round2(totalCost),
		PeakCost:        round2(peakCost),
		ValleyCost:      round2(valleyCost),
		TotalEnergyKWh:  round3(totalEnergy),
		AverageRate:     round3(averageRate),
		PeakEnergyKWh:   round3(peakEnergy),
		ValleyEnergyKWh: round3(valleyEnergy),
	}, nil
}

// RecordDailyCost is the logging variant: the computed result is also
// appended to the cost_analysis collection and persisted. Repeated calls
// for the same day append repeatedly.
func (s *CostService) RecordDailyCost(deviceID string, date domain.Date) (*DailyCost, error) {
	dc, err := s.ComputeDailyCost(deviceID, date)
	if err != nil {
		return nil, err
	}
	snap := s.store.Snapshot()
	snap.CostAnalysis = append(snap.CostAnalysis, domain.CostRecord{
		ID:              s.store.NextID("COST", store.ColCostAnalysis),
		DeviceID:        dc.DeviceID,
		Date:            dc.Date,
		TotalCost:       dc.TotalCost,
		PeakCost:        dc.PeakCost,
		ValleyCost:      dc.ValleyCost,
		TotalEnergyKWh:  dc.TotalEnergyKWh,
		AverageRate:     dc.AverageRate,
		PeakEnergyKWh:   dc.PeakEnergyKWh,
		ValleyEnergyKWh: dc.ValleyEnergyKWh,
	})
	if err := s.store.Save(); err != nil {
		return nil, err
	}
	return dc, nil
}

type DailyCostEntry struct {
	Date   domain.Date `json:"date"`
	Cost   float64     `json:"cost"`
	Energy float64     `json:"energy"`
}

type MonthlyCost struct {
	DeviceID           string           `json:"device_id"`
	Year               int              `json:"year"`
	Month              int              `json:"month"`
	TotalCost          float64          `json:"total_cost"`
	TotalEnergyKWh     float64          `json:"total_energy_kwh"`
	AverageDailyCost   float64          `json:"average_daily_cost"`
	AverageDailyEnergy float64          `json:"average_daily_energy"`
	DailyBreakdown     []DailyCostEntry `json:"daily_breakdown"`
}

// MonthlyCostFor walks every calendar day of the month through the pure
// daily path, accumulating the breakdown. Days without data are skipped.
func (s *CostService) MonthlyCostFor(deviceID string, year, month int) (*MonthlyCost, error) {
	if s.readings.devices.find(deviceID) == nil {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, -1)

	var totalCost, totalEnergy float64
	var breakdown []DailyCostEntry
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		dc, err := s.ComputeDailyCost(deviceID, domain.NewDate(day))
		if err != nil {
			continue
		}
		totalCost += dc.TotalCost
		totalEnergy += dc.TotalEnergyKWh
		breakdown = append(breakdown, DailyCostEntry{
			Date:   dc.Date,
			Cost:   dc.TotalCost,
			Energy: dc.TotalEnergyKWh,
		})
	}
	if len(breakdown) == 0 {
		return nil, fmt.Errorf("%w: device %s in %04d-%02d", ErrNoData, deviceID, year, month)
	}

	spanDays := float64(end.Sub(start).Hours() / 24)
	return &MonthlyCost{
		DeviceID:           deviceID,
		Year:               year,
		Month:              month,
		TotalCost:          round2(totalCost),
		TotalEnergyKWh:     round3(totalEnergy),
		AverageDailyCost:   round2(totalCost / spanDays),
		AverageDailyEnergy: round3(totalEnergy / spanDays),
		DailyBreakdown:     breakdown,
	}, nil
}

type BudgetVariance struct {
	Department         string      `json:"department"`
	MonthlyBudget      float64     `json:"monthly_budget"`
	CurrentSpending    float64     `json:"current_spending"`
	RemainingBudget    float64     `json:"remaining_budget"`
	Variance           float64     `json:"variance"`
	VariancePercentage float64     `json:"variance_percentage"`
	Status             string      `json:"status"`
	AnalysisDate       domain.Date `json:"analysis_date"`
}

// CheckBudgetVariance compares a department's spending to its monthly
// budget and raises a budget_overrun alert on overspend.
func (s *CostService) CheckBudgetVariance(department string) (*BudgetVariance, error) {
	var budget *domain.EnergyBudget
	snap := s.store.Snapshot()
	for i := range snap.Budgets {
		if snap.Budgets[i].Department == department {
			budget = &snap.Budgets[i]
			break
		}
	}
	if budget == nil {
		return nil, fmt.Errorf("%w: department %s", ErrBudgetNotFound, department)
	}

	variance := budget.CurrentSpending - budget.MonthlyBudget
	variancePct := 0.0
	if budget.MonthlyBudget > 0 {
		variancePct = variance / budget.MonthlyBudget * 100
	}
	status := "normal"
	if variance > 0 {
		status = "overrun"
		s.createAlert("BUDGET", domain.AlertBudgetOverrun, domain.SeverityHigh,
			fmt.Sprintf("%s department budget overrun by %.2f", department, variance),
			budget.MonthlyBudget, budget.CurrentSpending)
		if err := s.store.Save(); err != nil {
			return nil, err
		}
	}

	return &BudgetVariance{
		Department:         department,
		MonthlyBudget:      budget.MonthlyBudget,
		CurrentSpending:    budget.CurrentSpending,
		RemainingBudget:    budget.MonthlyBudget - budget.CurrentSpending,
		Variance:           round2(variance),
		VariancePercentage: round2(variancePct),
		Status:             status,
		AnalysisDate:       domain.NewDate(s.now()),
	}, nil
}
