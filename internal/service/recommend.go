package service

import (
	"fmt"
	"time"

	"github.com/greenwatt/energy-monitor/internal/domain"
	"github.com/greenwatt/energy-monitor/internal/store"
)

// RecommendationService derives energy-saving suggestions from analyzer
// output and tracks their pending -> implemented lifecycle.
type RecommendationService struct {
	base
	devices  *DeviceService
	analyzer *AnalyzerService
}

// Generate runs a 7-day consumption analysis and applies the device-type
// rules. Zero, some, or all rules may fire; each match creates one
// recommendation.
func (s *RecommendationService) Generate(deviceID string) ([]string, error) {
	dev := s.devices.find(deviceID)
	if dev == nil {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}
	analysis, err := s.analyzer.AnalyzeConsumption(deviceID, 7)
	if err != nil {
		return nil, err
	}

	var ids []string
	switch dev.Type {
	case domain.DeviceTypeHVAC:
		if analysis.EfficiencyPercentage > 90 {
			ids = append(ids, s.create(deviceID, "temperature_adjustment", domain.SeverityMedium,
				"Raise the thermostat set point by 2 degrees to save about 15%",
				"15% energy savings", 0, "immediate"))
		}
		if analysis.AveragePowerW > dev.RatedPower*0.8 {
			ids = append(ids, s.create(deviceID, "schedule_optimization", domain.SeverityHigh,
				"Switch the HVAC off or into eco mode outside working hours",
				"25% energy savings", 0, "immediate"))
		}
	case domain.DeviceTypeLighting:
		ids = append(ids, s.create(deviceID, "schedule_optimization", domain.SeverityLow,
			"Dim the lighting over the midday break",
			"8% energy savings", 0, "immediate"))
	}

	if analysis.EfficiencyPercentage < 70 {
		ids = append(ids, s.create(deviceID, "maintenance_check", domain.SeverityHigh,
			"Device efficiency is low, schedule a maintenance check",
			"10-20% efficiency gain", 200, "1-2 weeks"))
	}

	if len(ids) > 0 {
		if err := s.store.Save(); err != nil {
			return nil, err
		}
	}
	s.log.Info().Str("device_id", deviceID).Int("count", len(ids)).Msg("recommendations generated")
	return ids, nil
}

func (s *RecommendationService) create(deviceID, recType, priority, description, savings string, cost float64, payback string) string {
	snap := s.store.Snapshot()
	rec := domain.Recommendation{
		ID:                 s.store.NextID("REC", store.ColRecommendations),
		DeviceID:           deviceID,
		Type:               recType,
		Priority:           priority,
		Description:        description,
		EstimatedSavings:   savings,
		ImplementationCost: cost,
		PaybackPeriod:      payback,
		Status:             domain.RecommendationPending,
		CreatedDate:        domain.NewDate(s.now()),
	}
	snap.Recommendations = append(snap.Recommendations, rec)
	return rec.ID
}

func (s *RecommendationService) find(id string) *domain.Recommendation {
	snap := s.store.Snapshot()
	for i := range snap.Recommendations {
		if snap.Recommendations[i].ID == id {
			return &snap.Recommendations[i]
		}
	}
	return nil
}

// Implement transitions pending -> implemented. Re-implementing is a no-op
// that keeps the original implementation date.
func (s *RecommendationService) Implement(id string) error {
	rec := s.find(id)
	if rec == nil {
		return fmt.Errorf("%w: recommendation %s", ErrNotFound, id)
	}
	if rec.Status == domain.RecommendationImplemented {
		return nil
	}
	rec.Status = domain.RecommendationImplemented
	implemented := domain.NewDate(s.now())
	rec.ImplementationDate = &implemented
	if err := s.store.Save(); err != nil {
		return err
	}
	s.log.Info().Str("recommendation_id", id).Msg("recommendation implemented")
	return nil
}

type SavingsReport struct {
	RecommendationID         string      `json:"recommendation_id"`
	DeviceID                 string      `json:"device_id"`
	BaselineDailyConsumption float64     `json:"baseline_daily_consumption"`
	CurrentDailyConsumption  float64     `json:"current_daily_consumption"`
	DailyEnergySaved         float64     `json:"daily_energy_saved"`
	SavingsPercentage        float64     `json:"savings_percentage"`
	MeasurementDate          domain.Date `json:"measurement_date"`
}

const baselineDays = 14

// TrackSavings compares the 14 days preceding the implementation date
// against the trailing 7 days, both normalized to daily averages.
func (s *RecommendationService) TrackSavings(id string) (*SavingsReport, error) {
	rec := s.find(id)
	if rec == nil {
		return nil, fmt.Errorf("%w: recommendation %s", ErrNotFound, id)
	}
	if rec.Status != domain.RecommendationImplemented || rec.ImplementationDate == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotImplemented, id)
	}

	dev := s.devices.find(rec.DeviceID)
	if dev == nil {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, rec.DeviceID)
	}

	implAt := rec.ImplementationDate.Time()
	baselineReadings := s.analyzer.readings.WindowRange(rec.DeviceID,
		implAt.Add(-baselineDays*24*time.Hour), implAt)
	baseline, err := s.analyzer.analyzeWindow(dev, baselineReadings, baselineDays)
	if err != nil {
		return nil, fmt.Errorf("%w: no baseline readings before implementation", ErrNoData)
	}
	current, err := s.analyzer.AnalyzeConsumption(rec.DeviceID, 7)
	if err != nil {
		return nil, err
	}

	baselineDaily := baseline.TotalEnergyKWh / float64(baseline.PeriodDays)
	currentDaily := current.TotalEnergyKWh / float64(current.PeriodDays)
	saved := baselineDaily - currentDaily
	pct := 0.0
	if baselineDaily > 0 {
		pct = saved / baselineDaily * 100
	}

	return &SavingsReport{
		RecommendationID:         id,
		DeviceID:                 rec.DeviceID,
		BaselineDailyConsumption: round3(baselineDaily),
		CurrentDailyConsumption:  round3(currentDaily),
		DailyEnergySaved:         round3(saved),
		SavingsPercentage:        round2(pct),
		MeasurementDate:          domain.NewDate(s.now()),
	}, nil
}

// List returns recommendations, optionally filtered by status.
func (s *RecommendationService) List(status string) []domain.Recommendation {
	snap := s.store.Snapshot()
	var out []domain.Recommendation
	for _, r := range snap.Recommendations {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out
}
