package service

import (
	"errors"
	"fmt"

	"github.com/greenwatt/energy-monitor/internal/domain"
)

// AnalyzerService computes derived statistics over a device's reading
// history. Results are not persisted.
type AnalyzerService struct {
	base
	devices  *DeviceService
	readings *ReadingService
}

type ConsumptionAnalysis struct {
	DeviceID             string      `json:"device_id"`
	DeviceName           string      `json:"device_name"`
	PeriodDays           int         `json:"period_days"`
	TotalEnergyKWh       float64     `json:"total_energy_kwh"`
	AveragePowerW        float64     `json:"average_power_w"`
	PeakPowerW           float64     `json:"peak_power_w"`
	MinPowerW            float64     `json:"min_power_w"`
	EfficiencyPercentage float64     `json:"efficiency_percentage"`
	ReadingsCount        int         `json:"readings_count"`
	AnalysisDate         domain.Date `json:"analysis_date"`
}

// AnalyzeConsumption aggregates the trailing days*24h window.
func (s *AnalyzerService) AnalyzeConsumption(deviceID string, days int) (*ConsumptionAnalysis, error) {
	dev := s.devices.find(deviceID)
	if dev == nil {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}
	readings := s.readings.Window(deviceID, days*24)
	return s.analyzeWindow(dev, readings, days)
}

func (s *AnalyzerService) analyzeWindow(dev *domain.Device, readings []domain.Reading, days int) (*ConsumptionAnalysis, error) {
	if len(readings) == 0 {
		return nil, fmt.Errorf("%w: device %s", ErrNoData, dev.ID)
	}

	var totalEnergy, powerSum float64
	peakPower := readings[0].Power
	minPower := readings[0].Power
	for _, r := range readings {
		totalEnergy += r.EnergyConsumed
		powerSum += r.Power
		if r.Power > peakPower {
			peakPower = r.Power
		}
		if r.Power < minPower {
			minPower = r.Power
		}
	}
	avgPower := powerSum / float64(len(readings))

	efficiency := 0.0
	if dev.RatedPower > 0 {
		efficiency = avgPower / dev.RatedPower * 100
	}

	return &ConsumptionAnalysis{
		DeviceID:             dev.ID,
		DeviceName:           dev.Name,
		PeriodDays:           days,
		TotalEnergyKWh:       round3(totalEnergy),
		AveragePowerW:        round2(avgPower),
		PeakPowerW:           peakPower,
		MinPowerW:            minPower,
		EfficiencyPercentage: round2(efficiency),
		ReadingsCount:        len(readings),
		AnalysisDate:         domain.NewDate(s.now()),
	}, nil
}

type PeakValleyAnalysis struct {
	DeviceID             string      `json:"device_id"`
	PeriodDays           int         `json:"period_days"`
	PeakConsumptionKWh   float64     `json:"peak_consumption_kwh"`
	ValleyConsumptionKWh float64     `json:"valley_consumption_kwh"`
	TotalConsumptionKWh  float64     `json:"total_consumption_kwh"`
	PeakRatioPercent     float64     `json:"peak_ratio_percent"`
	ValleyRatioPercent   float64     `json:"valley_ratio_percent"`
	AnalysisDate         domain.Date `json:"analysis_date"`
}

// AnalyzePeakValley splits consumption across the 08:00-22:00 peak window
// and its complement. Ratios are 0 when the total is 0.
func (s *AnalyzerService) AnalyzePeakValley(deviceID string, days int) (*PeakValleyAnalysis, error) {
	if s.devices.find(deviceID) == nil {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}
	readings := s.readings.Window(deviceID, days*24)
	if len(readings) == 0 {
		return nil, fmt.Errorf("%w: device %s", ErrNoData, deviceID)
	}

	var peak, valley float64
	for _, r := range readings {
		if peakHour(r.Timestamp.Time()) {
			peak += r.EnergyConsumed
		} else {
			valley += r.EnergyConsumed
		}
	}
	total := peak + valley
	var peakRatio, valleyRatio float64
	if total > 0 {
		peakRatio = peak / total * 100
		valleyRatio = valley / total * 100
	}

	return &PeakValleyAnalysis{
		DeviceID:             deviceID,
		PeriodDays:           days,
		PeakConsumptionKWh:   round3(peak),
		ValleyConsumptionKWh: round3(valley),
		TotalConsumptionKWh:  round3(total),
		PeakRatioPercent:     round2(peakRatio),
		ValleyRatioPercent:   round2(valleyRatio),
		AnalysisDate:         domain.NewDate(s.now()),
	}, nil
}

const (
	predictionMinSamples = 10
	predictionConfidence = 0.75
)

type Prediction struct {
	DeviceID           string           `json:"device_id"`
	PredictionHours    int              `json:"prediction_hours"`
	PredictedEnergyKWh float64          `json:"predicted_energy_kwh"`
	Confidence         float64          `json:"confidence"`
	PredictionDate     domain.Timestamp `json:"prediction_date"`
	BasePowerW         float64          `json:"base_power_w"`
}

// Predict extrapolates the mean power of the most recent ten readings over
// the requested horizon, scaled up during work hours (08-18) and down
// otherwise. A deliberately simple moving-average heuristic, not a
// statistical model.
func (s *AnalyzerService) Predict(deviceID string, hours int) (*Prediction, error) {
	if s.devices.find(deviceID) == nil {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}
	recent := s.readings.Window(deviceID, 48)
	if len(recent) < predictionMinSamples {
		return nil, fmt.Errorf("%w: need at least %d readings in the last 48h", ErrInsufficientData, predictionMinSamples)
	}

	var powerSum float64
	for _, r := range recent[len(recent)-predictionMinSamples:] {
		powerSum += r.Power
	}
	avgPower := powerSum / predictionMinSamples
	predicted := avgPower * float64(hours) / 1000

	if h := s.now().Hour(); h >= 8 && h <= 18 {
		predicted *= 1.2
	} else {
		predicted *= 0.8
	}

	return &Prediction{
		DeviceID:           deviceID,
		PredictionHours:    hours,
		PredictedEnergyKWh: round3(predicted),
		Confidence:         predictionConfidence,
		PredictionDate:     domain.NewTimestamp(s.now()),
		BasePowerW:         round2(avgPower),
	}, nil
}

type EfficiencyRating struct {
	DeviceID             string      `json:"device_id"`
	EfficiencyPercentage float64     `json:"efficiency_percentage"`
	Rating               string      `json:"rating"`
	Description          string      `json:"description"`
	EvaluationDate       domain.Date `json:"evaluation_date"`
	Recommendation       string      `json:"recommendation"`
}

// Rate buckets a 30-day consumption analysis into the fixed label scale.
func (s *AnalyzerService) Rate(deviceID string) (*EfficiencyRating, error) {
	analysis, err := s.AnalyzeConsumption(deviceID, 30)
	if errors.Is(err, ErrNoData) {
		return nil, fmt.Errorf("%w: device %s has no readings to rate", ErrInsufficientData, deviceID)
	}
	if err != nil {
		return nil, err
	}

	efficiency := analysis.EfficiencyPercentage
	var rating, description string
	switch {
	case efficiency >= 90:
		rating, description = "A++", "excellent"
	case efficiency >= 80:
		rating, description = "A+", "good"
	case efficiency >= 70:
		rating, description = "A", "average"
	case efficiency >= 60:
		rating, description = "B", "poor"
	default:
		rating, description = "C", "bad"
	}

	return &EfficiencyRating{
		DeviceID:             deviceID,
		EfficiencyPercentage: efficiency,
		Rating:               rating,
		Description:          description,
		EvaluationDate:       domain.NewDate(s.now()),
		Recommendation:       efficiencyAdvice(efficiency),
	}, nil
}

func efficiencyAdvice(efficiency float64) string {
	switch {
	case efficiency >= 90:
		return "Excellent operating efficiency, keep current settings"
	case efficiency >= 80:
		return "Running well, consider tuning operating parameters"
	case efficiency >= 70:
		return "Review the device operating state and optimize usage"
	case efficiency >= 60:
		return "Low efficiency, schedule a maintenance check"
	default:
		return "Very low efficiency, service or replace the device soon"
	}
}
