package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenwatt/energy-monitor/internal/domain"
)

func TestAnalyzeConsumptionErrors(t *testing.T) {
	svcs, _ := testServices(t, testNow)

	_, err := svcs.Analyzer.AnalyzeConsumption("DEV999", 7)
	assert.ErrorIs(t, err, ErrDeviceNotFound)

	id := registerDevice(t, svcs, "Idle", domain.DeviceTypeOther, 1000)
	_, err = svcs.Analyzer.AnalyzeConsumption(id, 7)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestAnalyzeConsumptionSingleReading(t *testing.T) {
	svcs, st := testServices(t, testNow)
	id := registerDevice(t, svcs, "Pump", domain.DeviceTypeOther, 1000)
	seedReading(st, id, testNow.Add(-time.Hour), 750)

	analysis, err := svcs.Analyzer.AnalyzeConsumption(id, 7)
	require.NoError(t, err)
	assert.Equal(t, 750.0, analysis.AveragePowerW)
	assert.Equal(t, 750.0, analysis.PeakPowerW)
	assert.Equal(t, 750.0, analysis.MinPowerW)
	assert.Equal(t, 0.75, analysis.TotalEnergyKWh)
	assert.Equal(t, 75.0, analysis.EfficiencyPercentage)
	assert.Equal(t, 1, analysis.ReadingsCount)
	assert.Equal(t, 7, analysis.PeriodDays)
}

func TestAnalyzeConsumptionAggregates(t *testing.T) {
	svcs, st := testServices(t, testNow)
	id := registerDevice(t, svcs, "Pump", domain.DeviceTypeOther, 1000)
	seedReading(st, id, testNow.Add(-3*time.Hour), 400)
	seedReading(st, id, testNow.Add(-2*time.Hour), 800)
	seedReading(st, id, testNow.Add(-time.Hour), 600)

	analysis, err := svcs.Analyzer.AnalyzeConsumption(id, 7)
	require.NoError(t, err)
	assert.Equal(t, 600.0, analysis.AveragePowerW)
	assert.Equal(t, 800.0, analysis.PeakPowerW)
	assert.Equal(t, 400.0, analysis.MinPowerW)
	assert.Equal(t, 1.8, analysis.TotalEnergyKWh)
	assert.Equal(t, 60.0, analysis.EfficiencyPercentage)
	assert.Equal(t, 3, analysis.ReadingsCount)
}

func TestAnalyzePeakValleySplit(t *testing.T) {
	svcs, st := testServices(t, testNow)
	id := registerDevice(t, svcs, "Pump", domain.DeviceTypeOther, 1000)

	// 20:00 same day: peak window; 23:00 previous day: valley window.
	peakAt := time.Date(2024, 6, 15, 20, 0, 0, 0, time.Local)
	valleyAt := time.Date(2024, 6, 14, 23, 0, 0, 0, time.Local)
	seedReading(st, id, peakAt, 3000)   // 3.0 kWh
	seedReading(st, id, valleyAt, 1000) // 1.0 kWh

	analysis, err := svcs.Analyzer.AnalyzePeakValley(id, 7)
	require.NoError(t, err)
	assert.Equal(t, 3.0, analysis.PeakConsumptionKWh)
	assert.Equal(t, 1.0, analysis.ValleyConsumptionKWh)
	assert.Equal(t, 4.0, analysis.TotalConsumptionKWh)
	assert.Equal(t, 75.0, analysis.PeakRatioPercent)
	assert.Equal(t, 25.0, analysis.ValleyRatioPercent)
	assert.InDelta(t, 100.0, analysis.PeakRatioPercent+analysis.ValleyRatioPercent, 0.01)
}

func TestAnalyzePeakValleyNoData(t *testing.T) {
	svcs, _ := testServices(t, testNow)
	id := registerDevice(t, svcs, "Pump", domain.DeviceTypeOther, 1000)

	_, err := svcs.Analyzer.AnalyzePeakValley(id, 7)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestPredictRequiresTenRecentReadings(t *testing.T) {
	svcs, st := testServices(t, testNow)
	id := registerDevice(t, svcs, "Pump", domain.DeviceTypeOther, 1000)

	for i := 0; i < 9; i++ {
		seedReading(st, id, testNow.Add(-time.Duration(i+1)*time.Hour), 500)
	}
	_, err := svcs.Analyzer.Predict(id, 24)
	assert.ErrorIs(t, err, ErrInsufficientData)

	// a tenth reading outside the 48h lookback does not count
	seedReading(st, id, testNow.Add(-50*time.Hour), 500)
	_, err = svcs.Analyzer.Predict(id, 24)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestPredictOffHoursScalesDown(t *testing.T) {
	svcs, st := testServices(t, testNow) // hour 21: outside work hours
	id := registerDevice(t, svcs, "Pump", domain.DeviceTypeOther, 1000)
	for i := 0; i < 10; i++ {
		seedReading(st, id, testNow.Add(-time.Duration(i+1)*time.Hour), 1000)
	}

	prediction, err := svcs.Analyzer.Predict(id, 24)
	require.NoError(t, err)
	assert.Equal(t, 19.2, prediction.PredictedEnergyKWh) // 1000*24/1000 * 0.8
	assert.Equal(t, 1000.0, prediction.BasePowerW)
	assert.Equal(t, 0.75, prediction.Confidence)
	assert.Equal(t, 24, prediction.PredictionHours)
}

func TestPredictWorkHoursScalesUp(t *testing.T) {
	workNow := time.Date(2024, 6, 17, 10, 0, 0, 0, time.Local)
	svcs, st := testServices(t, workNow)
	id := registerDevice(t, svcs, "Pump", domain.DeviceTypeOther, 1000)
	for i := 0; i < 10; i++ {
		seedReading(st, id, workNow.Add(-time.Duration(i+1)*time.Hour), 1000)
	}

	prediction, err := svcs.Analyzer.Predict(id, 24)
	require.NoError(t, err)
	assert.Equal(t, 28.8, prediction.PredictedEnergyKWh) // 1000*24/1000 * 1.2
}

func TestPredictAveragesMostRecentTen(t *testing.T) {
	svcs, st := testServices(t, testNow)
	id := registerDevice(t, svcs, "Pump", domain.DeviceTypeOther, 1000)

	// an older burst that must be ignored by the 10-sample tail
	for i := 0; i < 5; i++ {
		seedReading(st, id, testNow.Add(-time.Duration(30+i)*time.Hour), 9000)
	}
	for i := 0; i < 10; i++ {
		seedReading(st, id, testNow.Add(-time.Duration(i+1)*time.Hour), 500)
	}

	prediction, err := svcs.Analyzer.Predict(id, 10)
	require.NoError(t, err)
	assert.Equal(t, 500.0, prediction.BasePowerW)
	assert.Equal(t, 4.0, prediction.PredictedEnergyKWh) // 500*10/1000 * 0.8
}

func TestRateBuckets(t *testing.T) {
	cases := []struct {
		name        string
		power       float64
		rating      string
		description string
	}{
		{"exactly 90 is excellent", 900, "A++", "excellent"},
		{"85 is good", 850, "A+", "good"},
		{"75 is average", 750, "A", "average"},
		{"65 is poor", 650, "B", "poor"},
		{"50 is bad", 500, "C", "bad"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svcs, st := testServices(t, testNow)
			id := registerDevice(t, svcs, "Pump", domain.DeviceTypeOther, 1000)
			seedReading(st, id, testNow.Add(-time.Hour), tc.power)

			rating, err := svcs.Analyzer.Rate(id)
			require.NoError(t, err)
			assert.Equal(t, tc.rating, rating.Rating)
			assert.Equal(t, tc.description, rating.Description)
			assert.NotEmpty(t, rating.Recommendation)
		})
	}
}

func TestRateWithoutReadings(t *testing.T) {
	svcs, _ := testServices(t, testNow)
	id := registerDevice(t, svcs, "Pump", domain.DeviceTypeOther, 1000)

	_, err := svcs.Analyzer.Rate(id)
	assert.ErrorIs(t, err, ErrInsufficientData)
}
