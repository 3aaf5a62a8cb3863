package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenwatt/energy-monitor/internal/domain"
)

func TestTariffRateByKind(t *testing.T) {
	svcs, st := testServices(t, testNow)
	today := domain.NewDate(testNow)

	assert.Equal(t, 0.85, svcs.Costs.TariffRate(domain.TariffPeak, today))
	assert.Equal(t, 0.45, svcs.Costs.TariffRate(domain.TariffValley, today))
	assert.Equal(t, 0.65, svcs.Costs.TariffRate("weekend", today))

	st.Snapshot().TariffRates = nil
	assert.Equal(t, 0.65, svcs.Costs.TariffRate(domain.TariffPeak, today))
}

func TestComputeDailyCostPeakReading(t *testing.T) {
	svcs, st := testServices(t, testNow)
	id := registerDevice(t, svcs, "Pump", domain.DeviceTypeOther, 5000)

	// one reading at 20:00 (peak window) worth 2.0 kWh
	seedReading(st, id, time.Date(2024, 6, 15, 20, 0, 0, 0, time.Local), 2000)

	dc, err := svcs.Costs.ComputeDailyCost(id, domain.NewDate(testNow))
	require.NoError(t, err)
	assert.Equal(t, 1.7, dc.PeakCost) // 2.0 * 0.85
	assert.Equal(t, 0.0, dc.ValleyCost)
	assert.Equal(t, 1.7, dc.TotalCost)
	assert.Equal(t, 2.0, dc.TotalEnergyKWh)
	assert.Equal(t, 2.0, dc.PeakEnergyKWh)
	assert.Equal(t, 0.0, dc.ValleyEnergyKWh)
	assert.Equal(t, 0.85, dc.AverageRate)

	// the pure query leaves the cost log untouched
	assert.Empty(t, st.Snapshot().CostAnalysis)
}

func TestComputeDailyCostSplitsPeakAndValley(t *testing.T) {
	svcs, st := testServices(t, testNow)
	id := registerDevice(t, svcs, "Pump", domain.DeviceTypeOther, 5000)

	seedReading(st, id, time.Date(2024, 6, 15, 10, 0, 0, 0, time.Local), 2000) // peak
	seedReading(st, id, time.Date(2024, 6, 15, 2, 0, 0, 0, time.Local), 4000)  // valley

	dc, err := svcs.Costs.ComputeDailyCost(id, domain.NewDate(testNow))
	require.NoError(t, err)
	assert.Equal(t, 1.7, dc.PeakCost)    // 2.0 * 0.85
	assert.Equal(t, 1.8, dc.ValleyCost)  // 4.0 * 0.45
	assert.Equal(t, 3.5, dc.TotalCost)
	assert.Equal(t, 6.0, dc.TotalEnergyKWh)
	assert.Equal(t, 0.583, dc.AverageRate) // 3.5 / 6.0
}

func TestComputeDailyCostErrors(t *testing.T) {
	svcs, _ := testServices(t, testNow)
	today := domain.NewDate(testNow)

	_, err := svcs.Costs.ComputeDailyCost("DEV999", today)
	assert.ErrorIs(t, err, ErrDeviceNotFound)

	id := registerDevice(t, svcs, "Idle", domain.DeviceTypeOther, 1000)
	_, err = svcs.Costs.ComputeDailyCost(id, today)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRecordDailyCostAppendsOneRecord(t *testing.T) {
	svcs, st := testServices(t, testNow)
	id := registerDevice(t, svcs, "Pump", domain.DeviceTypeOther, 5000)
	seedReading(st, id, time.Date(2024, 6, 15, 20, 0, 0, 0, time.Local), 2000)

	dc, err := svcs.Costs.RecordDailyCost(id, domain.NewDate(testNow))
	require.NoError(t, err)

	records := st.Snapshot().CostAnalysis
	require.Len(t, records, 1)
	assert.Equal(t, "COST001", records[0].ID)
	assert.Equal(t, dc.TotalCost, records[0].TotalCost)
	assert.Equal(t, dc.TotalEnergyKWh, records[0].TotalEnergyKWh)

	// repeated calls keep appending; idempotence is not promised
	_, err = svcs.Costs.RecordDailyCost(id, domain.NewDate(testNow))
	require.NoError(t, err)
	assert.Len(t, st.Snapshot().CostAnalysis, 2)
}

func TestMonthlyCostAccumulatesCalendarDays(t *testing.T) {
	svcs, st := testServices(t, testNow)
	id := registerDevice(t, svcs, "Pump", domain.DeviceTypeOther, 5000)
	seedReading(st, id, time.Date(2024, 6, 15, 20, 0, 0, 0, time.Local), 2000)

	mc, err := svcs.Costs.MonthlyCostFor(id, 2024, 6)
	require.NoError(t, err)

	// every calendar day runs the trailing-24h daily path, so the single
	// reading contributes once per day of June
	require.Len(t, mc.DailyBreakdown, 30)
	assert.Equal(t, 51.0, mc.TotalCost)      // 30 * 1.70
	assert.Equal(t, 60.0, mc.TotalEnergyKWh) // 30 * 2.0
	assert.Equal(t, round2(51.0/29), mc.AverageDailyCost)
	assert.Equal(t, round3(60.0/29), mc.AverageDailyEnergy)
	assert.Equal(t, 2024, mc.Year)
	assert.Equal(t, 6, mc.Month)
}

func TestMonthlyCostNoData(t *testing.T) {
	svcs, _ := testServices(t, testNow)
	id := registerDevice(t, svcs, "Idle", domain.DeviceTypeOther, 1000)

	_, err := svcs.Costs.MonthlyCostFor(id, 2024, 6)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestBudgetVarianceOverrun(t *testing.T) {
	svcs, st := testServices(t, testNow)
	st.Snapshot().Budgets = append(st.Snapshot().Budgets, domain.EnergyBudget{
		Department:      "operations",
		MonthlyBudget:   1000,
		CurrentSpending: 1200,
	})

	variance, err := svcs.Costs.CheckBudgetVariance("operations")
	require.NoError(t, err)
	assert.Equal(t, 200.0, variance.Variance)
	assert.Equal(t, 20.0, variance.VariancePercentage)
	assert.Equal(t, -200.0, variance.RemainingBudget)
	assert.Equal(t, "overrun", variance.Status)

	alerts := svcs.Readings.ListAlerts("")
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.AlertBudgetOverrun, alerts[0].Type)
	assert.Equal(t, domain.SeverityHigh, alerts[0].Severity)
	assert.Equal(t, "BUDGET", alerts[0].DeviceID)
}

func TestBudgetVarianceWithinBudget(t *testing.T) {
	svcs, st := testServices(t, testNow)
	st.Snapshot().Budgets = append(st.Snapshot().Budgets, domain.EnergyBudget{
		Department:      "operations",
		MonthlyBudget:   1000,
		CurrentSpending: 800,
	})

	variance, err := svcs.Costs.CheckBudgetVariance("operations")
	require.NoError(t, err)
	assert.Equal(t, -200.0, variance.Variance)
	assert.Equal(t, "normal", variance.Status)
	assert.Empty(t, svcs.Readings.ListAlerts(""))
}

func TestBudgetVarianceUnknownDepartment(t *testing.T) {
	svcs, _ := testServices(t, testNow)

	_, err := svcs.Costs.CheckBudgetVariance("facilities")
	assert.ErrorIs(t, err, ErrBudgetNotFound)
}
