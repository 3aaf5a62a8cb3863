package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/greenwatt/energy-monitor/internal/domain"
	"github.com/greenwatt/energy-monitor/internal/store"
)

// testNow pins the clock to a Saturday evening (hour 21: inside the tariff
// peak window, outside the 08-18 prediction work hours).
var testNow = time.Date(2024, 6, 15, 21, 0, 0, 0, time.Local)

func testServices(t *testing.T, now time.Time) (*Services, *store.Store) {
	t.Helper()
	st, err := store.Open(store.NewMemoryPersister())
	require.NoError(t, err)
	return newWithClock(st, zerolog.Nop(), func() time.Time { return now }), st
}

func registerDevice(t *testing.T, svcs *Services, name, devType string, ratedPower float64) string {
	t.Helper()
	id, err := svcs.Devices.Register(RegisterDeviceInput{
		Name:       name,
		Type:       devType,
		Location:   "Test Lab",
		RatedPower: ratedPower,
	})
	require.NoError(t, err)
	return id
}

// seedReading appends a reading with a chosen timestamp, bypassing the
// ingestion path so window math can be exercised directly.
func seedReading(st *store.Store, deviceID string, ts time.Time, power float64) {
	snap := st.Snapshot()
	snap.Readings = append(snap.Readings, domain.Reading{
		ID:             st.NextID("READ", store.ColReadings),
		DeviceID:       deviceID,
		Timestamp:      domain.NewTimestamp(ts),
		Voltage:        220,
		Current:        power / 220,
		Power:          power,
		EnergyConsumed: round3(power / 1000),
		PowerFactor:    0.95,
		Frequency:      50.0,
		Temperature:    22.0,
		Humidity:       65.0,
	})
}
