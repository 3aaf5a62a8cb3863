package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/greenwatt/energy-monitor/internal/domain"
	"github.com/greenwatt/energy-monitor/internal/store"
)

const (
	defaultTemperature = 22.0
	defaultHumidity    = 65.0
	nominalVoltage     = 220.0
	voltageMin         = 200.0
	voltageMax         = 240.0
	overloadFactor     = 1.2
)

// ReadingService appends power samples and runs the anomaly rules on each
// one. The reading log is append-only.
type ReadingService struct {
	base
	devices *DeviceService
}

type RecordReadingInput struct {
	DeviceID    string   `json:"device_id"`
	Voltage     float64  `json:"voltage"`
	Current     float64  `json:"current"`
	Power       float64  `json:"power"`
	Temperature *float64 `json:"temperature"` // defaults to 22.0
	Humidity    *float64 `json:"humidity"`    // defaults to 65.0
}

// Record derives the energy and power-factor fields, appends the reading,
// evaluates the anomaly rules and persists everything in one save.
func (s *ReadingService) Record(in RecordReadingInput) (string, error) {
	dev := s.devices.find(in.DeviceID)
	if dev == nil {
		return "", fmt.Errorf("%w: %s", ErrDeviceNotFound, in.DeviceID)
	}

	powerFactor := 0.95
	if in.Voltage != 0 && in.Current != 0 {
		powerFactor = round3(in.Power / (in.Voltage * in.Current))
	}
	temperature := defaultTemperature
	if in.Temperature != nil {
		temperature = *in.Temperature
	}
	humidity := defaultHumidity
	if in.Humidity != nil {
		humidity = *in.Humidity
	}

	snap := s.store.Snapshot()
	reading := domain.Reading{
		ID:             s.store.NextID("READ", store.ColReadings),
		DeviceID:       in.DeviceID,
		Timestamp:      domain.NewTimestamp(s.now()),
		Voltage:        in.Voltage,
		Current:        in.Current,
		Power:          in.Power,
		EnergyConsumed: round3(in.Power / 1000),
		PowerFactor:    powerFactor,
		Frequency:      50.0,
		Temperature:    temperature,
		Humidity:       humidity,
	}
	snap.Readings = append(snap.Readings, reading)

	s.checkAnomalies(reading, dev)

	if err := s.store.Save(); err != nil {
		return "", err
	}
	s.log.Debug().Str("device_id", in.DeviceID).Str("reading_id", reading.ID).
		Float64("power_w", in.Power).Msg("reading recorded")
	return reading.ID, nil
}

// checkAnomalies runs the threshold rules. The rules are independent; a
// single reading can raise zero, one, or both alerts.
func (s *ReadingService) checkAnomalies(r domain.Reading, dev *domain.Device) {
	if r.Power > dev.RatedPower*overloadFactor {
		s.createAlert(r.DeviceID, domain.AlertHighConsumption, domain.SeverityMedium,
			fmt.Sprintf("power draw outside normal range: %.1fW", r.Power),
			dev.RatedPower, r.Power)
	}
	if r.Voltage < voltageMin || r.Voltage > voltageMax {
		s.createAlert(r.DeviceID, domain.AlertVoltageAbnormal, domain.SeverityHigh,
			fmt.Sprintf("abnormal voltage: %.1fV", r.Voltage),
			nominalVoltage, r.Voltage)
	}
}

// Window returns the device's readings in [now-hours, now], ascending by
// timestamp. Every analysis and cost function builds on this slice.
func (s *ReadingService) Window(deviceID string, hours int) []domain.Reading {
	end := s.now()
	return s.WindowRange(deviceID, end.Add(-time.Duration(hours)*time.Hour), end)
}

// WindowRange is Window with an explicit closed interval.
func (s *ReadingService) WindowRange(deviceID string, from, to time.Time) []domain.Reading {
	snap := s.store.Snapshot()
	var out []domain.Reading
	for _, r := range snap.Readings {
		if r.DeviceID != deviceID {
			continue
		}
		t := r.Timestamp.Time()
		if t.Before(from) || t.After(to) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Time().Before(out[j].Timestamp.Time())
	})
	return out
}

// ListAlerts returns alerts, optionally filtered by status. Pass "" for all.
func (s *ReadingService) ListAlerts(status string) []domain.Alert {
	snap := s.store.Snapshot()
	var out []domain.Alert
	for _, a := range snap.Alerts {
		if status == "" || a.Status == status {
			out = append(out, a)
		}
	}
	return out
}
