package service

import (
	"github.com/greenwatt/energy-monitor/internal/domain"
	"github.com/greenwatt/energy-monitor/internal/store"
)

// createAlert appends an active, unacknowledged alert. The caller owns the
// store save.
func (b *base) createAlert(deviceID, alertType, severity, message string, threshold, actual float64) string {
	snap := b.store.Snapshot()
	alert := domain.Alert{
		ID:             b.store.NextID("ALERT", store.ColAlerts),
		DeviceID:       deviceID,
		Type:           alertType,
		Severity:       severity,
		Message:        message,
		ThresholdValue: threshold,
		ActualValue:    actual,
		Timestamp:      domain.NewTimestamp(b.now()),
		Status:         "active",
		Acknowledged:   false,
	}
	snap.Alerts = append(snap.Alerts, alert)
	b.log.Warn().Str("device_id", deviceID).Str("type", alertType).
		Str("severity", severity).Float64("actual", actual).Msg(message)
	return alert.ID
}
