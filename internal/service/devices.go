package service

import (
	"fmt"

	"github.com/greenwatt/energy-monitor/internal/domain"
	"github.com/greenwatt/energy-monitor/internal/store"
)

// DeviceService owns the device collection. Devices are never deleted.
type DeviceService struct {
	base
}

type RegisterDeviceInput struct {
	Name             string  `json:"name"`
	Type             string  `json:"type"`
	Location         string  `json:"location"`
	RatedPower       float64 `json:"rated_power"`
	EnergyEfficiency string  `json:"energy_efficiency"` // defaults to "A"
	Manufacturer     string  `json:"manufacturer"`      // defaults to "generic"
	Model            string  `json:"model"`             // defaults to "standard"
}

// Register appends a new device and persists the store. Duplicate names are
// allowed and yield distinct ids.
func (s *DeviceService) Register(in RegisterDeviceInput) (string, error) {
	if in.RatedPower <= 0 {
		return "", fmt.Errorf("%w: rated power must be positive", ErrInvalidInput)
	}
	if in.EnergyEfficiency == "" {
		in.EnergyEfficiency = "A"
	}
	if in.Manufacturer == "" {
		in.Manufacturer = "generic"
	}
	if in.Model == "" {
		in.Model = "standard"
	}

	snap := s.store.Snapshot()
	today := domain.NewDate(s.now())
	dev := domain.Device{
		ID:               s.store.NextID("DEV", store.ColDevices),
		Name:             in.Name,
		Type:             in.Type,
		Location:         in.Location,
		Floor:            1,
		Room:             "unassigned",
		RatedPower:       in.RatedPower,
		EnergyEfficiency: in.EnergyEfficiency,
		InstallationDate: today,
		LastMaintenance:  today,
		Status:           domain.StatusOnline,
		Manufacturer:     in.Manufacturer,
		Model:            in.Model,
	}
	snap.Devices = append(snap.Devices, dev)
	if err := s.store.Save(); err != nil {
		return "", err
	}
	s.log.Info().Str("device_id", dev.ID).Str("name", dev.Name).Msg("device registered")
	return dev.ID, nil
}

// find returns a mutable pointer into the snapshot, nil if absent.
func (s *DeviceService) find(id string) *domain.Device {
	snap := s.store.Snapshot()
	for i := range snap.Devices {
		if snap.Devices[i].ID == id {
			return &snap.Devices[i]
		}
	}
	return nil
}

func (s *DeviceService) FindByID(id string) (domain.Device, error) {
	if dev := s.find(id); dev != nil {
		return *dev, nil
	}
	return domain.Device{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
}

func (s *DeviceService) List() []domain.Device {
	snap := s.store.Snapshot()
	out := make([]domain.Device, len(snap.Devices))
	copy(out, snap.Devices)
	return out
}

func (s *DeviceService) UpdateStatus(id, status string) error {
	dev := s.find(id)
	if dev == nil {
		return fmt.Errorf("%w: %s", ErrDeviceNotFound, id)
	}
	dev.Status = status
	ts := domain.NewTimestamp(s.now())
	dev.LastUpdated = &ts
	if err := s.store.Save(); err != nil {
		return err
	}
	s.log.Info().Str("device_id", id).Str("status", status).Msg("device status updated")
	return nil
}

type ScheduleMaintenanceInput struct {
	DeviceID      string      `json:"device_id"`
	Type          string      `json:"type"`
	ScheduledDate domain.Date `json:"scheduled_date"`
	Description   string      `json:"description"`
	Technician    string      `json:"technician"` // defaults to "unassigned"
	CostEstimate  float64     `json:"cost_estimate"`
}

func (s *DeviceService) ScheduleMaintenance(in ScheduleMaintenanceInput) (string, error) {
	if s.find(in.DeviceID) == nil {
		return "", fmt.Errorf("%w: %s", ErrDeviceNotFound, in.DeviceID)
	}
	if in.Technician == "" {
		in.Technician = "unassigned"
	}
	snap := s.store.Snapshot()
	entry := domain.MaintenanceEntry{
		ID:                s.store.NextID("MAINT", store.ColMaintenance),
		DeviceID:          in.DeviceID,
		Type:              in.Type,
		ScheduledDate:     in.ScheduledDate,
		Description:       in.Description,
		EstimatedDuration: 60,
		Technician:        in.Technician,
		CostEstimate:      in.CostEstimate,
		Status:            "scheduled",
		CreatedDate:       domain.NewDate(s.now()),
	}
	snap.Maintenance = append(snap.Maintenance, entry)
	if err := s.store.Save(); err != nil {
		return "", err
	}
	s.log.Info().Str("device_id", in.DeviceID).Str("maintenance_id", entry.ID).Msg("maintenance scheduled")
	return entry.ID, nil
}
