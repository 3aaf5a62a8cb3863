// Demo seeder: registers a few devices, records randomized readings
// through the ingestion path (including a couple of anomalous ones), then
// runs the analysis, recommendation and reporting chain end to end.
package main

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/greenwatt/energy-monitor/internal/config"
	"github.com/greenwatt/energy-monitor/internal/domain"
	"github.com/greenwatt/energy-monitor/internal/service"
	"github.com/greenwatt/energy-monitor/internal/store"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	st, err := store.Open(store.NewFilePersister(config.DataFile()))
	if err != nil {
		log.Fatal().Err(err).Msg("store load failed")
	}
	svcs := service.New(st, log.Logger)

	devices := []service.RegisterDeviceInput{
		{Name: "Lobby HVAC", Type: domain.DeviceTypeHVAC, Location: "Building A / Lobby", RatedPower: 5000, Manufacturer: "CoolFlow", Model: "CF-5000"},
		{Name: "Open Office Lighting", Type: domain.DeviceTypeLighting, Location: "Building A / Floor 2", RatedPower: 800},
		{Name: "Server Room UPS", Type: domain.DeviceTypeOther, Location: "Building A / Basement", RatedPower: 3000},
	}

	var ids []string
	for _, in := range devices {
		id, err := svcs.Devices.Register(in)
		if err != nil {
			log.Fatal().Err(err).Str("name", in.Name).Msg("register failed")
		}
		ids = append(ids, id)
	}

	for i := 0; i < 30; i++ {
		for j, id := range ids {
			rated := devices[j].RatedPower
			in := service.RecordReadingInput{
				DeviceID: id,
				Voltage:  215 + rand.Float64()*10,
				Current:  2 + rand.Float64()*4,
				Power:    rated * (0.6 + rand.Float64()*0.5),
			}
			// every tenth round trips both anomaly rules
			if i%10 == 9 {
				in.Power = rated * 1.3
				in.Voltage = 250
			}
			if _, err := svcs.Readings.Record(in); err != nil {
				log.Fatal().Err(err).Str("device_id", id).Msg("record failed")
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	for _, id := range ids {
		if analysis, err := svcs.Analyzer.AnalyzeConsumption(id, 1); err == nil {
			log.Info().Str("device_id", id).
				Float64("total_kwh", analysis.TotalEnergyKWh).
				Float64("efficiency_pct", analysis.EfficiencyPercentage).
				Msg("consumption analysis")
		}
		if recs, err := svcs.Recommendations.Generate(id); err == nil && len(recs) > 0 {
			log.Info().Str("device_id", id).Strs("recommendations", recs).Msg("recommendations")
		}
	}

	report, err := svcs.Reports.Daily(domain.NewDate(time.Now()))
	if err != nil {
		log.Fatal().Err(err).Msg("daily report failed")
	}
	log.Info().
		Float64("total_consumption", report.TotalConsumption).
		Float64("total_cost", report.TotalCost).
		Int("alerts", report.AlertsCount).
		Msg("simulation done")
}
