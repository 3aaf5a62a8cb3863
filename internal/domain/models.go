package domain

import "encoding/json"

// Device type values the recommendation rules key on. Type is otherwise
// free text.
const (
	DeviceTypeHVAC     = "HVAC"
	DeviceTypeLighting = "Lighting"
	DeviceTypeOther    = "Other"
)

// Device status values.
const (
	StatusOnline      = "online"
	StatusOffline     = "offline"
	StatusMaintenance = "maintenance"
)

type Device struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Type             string     `json:"type"`
	Location         string     `json:"location"`
	Floor            int        `json:"floor"`
	Room             string     `json:"room"`
	RatedPower       float64    `json:"rated_power"`
	EnergyEfficiency string     `json:"energy_efficiency"`
	InstallationDate Date       `json:"installation_date"`
	LastMaintenance  Date       `json:"last_maintenance"`
	Status           string     `json:"status"`
	Manufacturer     string     `json:"manufacturer"`
	Model            string     `json:"model"`
	LastUpdated      *Timestamp `json:"last_updated,omitempty"`
}

// Reading is one power sample. Immutable once appended.
type Reading struct {
	ID             string    `json:"id"`
	DeviceID       string    `json:"device_id"`
	Timestamp      Timestamp `json:"timestamp"`
	Voltage        float64   `json:"voltage"`
	Current        float64   `json:"current"`
	Power          float64   `json:"power"`
	EnergyConsumed float64   `json:"energy_consumed"`
	PowerFactor    float64   `json:"power_factor"`
	Frequency      float64   `json:"frequency"`
	Temperature    float64   `json:"temperature"`
	Humidity       float64   `json:"humidity"`
}

// Tariff kinds, resolved by equality rather than name matching.
const (
	TariffPeak   = "peak"
	TariffValley = "valley"
)

type TariffRate struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Kind          string  `json:"kind"`
	TimeStart     string  `json:"time_start"`
	TimeEnd       string  `json:"time_end"`
	RatePerKWh    float64 `json:"rate_per_kwh"`
	Season        string  `json:"season"`
	EffectiveDate Date    `json:"effective_date"`
}

// Alert types.
const (
	AlertHighConsumption = "high_consumption"
	AlertVoltageAbnormal = "voltage_abnormal"
	AlertBudgetOverrun   = "budget_overrun"
)

// Alert severities.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

type Alert struct {
	ID             string    `json:"id"`
	DeviceID       string    `json:"device_id"`
	Type           string    `json:"type"`
	Severity       string    `json:"severity"`
	Message        string    `json:"message"`
	ThresholdValue float64   `json:"threshold_value"`
	ActualValue    float64   `json:"actual_value"`
	Timestamp      Timestamp `json:"timestamp"`
	Status         string    `json:"status"`
	Acknowledged   bool      `json:"acknowledged"`
}

// Recommendation statuses. The lifecycle is pending -> implemented.
const (
	RecommendationPending     = "pending"
	RecommendationImplemented = "implemented"
)

type Recommendation struct {
	ID                 string  `json:"id"`
	DeviceID           string  `json:"device_id"`
	Type               string  `json:"type"`
	Priority           string  `json:"priority"`
	Description        string  `json:"description"`
	EstimatedSavings   string  `json:"estimated_savings"`
	ImplementationCost float64 `json:"implementation_cost"`
	PaybackPeriod      string  `json:"payback_period"`
	Status             string  `json:"status"`
	CreatedDate        Date    `json:"created_date"`
	ImplementationDate *Date   `json:"implementation_date,omitempty"`
}

// CostRecord is the persisted per-device per-day cost snapshot.
type CostRecord struct {
	ID              string  `json:"id"`
	DeviceID        string  `json:"device_id"`
	Date            Date    `json:"date"`
	TotalCost       float64 `json:"total_cost"`
	PeakCost        float64 `json:"peak_cost"`
	ValleyCost      float64 `json:"valley_cost"`
	TotalEnergyKWh  float64 `json:"total_energy_kwh"`
	AverageRate     float64 `json:"average_rate"`
	PeakEnergyKWh   float64 `json:"peak_energy_kwh"`
	ValleyEnergyKWh float64 `json:"valley_energy_kwh"`
}

type MaintenanceEntry struct {
	ID                string  `json:"id"`
	DeviceID          string  `json:"device_id"`
	Type              string  `json:"type"`
	ScheduledDate     Date    `json:"scheduled_date"`
	Description       string  `json:"description"`
	EstimatedDuration int     `json:"estimated_duration"`
	Technician        string  `json:"technician"`
	CostEstimate      float64 `json:"cost_estimate"`
	Status            string  `json:"status"`
	CreatedDate       Date    `json:"created_date"`
}

// Report wraps a generated report body. Data keeps the full composed
// document so reloading the store preserves history verbatim.
type Report struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Type             string          `json:"type"`
	PeriodStart      Date            `json:"period_start"`
	PeriodEnd        Date            `json:"period_end"`
	TotalConsumption float64         `json:"total_consumption"`
	TotalCost        float64         `json:"total_cost"`
	GeneratedDate    Timestamp       `json:"generated_date"`
	Data             json.RawMessage `json:"data"`
}

type EnergyBudget struct {
	Department      string  `json:"department"`
	MonthlyBudget   float64 `json:"monthly_budget"`
	CurrentSpending float64 `json:"current_spending"`
	RemainingBudget float64 `json:"remaining_budget"`
}

type AlertThresholds struct {
	HighConsumption float64 `json:"high_consumption"`
	LowEfficiency   float64 `json:"low_efficiency"`
	CostOverrun     float64 `json:"cost_overrun"`
}

type ReportGeneration struct {
	AutoGenerate bool     `json:"auto_generate"`
	Frequency    string   `json:"frequency"`
	Recipients   []string `json:"recipients"`
}

type EnergyTargets struct {
	MonthlyReduction      float64 `json:"monthly_reduction"`
	EfficiencyImprovement float64 `json:"efficiency_improvement"`
	CostReduction         float64 `json:"cost_reduction"`
}

// SystemSettings is persisted for the surrounding shells; no core
// operation reads it yet.
type SystemSettings struct {
	MonitoringInterval int              `json:"monitoring_interval"`
	AlertThresholds    AlertThresholds  `json:"alert_thresholds"`
	ReportGeneration   ReportGeneration `json:"report_generation"`
	EnergyTargets      EnergyTargets    `json:"energy_targets"`
}
