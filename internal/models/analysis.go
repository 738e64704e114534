package models

// ShotSummary is the derived statistics block of an analyzed shot.
// Units are part of the contract: °C, bar, ml/s, g, seconds.
type ShotSummary struct {
	MinTemperatureC float64  `json:"min_temperature_c"`
	MaxTemperatureC float64  `json:"max_temperature_c"`
	AvgTemperatureC float64  `json:"avg_temperature_c"`
	AvgTargetTempC  float64  `json:"avg_target_temperature_c"`
	MinPressureBar  float64  `json:"min_pressure_bar"`
	MaxPressureBar  float64  `json:"max_pressure_bar"`
	AvgPressureBar  float64  `json:"avg_pressure_bar"`
	PeakPressureAtS float64  `json:"peak_pressure_at_s"`
	TotalVolumeMl   float64  `json:"total_volume_ml"`
	AvgFlowMls      float64  `json:"avg_flow_mls"`
	PeakFlowMls     float64  `json:"peak_flow_mls"`
	FirstDripAtS    *float64 `json:"first_drip_at_s,omitempty"`
	PreinfusionS    float64  `json:"preinfusion_s"`
	MainExtractionS float64  `json:"main_extraction_s"`
}

// PhaseReport summarizes one extraction phase of a shot.
type PhaseReport struct {
	Phase           uint8        `json:"phase"`
	Name            string       `json:"name"`
	StartS          float64      `json:"start_s"`
	EndS            float64      `json:"end_s"`
	DurationS       float64      `json:"duration_s"`
	AvgTemperatureC float64      `json:"avg_temperature_c"`
	AvgPressureBar  float64      `json:"avg_pressure_bar"`
	VolumeMl        float64      `json:"volume_ml"`
	Samples         []CurvePoint `json:"samples"` // up to three representative points
}

// CurvePoint is a flat projection of one sample for plotting.
type CurvePoint struct {
	TimeS        float64  `json:"t_s"`
	TemperatureC *float64 `json:"temperature_c,omitempty"`
	PressureBar  *float64 `json:"pressure_bar,omitempty"`
	FlowMls      *float64 `json:"flow_mls,omitempty"`
	WeightG      *float64 `json:"weight_g,omitempty"`
}

// TransformedShot is the analyzer's output: metadata, summary,
// per-phase reports and, on request, the full sample curve.
type TransformedShot struct {
	ID           uint32        `json:"id"`
	Timestamp    uint32        `json:"timestamp"`
	DurationMs   uint32        `json:"duration_ms"`
	ProfileID    string        `json:"profile_id"`
	ProfileName  string        `json:"profile_name"`
	FinalWeightG *float64      `json:"final_weight_g,omitempty"`
	Incomplete   bool          `json:"incomplete"`
	Summary      ShotSummary   `json:"summary"`
	Phases       []PhaseReport `json:"phases"`
	Curve        []CurvePoint  `json:"curve,omitempty"`
}
