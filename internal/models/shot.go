package models

// SystemInfo is the decoded bit-flag word of the "system info" sample field.
type SystemInfo struct {
	VolumetricStart         bool `json:"volumetric_start"`
	CurrentlyVolumetric     bool `json:"currently_volumetric"`
	BluetoothScaleConnected bool `json:"bluetooth_scale_connected"`
	VolumetricAvailable     bool `json:"volumetric_available"`
	ExtendedRecording       bool `json:"extended_recording"`
}

// Sample is one telemetry row of a shot log. Only the fields selected by
// the record's fields mask are present; absent fields stay nil. All
// values are already converted to engineering units (°C, bar, ml/s, g,
// milliseconds).
type Sample struct {
	TimeMs              *uint32     `json:"t_ms,omitempty"` // raw tick × sample interval
	TargetTemperatureC  *float64    `json:"target_temperature_c,omitempty"`
	CurrentTemperatureC *float64    `json:"current_temperature_c,omitempty"`
	TargetPressureBar   *float64    `json:"target_pressure_bar,omitempty"`
	CurrentPressureBar  *float64    `json:"current_pressure_bar,omitempty"`
	TargetFlowMls       *float64    `json:"target_flow_mls,omitempty"`
	PumpFlowMls         *float64    `json:"pump_flow_mls,omitempty"`
	PuckFlowMls         *float64    `json:"puck_flow_mls,omitempty"`
	TargetWeightG       *float64    `json:"target_weight_g,omitempty"`
	VolumetricWeightG   *float64    `json:"volumetric_weight_g,omitempty"`
	EstimatedWeightG    *float64    `json:"estimated_weight_g,omitempty"`
	PuckResistance      *float64    `json:"puck_resistance,omitempty"`
	SystemInfo          *SystemInfo `json:"system_info,omitempty"`

	// Phase is assigned after decoding from the phase-transition table:
	// the most recent transition at or before this sample.
	Phase uint8 `json:"phase"`
}

// PhaseTransition marks the first sample index of a new extraction phase.
type PhaseTransition struct {
	SampleIndex uint16 `json:"sample_index"`
	Phase       uint8  `json:"phase"`
	Name        string `json:"name"` // null-terminated on disk, ≤25 bytes
}

// ShotRecord is a fully decoded shot log (SLOG).
type ShotRecord struct {
	ID             uint32            `json:"id"`
	Version        uint8             `json:"version"`
	FieldsMask     uint32            `json:"fields_mask"`
	SampleInterval uint16            `json:"sample_interval_ms"`
	DeclaredCount  uint32            `json:"declared_sample_count"`
	Timestamp      uint32            `json:"timestamp"`
	DurationMs     uint32            `json:"duration_ms"`
	ProfileID      string            `json:"profile_id"`
	ProfileName    string            `json:"profile_name"`
	FinalWeightG   *float64          `json:"final_weight_g,omitempty"` // nil when firmware stored 0
	Samples        []Sample          `json:"samples"`
	Transitions    []PhaseTransition `json:"phase_transitions,omitempty"`

	// Incomplete is set when the sample region held fewer complete rows
	// than the header declared (power loss mid-shot). Not an error.
	Incomplete bool `json:"incomplete"`
}
