package models

import "time"

// MachineStatus is the live snapshot reported by the controller over
// its WebSocket status channel.
type MachineStatus struct {
	Connected           bool      `json:"connected"`
	Mode                string    `json:"mode,omitempty"` // STANDBY | BREW | STEAM | WATER
	CurrentTemperatureC float64   `json:"current_temperature_c,omitempty"`
	TargetTemperatureC  float64   `json:"target_temperature_c,omitempty"`
	PressureBar         float64   `json:"pressure_bar,omitempty"`
	ShotInProgress      bool      `json:"shot_in_progress"`
	UpdatedAt           time.Time `json:"updated_at"`
}
