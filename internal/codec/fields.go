package codec

import (
	"crema/internal/models"
)

// FieldKind enumerates the optional telemetry columns a shot log can
// carry. The numeric value is the bit position in the header's fields
// mask AND the column order on disk: columns appear in ascending bit
// order, 2 bytes each. Never permute.
type FieldKind uint8

const (
	FieldTick FieldKind = iota // raw tick count, × sample interval = ms
	FieldTargetTemperature
	FieldCurrentTemperature
	FieldTargetPressure
	FieldCurrentPressure
	FieldTargetFlow
	FieldPumpFlow
	FieldPuckFlow
	FieldTargetWeight
	FieldVolumetricWeight
	FieldEstimatedWeight
	FieldPuckResistance
	FieldSystemInfo

	numFieldKinds = int(FieldSystemInfo) + 1
)

// Fixed-point divisors, grouped by physical quantity. The firmware
// stores scaled integers to avoid floats on disk.
const (
	scaleTemperature = 10
	scalePressure    = 10
	scaleFlow        = 100
	scaleWeight      = 10
	scaleVolume      = 10
	scaleResistance  = 100
)

// System-info flag bits within the FieldSystemInfo word.
const (
	sysVolumetricStart = 1 << iota
	sysCurrentlyVolumetric
	sysBluetoothScale
	sysVolumetricAvailable
	sysExtendedRecording
)

// decodeField applies one column's decode rule to its raw 2-byte value
// and stores the result in the sample. Flow and weight sensors can read
// below zero (sensor noise, scale tare), as can gauge pressure; those
// columns store int16, the rest uint16. The switch is exhaustive over
// FieldKind so that adding a kind without a rule fails review, not
// runtime.
func decodeField(k FieldKind, raw uint16, interval uint16, s *models.Sample) {
	signed := func() float64 { return float64(int16(raw)) }
	unsigned := func() float64 { return float64(raw) }

	switch k {
	case FieldTick:
		// Each row stores its own tick count; elapsed time is tick ×
		// interval, not a running sum.
		t := uint32(raw) * uint32(interval)
		s.TimeMs = &t
	case FieldTargetTemperature:
		v := unsigned() / scaleTemperature
		s.TargetTemperatureC = &v
	case FieldCurrentTemperature:
		v := unsigned() / scaleTemperature
		s.CurrentTemperatureC = &v
	case FieldTargetPressure:
		v := unsigned() / scalePressure
		s.TargetPressureBar = &v
	case FieldCurrentPressure:
		v := signed() / scalePressure
		s.CurrentPressureBar = &v
	case FieldTargetFlow:
		v := unsigned() / scaleFlow
		s.TargetFlowMls = &v
	case FieldPumpFlow:
		v := signed() / scaleFlow
		s.PumpFlowMls = &v
	case FieldPuckFlow:
		v := signed() / scaleFlow
		s.PuckFlowMls = &v
	case FieldTargetWeight:
		v := unsigned() / scaleWeight
		s.TargetWeightG = &v
	case FieldVolumetricWeight:
		v := signed() / scaleWeight
		s.VolumetricWeightG = &v
	case FieldEstimatedWeight:
		v := signed() / scaleWeight
		s.EstimatedWeightG = &v
	case FieldPuckResistance:
		v := unsigned() / scaleResistance
		s.PuckResistance = &v
	case FieldSystemInfo:
		s.SystemInfo = &models.SystemInfo{
			VolumetricStart:         raw&sysVolumetricStart != 0,
			CurrentlyVolumetric:     raw&sysCurrentlyVolumetric != 0,
			BluetoothScaleConnected: raw&sysBluetoothScale != 0,
			VolumetricAvailable:     raw&sysVolumetricAvailable != 0,
			ExtendedRecording:       raw&sysExtendedRecording != 0,
		}
	}
}

// rowWidth returns the byte width of one sample row for a fields mask:
// 2 bytes per set bit among the defined kinds.
func rowWidth(mask uint32) int {
	w := 0
	for bit := 0; bit < numFieldKinds; bit++ {
		if mask&(1<<bit) != 0 {
			w += 2
		}
	}
	return w
}
