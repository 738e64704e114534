// Package analysis derives per-shot statistics and phase reports from
// decoded shot records. Everything here is a pure function of its
// input: no state, no I/O, safe to call concurrently.
package analysis

import (
	"math"
	"strings"

	"crema/internal/models"
)

// Thresholds for detecting the first drip into the cup.
const (
	firstDripWeightG   = 0.5
	firstDripFlowMls   = 0.1
	syntheticPhaseName = "extraction"
)

// Analyze computes the summary block, phase reports and (optionally)
// the full sample curve for a decoded shot. A record with no samples
// yields a zero-valued summary and no phases rather than NaN; that
// policy is deliberate and covered by tests.
//
// The curve is opt-in: a shot can carry hundreds of samples, and the
// curve is the only output proportional to sample count.
func Analyze(rec models.ShotRecord, includeCurve bool) models.TransformedShot {
	out := models.TransformedShot{
		ID:           rec.ID,
		Timestamp:    rec.Timestamp,
		DurationMs:   rec.DurationMs,
		ProfileID:    rec.ProfileID,
		ProfileName:  rec.ProfileName,
		FinalWeightG: rec.FinalWeightG,
		Incomplete:   rec.Incomplete,
		Summary:      summarize(rec),
		Phases:       phaseReports(rec),
	}
	if includeCurve {
		out.Curve = curve(rec)
	}
	return out
}

func summarize(rec models.ShotRecord) models.ShotSummary {
	var sum models.ShotSummary
	if len(rec.Samples) == 0 {
		sum.MainExtractionS = round1(float64(rec.DurationMs) / 1000)
		return sum
	}

	var temp, target, press, flowPos stats
	var firstDrip *float64
	peakFlow := math.Inf(-1)
	peakFlowSeen := false
	peakPressAt := 0.0
	totalVolume := 0.0
	for i, s := range rec.Samples {
		t := sampleTime(rec, i)

		// Zero temperature is the firmware's "no reading" sentinel.
		if s.CurrentTemperatureC != nil && *s.CurrentTemperatureC > 0 {
			temp.add(*s.CurrentTemperatureC)
		}
		if s.TargetTemperatureC != nil && *s.TargetTemperatureC > 0 {
			target.add(*s.TargetTemperatureC)
		}
		if s.CurrentPressureBar != nil {
			p := *s.CurrentPressureBar
			if press.n == 0 || p > press.max {
				// First occurrence of a new maximum wins on ties.
				peakPressAt = t
			}
			press.add(p)
		}
		if s.PuckFlowMls != nil {
			f := *s.PuckFlowMls
			totalVolume += f * float64(rec.SampleInterval) / 1000
			if f > 0 {
				flowPos.add(f)
			}
			if !peakFlowSeen || f > peakFlow {
				peakFlow = f
				peakFlowSeen = true
			}
		}
		if firstDrip == nil {
			w := sampleWeight(s)
			if (w != nil && *w > firstDripWeightG) ||
				(s.PuckFlowMls != nil && *s.PuckFlowMls > firstDripFlowMls) {
				drip := t
				firstDrip = &drip
			}
		}
	}

	sum.MinTemperatureC = temp.min
	sum.MaxTemperatureC = temp.max
	sum.AvgTemperatureC = round1(temp.avg())
	sum.AvgTargetTempC = round1(target.avg())
	sum.MinPressureBar = press.min
	sum.MaxPressureBar = press.max
	sum.AvgPressureBar = round1(press.avg())
	sum.PeakPressureAtS = peakPressAt
	sum.TotalVolumeMl = round1(totalVolume)
	sum.AvgFlowMls = round1(flowPos.avg())
	if peakFlowSeen {
		sum.PeakFlowMls = peakFlow
	}
	sum.FirstDripAtS = firstDrip
	sum.PreinfusionS = preinfusionTime(rec)
	sum.MainExtractionS = round1(float64(rec.DurationMs)/1000 - sum.PreinfusionS)
	return sum
}

// preinfusionTime is the latest end time among phases whose name
// mentions preinfusion or soak, or 0 when no phase matches. A phase
// ends at the last sample before the next transition, or at the shot's
// last sample when the next transition lies past the decoded samples
// (truncated log) or does not exist.
func preinfusionTime(rec models.ShotRecord) float64 {
	best := 0.0
	for i, tr := range rec.Transitions {
		name := strings.ToLower(tr.Name)
		if !strings.Contains(name, "preinfusion") && !strings.Contains(name, "soak") {
			continue
		}
		if int(tr.SampleIndex) >= len(rec.Samples) {
			// The phase starts past the decoded samples; it contributed
			// nothing that survived truncation.
			continue
		}
		endIdx := len(rec.Samples) - 1
		if i+1 < len(rec.Transitions) {
			if next := int(rec.Transitions[i+1].SampleIndex) - 1; next < endIdx {
				endIdx = next
			}
		}
		if endIdx < 0 {
			continue
		}
		if end := sampleTime(rec, endIdx); end > best {
			best = end
		}
	}
	return round1(best)
}

func phaseReports(rec models.ShotRecord) []models.PhaseReport {
	if len(rec.Samples) == 0 {
		return nil
	}

	transitions := rec.Transitions
	if len(transitions) == 0 {
		// Older logs carry no phase table; treat the whole shot as one
		// extraction phase.
		transitions = []models.PhaseTransition{{SampleIndex: 0, Phase: 0, Name: syntheticPhaseName}}
	}

	out := make([]models.PhaseReport, 0, len(transitions))
	for i, tr := range transitions {
		start := int(tr.SampleIndex)
		end := len(rec.Samples)
		if i+1 < len(transitions) {
			end = int(transitions[i+1].SampleIndex)
		}
		if end > len(rec.Samples) {
			end = len(rec.Samples)
		}
		if start >= end {
			continue
		}

		var temp, press stats
		volume := 0.0
		for _, s := range rec.Samples[start:end] {
			if s.CurrentTemperatureC != nil && *s.CurrentTemperatureC > 0 {
				temp.add(*s.CurrentTemperatureC)
			}
			if s.CurrentPressureBar != nil {
				press.add(*s.CurrentPressureBar)
			}
			if s.PuckFlowMls != nil {
				volume += *s.PuckFlowMls * float64(rec.SampleInterval) / 1000
			}
		}

		out = append(out, models.PhaseReport{
			Phase:           tr.Phase,
			Name:            tr.Name,
			StartS:          sampleTime(rec, start),
			EndS:            sampleTime(rec, end-1),
			DurationS:       round1(sampleTime(rec, end-1) - sampleTime(rec, start)),
			AvgTemperatureC: round1(temp.avg()),
			AvgPressureBar:  round1(press.avg()),
			VolumeMl:        round1(volume),
			Samples:         representatives(rec, start, end),
		})
	}
	return out
}

// representatives picks the first, middle and last sample of a phase
// range, collapsing duplicate indices for short phases.
func representatives(rec models.ShotRecord, start, end int) []models.CurvePoint {
	n := end - start
	idxs := []int{start, start + n/2, end - 1}
	out := make([]models.CurvePoint, 0, 3)
	last := -1
	for _, idx := range idxs {
		if idx == last {
			continue
		}
		out = append(out, point(rec, idx))
		last = idx
	}
	return out
}

func curve(rec models.ShotRecord) []models.CurvePoint {
	out := make([]models.CurvePoint, 0, len(rec.Samples))
	for i := range rec.Samples {
		out = append(out, point(rec, i))
	}
	return out
}

// point flattens one sample into the plotting projection.
func point(rec models.ShotRecord, i int) models.CurvePoint {
	s := rec.Samples[i]
	return models.CurvePoint{
		TimeS:        sampleTime(rec, i),
		TemperatureC: s.CurrentTemperatureC,
		PressureBar:  s.CurrentPressureBar,
		FlowMls:      s.PuckFlowMls,
		WeightG:      sampleWeight(s),
	}
}

// sampleTime returns a sample's elapsed time in seconds, from its tick
// field when recorded or from its row position otherwise.
func sampleTime(rec models.ShotRecord, i int) float64 {
	if s := rec.Samples[i]; s.TimeMs != nil {
		return float64(*s.TimeMs) / 1000
	}
	return float64(i) * float64(rec.SampleInterval) / 1000
}

// sampleWeight prefers the bluetooth scale reading over the firmware's
// flow-derived estimate.
func sampleWeight(s models.Sample) *float64 {
	if s.VolumetricWeightG != nil {
		return s.VolumetricWeightG
	}
	return s.EstimatedWeightG
}

// stats accumulates min/max/mean over explicitly added values.
type stats struct {
	n        int
	sum      float64
	min, max float64
}

func (s *stats) add(v float64) {
	if s.n == 0 || v < s.min {
		s.min = v
	}
	if s.n == 0 || v > s.max {
		s.max = v
	}
	s.n++
	s.sum += v
}

// avg is 0 over zero values, never NaN.
func (s *stats) avg() float64 {
	if s.n == 0 {
		return 0
	}
	return s.sum / float64(s.n)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
