package codec

import (
	"encoding/binary"
	"fmt"

	"crema/internal/models"
)

// SLOG on-disk layout. The header width depends on the format version:
// 128 bytes up to version 4, 512 bytes from version 5 on. All offsets
// below 128 mean the same thing for every version; the phase-transition
// table exists only in the extended header.
const (
	shotMagic = 0x544F4853 // "SHOT"

	shotHeaderSize         = 128
	shotExtendedHeaderSize = 512
	shotExtendedVersion    = 5

	shotOffVersion        = 4
	shotOffHeaderSize     = 6
	shotOffSampleInterval = 8
	shotOffFieldsMask     = 12
	shotOffSampleCount    = 16
	shotOffDuration       = 20
	shotOffTimestamp      = 24
	shotOffProfileID      = 28
	shotOffProfileName    = 60
	shotOffFinalWeight    = 108

	shotProfileIDLen   = 32
	shotProfileNameLen = 48

	phaseTableOff       = 110
	phaseStride         = 29 // u16 sample index + u8 phase + 25-byte name
	phaseNameLen        = 25
	maxPhaseTransitions = 12
	shotOffPhaseCount   = 458 // phaseTableOff + 12*29
)

// DecodeShot parses a SLOG buffer into a ShotRecord. Header problems
// (too small, wrong magic, buffer shorter than the version's header
// width) are fatal. A sample region shorter than the header's declared
// count is not: the rows that fit are decoded and the record is marked
// Incomplete, which is how power loss mid-shot shows up on disk.
//
// The buffer is borrowed read-only; the returned record keeps no
// reference to it.
func DecodeShot(buf []byte, id uint32) (models.ShotRecord, error) {
	if len(buf) < shotHeaderSize {
		return models.ShotRecord{}, fmt.Errorf("shot header needs %d bytes, have %d: %w",
			shotHeaderSize, len(buf), ErrBufferTooSmall)
	}
	if m := binary.LittleEndian.Uint32(buf); m != shotMagic {
		return models.ShotRecord{}, fmt.Errorf("want SHOT, got 0x%08x: %w", m, ErrBadMagic)
	}

	version := buf[shotOffVersion]
	headerWidth := shotHeaderSize
	if version >= shotExtendedVersion {
		headerWidth = shotExtendedHeaderSize
	}
	if len(buf) < headerWidth {
		return models.ShotRecord{}, fmt.Errorf("version %d header needs %d bytes, have %d: %w",
			version, headerWidth, len(buf), ErrBufferTooSmall)
	}

	rec := models.ShotRecord{
		ID:             id,
		Version:        version,
		SampleInterval: binary.LittleEndian.Uint16(buf[shotOffSampleInterval:]),
		FieldsMask:     binary.LittleEndian.Uint32(buf[shotOffFieldsMask:]),
		DeclaredCount:  binary.LittleEndian.Uint32(buf[shotOffSampleCount:]),
		DurationMs:     binary.LittleEndian.Uint32(buf[shotOffDuration:]),
		Timestamp:      binary.LittleEndian.Uint32(buf[shotOffTimestamp:]),
		ProfileID:      cstring(buf[shotOffProfileID : shotOffProfileID+shotProfileIDLen]),
		ProfileName:    cstring(buf[shotOffProfileName : shotOffProfileName+shotProfileNameLen]),
		FinalWeightG:   scaledOrNil(binary.LittleEndian.Uint16(buf[shotOffFinalWeight:]), scaleWeight),
	}
	if version >= shotExtendedVersion {
		rec.Transitions = decodePhaseTable(buf)
	}

	rec.Samples = decodeSamples(buf[headerWidth:], rec)
	rec.Incomplete = uint32(len(rec.Samples)) < rec.DeclaredCount
	return rec, nil
}

// decodePhaseTable reads the extended header's phase transitions. The
// declared count is capped at the table's fixed capacity; firmware has
// been seen writing a larger count than the table can hold.
func decodePhaseTable(buf []byte) []models.PhaseTransition {
	count := int(buf[shotOffPhaseCount])
	if count > maxPhaseTransitions {
		count = maxPhaseTransitions
	}
	if count == 0 {
		return nil
	}
	out := make([]models.PhaseTransition, 0, count)
	for i := 0; i < count; i++ {
		off := phaseTableOff + i*phaseStride
		out = append(out, models.PhaseTransition{
			SampleIndex: binary.LittleEndian.Uint16(buf[off:]),
			Phase:       buf[off+2],
			Name:        cstring(buf[off+3 : off+3+phaseNameLen]),
		})
	}
	return out
}

// decodeSamples reads as many complete rows as the data region holds,
// never more than the declared count. Columns appear in ascending
// fields-mask bit order, 2 bytes each.
func decodeSamples(data []byte, rec models.ShotRecord) []models.Sample {
	rw := rowWidth(rec.FieldsMask)
	if rw == 0 {
		return nil
	}
	n := len(data) / rw
	if d := int(rec.DeclaredCount); n > d {
		n = d
	}
	if n <= 0 {
		return nil
	}

	samples := make([]models.Sample, 0, n)
	for i := 0; i < n; i++ {
		var s models.Sample
		off := i * rw
		for bit := 0; bit < numFieldKinds; bit++ {
			if rec.FieldsMask&(1<<bit) == 0 {
				continue
			}
			raw := binary.LittleEndian.Uint16(data[off:])
			decodeField(FieldKind(bit), raw, rec.SampleInterval, &s)
			off += 2
		}
		s.Phase = phaseAt(rec.Transitions, i)
		samples = append(samples, s)
	}
	return samples
}

// phaseAt returns the phase of the most recent transition at or before
// sample index i. Transitions are stored in ascending sample-index
// order, so the backward scan's first hit wins.
func phaseAt(transitions []models.PhaseTransition, i int) uint8 {
	for t := len(transitions) - 1; t >= 0; t-- {
		if int(transitions[t].SampleIndex) <= i {
			return transitions[t].Phase
		}
	}
	return 0
}
