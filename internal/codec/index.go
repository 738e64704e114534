package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"crema/internal/models"
)

// SIDX on-disk layout. All integers little-endian.
const (
	indexMagic      = 0x58444953 // "SIDX"
	indexHeaderSize = 32
	indexEntrySize  = 128

	idxOffVersion    = 4
	idxOffEntrySize  = 6
	idxOffEntryCount = 8
	idxOffNextID     = 12

	entOffID        = 0
	entOffTimestamp = 4
	entOffDuration  = 8
	entOffVolume    = 12
	entOffRating    = 14
	entOffFlags     = 15
	entOffProfileID = 16
	entOffName      = 48

	entProfileIDLen = 32
	entNameLen      = 48
)

// Index entry flag bits.
const (
	flagCompleted = 1 << 0
	flagDeleted   = 1 << 1
	flagHasNotes  = 1 << 2
)

// DecodeIndex parses a SIDX buffer into its header and entries. The
// buffer is borrowed read-only; the returned IndexData owns its data.
// Header errors are fatal: a file whose header cannot be trusted yields
// nothing usable.
func DecodeIndex(buf []byte) (models.IndexData, error) {
	if len(buf) < indexHeaderSize {
		return models.IndexData{}, fmt.Errorf("index header needs %d bytes, have %d: %w",
			indexHeaderSize, len(buf), ErrBufferTooSmall)
	}
	if m := binary.LittleEndian.Uint32(buf); m != indexMagic {
		return models.IndexData{}, fmt.Errorf("want SIDX, got 0x%08x: %w", m, ErrBadMagic)
	}

	hdr := models.IndexHeader{
		Version:    binary.LittleEndian.Uint16(buf[idxOffVersion:]),
		EntrySize:  binary.LittleEndian.Uint16(buf[idxOffEntrySize:]),
		EntryCount: binary.LittleEndian.Uint32(buf[idxOffEntryCount:]),
		NextID:     binary.LittleEndian.Uint32(buf[idxOffNextID:]),
	}
	if hdr.EntrySize != indexEntrySize {
		return models.IndexData{}, fmt.Errorf("entry size %d: %w", hdr.EntrySize, ErrEntrySize)
	}
	need := indexHeaderSize + int(hdr.EntryCount)*indexEntrySize
	if len(buf) < need {
		return models.IndexData{}, fmt.Errorf("%d entries need %d bytes, have %d: %w",
			hdr.EntryCount, need, len(buf), ErrTruncated)
	}

	entries := make([]models.IndexEntry, 0, hdr.EntryCount)
	for i := 0; i < int(hdr.EntryCount); i++ {
		off := indexHeaderSize + i*indexEntrySize
		entries = append(entries, decodeIndexEntry(buf[off:off+indexEntrySize]))
	}
	return models.IndexData{Header: hdr, Entries: entries}, nil
}

func decodeIndexEntry(e []byte) models.IndexEntry {
	flags := e[entOffFlags]
	completed := flags&flagCompleted != 0
	return models.IndexEntry{
		ID:          binary.LittleEndian.Uint32(e[entOffID:]),
		Timestamp:   binary.LittleEndian.Uint32(e[entOffTimestamp:]),
		DurationMs:  binary.LittleEndian.Uint32(e[entOffDuration:]),
		VolumeMl:    scaledOrNil(binary.LittleEndian.Uint16(e[entOffVolume:]), scaleVolume),
		Rating:      e[entOffRating],
		Completed:   completed,
		Deleted:     flags&flagDeleted != 0,
		HasNotes:    flags&flagHasNotes != 0,
		Incomplete:  !completed,
		ProfileID:   cstring(e[entOffProfileID : entOffProfileID+entProfileIDLen]),
		ProfileName: cstring(e[entOffName : entOffName+entNameLen]),
	}
}

// ShotList filters out deleted entries and orders the rest newest
// first. The sort is stable so that equal timestamps keep their on-disk
// relative order.
func ShotList(idx models.IndexData) []models.ShotListItem {
	out := make([]models.ShotListItem, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		if e.Deleted {
			continue
		}
		out = append(out, models.ShotListItem{
			ID:          e.ID,
			Timestamp:   e.Timestamp,
			DurationMs:  e.DurationMs,
			VolumeMl:    e.VolumeMl,
			Rating:      e.Rating,
			Completed:   e.Completed,
			HasNotes:    e.HasNotes,
			ProfileID:   e.ProfileID,
			ProfileName: e.ProfileName,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}

// scaledOrNil decodes a scaled integer where a stored 0 means "value
// absent", not zero magnitude.
func scaledOrNil(raw uint16, scale float64) *float64 {
	if raw == 0 {
		return nil
	}
	v := float64(raw) / scale
	return &v
}

// cstring reads a fixed-width region as a null-terminated byte string.
// The firmware writes one byte per code point; bytes pass through
// uninterpreted (see DESIGN.md on non-ASCII profile names).
func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
