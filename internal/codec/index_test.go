package codec

import (
	"encoding/binary"
	"errors"
	"testing"

	"crema/internal/models"
)

// testEntry is the builder input for one 128-byte index entry.
type testEntry struct {
	id        uint32
	timestamp uint32
	duration  uint32
	volume    uint16
	rating    uint8
	flags     uint8
	profileID string
	name      string
}

func buildIndex(t *testing.T, entrySize uint16, entries []testEntry) []byte {
	t.Helper()
	buf := make([]byte, indexHeaderSize+len(entries)*indexEntrySize)
	binary.LittleEndian.PutUint32(buf[0:], indexMagic)
	binary.LittleEndian.PutUint16(buf[idxOffVersion:], 1)
	binary.LittleEndian.PutUint16(buf[idxOffEntrySize:], entrySize)
	binary.LittleEndian.PutUint32(buf[idxOffEntryCount:], uint32(len(entries)))
	binary.LittleEndian.PutUint32(buf[idxOffNextID:], uint32(len(entries)+1))
	for i, e := range entries {
		off := indexHeaderSize + i*indexEntrySize
		binary.LittleEndian.PutUint32(buf[off+entOffID:], e.id)
		binary.LittleEndian.PutUint32(buf[off+entOffTimestamp:], e.timestamp)
		binary.LittleEndian.PutUint32(buf[off+entOffDuration:], e.duration)
		binary.LittleEndian.PutUint16(buf[off+entOffVolume:], e.volume)
		buf[off+entOffRating] = e.rating
		buf[off+entOffFlags] = e.flags
		copy(buf[off+entOffProfileID:], e.profileID)
		copy(buf[off+entOffName:], e.name)
	}
	return buf
}

func TestDecodeIndex_HeaderErrors(t *testing.T) {
	t.Parallel()

	valid := buildIndex(t, indexEntrySize, nil)

	badMagic := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badMagic, 0x600DCAFE)

	badEntrySize := buildIndex(t, 64, nil)

	// Header declares one entry but the buffer ends after the header.
	truncated := buildIndex(t, indexEntrySize, nil)
	binary.LittleEndian.PutUint32(truncated[idxOffEntryCount:], 1)

	cases := []struct {
		name string
		buf  []byte
		want error
	}{
		{"empty", nil, ErrBufferTooSmall},
		{"short_header", valid[:31], ErrBufferTooSmall},
		{"wrong_magic", badMagic, ErrBadMagic},
		{"unsupported_entry_size", badEntrySize, ErrEntrySize},
		{"truncated_entries", truncated, ErrTruncated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeIndex(tc.buf)
			if !errors.Is(err, tc.want) {
				t.Fatalf("DecodeIndex error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestDecodeIndex_Entries(t *testing.T) {
	t.Parallel()

	buf := buildIndex(t, indexEntrySize, []testEntry{
		{
			id: 7, timestamp: 1700000000, duration: 28500,
			volume: 362, rating: 4,
			flags:     flagCompleted | flagHasNotes,
			profileID: "default", name: "Classic Italian",
		},
		{
			id: 8, timestamp: 1700000100, duration: 4200,
			volume: 0, // firmware's "no value"
			flags:  flagDeleted,
		},
	})

	idx, err := DecodeIndex(buf)
	if err != nil {
		t.Fatalf("DecodeIndex: %v", err)
	}
	if idx.Header.EntryCount != 2 || idx.Header.NextID != 3 {
		t.Fatalf("header = %+v", idx.Header)
	}

	e := idx.Entries[0]
	if e.ID != 7 || e.Timestamp != 1700000000 || e.DurationMs != 28500 {
		t.Fatalf("entry 0 = %+v", e)
	}
	if e.VolumeMl == nil || *e.VolumeMl != 36.2 {
		t.Fatalf("volume = %v, want 36.2", e.VolumeMl)
	}
	if !e.Completed || e.Deleted || !e.HasNotes || e.Incomplete {
		t.Fatalf("flags decoded wrong: %+v", e)
	}
	if e.ProfileID != "default" || e.ProfileName != "Classic Italian" {
		t.Fatalf("strings = %q / %q", e.ProfileID, e.ProfileName)
	}

	e = idx.Entries[1]
	if e.VolumeMl != nil {
		t.Fatalf("zero volume must decode to nil, got %v", *e.VolumeMl)
	}
	if !e.Deleted || e.Completed || !e.Incomplete {
		t.Fatalf("entry 1 flags = %+v", e)
	}
	if e.ProfileID != "" || e.ProfileName != "" {
		t.Fatalf("empty strings expected, got %q / %q", e.ProfileID, e.ProfileName)
	}
}

func TestDecodeIndex_StringStopsAtNull(t *testing.T) {
	t.Parallel()

	buf := buildIndex(t, indexEntrySize, []testEntry{{id: 1}})
	off := indexHeaderSize + entOffName
	copy(buf[off:], "espresso\x00leftover garbage")

	idx, err := DecodeIndex(buf)
	if err != nil {
		t.Fatalf("DecodeIndex: %v", err)
	}
	if got := idx.Entries[0].ProfileName; got != "espresso" {
		t.Fatalf("profile name = %q, want %q", got, "espresso")
	}
}

func TestShotList_FiltersAndSorts(t *testing.T) {
	t.Parallel()

	idx := models.IndexData{Entries: []models.IndexEntry{
		{ID: 1, Timestamp: 100},
		{ID: 2, Timestamp: 300, Deleted: true},
		{ID: 3, Timestamp: 200},
		{ID: 4, Timestamp: 200}, // tie with id 3, must stay behind it
		{ID: 5, Timestamp: 400},
	}}

	list := ShotList(idx)
	if len(list) != 4 {
		t.Fatalf("len = %d, want 4", len(list))
	}
	wantOrder := []uint32{5, 3, 4, 1}
	for i, want := range wantOrder {
		if list[i].ID != want {
			t.Fatalf("order = %v, want %v", ids(list), wantOrder)
		}
	}
	for _, item := range list {
		if item.ID == 2 {
			t.Fatal("deleted entry leaked into shot list")
		}
	}
}

func ids(list []models.ShotListItem) []uint32 {
	out := make([]uint32, len(list))
	for i, item := range list {
		out[i] = item.ID
	}
	return out
}
