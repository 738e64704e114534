package models

// IndexHeader is the fixed 32-byte header of the shot index file (SIDX).
type IndexHeader struct {
	Version    uint16 `json:"version"`
	EntrySize  uint16 `json:"entry_size"`
	EntryCount uint32 `json:"entry_count"`
	NextID     uint32 `json:"next_id"`
}

// IndexEntry is one 128-byte record of the shot index. Booleans are
// derived from the flags byte once at decode time; the raw byte is not
// carried around.
type IndexEntry struct {
	ID          uint32   `json:"id"`
	Timestamp   uint32   `json:"timestamp"` // unix seconds
	DurationMs  uint32   `json:"duration_ms"`
	VolumeMl    *float64 `json:"volume_ml,omitempty"` // nil when firmware stored 0
	Rating      uint8    `json:"rating,omitempty"`    // 0 = unset
	Completed   bool     `json:"completed"`
	Deleted     bool     `json:"deleted"`
	HasNotes    bool     `json:"has_notes"`
	Incomplete  bool     `json:"incomplete"`
	ProfileID   string   `json:"profile_id"`
	ProfileName string   `json:"profile_name"`
}

// IndexData is the decoded shot index: header plus entries in on-disk order.
type IndexData struct {
	Header  IndexHeader  `json:"header"`
	Entries []IndexEntry `json:"entries"`
}

// ShotListItem is the history view of one non-deleted index entry,
// served newest first.
type ShotListItem struct {
	ID          uint32   `json:"id"`
	Timestamp   uint32   `json:"timestamp"`
	DurationMs  uint32   `json:"duration_ms"`
	VolumeMl    *float64 `json:"volume_ml,omitempty"`
	Rating      uint8    `json:"rating,omitempty"`
	Completed   bool     `json:"completed"`
	HasNotes    bool     `json:"has_notes"`
	ProfileID   string   `json:"profile_id"`
	ProfileName string   `json:"profile_name"`
}
