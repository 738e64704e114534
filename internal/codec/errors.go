package codec

import "errors"

// Fatal decode errors. Header corruption means nothing in the file can
// be trusted, so these always abort decoding. A truncated sample region
// is deliberately NOT in this list: it degrades to an incomplete record
// (see ShotRecord.Incomplete).
var (
	// ErrBufferTooSmall: buffer shorter than the required header width.
	ErrBufferTooSmall = errors.New("buffer too small for header")

	// ErrBadMagic: the 4-byte signature does not match the file type.
	ErrBadMagic = errors.New("magic mismatch")

	// ErrEntrySize: the index header declares an entry width this codec
	// does not implement.
	ErrEntrySize = errors.New("unsupported index entry size")

	// ErrTruncated: the index file cannot hold the declared entry count.
	ErrTruncated = errors.New("index truncated")
)
