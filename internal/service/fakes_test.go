package service

import (
	"context"
	"encoding/binary"
	"sync"
	"testing"
	"time"

	"crema/internal/models"
)

// ---- shared fakes for the service tests ----

// fakeFetcher satisfies Fetcher with canned byte buffers.
type fakeFetcher struct {
	index    []byte
	indexErr error
	shots    map[uint32][]byte
	shotErr  error

	mu         sync.Mutex
	indexCalls int
	shotCalls  []uint32
}

func (f *fakeFetcher) FetchIndex(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexCalls++
	return f.index, f.indexErr
}

func (f *fakeFetcher) FetchShot(ctx context.Context, id uint32) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shotCalls = append(f.shotCalls, id)
	if f.shotErr != nil {
		return nil, f.shotErr
	}
	return f.shots[id], nil
}

// fakeFileRepo is an in-memory FileRepo.
type fakeFileRepo struct {
	mu    sync.Mutex
	index []byte
	shots map[uint32][]byte

	saveShotErr error
	loadErr     error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{shots: map[uint32][]byte{}}
}

func (f *fakeFileRepo) SaveShot(ctx context.Context, id uint32, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveShotErr != nil {
		return f.saveShotErr
	}
	f.shots[id] = append([]byte(nil), data...)
	return nil
}

func (f *fakeFileRepo) LoadShot(ctx context.Context, id uint32) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.shots[id], nil
}

func (f *fakeFileRepo) SaveIndex(ctx context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.index = append([]byte(nil), data...)
	return nil
}

func (f *fakeFileRepo) LoadIndex(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.index, nil
}

func (f *fakeFileRepo) ShotIDs(ctx context.Context) ([]uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]uint32, 0, len(f.shots))
	for id := range f.shots {
		ids = append(ids, id)
	}
	return ids, nil
}

// fakeEventRepo records appended events.
type fakeEventRepo struct {
	mu     sync.Mutex
	events []models.SyncEvent

	listResp []models.SyncEvent
	listErr  error
	gotFrom  time.Time
	gotTo    time.Time
	gotType  string
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.SyncEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.SyncEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotFrom, f.gotTo, f.gotType = from, to, typ
	return f.listResp, f.listErr
}

func (f *fakeEventRepo) byType(typ string) []models.SyncEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.SyncEvent
	for _, e := range f.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// ---- binary fixture builders (mirroring the codec's on-disk layout) ----

type indexFixtureEntry struct {
	id        uint32
	timestamp uint32
	deleted   bool
}

func buildIndexFixture(t *testing.T, entries []indexFixtureEntry) []byte {
	t.Helper()
	buf := make([]byte, 32+len(entries)*128)
	binary.LittleEndian.PutUint32(buf[0:], 0x58444953) // "SIDX"
	binary.LittleEndian.PutUint16(buf[4:], 1)
	binary.LittleEndian.PutUint16(buf[6:], 128)
	binary.LittleEndian.PutUint32(buf[8:], uint32(len(entries)))
	binary.LittleEndian.PutUint32(buf[12:], uint32(len(entries)+1))
	for i, e := range entries {
		off := 32 + i*128
		binary.LittleEndian.PutUint32(buf[off:], e.id)
		binary.LittleEndian.PutUint32(buf[off+4:], e.timestamp)
		flags := byte(0x01) // completed
		if e.deleted {
			flags |= 0x02
		}
		buf[off+15] = flags
	}
	return buf
}

func buildShotFixture(t *testing.T, interval uint16, ticks []uint16) []byte {
	t.Helper()
	buf := make([]byte, 128+2*len(ticks))
	binary.LittleEndian.PutUint32(buf[0:], 0x544F4853) // "SHOT"
	buf[4] = 4                                         // version without phase table
	binary.LittleEndian.PutUint16(buf[6:], 128)
	binary.LittleEndian.PutUint16(buf[8:], interval)
	binary.LittleEndian.PutUint32(buf[12:], 1) // fields mask: tick only
	binary.LittleEndian.PutUint32(buf[16:], uint32(len(ticks)))
	for i, tick := range ticks {
		binary.LittleEndian.PutUint16(buf[128+2*i:], tick)
	}
	return buf
}
