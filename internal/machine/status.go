package machine

import (
	"context"
	"sync"
	"time"

	"crema/internal/logger"
	"crema/internal/models"

	"github.com/gorilla/websocket"
)

// Reconnect/backoff tuning for the controller's status channel.
const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
	readWait       = 90 * time.Second
	handshakeWait  = 10 * time.Second
)

// statusFrame is the JSON the controller pushes over /ws.
type statusFrame struct {
	Mode           string  `json:"mode"`
	CurrentTempC   float64 `json:"current_temperature_c"`
	TargetTempC    float64 `json:"target_temperature_c"`
	PressureBar    float64 `json:"pressure_bar"`
	ShotInProgress bool    `json:"shot_in_progress"`
}

// StatusStream keeps a WebSocket connection to the controller and
// exposes the latest status frame as a snapshot. It reconnects with
// exponential backoff and marks the snapshot disconnected while down.
type StatusStream struct {
	url    string
	dialer *websocket.Dialer
	log    *logger.Logger

	mu       sync.RWMutex
	snapshot models.MachineStatus
}

// NewStatusStream prepares a stream for ws://host/ws. Run must be
// started for the snapshot to update.
func NewStatusStream(host string, log *logger.Logger) *StatusStream {
	return &StatusStream{
		url:    "ws://" + host + "/ws",
		dialer: &websocket.Dialer{HandshakeTimeout: handshakeWait},
		log:    log,
	}
}

// Status returns the most recent snapshot. Safe for concurrent use.
func (s *StatusStream) Status() models.MachineStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Run connects and reads status frames until ctx is canceled. The
// backoff resets after every successful connection.
func (s *StatusStream) Run(ctx context.Context) {
	backoff := initialBackoff
	for {
		connected, err := s.readLoop(ctx)
		if err != nil && s.log != nil {
			s.log.Warnw("status stream disconnected", "err", err, "retry_in", backoff)
		}
		s.setDisconnected()
		if connected {
			backoff = initialBackoff
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func (s *StatusStream) readLoop(ctx context.Context) (bool, error) {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = conn.Close() }()

	// Close the socket when ctx ends so ReadJSON unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	if s.log != nil {
		s.log.Infow("status stream connected", "url", s.url)
	}

	for {
		var frame statusFrame
		_ = conn.SetReadDeadline(time.Now().Add(readWait))
		if err := conn.ReadJSON(&frame); err != nil {
			if ctx.Err() != nil {
				return true, nil
			}
			return true, err
		}
		s.apply(frame)
	}
}

func (s *StatusStream) apply(frame statusFrame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = models.MachineStatus{
		Connected:           true,
		Mode:                frame.Mode,
		CurrentTemperatureC: frame.CurrentTempC,
		TargetTemperatureC:  frame.TargetTempC,
		PressureBar:         frame.PressureBar,
		ShotInProgress:      frame.ShotInProgress,
		UpdatedAt:           time.Now().UTC(),
	}
}

func (s *StatusStream) setDisconnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Connected = false
	s.snapshot.UpdatedAt = time.Now().UTC()
}
