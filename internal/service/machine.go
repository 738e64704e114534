package service

import (
	"context"

	"crema/internal/models"
)

// MachineService exposes the latest live snapshot from the status
// stream. It is read-only; the stream itself is owned by main().
type MachineService struct {
	status StatusSource
}

func NewMachineService(status StatusSource) *MachineService {
	return &MachineService{status: status}
}

// Status returns the most recent controller snapshot. The error return
// keeps the interface uniform with the other services; there is no
// fallible path today.
func (s *MachineService) Status(_ context.Context) (models.MachineStatus, error) {
	return s.status.Status(), nil
}
