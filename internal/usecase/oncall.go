package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Balerman2/CallShift/internal/core/domain"
	"github.com/Balerman2/CallShift/internal/core/port"
	"github.com/Balerman2/CallShift/internal/infra/config"
	"github.com/Balerman2/CallShift/internal/repository"
)

// ErrNoOnCall indicates no open assignment exists for the division.
var ErrNoOnCall = errors.New("no on-call assignment for division")

// OnCallService answers current-assignment queries.
type OnCallService struct {
	cfg    *config.AppConfig
	oncall port.OnCallRepository
}

// NewOnCallService constructs an OnCallService instance.
func NewOnCallService(cfg *config.AppConfig, oncall port.OnCallRepository) *OnCallService {
	return &OnCallService{cfg: cfg, oncall: oncall}
}

// Current returns the open assignment for the division. An empty division
// falls back to the configured default.
func (s *OnCallService) Current(ctx context.Context, division string) (*domain.OnCallStatus, error) {
	if division == "" {
		division = s.cfg.OnCall.DefaultDivision
	}

	status, err := s.oncall.CurrentOpen(ctx, division)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoOnCall
		}
		return nil, fmt.Errorf("load current assignment: %w", err)
	}
	return status, nil
}
