package usecase

import (
	"context"
	"fmt"

	"github.com/Balerman2/CallShift/internal/core/domain"
	"github.com/Balerman2/CallShift/internal/core/port"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AuditService answers administrative audit-trail queries.
type AuditService struct {
	audit port.AuditRepository
}

// NewAuditService constructs an AuditService instance.
func NewAuditService(audit port.AuditRepository) *AuditService {
	return &AuditService{audit: audit}
}

// Recent returns the newest audit entries, most recent first. A non-positive
// limit falls back to the default; oversized limits are capped.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	entries, err := s.audit.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	return entries, nil
}
