package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Balerman2/CallShift/internal/core/domain"
	"github.com/Balerman2/CallShift/internal/core/port"
	"github.com/Balerman2/CallShift/internal/infra/config"
	"github.com/Balerman2/CallShift/internal/infra/logger"
	"github.com/Balerman2/CallShift/internal/infra/security"
	"github.com/Balerman2/CallShift/internal/infra/telemetry"
	"github.com/Balerman2/CallShift/internal/repository"
)

var (
	// ErrPINRequired indicates the request carried no PIN.
	ErrPINRequired = errors.New("pin is required")
	// ErrInvalidPIN indicates no credential matched the supplied PIN.
	ErrInvalidPIN = errors.New("invalid pin")
)

// AssignmentResult reports a completed authenticate-and-assign operation. The
// ledger transition is committed before the gateway push runs, so Gateway may
// report a failure while the assignment stands.
type AssignmentResult struct {
	Identity   domain.Identity
	Assignment domain.OnCallAssignment
	Gateway    port.GatewayResult
}

// AssignmentService verifies PIN credentials and performs on-call hand-offs.
type AssignmentService struct {
	cfg       *config.AppConfig
	db        port.TxBeginner
	users     port.UserRepository
	oncall    port.OnCallRepository
	audit     port.AuditRepository
	hasher    *security.PINHasher
	gateway   port.RoutingGateway
	publisher port.EventPublisher
	metrics   *telemetry.Provider
	logger    *zap.Logger
}

// NewAssignmentService constructs an AssignmentService instance.
func NewAssignmentService(
	cfg *config.AppConfig,
	db port.TxBeginner,
	users port.UserRepository,
	oncall port.OnCallRepository,
	audit port.AuditRepository,
	hasher *security.PINHasher,
	gateway port.RoutingGateway,
	publisher port.EventPublisher,
	metrics *telemetry.Provider,
	log *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		cfg:       cfg,
		db:        db,
		users:     users,
		oncall:    oncall,
		audit:     audit,
		hasher:    hasher,
		gateway:   gateway,
		publisher: publisher,
		metrics:   metrics,
		logger:    log,
	}
}

// Authenticate verifies the PIN and, on success, makes the matched user the
// current on-call for their division. The credential check, audit entries and
// ledger transition commit in a single transaction; the routing gateway push
// and event publication happen after commit and never roll the hand-off back.
func (s *AssignmentService) Authenticate(ctx context.Context, pin, sourceIP string) (*AssignmentResult, error) {
	if pin == "" {
		return nil, ErrPINRequired
	}

	digest := s.hasher.Digest(pin)
	now := time.Now().UTC()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	users := s.users.WithTx(tx)
	oncall := s.oncall.WithTx(tx)
	audit := s.audit.WithTx(tx)

	user, err := users.GetByPINDigest(ctx, digest)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if auditErr := audit.Record(ctx, domain.AuditEntry{
				EventType: domain.AuditFailedAuth,
				Details:   "pin did not match any credential",
				IPAddress: sourceIP,
				Timestamp: now,
			}); auditErr != nil {
				return nil, fmt.Errorf("record failed auth: %w", auditErr)
			}
			if commitErr := tx.Commit(ctx); commitErr != nil {
				return nil, fmt.Errorf("commit failed auth audit: %w", commitErr)
			}
			s.metrics.ObserveAuthAttempt("failure")
			s.logger.Warn("authentication failed",
				zap.String("source_ip", logger.MaskIP(sourceIP)),
			)
			return nil, ErrInvalidPIN
		}
		return nil, fmt.Errorf("lookup credential: %w", err)
	}

	if err := users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("touch last login: %w", err)
	}

	if err := audit.Record(ctx, domain.AuditEntry{
		EventType: domain.AuditSuccessfulAuth,
		UserID:    &user.ID,
		Details:   fmt.Sprintf("pin verified for %s", user.Name),
		IPAddress: sourceIP,
		Timestamp: now,
	}); err != nil {
		return nil, fmt.Errorf("record successful auth: %w", err)
	}

	division := user.Division
	if division == "" {
		division = s.cfg.OnCall.DefaultDivision
	}

	// Serializes concurrent hand-offs for the division, which keeps the
	// close-then-insert pair from interleaving and leaving two open rows.
	if err := oncall.LockDivision(ctx, division); err != nil {
		return nil, fmt.Errorf("lock division: %w", err)
	}

	var previousUser *int64
	current, err := oncall.CurrentOpen(ctx, division)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("load current assignment: %w", err)
	}
	if current != nil {
		prev := current.UserID
		previousUser = &prev
	}

	if _, err := oncall.CloseOpen(ctx, division, now); err != nil {
		return nil, fmt.Errorf("close open assignment: %w", err)
	}

	assignment, err := oncall.Insert(ctx, domain.OnCallAssignment{
		Division:  division,
		UserID:    user.ID,
		Phone:     user.Phone,
		StartTime: now,
	})
	if err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}

	if err := audit.Record(ctx, domain.AuditEntry{
		EventType: domain.AuditOnCallUpdate,
		UserID:    &user.ID,
		Details:   fmt.Sprintf("on-call for %s handed to user %d", division, user.ID),
		IPAddress: sourceIP,
		Timestamp: now,
	}); err != nil {
		return nil, fmt.Errorf("record assignment audit: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit hand-off: %w", err)
	}

	s.metrics.ObserveAuthAttempt("success")
	s.metrics.ObserveHandoff(division)
	s.logger.Info("on-call hand-off committed",
		zap.Int64("user_id", user.ID),
		zap.String("division", division),
		zap.String("phone", logger.MaskPhone(user.Phone)),
	)

	gatewayResult := s.gateway.Notify(ctx, port.RoutingUpdate{
		Phone:     user.Phone,
		Division:  division,
		UserID:    user.ID,
		UpdatedAt: now,
	})
	s.metrics.ObserveGatewayResult(string(gatewayResult.Status))

	if s.publisher != nil {
		event := domain.OnCallChangedEvent{
			EventID:      uuid.NewString(),
			Division:     division,
			UserID:       user.ID,
			Name:         user.Name,
			Phone:        user.Phone,
			StartTime:    now,
			PreviousUser: previousUser,
			SourceIP:     sourceIP,
		}
		if err := s.publisher.PublishOnCallChanged(ctx, event); err != nil {
			s.logger.Warn("publish on-call change failed", zap.Error(err))
		}
	}

	return &AssignmentResult{
		Identity:   user.Identity(),
		Assignment: *assignment,
		Gateway:    gatewayResult,
	}, nil
}
