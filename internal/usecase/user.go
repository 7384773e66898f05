package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Balerman2/CallShift/internal/core/domain"
	"github.com/Balerman2/CallShift/internal/core/port"
	"github.com/Balerman2/CallShift/internal/infra/security"
	"github.com/Balerman2/CallShift/internal/repository"
)

var (
	// ErrUserNotFound indicates the target user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmptyUpdate indicates an update request with no fields to change.
	ErrEmptyUpdate = errors.New("no fields to update")
)

// ValidationError reports an unacceptable field in an administrative request.
// Handlers map it to client errors; storage failures stay server errors.
type ValidationError struct {
	msg string
}

func (e ValidationError) Error() string {
	return e.msg
}

// CreateUserInput carries the fields of an administrative user creation.
type CreateUserInput struct {
	PIN      string
	Phone    string
	Name     string
	Email    *string
	Division string
}

// UpdateUserInput carries the optional fields of an administrative update.
// A nil field is left untouched; PIN, when set, is re-hashed before storage.
type UpdateUserInput struct {
	PIN      *string
	Phone    *string
	Name     *string
	Email    *string
	Division *string
}

// UserService implements the administrative user operations.
type UserService struct {
	db        port.TxBeginner
	users     port.UserRepository
	audit     port.AuditRepository
	hasher    *security.PINHasher
	publisher port.EventPublisher
	logger    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(
	db port.TxBeginner,
	users port.UserRepository,
	audit port.AuditRepository,
	hasher *security.PINHasher,
	publisher port.EventPublisher,
	log *zap.Logger,
) *UserService {
	return &UserService{
		db:        db,
		users:     users,
		audit:     audit,
		hasher:    hasher,
		publisher: publisher,
		logger:    log,
	}
}

func (in CreateUserInput) validate() error {
	if strings.TrimSpace(in.PIN) == "" {
		return ValidationError{msg: "pin is required"}
	}
	if strings.TrimSpace(in.Phone) == "" {
		return ValidationError{msg: "phone_number is required"}
	}
	if strings.TrimSpace(in.Name) == "" {
		return ValidationError{msg: "name is required"}
	}
	if strings.TrimSpace(in.Division) == "" {
		return ValidationError{msg: "division is required"}
	}
	return nil
}

// Create stores a new user credential and records the creation in the audit
// trail within one transaction.
func (s *UserService) Create(ctx context.Context, input CreateUserInput, actorIP string) (*domain.User, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := domain.User{
		PINDigest: s.hasher.Digest(input.PIN),
		Phone:     input.Phone,
		Name:      input.Name,
		Email:     input.Email,
		Division:  input.Division,
		CreatedAt: now,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id, err := s.users.WithTx(tx).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	user.ID = id

	if err := s.audit.WithTx(tx).Record(ctx, domain.AuditEntry{
		EventType: domain.AuditUserCreated,
		UserID:    &id,
		Details:   fmt.Sprintf("user %s created in %s", user.Name, user.Division),
		IPAddress: actorIP,
		Timestamp: now,
	}); err != nil {
		return nil, fmt.Errorf("record user creation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit user creation: %w", err)
	}

	s.logger.Info("user created",
		zap.Int64("user_id", id),
		zap.String("division", user.Division),
	)

	if s.publisher != nil {
		event := domain.UserCreatedEvent{
			EventID:   uuid.NewString(),
			UserID:    id,
			Name:      user.Name,
			Division:  user.Division,
			Phone:     user.Phone,
			CreatedAt: now,
		}
		if err := s.publisher.PublishUserCreated(ctx, event); err != nil {
			s.logger.Warn("publish user created failed", zap.Error(err))
		}
	}

	return &user, nil
}

// Update applies an administrative patch to the user and records it in the
// audit trail within one transaction.
func (s *UserService) Update(ctx context.Context, id int64, input UpdateUserInput, actorIP string) error {
	patch := port.UserPatch{
		Phone:    input.Phone,
		Name:     input.Name,
		Email:    input.Email,
		Division: input.Division,
	}
	if input.PIN != nil {
		if strings.TrimSpace(*input.PIN) == "" {
			return ValidationError{msg: "pin must not be blank"}
		}
		digest := s.hasher.Digest(*input.PIN)
		patch.PINDigest = &digest
	}
	if patch.Empty() {
		return ErrEmptyUpdate
	}

	now := time.Now().UTC()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.users.WithTx(tx).Update(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update user: %w", err)
	}

	if err := s.audit.WithTx(tx).Record(ctx, domain.AuditEntry{
		EventType: domain.AuditAdminUpdateUser,
		UserID:    &id,
		Details:   describePatch(patch),
		IPAddress: actorIP,
		Timestamp: now,
	}); err != nil {
		return fmt.Errorf("record user update: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit user update: %w", err)
	}

	s.logger.Info("user updated", zap.Int64("user_id", id))
	return nil
}

// List returns all users without credential material.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for i := range users {
		users[i].PINDigest = ""
	}
	return users, nil
}

// describePatch names the changed fields without leaking their values.
func describePatch(patch port.UserPatch) string {
	fields := make([]string, 0, 5)
	if patch.Phone != nil {
		fields = append(fields, "phone_number")
	}
	if patch.Name != nil {
		fields = append(fields, "name")
	}
	if patch.Email != nil {
		fields = append(fields, "email")
	}
	if patch.Division != nil {
		fields = append(fields, "division")
	}
	if patch.PINDigest != nil {
		fields = append(fields, "pin")
	}
	return "updated fields: " + strings.Join(fields, ", ")
}
