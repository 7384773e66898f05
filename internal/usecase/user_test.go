package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/Balerman2/CallShift/internal/core/domain"
	"github.com/Balerman2/CallShift/internal/infra/security"
	"github.com/Balerman2/CallShift/internal/repository"
)

func newUserFixture(t *testing.T) (*UserService, *fakeDB, *fakeUserRepo, *fakeAuditRepo, *fakePublisher) {
	db := &fakeDB{}
	users := newFakeUserRepo()
	audit := &fakeAuditRepo{}
	publisher := &fakePublisher{}
	hasher := security.NewPINHasher("test_salt")

	svc := NewUserService(db, users, audit, hasher, publisher, zaptest.NewLogger(t))
	return svc, db, users, audit, publisher
}

func TestCreateUser(t *testing.T) {
	svc, db, users, audit, publisher := newUserFixture(t)

	created, err := svc.Create(context.Background(), CreateUserInput{
		PIN:      "1234",
		Phone:    "+61400111222",
		Name:     "Dana Fields",
		Division: "retic_water",
	}, "192.168.1.9")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if created.ID == 0 {
		t.Error("expected assigned user id")
	}
	if created.PINDigest == "" || created.PINDigest == "1234" {
		t.Error("pin must be stored as a digest")
	}
	if !db.tx.committed {
		t.Error("creation transaction must commit")
	}
	if len(users.created) != 1 {
		t.Fatalf("expected one stored user, got %d", len(users.created))
	}

	entries := audit.byType(domain.AuditUserCreated)
	if len(entries) != 1 {
		t.Fatalf("expected one user_created entry, got %d", len(entries))
	}
	if entries[0].UserID == nil || *entries[0].UserID != created.ID {
		t.Errorf("audit entry must reference the new user, got %v", entries[0].UserID)
	}

	if len(publisher.userEvents) != 1 {
		t.Fatalf("expected one published event, got %d", len(publisher.userEvents))
	}
	if publisher.userEvents[0].UserID != created.ID {
		t.Errorf("unexpected event user id %d", publisher.userEvents[0].UserID)
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc, db, _, _, _ := newUserFixture(t)

	cases := []struct {
		name  string
		input CreateUserInput
	}{
		{"missing pin", CreateUserInput{Phone: "+614", Name: "A", Division: "sewer"}},
		{"missing phone", CreateUserInput{PIN: "1234", Name: "A", Division: "sewer"}},
		{"missing name", CreateUserInput{PIN: "1234", Phone: "+614", Division: "sewer"}},
		{"missing division", CreateUserInput{PIN: "1234", Phone: "+614", Name: "A"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input, "127.0.0.1")
			if err == nil {
				t.Fatal("expected validation error")
			}
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
	if db.tx != nil {
		t.Error("validation failures must not start a transaction")
	}
}

func TestCreateUserStorageErrorIsNotValidation(t *testing.T) {
	svc, db, _, _, _ := newUserFixture(t)
	db.beginErr = errBoom

	_, err := svc.Create(context.Background(), CreateUserInput{
		PIN:      "1234",
		Phone:    "+61400111222",
		Name:     "Dana Fields",
		Division: "retic_water",
	}, "127.0.0.1")
	if err == nil {
		t.Fatal("expected storage error")
	}
	var verr ValidationError
	if errors.As(err, &verr) {
		t.Fatalf("storage failure must not classify as validation error, got %v", err)
	}
}

func TestUpdateUserRehashesPIN(t *testing.T) {
	svc, db, users, audit, _ := newUserFixture(t)

	pin := "5678"
	name := "New Name"
	if err := svc.Update(context.Background(), 42, UpdateUserInput{PIN: &pin, Name: &name}, "192.168.1.9"); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	patch, ok := users.patches[42]
	if !ok {
		t.Fatal("expected stored patch for user 42")
	}
	if patch.PINDigest == nil || *patch.PINDigest == pin {
		t.Error("pin must be re-hashed before storage")
	}
	if patch.Name == nil || *patch.Name != "New Name" {
		t.Errorf("unexpected name patch %v", patch.Name)
	}
	if !db.tx.committed {
		t.Error("update transaction must commit")
	}

	entries := audit.byType(domain.AuditAdminUpdateUser)
	if len(entries) != 1 {
		t.Fatalf("expected one admin_update_user entry, got %d", len(entries))
	}
	if entries[0].Details == "" {
		t.Error("audit entry must name the changed fields")
	}
}

func TestUpdateUserEmptyPatch(t *testing.T) {
	svc, _, _, _, _ := newUserFixture(t)

	if err := svc.Update(context.Background(), 42, UpdateUserInput{}, "127.0.0.1"); !errors.Is(err, ErrEmptyUpdate) {
		t.Fatalf("expected ErrEmptyUpdate, got %v", err)
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	svc, _, users, _, _ := newUserFixture(t)
	users.updateErr = repository.ErrNotFound

	name := "X"
	if err := svc.Update(context.Background(), 99, UpdateUserInput{Name: &name}, "127.0.0.1"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestListStripsDigests(t *testing.T) {
	svc, _, users, _, _ := newUserFixture(t)
	users.users = []domain.User{
		{ID: 1, Name: "A", PINDigest: "deadbeef"},
		{ID: 2, Name: "B", PINDigest: "cafebabe"},
	}

	listed, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected two users, got %d", len(listed))
	}
	for _, u := range listed {
		if u.PINDigest != "" {
			t.Errorf("user %d still carries a digest", u.ID)
		}
	}
}
