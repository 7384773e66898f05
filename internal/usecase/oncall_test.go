package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Balerman2/CallShift/internal/infra/config"
)

func newOnCallFixture() (*OnCallService, *fakeOnCallRepo) {
	cfg := &config.AppConfig{}
	cfg.OnCall.DefaultDivision = "retic_water"

	oncall := newFakeOnCallRepo()
	return NewOnCallService(cfg, oncall), oncall
}

func TestCurrentReturnsOpenAssignment(t *testing.T) {
	svc, oncall := newOnCallFixture()
	oncall.seedOpen("sewer", 42, "Dana Fields", "+61400111222", time.Now().UTC())

	status, err := svc.Current(context.Background(), "sewer")
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if status.UserID != 42 || status.Name != "Dana Fields" {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestCurrentDefaultsDivision(t *testing.T) {
	svc, oncall := newOnCallFixture()
	oncall.seedOpen("retic_water", 9, "", "", time.Now().UTC())

	status, err := svc.Current(context.Background(), "")
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if status.Division != "retic_water" {
		t.Fatalf("expected default division, got %q", status.Division)
	}
}

func TestCurrentNoAssignment(t *testing.T) {
	svc, _ := newOnCallFixture()

	if _, err := svc.Current(context.Background(), "sewer"); !errors.Is(err, ErrNoOnCall) {
		t.Fatalf("expected ErrNoOnCall, got %v", err)
	}
}
