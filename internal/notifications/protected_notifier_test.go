package notifications_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/taskhub/internal/notifications"
)

type stubNotifier struct {
	err   error
	calls int
}

func (s *stubNotifier) SendCollaboratorInvite(context.Context, notifications.SendCollaboratorInviteInput) error {
	s.calls++
	return s.err
}

var errRelayDown = errors.New("relay down")

func sampleInput() notifications.SendCollaboratorInviteInput {
	return notifications.SendCollaboratorInviteInput{
		Email:     "helper@example.com",
		TaskID:    "task-1",
		TaskTitle: "Ship it",
	}
}

func TestProtectedNotifierPassesThrough(t *testing.T) {
	inner := &stubNotifier{}
	n := notifications.NewProtectedNotifier(inner, notifications.ProtectedNotifierConfig{})

	if err := n.SendCollaboratorInvite(context.Background(), sampleInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("inner called %d times", inner.calls)
	}
}

func TestProtectedNotifierOpensAfterThreshold(t *testing.T) {
	inner := &stubNotifier{err: errRelayDown}
	n := notifications.NewProtectedNotifier(inner, notifications.ProtectedNotifierConfig{
		FailureThreshold: 3,
		Cooldown:         time.Hour,
	})

	for i := 0; i < 3; i++ {
		if err := n.SendCollaboratorInvite(context.Background(), sampleInput()); !errors.Is(err, errRelayDown) {
			t.Fatalf("call %d: got %v", i, err)
		}
	}

	// circuit is open now, the inner notifier is no longer reached
	if err := n.SendCollaboratorInvite(context.Background(), sampleInput()); !errors.Is(err, notifications.ErrCircuitOpen) {
		t.Fatalf("got %v, want ErrCircuitOpen", err)
	}
	if inner.calls != 3 {
		t.Fatalf("inner called %d times, want 3", inner.calls)
	}
}

func TestProtectedNotifierHalfOpenRecovery(t *testing.T) {
	inner := &stubNotifier{err: errRelayDown}
	n := notifications.NewProtectedNotifier(inner, notifications.ProtectedNotifierConfig{
		FailureThreshold: 1,
		Cooldown:         10 * time.Millisecond,
	})

	if err := n.SendCollaboratorInvite(context.Background(), sampleInput()); !errors.Is(err, errRelayDown) {
		t.Fatalf("got %v", err)
	}
	if err := n.SendCollaboratorInvite(context.Background(), sampleInput()); !errors.Is(err, notifications.ErrCircuitOpen) {
		t.Fatalf("got %v, want ErrCircuitOpen", err)
	}

	time.Sleep(20 * time.Millisecond)

	// the relay recovered; the half-open trial closes the circuit
	inner.err = nil

	if err := n.SendCollaboratorInvite(context.Background(), sampleInput()); err != nil {
		t.Fatalf("half-open trial: %v", err)
	}
	if err := n.SendCollaboratorInvite(context.Background(), sampleInput()); err != nil {
		t.Fatalf("after close: %v", err)
	}
}

func TestProtectedNotifierReopensOnHalfOpenFailure(t *testing.T) {
	inner := &stubNotifier{err: errRelayDown}
	n := notifications.NewProtectedNotifier(inner, notifications.ProtectedNotifierConfig{
		FailureThreshold: 1,
		Cooldown:         10 * time.Millisecond,
	})

	_ = n.SendCollaboratorInvite(context.Background(), sampleInput())

	time.Sleep(20 * time.Millisecond)

	// still failing during the trial call
	if err := n.SendCollaboratorInvite(context.Background(), sampleInput()); !errors.Is(err, errRelayDown) {
		t.Fatalf("got %v", err)
	}

	// immediately open again
	if err := n.SendCollaboratorInvite(context.Background(), sampleInput()); !errors.Is(err, notifications.ErrCircuitOpen) {
		t.Fatalf("got %v, want ErrCircuitOpen", err)
	}
}
