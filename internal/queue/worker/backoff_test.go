package worker_test

import (
	"testing"
	"time"

	"github.com/geocoder89/taskhub/internal/queue/worker"
)

func TestExponentialBackoff(t *testing.T) {
	const jitter = 250 * time.Millisecond

	tests := []struct {
		attempt int
		base    time.Duration
	}{
		{attempt: 0, base: 2 * time.Second},
		{attempt: 1, base: 4 * time.Second},
		{attempt: 2, base: 8 * time.Second},
		{attempt: 5, base: 64 * time.Second},
	}

	for _, tt := range tests {
		got := worker.ExponentialBackoff(tt.attempt)

		if got < tt.base || got > tt.base+jitter {
			t.Fatalf("attempt %d: got %v, want within [%v, %v]", tt.attempt, got, tt.base, tt.base+jitter)
		}
	}
}

func TestExponentialBackoffCapped(t *testing.T) {
	capDelay := 5 * time.Minute
	jitter := 250 * time.Millisecond

	for _, attempt := range []int{10, 20, 40} {
		got := worker.ExponentialBackoff(attempt)

		if got > capDelay+jitter {
			t.Fatalf("attempt %d: got %v, want at most %v", attempt, got, capDelay+jitter)
		}
	}
}
