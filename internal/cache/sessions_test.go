package cache_test

import (
	"context"
	"testing"

	"github.com/geocoder89/taskhub/internal/cache"
	"github.com/geocoder89/taskhub/internal/repo/postgres"
)

type fakeSource struct {
	hashes map[string]string
	calls  int
}

func (f *fakeSource) Active(_ context.Context, jti string) (string, error) {
	f.calls++

	h, ok := f.hashes[jti]
	if !ok {
		return "", postgres.ErrSessionNotFound
	}
	return h, nil
}

// With no redis client the cache is a transparent passthrough.
func TestSessionsNilClientPassthrough(t *testing.T) {
	src := &fakeSource{hashes: map[string]string{"jti-1": "hash-1"}}
	s := cache.NewSessions(src, nil, 0)

	hash, err := s.Active(context.Background(), "jti-1")

	if err != nil || hash != "hash-1" {
		t.Fatalf("got (%q, %v)", hash, err)
	}

	if _, err := s.Active(context.Background(), "jti-2"); err != postgres.ErrSessionNotFound {
		t.Fatalf("got %v, want ErrSessionNotFound", err)
	}

	if src.calls != 2 {
		t.Fatalf("source called %d times, want 2", src.calls)
	}

	// Invalidate on a cacheless instance is a no-op, not a panic
	s.Invalidate(context.Background(), "jti-1")
}
