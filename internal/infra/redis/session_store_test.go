package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"wiki-quiz-engine/internal/app"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	store := NewSessionStore(client, app.NewSessionFactory(app.Sources{}, nil), time.Minute, nil)

	session := store.Create("s-1")
	if session.ID != "s-1" {
		t.Fatalf("unexpected session id %q", session.ID)
	}
	if !mr.Exists("wikiquiz:session:s-1") {
		t.Fatalf("expected redis key to be set")
	}
	if ttl := mr.TTL("wikiquiz:session:s-1"); ttl != time.Minute {
		t.Fatalf("expected ttl of one minute, got %v", ttl)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", store.Len())
	}

	store.Delete("s-1")
	if mr.Exists("wikiquiz:session:s-1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get("s-1"); ok {
		t.Fatalf("expected session removed")
	}
}

func TestSessionStoreTouchExtendsMarker(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), app.NewSessionFactory(app.Sources{}, nil), time.Minute, nil)
	store.Create("s-2")

	mr.FastForward(50 * time.Second)
	if err := store.Touch(context.Background(), "s-2"); err != nil {
		t.Fatalf("touch: %v", err)
	}
	if ttl := mr.TTL("wikiquiz:session:s-2"); ttl != time.Minute {
		t.Fatalf("expected ttl reset, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if mr.Exists("wikiquiz:session:s-2") {
		t.Fatalf("expected marker to expire")
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
