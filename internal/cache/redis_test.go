package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Errorf("failed to close redis client: %v", err)
		}
	})

	return NewRedisStore(client), mr
}

type payload struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	in := payload{ID: 550, Title: "Fight Club"}
	store.Set(ctx, "movie:550:full", in, 5*time.Minute)

	var out payload
	if !store.Get(ctx, "movie:550:full", &out) {
		t.Fatal("expected cache hit")
	}
	if out != in {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestRedisStore_MissOnUnsetKey(t *testing.T) {
	store, _ := setupTestStore(t)

	var out payload
	if store.Get(context.Background(), "movie:999:full", &out) {
		t.Error("expected miss for unset key")
	}
}

func TestRedisStore_MissAfterExpiry(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	store.Set(ctx, "popular:movies:page1:region", payload{ID: 1}, time.Minute)

	mr.FastForward(time.Minute + time.Second)

	var out payload
	if store.Get(ctx, "popular:movies:page1:region", &out) {
		t.Error("expected miss after TTL expiry")
	}
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	store.Set(ctx, "genres:movies", payload{ID: 28, Title: "Action"}, time.Minute)
	store.Delete(ctx, "genres:movies")

	var out payload
	if store.Get(ctx, "genres:movies", &out) {
		t.Error("expected miss after delete")
	}
}

func TestRedisStore_BackendDownDegradesToMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client)
	ctx := context.Background()

	store.Set(ctx, "k", payload{ID: 1}, time.Minute)
	mr.Close()

	// Reads fail, writes are dropped; the caller never sees an error.
	var out payload
	if store.Get(ctx, "k", &out) {
		t.Error("expected miss while backend is down")
	}
	store.Set(ctx, "k2", payload{ID: 2}, time.Minute)
	store.Delete(ctx, "k")
}

func TestNoop(t *testing.T) {
	var store Store = Noop{}
	ctx := context.Background()

	store.Set(ctx, "k", payload{ID: 1}, time.Minute)

	var out payload
	if store.Get(ctx, "k", &out) {
		t.Error("disabled cache must always miss")
	}
	store.Delete(ctx, "k")
}

func TestKey(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{"pagination and region", []string{"popular", "movies", "page1", "regionUS"}, "popular:movies:page1:regionUS"},
		{"single part", []string{"genres"}, "genres"},
		{"empty region slot still present", []string{"popular", "movies", "page2", "region"}, "popular:movies:page2:region"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.parts...); got != tt.want {
				t.Errorf("Key(%v) = %q, want %q", tt.parts, got, tt.want)
			}
		})
	}

	if Key("popular", "movies", "page1", "region") == Key("popular", "movies", "page2", "region") {
		t.Error("keys for different pages must not collide")
	}
}
