package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type cachedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, "user:"), mr
}

func TestCacheHelper_GetSet(t *testing.T) {
	ctx := context.Background()
	helper, mr := newTestHelper(t)

	t.Run("round trip", func(t *testing.T) {
		want := cachedUser{ID: 7, Username: "jdoe"}
		if err := helper.Set(ctx, "id:7", want, time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		var got cachedUser
		if err := helper.Get(ctx, "id:7", &got); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != want {
			t.Errorf("Get() = %+v, want %+v", got, want)
		}
	})

	t.Run("prefixed key", func(t *testing.T) {
		if !mr.Exists("user:id:7") {
			t.Error("expected key user:id:7 in redis")
		}
	})

	t.Run("miss", func(t *testing.T) {
		var got cachedUser
		err := helper.Get(ctx, "id:404", &got)
		if !errors.Is(err, ErrCacheNotFound) {
			t.Errorf("Get() error = %v, want ErrCacheNotFound", err)
		}
	})

	t.Run("expiry", func(t *testing.T) {
		if err := helper.Set(ctx, "id:8", cachedUser{ID: 8}, time.Second); err != nil {
			t.Fatal(err)
		}
		mr.FastForward(2 * time.Second)

		var got cachedUser
		if err := helper.Get(ctx, "id:8", &got); !errors.Is(err, ErrCacheNotFound) {
			t.Errorf("Get() after TTL error = %v, want ErrCacheNotFound", err)
		}
	})
}

func TestCacheHelper_DeleteAndExists(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestHelper(t)

	for _, key := range []string{"id:1", "id:2", "sub:abc"} {
		if err := helper.Set(ctx, key, cachedUser{ID: 1}, time.Minute); err != nil {
			t.Fatal(err)
		}
	}

	if ok, err := helper.Exists(ctx, "id:1"); err != nil || !ok {
		t.Errorf("Exists(id:1) = %v, %v; want true, nil", ok, err)
	}

	if err := helper.Delete(ctx, "id:1", "id:2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if ok, _ := helper.Exists(ctx, "id:1"); ok {
		t.Error("id:1 should be gone")
	}
	if ok, _ := helper.Exists(ctx, "sub:abc"); !ok {
		t.Error("sub:abc should survive")
	}

	// Deleting nothing is fine.
	if err := helper.Delete(ctx); err != nil {
		t.Errorf("Delete() with no keys error = %v", err)
	}
}

func TestCacheHelper_NilClient(t *testing.T) {
	ctx := context.Background()
	helper := NewCacheHelper(nil, "user:")

	if err := helper.Set(ctx, "id:1", cachedUser{ID: 1}, time.Minute); err != nil {
		t.Errorf("Set() with nil client error = %v, want nil", err)
	}

	var got cachedUser
	if err := helper.Get(ctx, "id:1", &got); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Get() error = %v, want ErrCacheNotAvailable", err)
	}

	if _, err := helper.Exists(ctx, "id:1"); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Exists() error = %v, want ErrCacheNotAvailable", err)
	}

	if err := helper.Delete(ctx, "id:1"); err != nil {
		t.Errorf("Delete() with nil client error = %v, want nil", err)
	}
}
