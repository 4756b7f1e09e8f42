package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func init() { retryDelay = time.Millisecond }

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = (%v, %v, %v), want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

// exercise runs the shared contract against any backend.
func exercise(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		if _, hit, err := c.Get(ctx, "absent"); hit || err != nil {
			t.Errorf("Get(absent) hit=%v err=%v", hit, err)
		}
	})

	t.Run("set get delete", func(t *testing.T) {
		if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
			t.Fatalf("Set error: %v", err)
		}
		data, hit, err := c.Get(ctx, "k")
		if err != nil || !hit || string(data) != "v" {
			t.Fatalf("Get = (%q, %v, %v)", data, hit, err)
		}
		if err := c.Delete(ctx, "k"); err != nil {
			t.Fatalf("Delete error: %v", err)
		}
		if _, hit, _ := c.Get(ctx, "k"); hit {
			t.Error("entry still present after Delete")
		}
		if err := c.Delete(ctx, "k"); err != nil {
			t.Errorf("Delete of absent key error: %v", err)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		_ = c.Set(ctx, "k", []byte("one"), 0)
		_ = c.Set(ctx, "k", []byte("two"), 0)
		data, _, _ := c.Get(ctx, "k")
		if string(data) != "two" {
			t.Errorf("Get = %q, want two", data)
		}
	})

	t.Run("clear", func(t *testing.T) {
		_ = c.Set(ctx, "a", []byte("1"), 0)
		_ = c.Set(ctx, "b", []byte("2"), 0)
		if err := c.(Clearer).Clear(ctx); err != nil {
			t.Fatalf("Clear error: %v", err)
		}
		for _, k := range []string{"a", "b"} {
			if _, hit, _ := c.Get(ctx, k); hit {
				t.Errorf("%s survived Clear", k)
			}
		}
	})
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	exercise(t, c)
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry file not removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("k")
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRedisCache(t *testing.T) {
	_, client := newMiniredis(t)
	c := NewRedisCacheFromClient(client, "drawctl:")
	defer c.Close()
	exercise(t, c)
}

func TestRedisCachePrefixAndTTL(t *testing.T) {
	ctx := context.Background()
	mr, client := newMiniredis(t)
	c := NewRedisCacheFromClient(client, "drawctl:")
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("drawctl:k") {
		t.Fatal("key not stored under prefix")
	}
	if ttl := mr.TTL("drawctl:k"); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}

	_ = mr.Set("other:k", "keep")
	if err := c.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("other:k") {
		t.Error("Clear removed a key outside the prefix")
	}

	mr.FastForward(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired key returned")
	}
}

func TestNewRedisCacheUnavailable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := NewRedisCache(ctx, "redis://127.0.0.1:1/0", "")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
	if _, err := NewRedisCache(ctx, "not a url", ""); err == nil {
		t.Error("expected parse error")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should hash differently")
	}
	if len(h1) != 64 {
		t.Errorf("len = %d, want 64", len(h1))
	}
}

func TestKeyers(t *testing.T) {
	k := NewDefaultKeyer()
	a := k.LayoutKey("abc", LayoutKeyOpts{Algorithm: "hierarchical", Direction: "top-down"})
	b := k.LayoutKey("abc", LayoutKeyOpts{Algorithm: "hierarchical", Direction: "left-right"})
	c := k.LayoutKey("abd", LayoutKeyOpts{Algorithm: "hierarchical", Direction: "top-down"})
	if a == b || a == c {
		t.Error("distinct inputs should produce distinct keys")
	}
	if !strings.HasPrefix(a, "layout:") {
		t.Errorf("key %q lacks layout prefix", a)
	}

	scoped := NewScopedKeyer(nil, "drawctl:")
	if got := scoped.LayoutKey("abc", LayoutKeyOpts{Algorithm: "hierarchical", Direction: "top-down"}); got != "drawctl:"+a {
		t.Errorf("scoped key = %q", got)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	errBoom := errors.New("boom")

	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, true, 1, false},
		{"permanent", 5, false, 1, true},
		{"recovers", 1, true, 2, false},
		{"exhausted", 5, true, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.failures {
					if tt.retryable {
						return Retryable(errBoom)
					}
					return errBoom
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error { return Retryable(ErrUnavailable) })
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
