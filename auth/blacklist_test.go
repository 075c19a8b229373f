package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/calc_backend/config"
)

func TestNewTokenBlacklist_PicksImplementationFromSettings(t *testing.T) {
	if _, ok := NewTokenBlacklist(config.Settings{}).(*MemoryBlacklist); !ok {
		t.Fatal("expected in-process blacklist when no redis address is configured")
	}
	if _, ok := NewTokenBlacklist(config.Settings{RedisAddress: "127.0.0.1:6379"}).(*RedisBlacklist); !ok {
		t.Fatal("expected redis blacklist when a redis address is configured")
	}
}

func TestMemoryBlacklist(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBlacklist()

	ok, err := b.Contains(ctx, "jti-1")
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if ok {
		t.Fatal("fresh blacklist must not contain anything")
	}

	if err := b.Add(ctx, "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	ok, err = b.Contains(ctx, "jti-1")
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if !ok {
		t.Fatal("added jti must be reported as revoked")
	}

	ok, _ = b.Contains(ctx, "jti-2")
	if ok {
		t.Fatal("unrelated jti must not be revoked")
	}
}

func TestMemoryBlacklist_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBlacklist()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			jti := string(rune('a' + n%8))
			_ = b.Add(ctx, jti, time.Now().Add(time.Minute))
			_, _ = b.Contains(ctx, jti)
		}(i)
	}
	wg.Wait()
	for n := 0; n < 8; n++ {
		ok, _ := b.Contains(ctx, string(rune('a'+n)))
		if !ok {
			t.Fatalf("jti %q lost under concurrent writes", string(rune('a'+n)))
		}
	}
}
