package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_SetIfAbsent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.SetIfAbsent(ctx, "evt-1", time.Minute)
	if err != nil {
		t.Fatalf("SetIfAbsent failed: %v", err)
	}
	if !first {
		t.Fatal("first writer must win")
	}

	second, err := store.SetIfAbsent(ctx, "evt-1", time.Minute)
	if err != nil {
		t.Fatalf("SetIfAbsent failed: %v", err)
	}
	if second {
		t.Fatal("second writer must lose while marker is live")
	}

	other, _ := store.SetIfAbsent(ctx, "evt-2", time.Minute)
	if !other {
		t.Fatal("different key must be independent")
	}
}

func TestMemoryStore_ExpiredMarkerReusable(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if first, _ := store.SetIfAbsent(ctx, "evt", time.Millisecond); !first {
		t.Fatal("first writer must win")
	}
	time.Sleep(5 * time.Millisecond)
	if again, _ := store.SetIfAbsent(ctx, "evt", time.Minute); !again {
		t.Fatal("expired marker must be claimable again")
	}
}
