package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/adapters/redis"
)

type payload struct {
	Label string
	Score float64
}

func TestCache_SetGetDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	var out payload
	if ok, err := c.Get(ctx, "k", &out); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	in := payload{Label: "positive", Score: 0.91}
	if err := c.Set(ctx, "k", in, 60); err != nil {
		t.Fatalf("Set: %v", err)
	}
	ok, err := c.Get(ctx, "k", &out)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if out != in {
		t.Fatalf("got %+v want %+v", out, in)
	}

	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if ok, _ := c.Get(ctx, "k", &out); ok {
		t.Fatalf("expected miss after Del")
	}
}

func TestCache_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(2 * time.Second)

	var out string
	if ok, _ := c.Get(ctx, "k", &out); ok {
		t.Fatalf("expected expiry after TTL")
	}
}
