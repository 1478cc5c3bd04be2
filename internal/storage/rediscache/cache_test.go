package rediscache

import (
	"context"
	"testing"
	"time"
)

func TestLoadCouponsUnreachableServer(t *testing.T) {
	c := New(Config{Addr: "127.0.0.1:1", Password: "", DB: 0})
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	coupons, ok, err := c.LoadCoupons(ctx)
	if err == nil {
		t.Fatalf("expected error from unreachable redis")
	}

	if ok || coupons != nil {
		t.Fatalf("expected cache miss, got ok=%v coupons=%v", ok, coupons)
	}
}

func TestStoreCouponsZeroTTLIsNoop(t *testing.T) {
	c := New(Config{Addr: "127.0.0.1:1", Password: "", DB: 0})
	defer c.Close()

	if err := c.StoreCoupons(context.Background(), nil, 0); err != nil {
		t.Fatalf("zero ttl must not reach redis: %v", err)
	}
}
