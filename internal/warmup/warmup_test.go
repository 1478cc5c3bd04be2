package warmup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avstrong/lakeside/internal/booking"
	"github.com/avstrong/lakeside/internal/catalog"
	"github.com/avstrong/lakeside/internal/coupon"
	"github.com/avstrong/lakeside/internal/logger"
)

var errDown = errors.New("down")

type fakeCoupons struct {
	calls int
}

func (f *fakeCoupons) Available(context.Context) []coupon.Coupon {
	f.calls++

	return nil
}

type fakeLister struct {
	err error
}

func (f *fakeLister) List(context.Context, catalog.Filter) ([]booking.Property, error) {
	return nil, f.err
}

func TestUpLoadsCoupons(t *testing.T) {
	c := &fakeCoupons{}

	if err := Up(context.Background(), logger.Discard(), time.Second, c, &fakeLister{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.calls != 1 {
		t.Fatalf("expected coupons to be loaded once, got %d", c.calls)
	}
}

func TestUpToleratesRemoteFailure(t *testing.T) {
	if err := Up(context.Background(), logger.Discard(), time.Second, &fakeCoupons{}, &fakeLister{err: errDown}); err != nil {
		t.Fatalf("remote failure must not abort startup, got %v", err)
	}
}

func TestUpAbortsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Up(ctx, logger.Discard(), time.Second, &fakeCoupons{}, &fakeLister{err: errDown})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
