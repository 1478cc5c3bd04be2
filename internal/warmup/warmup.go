package warmup

import (
	"context"
	"fmt"
	"time"

	"github.com/avstrong/lakeside/internal/booking"
	"github.com/avstrong/lakeside/internal/catalog"
	"github.com/avstrong/lakeside/internal/coupon"
	"github.com/avstrong/lakeside/internal/logger"
)

type couponLoader interface {
	Available(ctx context.Context) []coupon.Coupon
}

type propertyLister interface {
	List(ctx context.Context, f catalog.Filter) ([]booking.Property, error)
}

// Up fills the coupon cache and probes the property listing before the
// server starts taking traffic. An unreachable remote API is logged, not
// fatal; only a cancelled ctx aborts startup.
func Up(ctx context.Context, l *logger.Logger, timeout time.Duration, coupons couponLoader, properties propertyLister) error {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	l.LogInfo("Coupon cache warmed up with %d coupons", len(coupons.Available(probeCtx)))

	//nolint:exhaustruct
	listed, err := properties.List(probeCtx, catalog.Filter{})
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("warm up: %w", ctx.Err())
		}

		l.LogWarnf("Property listing is unavailable at startup: %v", err.Error())

		return nil
	}

	l.LogInfo("Remote API reachable, %d properties available", len(listed))

	return nil
}
