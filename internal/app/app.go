package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/avstrong/lakeside/internal/backend"
	"github.com/avstrong/lakeside/internal/booking"
	"github.com/avstrong/lakeside/internal/catalog"
	"github.com/avstrong/lakeside/internal/config"
	"github.com/avstrong/lakeside/internal/coupon"
	"github.com/avstrong/lakeside/internal/idgen/uuidgen"
	"github.com/avstrong/lakeside/internal/logger"
	"github.com/avstrong/lakeside/internal/storage/memory"
	"github.com/avstrong/lakeside/internal/storage/rediscache"
	"github.com/avstrong/lakeside/internal/transport/web"
	"github.com/avstrong/lakeside/internal/warmup"
)

type couponCache interface {
	LoadCoupons(ctx context.Context) ([]coupon.Coupon, bool, error)
	StoreCoupons(ctx context.Context, coupons []coupon.Coupon, ttl time.Duration) error
}

//nolint:funlen
func Run(conf config.Config, l *logger.Logger) error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)
	defer cancel()

	client := backend.New(backend.Config{
		L:              l,
		BaseURL:        conf.APIBaseURL,
		PaymentGateway: conf.PaymentGateway,
		Timeout:        conf.HTTPTimeout,
		HTTPClient:     nil,
	})

	storage := memory.New(memory.Config{L: l, Now: nil, SessionTTL: conf.SessionTTL})

	var cache couponCache = storage

	if conf.RedisAddr != "" {
		redisCache := rediscache.New(rediscache.Config{Addr: conf.RedisAddr, Password: conf.RedisPassword, DB: 0})
		defer func() {
			if err := redisCache.Close(); err != nil {
				l.LogWarnf("Failed to close redis client: %v", err.Error())
			}
		}()

		if err := redisCache.Ping(ctx); err != nil {
			l.LogWarnf("Redis is unreachable, coupon list is cached in memory: %v", err.Error())
		} else {
			cache = redisCache

			l.LogInfo("Coupon list is cached in redis at %s", conf.RedisAddr)
		}
	}

	coupons := coupon.New(coupon.Config{
		L:      l,
		Source: client,
		Cache:  cache,
		TTL:    conf.CouponCacheTTL,
		Now:    nil,
	})

	catalogService := catalog.New(catalog.Config{L: l, Source: client, Shuffle: nil})

	if err := warmup.Up(ctx, l, conf.HTTPTimeout, coupons, catalogService); err != nil {
		return fmt.Errorf("warm up: %w", err)
	}

	bookManager := booking.New(booking.Config{
		L:            l,
		Storage:      storage,
		IDGenerator:  uuidgen.New(),
		Properties:   client,
		Availability: client,
		Coupons:      coupons,
		Bookings:     client,
		Payments:     client,
		Pricing: booking.Pricing{
			ServiceFeeBasisPoints: conf.ServiceFeeBasisPoints,
			AdvanceBasisPoints:    conf.AdvanceBasisPoints,
		},
		CouponDisplayLimit: conf.CouponDisplayLimit,
		Now:                nil,
	})

	webConf := web.Conf{
		L:                 l,
		ServerLogger:      l.StdLogger(),
		Host:              conf.Host,
		Port:              conf.Port,
		ReadHeaderTimeout: conf.ReadHeaderTimeout,
		LivenessEndpoint:  conf.LivenessEndpoint,
	}

	srv, err := web.New(ctx, webConf, bookManager, catalogService)
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	//nolint:contextcheck
	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*4) //nolint:gomnd
		defer cancel()

		if err := srv.Srv().Shutdown(ctx); err != nil {
			l.LogErrorf("Failed to stop http server: %v", err.Error())
		}
	}()

	l.LogInfo("Application is running on %v:%v against %s...", webConf.Host, webConf.Port, conf.APIBaseURL)

	if err := srv.Srv().ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		l.LogErrorf("Failed to run http server: %v", err.Error())

		cancel()
	}

	l.LogInfo("Application stopped gracefully")

	return nil
}
