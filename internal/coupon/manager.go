package coupon

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/avstrong/lakeside/internal/logger"
)

type source interface {
	GetCoupons(ctx context.Context) ([]Coupon, error)
}

type cache interface {
	LoadCoupons(ctx context.Context) ([]Coupon, bool, error)
	StoreCoupons(ctx context.Context, coupons []Coupon, ttl time.Duration) error
}

type Config struct {
	L      *logger.Logger
	Source source
	Cache  cache
	TTL    time.Duration
	Now    func() time.Time
}

// Manager serves the coupon list shown to booking sessions.
type Manager struct {
	l      *logger.Logger
	source source
	cache  cache
	ttl    time.Duration
	now    func() time.Time
	group  singleflight.Group
}

func New(conf Config) *Manager {
	now := conf.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	//nolint:exhaustruct
	return &Manager{
		l:      conf.L,
		source: conf.Source,
		cache:  conf.Cache,
		ttl:    conf.TTL,
		now:    now,
	}
}

// Available returns active, unexpired coupons. A failing source yields an
// empty list.
func (m *Manager) Available(ctx context.Context) []Coupon {
	coupons, err := m.load(ctx)
	if err != nil {
		m.l.LogErrorf("Could not fetch coupons: %v", err.Error())

		return []Coupon{}
	}

	now := m.now()
	res := make([]Coupon, 0, len(coupons))

	for i := range coupons {
		if coupons[i].Usable(now) {
			res = append(res, coupons[i])
		}
	}

	return res
}

func (m *Manager) load(ctx context.Context) ([]Coupon, error) {
	if m.cache != nil {
		coupons, ok, err := m.cache.LoadCoupons(ctx)
		if err != nil {
			m.l.LogWarnf("Could not read coupon cache: %v", err.Error())
		}

		if ok {
			return coupons, nil
		}
	}

	v, err, _ := m.group.Do("coupons", func() (any, error) {
		coupons, err := m.source.GetCoupons(ctx)
		if err != nil {
			return nil, fmt.Errorf("get coupons from source: %w", err)
		}

		if m.cache != nil {
			if err := m.cache.StoreCoupons(ctx, coupons, m.ttl); err != nil {
				m.l.LogWarnf("Could not store coupon cache: %v", err.Error())
			}
		}

		return coupons, nil
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	coupons, _ := v.([]Coupon)

	return coupons, nil
}
