package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/avstrong/lakeside/internal/coupon"
)

const couponsKey = "lakeside:coupons"

type Config struct {
	Addr     string
	Password string
	DB       int
}

// Cache shares the coupon list between service instances.
type Cache struct {
	client *redis.Client
}

func New(conf Config) *Cache {
	//nolint:exhaustruct
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr:     conf.Addr,
			Password: conf.Password,
			DB:       conf.DB,
		}),
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}

	return nil
}

func (c *Cache) Close() error {
	return c.client.Close() //nolint:wrapcheck
}

func (c *Cache) LoadCoupons(ctx context.Context) ([]coupon.Coupon, bool, error) {
	raw, err := c.client.Get(ctx, couponsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", couponsKey, err)
	}

	var coupons []coupon.Coupon

	if err := json.Unmarshal(raw, &coupons); err != nil {
		return nil, false, fmt.Errorf("decode cached coupons: %w", err)
	}

	return coupons, true, nil
}

func (c *Cache) StoreCoupons(ctx context.Context, coupons []coupon.Coupon, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(coupons)
	if err != nil {
		return fmt.Errorf("encode coupons: %w", err)
	}

	if err := c.client.Set(ctx, couponsKey, raw, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", couponsKey, err)
	}

	return nil
}
