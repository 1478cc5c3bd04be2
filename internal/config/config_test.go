package config

import (
	"errors"
	"testing"
	"time"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	c, err := FromEnv(envOf(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.ServiceFeeBasisPoints != 500 || c.AdvanceBasisPoints != 3000 {
		t.Fatalf("unexpected rates: %+v", c)
	}

	if c.PaymentGateway != GatewayPayU {
		t.Fatalf("expected payu gateway, got %s", c.PaymentGateway)
	}

	if c.CouponDisplayLimit != 4 {
		t.Fatalf("expected display limit 4, got %d", c.CouponDisplayLimit)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	c, err := FromEnv(envOf(map[string]string{
		"API_BASE_URL":     "http://localhost:9000/",
		"PAYMENT_GATEWAY":  "instamojo",
		"SERVICE_FEE_BPS":  "1000",
		"ADVANCE_BPS":      "5000",
		"COUPON_CACHE_TTL": "30s",
		"SESSION_TTL":      "45m",
		"REDIS_ADDR":       "redis:6379",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.APIBaseURL != "http://localhost:9000" {
		t.Fatalf("trailing slash not trimmed: %s", c.APIBaseURL)
	}

	if c.ServiceFeeBasisPoints != 1000 || c.AdvanceBasisPoints != 5000 {
		t.Fatalf("unexpected rates: %+v", c)
	}

	if c.CouponCacheTTL != 30*time.Second {
		t.Fatalf("unexpected ttl: %v", c.CouponCacheTTL)
	}

	if c.SessionTTL != 45*time.Minute {
		t.Fatalf("unexpected session ttl: %v", c.SessionTTL)
	}

	if c.RedisAddr != "redis:6379" {
		t.Fatalf("unexpected redis addr: %s", c.RedisAddr)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"gateway":  {"PAYMENT_GATEWAY": "paypal"},
		"base url": {"API_BASE_URL": "not a url"},
		"advance":  {"ADVANCE_BPS": "12000"},
		"fee":      {"SERVICE_FEE_BPS": "five"},
		"ttl":      {"COUPON_CACHE_TTL": "forever"},
		"session":  {"SESSION_TTL": "1 day"},
		"limit":    {"COUPON_DISPLAY_LIMIT": "0"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := FromEnv(envOf(env)); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}
