package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrInvalid = errors.New("invalid configuration")

const (
	GatewayPayU      = "payu"
	GatewayInstamojo = "instamojo"
)

type Config struct {
	APIBaseURL     string
	PaymentGateway string

	Host              string
	Port              string
	ReadHeaderTimeout time.Duration
	LivenessEndpoint  string
	HTTPTimeout       time.Duration

	// Rates are in basis points: 500 is 5%.
	ServiceFeeBasisPoints int64
	AdvanceBasisPoints    int64

	CouponDisplayLimit int
	CouponCacheTTL     time.Duration
	SessionTTL         time.Duration
	RedisAddr          string
	RedisPassword      string

	LogLevel  string
	LogFormat string
}

func defaults() Config {
	return Config{
		APIBaseURL:            "https://api.gecestays.com",
		PaymentGateway:        GatewayPayU,
		Host:                  "localhost",
		Port:                  "8092",
		ReadHeaderTimeout:     20 * time.Second, //nolint:gomnd
		LivenessEndpoint:      "/liveness",
		HTTPTimeout:           15 * time.Second, //nolint:gomnd
		ServiceFeeBasisPoints: 500,              //nolint:gomnd
		AdvanceBasisPoints:    3000,             //nolint:gomnd
		CouponDisplayLimit:    4,                //nolint:gomnd
		CouponCacheTTL:        5 * time.Minute,  //nolint:gomnd
		SessionTTL:            2 * time.Hour,    //nolint:gomnd
		RedisAddr:             "",
		RedisPassword:         "",
		LogLevel:              "info",
		LogFormat:             "text",
	}
}

// Load reads an optional .env file and then the process environment.
// A missing .env file is not an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	return FromEnv(os.Getenv)
}

//nolint:cyclop
func FromEnv(getenv func(string) string) (Config, error) {
	c := defaults()

	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	str("API_BASE_URL", &c.APIBaseURL)
	str("PAYMENT_GATEWAY", &c.PaymentGateway)
	str("HOST", &c.Host)
	str("PORT", &c.Port)
	str("LIVENESS_ENDPOINT", &c.LivenessEndpoint)
	str("REDIS_ADDR", &c.RedisAddr)
	str("REDIS_PASSWORD", &c.RedisPassword)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)

	var err error

	if c.ReadHeaderTimeout, err = duration(getenv, "READ_HEADER_TIMEOUT", c.ReadHeaderTimeout); err != nil {
		return Config{}, err
	}

	if c.HTTPTimeout, err = duration(getenv, "HTTP_TIMEOUT", c.HTTPTimeout); err != nil {
		return Config{}, err
	}

	if c.CouponCacheTTL, err = duration(getenv, "COUPON_CACHE_TTL", c.CouponCacheTTL); err != nil {
		return Config{}, err
	}

	if c.SessionTTL, err = duration(getenv, "SESSION_TTL", c.SessionTTL); err != nil {
		return Config{}, err
	}

	if c.ServiceFeeBasisPoints, err = integer(getenv, "SERVICE_FEE_BPS", c.ServiceFeeBasisPoints); err != nil {
		return Config{}, err
	}

	if c.AdvanceBasisPoints, err = integer(getenv, "ADVANCE_BPS", c.AdvanceBasisPoints); err != nil {
		return Config{}, err
	}

	limit, err := integer(getenv, "COUPON_DISPLAY_LIMIT", int64(c.CouponDisplayLimit))
	if err != nil {
		return Config{}, err
	}

	c.CouponDisplayLimit = int(limit)
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")

	if err := c.validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func (c Config) validate() error {
	if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL %q must be an absolute url: %w", c.APIBaseURL, ErrInvalid)
	}

	if c.PaymentGateway != GatewayPayU && c.PaymentGateway != GatewayInstamojo {
		return fmt.Errorf("PAYMENT_GATEWAY %q must be payu or instamojo: %w", c.PaymentGateway, ErrInvalid)
	}

	if c.ServiceFeeBasisPoints < 0 || c.AdvanceBasisPoints < 0 || c.AdvanceBasisPoints > 10000 {
		return fmt.Errorf("fee and advance rates must be within 0..10000 bps: %w", ErrInvalid)
	}

	if c.CouponDisplayLimit < 1 {
		return fmt.Errorf("COUPON_DISPLAY_LIMIT must be positive: %w", ErrInvalid)
	}

	return nil
}

func duration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, ErrInvalid)
	}

	return d, nil
}

func integer(getenv func(string) string, key string, def int64) (int64, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, ErrInvalid)
	}

	return n, nil
}
