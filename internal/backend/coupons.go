package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/avstrong/lakeside/internal/coupon"
)

//nolint:gochecknoglobals
var expiryLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"}

type rawCoupon struct {
	ID                number `json:"id"`
	Code              string `json:"code"                  validate:"notblank"`
	DiscountType      string `json:"discountType"          validate:"oneof=fixed percentage"`
	DiscountTypeAlt   string `json:"discount_type"`
	Discount          number `json:"discount"`
	MinAmount         number `json:"minAmount"`
	MinAmountAlt      number `json:"min_amount"`
	MaxDiscount       number `json:"maxDiscount"`
	MaxDiscountAlt    number `json:"max_discount"`
	ExpiryDate        string `json:"expiryDate"            validate:"notblank"`
	ExpiryDateAlt     string `json:"expiry_date"`
	Active            flag   `json:"active"`
	AccommodationType string `json:"accommodationType"`
	AccommodationAlt  string `json:"accommodation_type"`
}

func newCouponValidator() *validator.Validate {
	v := validator.New()

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	return v
}

//nolint:gochecknoglobals
var couponValidate = newCouponValidator()

var errBadExpiry = errors.New("unparseable expiry date")

func (r *rawCoupon) normalize() {
	r.Code = strings.TrimSpace(r.Code)
	r.DiscountType = strings.ToLower(firstString(r.DiscountType, r.DiscountTypeAlt))
	r.ExpiryDate = firstString(r.ExpiryDate, r.ExpiryDateAlt)
	r.AccommodationType = firstString(r.AccommodationType, r.AccommodationAlt)
}

func (r *rawCoupon) coupon() (coupon.Coupon, error) {
	r.normalize()

	if err := couponValidate.Struct(r); err != nil {
		return coupon.Coupon{}, fmt.Errorf("coupon %q: %w", r.Code, err)
	}

	expiry, err := parseExpiry(r.ExpiryDate)
	if err != nil {
		return coupon.Coupon{}, fmt.Errorf("coupon %q: %w", r.Code, err)
	}

	var maxDiscount *float64

	if m := firstGiven(r.MaxDiscount, r.MaxDiscountAlt); m.set {
		v := m.value
		maxDiscount = &v
	}

	return coupon.Coupon{
		ID:                r.ID.int(),
		Code:              r.Code,
		DiscountType:      coupon.DiscountType(r.DiscountType),
		Discount:          r.Discount.value,
		MinAmount:         firstNumber(r.MinAmount, r.MinAmountAlt).value,
		MaxDiscount:       maxDiscount,
		ExpiryDate:        expiry,
		Active:            r.Active.value,
		AccommodationType: r.AccommodationType,
	}, nil
}

func parseExpiry(s string) (time.Time, error) {
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%q: %w", s, errBadExpiry)
}

// GetCoupons lists every coupon the remote API knows. A non-2xx answer is
// read as "no coupons"; malformed entries are skipped.
func (c *Client) GetCoupons(ctx context.Context) ([]coupon.Coupon, error) {
	raw, err := c.do(ctx, http.MethodGet, "/admin/coupons", nil)
	if err != nil {
		var re *RemoteError
		if errors.As(err, &re) {
			c.l.LogWarnf("coupons answered with status %d, treating as empty", re.StatusCode)

			return []coupon.Coupon{}, nil
		}

		return nil, fmt.Errorf("get coupons: %w", err)
	}

	data, err := unwrapData(raw)
	if err != nil {
		return nil, fmt.Errorf("get coupons: %w", err)
	}

	var items []rawCoupon

	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode coupons: %w", err)
	}

	out := make([]coupon.Coupon, 0, len(items))

	for i := range items {
		cp, err := items[i].coupon()
		if err != nil {
			c.l.LogWarnf("skip coupon: %v", err)

			continue
		}

		out = append(out, cp)
	}

	return out, nil
}
