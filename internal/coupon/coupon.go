package coupon

import (
	"math"
	"strings"
	"time"
)

type DiscountType string

const (
	Fixed      DiscountType = "fixed"
	Percentage DiscountType = "percentage"
)

const accommodationTypeAll = "all"

type Coupon struct {
	ID                int          `json:"id"`
	Code              string       `json:"code"`
	DiscountType      DiscountType `json:"discount_type"`
	Discount          float64      `json:"discount"`
	MinAmount         float64      `json:"min_amount"`
	MaxDiscount       *float64     `json:"max_discount,omitempty"`
	ExpiryDate        time.Time    `json:"expiry_date"`
	Active            bool         `json:"active"`
	AccommodationType string       `json:"accommodation_type"`
}

// Input is everything a coupon is checked against.
type Input struct {
	Code         string
	PropertyName string
	Subtotal     int64
	HasDates     bool
	Now          time.Time
}

// Usable reports whether the coupon survives the fetch-time filter.
func (c *Coupon) Usable(now time.Time) bool {
	return c.Active && c.ExpiryDate.After(now)
}

func (c *Coupon) appliesToAll() bool {
	return strings.EqualFold(strings.TrimSpace(c.AccommodationType), accommodationTypeAll)
}

func (c *Coupon) appliesTo(propertyName string) bool {
	return c.appliesToAll() || strings.TrimSpace(c.AccommodationType) == strings.TrimSpace(propertyName)
}

// Check runs the per-coupon rules in order. Lookup rules (empty code, dates,
// unknown code) are handled by Apply.
func (c *Coupon) Check(in Input) error {
	if !c.Active {
		return reject(ReasonInactive, c)
	}

	if c.ExpiryDate.Before(in.Now) {
		return reject(ReasonExpired, c)
	}

	if !c.appliesTo(in.PropertyName) {
		return reject(ReasonWrongProperty, c)
	}

	if float64(in.Subtotal) < c.MinAmount {
		return reject(ReasonBelowMinimum, c)
	}

	return nil
}

// DiscountFor never returns more than subtotal and never less than zero.
// Fractional amounts are rounded half away from zero.
func (c *Coupon) DiscountFor(subtotal int64) int64 {
	if subtotal <= 0 {
		return 0
	}

	var d float64

	switch c.DiscountType {
	case Fixed:
		d = c.Discount
	case Percentage:
		d = float64(subtotal) * c.Discount / 100 //nolint:gomnd
		if c.MaxDiscount != nil {
			d = math.Min(d, *c.MaxDiscount)
		}
	}

	d = math.Min(d, float64(subtotal))
	if d <= 0 {
		return 0
	}

	return int64(math.Round(d))
}

// Find matches code case-insensitively after trimming.
func Find(coupons []Coupon, code string) (Coupon, bool) {
	code = strings.TrimSpace(code)

	for _, c := range coupons {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}

	return Coupon{}, false
}

// Apply validates code against coupons and returns the matched coupon with
// the discount it grants on in.Subtotal.
func Apply(coupons []Coupon, in Input) (Coupon, int64, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return Coupon{}, 0, reject(ReasonEmptyCode, nil)
	}

	if !in.HasDates {
		return Coupon{}, 0, reject(ReasonDatesRequired, nil)
	}

	c, ok := Find(coupons, code)
	if !ok {
		return Coupon{}, 0, reject(ReasonInvalidCode, nil)
	}

	if err := c.Check(in); err != nil {
		return Coupon{}, 0, err
	}

	return c, c.DiscountFor(in.Subtotal), nil
}

// Eligible lists coupons meant for propertyName first, then coupons valid
// everywhere whose code is not already listed, capped at limit.
func Eligible(coupons []Coupon, propertyName string, limit int) []Coupon {
	res := make([]Coupon, 0, limit)
	listed := make(map[string]struct{})
	name := strings.TrimSpace(propertyName)

	for i := range coupons {
		if len(res) == limit {
			return res
		}

		c := coupons[i]
		if c.appliesToAll() || strings.TrimSpace(c.AccommodationType) != name {
			continue
		}

		listed[strings.ToUpper(c.Code)] = struct{}{}
		res = append(res, c)
	}

	for i := range coupons {
		if len(res) == limit {
			return res
		}

		c := coupons[i]
		if !c.appliesToAll() {
			continue
		}

		if _, ok := listed[strings.ToUpper(c.Code)]; ok {
			continue
		}

		res = append(res, c)
	}

	return res
}
