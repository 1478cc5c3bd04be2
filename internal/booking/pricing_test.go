package booking

import (
	"testing"
	"time"
)

func stay(checkIn string, nights int) DateRange {
	in, _ := time.Parse(DateLayout, checkIn)

	return DateRange{CheckIn: in, CheckOut: in.AddDate(0, 0, nights)}
}

//nolint:exhaustruct
func cottage() *Property {
	return &Property{ID: 7, Name: "Lakeside Cottage", Capacity: 4, Rooms: 3, AdultPrice: 1000, ChildPrice: 500}
}

func TestQuoteWithoutCoupon(t *testing.T) {
	q := DefaultPricing().Quote(cottage(), 2, 1, stay("2025-03-10", 3), 0)

	want := Quote{
		Nights:              3,
		Subtotal:            7500,
		ServiceFee:          375,
		TotalBeforeDiscount: 7875,
		Discount:            0,
		Total:               7875,
		AdvanceAmount:       2363,
		RemainingAmount:     5512,
	}

	if q != want {
		t.Fatalf("expected %+v, got %+v", want, q)
	}
}

func TestQuoteIsPure(t *testing.T) {
	p := DefaultPricing()
	dates := stay("2025-03-10", 2)

	if a, b := p.Quote(cottage(), 3, 0, dates, 200), p.Quote(cottage(), 3, 0, dates, 200); a != b {
		t.Fatalf("expected equal quotes, got %+v and %+v", a, b)
	}
}

func TestQuoteBounds(t *testing.T) {
	p := DefaultPricing()

	q := p.Quote(cottage(), 2, 0, stay("2025-03-10", 1), 1_000_000)
	if q.Discount != q.TotalBeforeDiscount || q.Total != 0 || q.AdvanceAmount != 0 {
		t.Fatalf("expected discount capped at the total, got %+v", q)
	}

	q = p.Quote(cottage(), 2, 0, stay("2025-03-10", 1), -50)
	if q.Discount != 0 {
		t.Fatalf("expected negative discount ignored, got %+v", q)
	}

	//nolint:exhaustruct
	q = p.Quote(cottage(), 2, 0, DateRange{}, 0)
	if q.Nights != 0 || q.Total != 0 {
		t.Fatalf("expected empty quote without dates, got %+v", q)
	}
}

func TestQuoteConfiguredRates(t *testing.T) {
	p := Pricing{ServiceFeeBasisPoints: 1000, AdvanceBasisPoints: 5000}

	q := p.Quote(cottage(), 1, 0, stay("2025-03-10", 1), 0)
	if q.ServiceFee != 100 || q.Total != 1100 || q.AdvanceAmount != 550 {
		t.Fatalf("unexpected quote: %+v", q)
	}
}
