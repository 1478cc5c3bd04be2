package booking

const basisPoints = 10000

type Pricing struct {
	ServiceFeeBasisPoints int64
	AdvanceBasisPoints    int64
}

func DefaultPricing() Pricing {
	return Pricing{
		ServiceFeeBasisPoints: 500,  //nolint:gomnd
		AdvanceBasisPoints:    3000, //nolint:gomnd
	}
}

// Quote is pure: equal inputs give equal quotes.
func (p Pricing) Quote(prop *Property, adults, children int, dates DateRange, discount int64) Quote {
	nights := dates.Nights()
	subtotal := (int64(adults)*prop.AdultPrice + int64(children)*prop.ChildPrice) * int64(nights)
	subtotal = max(0, subtotal)
	fee := share(subtotal, p.ServiceFeeBasisPoints)
	before := subtotal + fee
	discount = max(0, min(discount, before))
	total := max(0, before-discount)
	advance := share(total, p.AdvanceBasisPoints)

	return Quote{
		Nights:              nights,
		Subtotal:            subtotal,
		ServiceFee:          fee,
		TotalBeforeDiscount: before,
		Discount:            discount,
		Total:               total,
		AdvanceAmount:       advance,
		RemainingAmount:     total - advance,
	}
}

func (p Pricing) Subtotal(prop *Property, adults, children int, dates DateRange) int64 {
	return p.Quote(prop, adults, children, dates, 0).Subtotal
}

// share is amount*bps/10000 rounded half up. amount is never negative here.
func share(amount, bps int64) int64 {
	return (amount*bps + basisPoints/2) / basisPoints //nolint:gomnd
}
