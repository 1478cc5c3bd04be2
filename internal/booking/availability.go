package booking

import "time"

// MaxRoomsForSelection caps the room count by the property's rooms and, once
// known, by the fewest rooms free on any night of the stay.
func MaxRoomsForSelection(propertyRooms int, minAvailable *int) int {
	limit := propertyRooms
	if minAvailable != nil {
		limit = min(limit, *minAvailable)
	}

	return max(1, limit)
}

// Selected reports whether both ends of the range are set.
func (d DateRange) Selected() bool {
	return !d.CheckIn.IsZero() && !d.CheckOut.IsZero()
}

// Nights is zero for unset, equal or reversed dates.
func (d DateRange) Nights() int {
	if !d.Selected() {
		return 0
	}

	in, out := day(d.CheckIn), day(d.CheckOut)

	return max(0, int(out.Sub(in).Hours()/24)) //nolint:gomnd
}

// Dates lists the nights of the stay: every calendar day from check-in up to
// but excluding check-out.
func (d DateRange) Dates() []string {
	n := d.Nights()
	if n == 0 {
		return nil
	}

	out := make([]string, 0, n)
	start := day(d.CheckIn)

	for i := range n {
		out = append(out, start.AddDate(0, 0, i).Format(DateLayout))
	}

	return out
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
