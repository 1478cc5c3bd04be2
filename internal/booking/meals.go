package booking

type MealCounts struct {
	Veg    int `json:"veg"`
	NonVeg int `json:"nonveg"`
	Jain   int `json:"jain"`
}

func SeedMeals(capacity int) MealCounts {
	return MealCounts{Veg: min(defaultAdultsPerRoom, max(1, capacity)), NonVeg: 0, Jain: 0}
}

func (m MealCounts) Total() int {
	return m.Veg + m.NonVeg + m.Jain
}

func (m MealCounts) get(kind MealKind) (int, bool) {
	switch kind {
	case MealVeg:
		return m.Veg, true
	case MealNonVeg:
		return m.NonVeg, true
	case MealJain:
		return m.Jain, true
	}

	return 0, false
}

func (m *MealCounts) set(kind MealKind, v int) {
	switch kind {
	case MealVeg:
		m.Veg = v
	case MealNonVeg:
		m.NonVeg = v
	case MealJain:
		m.Jain = v
	}
}

// Adjust returns the counts with delta applied to kind, floored at zero.
// The second result is false when the change would push the grand total
// above totalGuests; the counts are then returned unchanged.
func (m MealCounts) Adjust(kind MealKind, delta, totalGuests int) (MealCounts, bool) {
	cur, ok := m.get(kind)
	if !ok {
		return m, false
	}

	v := max(0, cur+delta)
	if m.Total()-cur+v > totalGuests {
		return m, false
	}

	m.set(kind, v)

	return m, true
}

// Reconcile rescales the counts to newTotal. A deficit goes to veg. A
// surplus is removed by largest-remainder apportionment, so the result
// always sums to newTotal exactly instead of drifting by independent
// per-bucket rounding.
func (m MealCounts) Reconcile(newTotal int) MealCounts {
	newTotal = max(0, newTotal)
	cur := m.Total()

	switch {
	case cur == newTotal:
		return m
	case cur < newTotal:
		m.Veg += newTotal - cur

		return m
	}

	counts := [3]int{m.Veg, m.NonVeg, m.Jain}

	var (
		shares    [3]int
		remainder [3]int
		assigned  int
	)

	for i, c := range counts {
		shares[i] = c * newTotal / cur
		remainder[i] = c * newTotal % cur
		assigned += shares[i]
	}

	// Ties go to the earlier bucket: veg, then nonveg, then jain.
	for ; assigned < newTotal; assigned++ {
		best := -1

		for i := range remainder {
			if remainder[i] < 0 {
				continue
			}

			if best == -1 || remainder[i] > remainder[best] {
				best = i
			}
		}

		shares[best]++
		remainder[best] = -1
	}

	return MealCounts{Veg: shares[0], NonVeg: shares[1], Jain: shares[2]}
}
