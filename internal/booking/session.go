package booking

import (
	"strings"
	"sync"
	"time"

	"github.com/avstrong/lakeside/internal/coupon"
)

type SessionConfig struct {
	ID                 string
	Property           Property
	Coupons            []coupon.Coupon
	Pricing            Pricing
	CouponDisplayLimit int
	Now                func() time.Time
}

// Session is the booking configuration and pricing engine for one visitor.
// All derived values (room clamp, meal totals, coupon validity, quote) are
// brought back in line after every mutation.
type Session struct {
	mu sync.Mutex

	id           string
	pricing      Pricing
	displayLimit int
	now          func() time.Time

	property     Property
	rooms        *Rooms
	meals        MealCounts
	dates        DateRange
	minAvailable *int
	// availabilityGen tags availability requests; answers for an older
	// generation are dropped.
	availabilityGen uint64

	coupons       []coupon.Coupon
	couponCode    string
	applied       *coupon.Coupon
	couponMessage string

	guest GuestInfo
}

func NewSession(conf SessionConfig) *Session {
	now := conf.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	//nolint:exhaustruct
	s := &Session{
		id:           conf.ID,
		pricing:      conf.Pricing,
		displayLimit: conf.CouponDisplayLimit,
		now:          now,
		coupons:      conf.Coupons,
	}

	s.resetProperty(conf.Property)

	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) resetProperty(p Property) {
	p.Capacity = max(1, p.Capacity)
	p.Rooms = max(1, p.Rooms)

	s.property = p
	s.rooms = NewRooms(p.Capacity)
	s.meals = SeedMeals(p.Capacity)
	s.minAvailable = nil
	s.availabilityGen++
}

// SetProperty swaps the property, reseeds rooms and meals and invalidates the
// availability snapshot. The returned generation tags the next availability
// request.
func (s *Session) SetProperty(p Property) (uint64, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetProperty(p)
	s.revalidateCoupon()

	return s.availabilityGen, s.dates.Dates()
}

func (s *Session) PropertyID() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.property.ID
}

func (s *Session) maxRooms() int {
	return MaxRoomsForSelection(s.property.Rooms, s.minAvailable)
}

func (s *Session) guestsChanged() {
	s.meals = s.meals.Reconcile(s.rooms.TotalGuests())
	s.revalidateCoupon()
}

func (s *Session) SetRoomCount(requested int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.rooms.SetCount(requested, s.maxRooms())
	s.guestsChanged()

	return n
}

func (s *Session) SetRoomGuestCount(idx int, field GuestField, value int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.rooms.SetGuestCount(idx, field, value) {
		return false
	}

	s.guestsChanged()

	return true
}

func (s *Session) AdjustMeal(kind MealKind, delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	meals, ok := s.meals.Adjust(kind, delta, s.rooms.TotalGuests())
	s.meals = meals

	return ok
}

// SetDates drops the known availability at once and returns the generation
// and night list for the availability request that should follow.
func (s *Session) SetDates(d DateRange) (uint64, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dates = d
	s.minAvailable = nil
	s.availabilityGen++
	s.revalidateCoupon()

	return s.availabilityGen, s.dates.Dates()
}

// ApplyAvailability stores an availability answer if gen is still current
// and clamps the room count to it.
func (s *Session) ApplyAvailability(gen uint64, minAvailable *int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.availabilityGen {
		return false
	}

	s.minAvailable = nil

	if minAvailable != nil {
		v := *minAvailable
		s.minAvailable = &v
	}

	if s.rooms.Count() > s.maxRooms() {
		s.rooms.SetCount(s.rooms.Count(), s.maxRooms())
		s.guestsChanged()
	}

	return true
}

func (s *Session) couponInput(code string) coupon.Input {
	return coupon.Input{
		Code:         code,
		PropertyName: s.property.Name,
		Subtotal:     s.pricing.Subtotal(&s.property, s.rooms.TotalAdults(), s.rooms.TotalChildren(), s.dates),
		HasDates:     s.dates.Selected(),
		Now:          s.now(),
	}
}

func (s *Session) ApplyCoupon(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applied = nil
	s.couponCode = strings.ToUpper(strings.TrimSpace(code))
	s.couponMessage = ""

	c, _, err := coupon.Apply(s.coupons, s.couponInput(code))
	if err != nil {
		s.couponMessage = err.Error()

		return err //nolint:wrapcheck
	}

	s.applied = &c

	return nil
}

func (s *Session) RemoveCoupon() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applied = nil
	s.couponCode = ""
	s.couponMessage = ""
}

// revalidateCoupon clears an applied coupon that no longer holds and keeps
// the reason for display.
func (s *Session) revalidateCoupon() {
	if s.applied == nil {
		return
	}

	in := s.couponInput(s.applied.Code)

	var err error

	if !in.HasDates {
		err = coupon.ErrDatesRequired
	} else {
		err = s.applied.Check(in)
	}

	if err == nil {
		return
	}

	s.applied = nil
	s.couponCode = ""
	s.couponMessage = err.Error()
}

func (s *Session) SetGuestInfo(g GuestInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.guest = g
}

func (s *Session) quote() Quote {
	adults, children := s.rooms.TotalAdults(), s.rooms.TotalChildren()

	var discount int64

	if s.applied != nil {
		discount = s.applied.DiscountFor(s.pricing.Subtotal(&s.property, adults, children, s.dates))
	}

	return s.pricing.Quote(&s.property, adults, children, s.dates, discount)
}

func (s *Session) Quote() Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.quote()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var minAvailable *int

	if s.minAvailable != nil {
		v := *s.minAvailable
		minAvailable = &v
	}

	var applied *coupon.Coupon

	if s.applied != nil {
		c := *s.applied
		applied = &c
	}

	return Snapshot{
		ID:                   s.id,
		Property:             s.property,
		Dates:                s.dates,
		Rooms:                s.rooms.Count(),
		PerRoom:              s.rooms.PerRoom(),
		TotalAdults:          s.rooms.TotalAdults(),
		TotalChildren:        s.rooms.TotalChildren(),
		Meals:                s.meals,
		MinAvailableRooms:    minAvailable,
		MaxRoomsForSelection: s.maxRooms(),
		Coupon: CouponState{
			Code:     s.couponCode,
			Applied:  applied,
			Message:  s.couponMessage,
			Eligible: coupon.Eligible(s.coupons, s.property.Name, s.displayLimit),
		},
		Guest: s.guest,
		Quote: s.quote(),
	}
}

// BuildSubmission runs the pre-submit checks and assembles the payload.
func (s *Session) BuildSubmission() (Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dates.Selected() {
		return Payload{}, ErrDatesRequired
	}

	if s.minAvailable != nil && s.rooms.Count() > *s.minAvailable {
		return Payload{}, availabilityExceeded(*s.minAvailable)
	}

	if err := s.guest.validate(); err != nil {
		return Payload{}, err
	}

	if guests := s.rooms.TotalGuests(); s.meals.Total() != guests {
		return Payload{}, mealMismatch(s.meals.Total(), guests)
	}

	q := s.quote()

	p := Payload{
		AccommodationID: s.property.ID,
		CheckIn:         day(s.dates.CheckIn).Format(DateLayout),
		CheckOut:        day(s.dates.CheckOut).Format(DateLayout),
		Rooms:           s.rooms.Count(),
		Adults:          s.rooms.TotalAdults(),
		Children:        s.rooms.TotalChildren(),
		GuestName:       strings.TrimSpace(s.guest.Name),
		GuestEmail:      strings.TrimSpace(s.guest.Email),
		GuestPhone:      strings.TrimSpace(s.guest.Phone),
		TotalAmount:     q.Total,
		AdvanceAmount:   q.AdvanceAmount,
		SpecialRequests: strings.TrimSpace(s.guest.SpecialRequests),
		FoodVeg:         s.meals.Veg,
		FoodNonVeg:      s.meals.NonVeg,
		FoodJain:        s.meals.Jain,
		CouponCode:      "",
	}

	if s.applied != nil {
		p.CouponCode = s.couponCode
	}

	return p, nil
}

func (s *Session) propertyName() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.property.Name
}
