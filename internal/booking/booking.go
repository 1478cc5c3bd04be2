package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/avstrong/lakeside/internal/coupon"
	"github.com/avstrong/lakeside/internal/logger"
)

type idGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type propertySource interface {
	GetProperty(ctx context.Context, id int) (*Property, error)
}

type availabilityChecker interface {
	CheckAvailability(ctx context.Context, propertyID int, dates []string) (*int, error)
}

type couponProvider interface {
	Available(ctx context.Context) []coupon.Coupon
}

type bookingCreator interface {
	CreateBooking(ctx context.Context, payload *Payload) (string, error)
}

type paymentInitiator interface {
	InitiatePayment(ctx context.Context, req *PaymentRequest) (*PaymentRedirect, error)
}

type storageReader interface {
	GetSession(ctx context.Context, id string) (*Session, error)
	GetSubmissionByIdempotencyKey(ctx context.Context, sessionID string) (*Submission, error)
}

type storageWriter interface {
	SaveSession(ctx context.Context, session *Session) error
	DeleteSession(ctx context.Context, id string) error
	SaveSubmission(ctx context.Context, submission *Submission) error
}

type storage interface {
	storageReader
	storageWriter
}

type Config struct {
	L                  *logger.Logger
	Storage            storage
	IDGenerator        idGenerator
	Properties         propertySource
	Availability       availabilityChecker
	Coupons            couponProvider
	Bookings           bookingCreator
	Payments           paymentInitiator
	Pricing            Pricing
	CouponDisplayLimit int
	Now                func() time.Time
}

// Manager runs booking sessions against the remote collaborators.
type Manager struct {
	l            *logger.Logger
	storage      storage
	idGenerator  idGenerator
	properties   propertySource
	availability availabilityChecker
	coupons      couponProvider
	bookings     bookingCreator
	payments     paymentInitiator
	pricing      Pricing
	displayLimit int
	now          func() time.Time
	submits      singleflight.Group
}

func New(conf Config) *Manager {
	now := conf.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	//nolint:exhaustruct
	return &Manager{
		l:            conf.L,
		storage:      conf.Storage,
		idGenerator:  conf.IDGenerator,
		properties:   conf.Properties,
		availability: conf.Availability,
		coupons:      conf.Coupons,
		bookings:     conf.Bookings,
		payments:     conf.Payments,
		pricing:      conf.Pricing,
		displayLimit: conf.CouponDisplayLimit,
		now:          now,
	}
}

func (m *Manager) StartSession(ctx context.Context, propertyID int) (*Snapshot, error) {
	property, err := m.properties.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("get property %d: %w", propertyID, err)
	}

	id, err := m.idGenerator.NewID(ctx)
	if err != nil {
		return nil, fmt.Errorf("get next session id: %w", err)
	}

	session := NewSession(SessionConfig{
		ID:                 id,
		Property:           *property,
		Coupons:            m.coupons.Available(ctx),
		Pricing:            m.pricing,
		CouponDisplayLimit: m.displayLimit,
		Now:                m.now,
	})

	if err := m.storage.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session %s: %w", id, err)
	}

	m.l.With("session", id).LogInfo("Booking session started for property %d", propertyID)

	snapshot := session.Snapshot()

	return &snapshot, nil
}

func (m *Manager) session(ctx context.Context, id string) (*Session, error) {
	session, err := m.storage.GetSession(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("get session %s from storage: %w", id, err)
	}

	return session, nil
}

func (m *Manager) Snapshot(ctx context.Context, id string) (*Snapshot, error) {
	return m.update(ctx, id, func(*Session) error { return nil })
}

func (m *Manager) EndSession(ctx context.Context, id string) error {
	if _, err := m.session(ctx, id); err != nil {
		return err
	}

	if err := m.storage.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}

	return nil
}

func (m *Manager) update(ctx context.Context, id string, fn func(s *Session) error) (*Snapshot, error) {
	session, err := m.session(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(session); err != nil {
		return nil, err
	}

	snapshot := session.Snapshot()

	return &snapshot, nil
}

func (m *Manager) SetRooms(ctx context.Context, id string, rooms int) (*Snapshot, error) {
	return m.update(ctx, id, func(s *Session) error {
		s.SetRoomCount(rooms)

		return nil
	})
}

func (m *Manager) SetRoomGuests(ctx context.Context, id string, idx int, field GuestField, value int) (*Snapshot, error) {
	return m.update(ctx, id, func(s *Session) error {
		if field != FieldAdults && field != FieldChildren {
			inputErr := newInputError()
			inputErr.addError("field", "field must be adults or children")

			return inputErr
		}

		s.SetRoomGuestCount(idx, field, value)

		return nil
	})
}

func (m *Manager) AdjustMeal(ctx context.Context, id string, kind MealKind, delta int) (*Snapshot, error) {
	return m.update(ctx, id, func(s *Session) error {
		if kind != MealVeg && kind != MealNonVeg && kind != MealJain {
			inputErr := newInputError()
			inputErr.addError("type", "type must be veg, nonveg or jain")

			return inputErr
		}

		s.AdjustMeal(kind, delta)

		return nil
	})
}

func (m *Manager) SetDates(ctx context.Context, id string, dates DateRange) (*Snapshot, error) {
	if dates.Selected() && dates.CheckOut.Before(dates.CheckIn) {
		inputErr := newInputError()
		inputErr.addError("check_out", "check_out must not be before check_in")

		return nil, inputErr
	}

	return m.update(ctx, id, func(s *Session) error {
		gen, nights := s.SetDates(dates)
		m.refreshAvailability(ctx, s, gen, nights)

		return nil
	})
}

func (m *Manager) ChangeProperty(ctx context.Context, id string, propertyID int) (*Snapshot, error) {
	session, err := m.session(ctx, id)
	if err != nil {
		return nil, err
	}

	property, err := m.properties.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("get property %d: %w", propertyID, err)
	}

	gen, nights := session.SetProperty(*property)
	m.refreshAvailability(ctx, session, gen, nights)

	snapshot := session.Snapshot()

	return &snapshot, nil
}

// refreshAvailability runs without the session lock. A failed check leaves
// availability unknown.
func (m *Manager) refreshAvailability(ctx context.Context, s *Session, gen uint64, nights []string) {
	if len(nights) == 0 {
		s.ApplyAvailability(gen, nil)

		return
	}

	propertyID := s.PropertyID()

	minAvailable, err := m.availability.CheckAvailability(ctx, propertyID, nights)
	if err != nil {
		m.l.With("session", s.ID()).LogWarnf("Could not check availability for property %d: %v", propertyID, err.Error())

		minAvailable = nil
	}

	if !s.ApplyAvailability(gen, minAvailable) {
		m.l.With("session", s.ID()).LogDebugf("Dropped stale availability answer, generation %d", gen)
	}
}

func (m *Manager) ApplyCoupon(ctx context.Context, id, code string) (*Snapshot, error) {
	session, err := m.session(ctx, id)
	if err != nil {
		return nil, err
	}

	applyErr := session.ApplyCoupon(code)
	snapshot := session.Snapshot()

	return &snapshot, applyErr
}

func (m *Manager) RemoveCoupon(ctx context.Context, id string) (*Snapshot, error) {
	return m.update(ctx, id, func(s *Session) error {
		s.RemoveCoupon()

		return nil
	})
}

func (m *Manager) SetGuestInfo(ctx context.Context, id string, guest GuestInfo) (*Snapshot, error) {
	return m.update(ctx, id, func(s *Session) error {
		s.SetGuestInfo(guest)

		return nil
	})
}

// Submit creates the booking and starts the payment. The idempotency key in
// ctx makes retries of the same session safe: a finished submission is
// returned as is, and a booking whose payment failed is not created twice.
func (m *Manager) Submit(ctx context.Context, id string) (*Submission, error) {
	key, err := RequireIdempotencyKey(ctx)
	if err != nil {
		return nil, err
	}

	v, err, _ := m.submits.Do(id+"/"+key, func() (any, error) {
		return m.submit(ctx, id)
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	submission, _ := v.(*Submission)

	return submission, nil
}

//nolint:cyclop
func (m *Manager) submit(ctx context.Context, id string) (*Submission, error) {
	session, err := m.session(ctx, id)
	if err != nil {
		return nil, err
	}

	l := m.l.With("session", id)

	existing, err := m.storage.GetSubmissionByIdempotencyKey(ctx, id)
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		return nil, fmt.Errorf("get submission by idempotency key: %w", err)
	}

	if existing != nil && existing.Payment != nil {
		return existing, nil
	}

	submission := existing

	if submission == nil {
		payload, err := session.BuildSubmission()
		if err != nil {
			return nil, err
		}

		bookingID, err := m.bookings.CreateBooking(ctx, &payload)
		if err != nil {
			l.LogErrorf("Could not create booking: %v", err.Error())

			return nil, fmt.Errorf("create booking: %w", err)
		}

		submission = &Submission{
			SessionID: id,
			BookingID: bookingID,
			Payload:   payload,
			Payment:   nil,
			CreatedAt: m.now(),
		}

		if err := m.storage.SaveSubmission(ctx, submission); err != nil {
			return nil, fmt.Errorf("save submission: %w", err)
		}

		l.LogInfo("Booking %s created", bookingID)
	}

	payment, err := m.payments.InitiatePayment(ctx, paymentRequest(submission, session.propertyName()))
	if err != nil {
		l.LogErrorf("Could not initiate payment for booking %s: %v", submission.BookingID, err.Error())

		return nil, fmt.Errorf("initiate payment for booking %s: %w", submission.BookingID, err)
	}

	done := *submission
	done.Payment = payment

	if err := m.storage.SaveSubmission(ctx, &done); err != nil {
		return nil, fmt.Errorf("save submission: %w", err)
	}

	return &done, nil
}

func paymentRequest(s *Submission, propertyName string) *PaymentRequest {
	firstName := s.Payload.GuestName
	if fields := strings.Fields(firstName); len(fields) > 0 {
		firstName = fields[0]
	}

	return &PaymentRequest{
		Amount:      s.Payload.AdvanceAmount,
		FirstName:   firstName,
		Email:       s.Payload.GuestEmail,
		Phone:       s.Payload.GuestPhone,
		BookingID:   s.BookingID,
		ProductInfo: "Booking for " + propertyName,
		CouponCode:  s.Payload.CouponCode,
	}
}
