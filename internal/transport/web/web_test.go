package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/avstrong/lakeside/internal/backend"
	"github.com/avstrong/lakeside/internal/booking"
	"github.com/avstrong/lakeside/internal/catalog"
	"github.com/avstrong/lakeside/internal/coupon"
	"github.com/avstrong/lakeside/internal/idgen/simple"
	"github.com/avstrong/lakeside/internal/logger"
	"github.com/avstrong/lakeside/internal/storage/memory"
)

type fakeRemote struct {
	availability *int
	bookings     int
}

//nolint:exhaustruct
func (f *fakeRemote) properties() []booking.Property {
	return []booking.Property{
		{ID: 7, Name: "Lakeside Cottage", Type: "cottage", CityID: 1, Capacity: 4, Rooms: 3, AdultPrice: 1000, ChildPrice: 500, Available: true},
		{ID: 9, Name: "Forest Villa", Type: "villa", CityID: 2, Capacity: 6, Rooms: 1, AdultPrice: 3000, Available: true},
	}
}

func (f *fakeRemote) GetProperties(context.Context) ([]booking.Property, error) {
	return f.properties(), nil
}

func (f *fakeRemote) GetProperty(_ context.Context, id int) (*booking.Property, error) {
	for _, p := range f.properties() {
		if p.ID == id {
			return &p, nil
		}
	}

	return nil, &backend.RemoteError{StatusCode: http.StatusNotFound, Message: "not found"}
}

//nolint:exhaustruct
func (f *fakeRemote) GetCities(context.Context) ([]booking.City, error) {
	return []booking.City{{ID: 1, Name: "Pawna", Active: true}}, nil
}

func (f *fakeRemote) CheckAvailability(context.Context, int, []string) (*int, error) {
	return f.availability, nil
}

//nolint:exhaustruct
func (f *fakeRemote) Available(context.Context) []coupon.Coupon {
	return []coupon.Coupon{{
		ID: 1, Code: "COTTAGE", DiscountType: coupon.Fixed, Discount: 200,
		ExpiryDate: time.Now().AddDate(1, 0, 0), Active: true, AccommodationType: "all",
	}}
}

func (f *fakeRemote) CreateBooking(context.Context, *booking.Payload) (string, error) {
	f.bookings++

	return "B-1", nil
}

//nolint:exhaustruct
func (f *fakeRemote) InitiatePayment(context.Context, *booking.PaymentRequest) (*booking.PaymentRedirect, error) {
	return &booking.PaymentRedirect{Gateway: "instamojo", Method: http.MethodGet, URL: "https://mojo.example/p/1"}, nil
}

func newTestServer(t *testing.T, remote *fakeRemote) http.Handler {
	t.Helper()

	l := logger.Discard()

	//nolint:exhaustruct
	bm := booking.New(booking.Config{
		L:                  l,
		Storage:            memory.New(memory.Config{L: l}),
		IDGenerator:        simple.New("s-"),
		Properties:         remote,
		Availability:       remote,
		Coupons:            remote,
		Bookings:           remote,
		Payments:           remote,
		Pricing:            booking.DefaultPricing(),
		CouponDisplayLimit: 4,
	})

	//nolint:exhaustruct
	cs := catalog.New(catalog.Config{L: l, Source: remote})

	srv, err := New(context.Background(), Conf{
		L:                 l,
		ServerLogger:      l.StdLogger(),
		Host:              "localhost",
		Port:              "0",
		ReadHeaderTimeout: time.Second,
		LivenessEndpoint:  "/liveness",
	}, bm, cs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}

	return v
}

func startSession(t *testing.T, h http.Handler) string {
	t.Helper()

	rec := do(t, h, http.MethodPost, "/api/sessions", `{"property_id": 7}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	return decodeBody[booking.Snapshot](t, rec).ID
}

//nolint:exhaustruct
func TestLiveness(t *testing.T) {
	h := newTestServer(t, &fakeRemote{})

	rec := do(t, h, http.MethodGet, "/liveness", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected a request id header")
	}
}

//nolint:exhaustruct
func TestCatalogRoutes(t *testing.T) {
	h := newTestServer(t, &fakeRemote{})

	rec := do(t, h, http.MethodGet, "/api/properties?type=villa", "")
	if props := decodeBody[[]booking.Property](t, rec); rec.Code != http.StatusOK || len(props) != 1 || props[0].ID != 9 {
		t.Fatalf("unexpected listing %d: %+v", rec.Code, props)
	}

	if rec := do(t, h, http.MethodGet, "/api/properties?guests=abc", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad guests, got %d", rec.Code)
	}

	if rec := do(t, h, http.MethodGet, "/api/properties/7", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if rec := do(t, h, http.MethodGet, "/api/properties/404", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/properties/7/recommendations?limit=5", "")
	if props := decodeBody[[]booking.Property](t, rec); len(props) != 1 || props[0].ID != 9 {
		t.Fatalf("unexpected recommendations: %+v", props)
	}

	rec = do(t, h, http.MethodGet, "/api/cities", "")
	if cities := decodeBody[[]booking.City](t, rec); len(cities) != 1 {
		t.Fatalf("unexpected cities: %+v", cities)
	}
}

//nolint:exhaustruct
func TestStartSessionValidation(t *testing.T) {
	h := newTestServer(t, &fakeRemote{})

	if rec := do(t, h, http.MethodPost, "/api/sessions", `{"property_id": 0}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	if rec := do(t, h, http.MethodPost, "/api/sessions", `{`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
	}

	if rec := do(t, h, http.MethodPost, "/api/sessions", `{"property_id": 404}`); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	if rec := do(t, h, http.MethodGet, "/api/sessions/missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSessionFlow(t *testing.T) {
	remote := &fakeRemote{availability: intPtr(2)} //nolint:exhaustruct
	h := newTestServer(t, remote)
	id := startSession(t, h)
	base := "/api/sessions/" + id

	rec := do(t, h, http.MethodPut, base+"/dates", `{"check_in": "2025-03-10", "check_out": "2025-03-13"}`)
	if snap := decodeBody[booking.Snapshot](t, rec); rec.Code != http.StatusOK || snap.MaxRoomsForSelection != 2 || snap.Quote.Nights != 3 {
		t.Fatalf("unexpected dates answer %d: %+v", rec.Code, snap)
	}

	rec = do(t, h, http.MethodPut, base+"/rooms", `{"rooms": 3}`)
	if snap := decodeBody[booking.Snapshot](t, rec); snap.Rooms != 2 {
		t.Fatalf("expected rooms clamped to 2, got %d", snap.Rooms)
	}

	rec = do(t, h, http.MethodPut, base+"/rooms/0", `{"field": "children", "value": 1}`)
	if snap := decodeBody[booking.Snapshot](t, rec); snap.TotalChildren != 1 || snap.Meals.Total() != 5 {
		t.Fatalf("unexpected guests: %+v", snap)
	}

	if rec := do(t, h, http.MethodPut, base+"/rooms/0", `{"field": "pets", "value": 1}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, base+"/meals", `{"type": "veg", "delta": -1}`)
	if snap := decodeBody[booking.Snapshot](t, rec); snap.Meals.Veg != 4 {
		t.Fatalf("unexpected meals: %+v", snap.Meals)
	}

	rec = do(t, h, http.MethodPost, base+"/submit", "", "Idempotency-Key", "k-1")
	if body := decodeBody[errorBody](t, rec); rec.Code != http.StatusBadRequest || body.Kind != string(booking.KindMissingGuestInfo) {
		t.Fatalf("expected missing guest info, got %d: %+v", rec.Code, body)
	}

	do(t, h, http.MethodPut, base+"/guest", `{"name": "Asha Rao", "email": "asha@example.com", "phone": "9999999999"}`)

	rec = do(t, h, http.MethodPost, base+"/submit", "", "Idempotency-Key", "k-1")
	if body := decodeBody[errorBody](t, rec); body.Kind != string(booking.KindMealMismatch) {
		t.Fatalf("expected meal mismatch, got %d: %+v", rec.Code, body)
	}

	do(t, h, http.MethodPost, base+"/meals", `{"type": "jain", "delta": 1}`)

	if rec := do(t, h, http.MethodPost, base+"/submit", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, base+"/submit", "", "Idempotency-Key", "k-1")
	if sub := decodeBody[booking.Submission](t, rec); rec.Code != http.StatusCreated || sub.BookingID != "B-1" || sub.Payment == nil {
		t.Fatalf("unexpected submission %d: %+v", rec.Code, sub)
	}

	do(t, h, http.MethodPost, base+"/submit", "", "Idempotency-Key", "k-1")

	if remote.bookings != 1 {
		t.Fatalf("expected one booking, got %d", remote.bookings)
	}

	if rec := do(t, h, http.MethodDelete, base, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestAvailabilityExceededIs412(t *testing.T) {
	h := newTestServer(t, &fakeRemote{availability: intPtr(0)}) //nolint:exhaustruct
	id := startSession(t, h)
	base := "/api/sessions/" + id

	do(t, h, http.MethodPut, base+"/dates", `{"check_in": "2025-03-10", "check_out": "2025-03-11"}`)
	do(t, h, http.MethodPut, base+"/guest", `{"name": "Asha", "email": "a@example.com", "phone": "1"}`)

	rec := do(t, h, http.MethodPost, base+"/submit", "", "Idempotency-Key", "k-2")
	if rec.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412, got %d: %s", rec.Code, rec.Body.String())
	}
}

//nolint:exhaustruct
func TestDatesValidation(t *testing.T) {
	h := newTestServer(t, &fakeRemote{})
	base := "/api/sessions/" + startSession(t, h)

	tests := []struct {
		body string
		want int
	}{
		{body: `{"check_in": "2025-03-10"}`, want: http.StatusBadRequest},
		{body: `{"check_in": "10/03/2025", "check_out": "2025-03-12"}`, want: http.StatusBadRequest},
		{body: `{"check_in": "2025-03-12", "check_out": "2025-03-10"}`, want: http.StatusBadRequest},
		{body: `{"check_in": "", "check_out": ""}`, want: http.StatusOK},
	}

	for _, tt := range tests {
		if rec := do(t, h, http.MethodPut, base+"/dates", tt.body); rec.Code != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.body, tt.want, rec.Code)
		}
	}
}

//nolint:exhaustruct
func TestCouponRoutes(t *testing.T) {
	h := newTestServer(t, &fakeRemote{})
	base := "/api/sessions/" + startSession(t, h)

	rec := do(t, h, http.MethodPost, base+"/coupon", `{"code": "COTTAGE"}`)
	if body := decodeBody[errorBody](t, rec); rec.Code != http.StatusBadRequest || body.Kind != string(coupon.ReasonDatesRequired) || body.Session == nil {
		t.Fatalf("expected DatesRequired with session, got %d: %+v", rec.Code, body)
	}

	do(t, h, http.MethodPut, base+"/dates", `{"check_in": "2025-03-10", "check_out": "2025-03-11"}`)

	rec = do(t, h, http.MethodPost, base+"/coupon", `{"code": "cottage"}`)
	if snap := decodeBody[booking.Snapshot](t, rec); rec.Code != http.StatusOK || snap.Quote.Discount != 200 {
		t.Fatalf("expected discount, got %d: %+v", rec.Code, snap.Quote)
	}

	rec = do(t, h, http.MethodDelete, base+"/coupon", "")
	if snap := decodeBody[booking.Snapshot](t, rec); snap.Quote.Discount != 0 {
		t.Fatalf("expected coupon removed, got %+v", snap.Quote)
	}
}

//nolint:exhaustruct
func TestChangePropertyRoute(t *testing.T) {
	h := newTestServer(t, &fakeRemote{})
	base := "/api/sessions/" + startSession(t, h)

	rec := do(t, h, http.MethodPut, base+"/property", `{"property_id": 9}`)
	if snap := decodeBody[booking.Snapshot](t, rec); rec.Code != http.StatusOK || snap.Property.ID != 9 {
		t.Fatalf("unexpected answer %d: %+v", rec.Code, snap)
	}
}

func intPtr(v int) *int {
	return &v
}
