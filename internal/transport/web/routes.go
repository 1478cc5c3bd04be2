package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/avstrong/lakeside/internal/backend"
	"github.com/avstrong/lakeside/internal/booking"
	"github.com/avstrong/lakeside/internal/catalog"
	"github.com/avstrong/lakeside/internal/coupon"
)

const defaultRecommendations = 3

type errorBody struct {
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Session *booking.Snapshot `json:"session,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.l.LogErrorf("Could not encode response: %v", err.Error())
	}
}

//nolint:cyclop
func (s *Server) writeError(w http.ResponseWriter, err error) {
	if inputErr := booking.IsInputError(err); inputErr != nil {
		s.writeJSON(w, http.StatusBadRequest, inputErr.Fields())

		return
	}

	if validationErr := booking.IsValidationError(err); validationErr != nil {
		status := http.StatusBadRequest
		if validationErr.Kind == booking.KindAvailabilityExceeded {
			status = http.StatusPreconditionFailed
		}

		//nolint:exhaustruct
		s.writeJSON(w, status, errorBody{Kind: string(validationErr.Kind), Message: validationErr.Message})

		return
	}

	var remoteErr *backend.RemoteError

	switch {
	case errors.Is(err, booking.ErrSessionNotFound), errors.Is(err, booking.ErrRecordNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	case errors.As(err, &remoteErr) && remoteErr.StatusCode == http.StatusNotFound:
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	case errors.Is(err, booking.ErrIdempotencyKey):
		http.Error(w, "Idempotency-Key header is missing", http.StatusBadRequest)
	case errors.Is(err, backend.ErrRemoteUnavailable),
		errors.Is(err, booking.ErrBookingRejected),
		errors.Is(err, backend.ErrPaymentRejected):
		s.l.LogWarnf("Remote call failed: %v", err.Error())
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
	default:
		s.l.LogErrorf("Request failed: %v", err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (s *Server) writeSnapshot(w http.ResponseWriter, snapshot *booking.Snapshot, err error) {
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, snapshot)
}

func pathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, fmt.Errorf("path %s: %w", name, err)
	}

	return v, nil
}

func queryInt(r *http.Request, name string, fields map[string][]string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		fields[name] = append(fields[name], "must be a non-negative number")

		return 0
	}

	return v
}

func (s *Server) listPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	fields := make(map[string][]string)

	filter := catalog.Filter{
		CityID: queryInt(r, "city", fields),
		Type:   r.URL.Query().Get("type"),
		Guests: queryInt(r, "guests", fields),
		Query:  r.URL.Query().Get("q"),
	}

	if len(fields) != 0 {
		s.writeJSON(w, http.StatusBadRequest, fields)

		return
	}

	properties, err := s.catalog.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, properties)
}

func (s *Server) getPropertyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)

		return
	}

	property, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, property)
}

func (s *Server) recommendationsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id")
	if err != nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)

		return
	}

	fields := make(map[string][]string)

	limit := queryInt(r, "limit", fields)
	if len(fields) != 0 {
		s.writeJSON(w, http.StatusBadRequest, fields)

		return
	}

	if limit == 0 {
		limit = defaultRecommendations
	}

	properties, err := s.catalog.Recommend(r.Context(), id, limit)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, properties)
}

func (s *Server) listCitiesHandler(w http.ResponseWriter, r *http.Request) {
	cities, err := s.catalog.Cities(r.Context())
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, cities)
}

func (s *Server) startSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !s.decode(w, r, &req) {
		return
	}

	snapshot, err := s.bManager.StartSession(r.Context(), req.PropertyID)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusCreated, snapshot)
}

func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.bManager.Snapshot(r.Context(), r.PathValue("id"))
	s.writeSnapshot(w, snapshot, err)
}

func (s *Server) endSessionHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.bManager.EndSession(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) changePropertyHandler(w http.ResponseWriter, r *http.Request) {
	var req changePropertyRequest
	if !s.decode(w, r, &req) {
		return
	}

	snapshot, err := s.bManager.ChangeProperty(r.Context(), r.PathValue("id"), req.PropertyID)
	s.writeSnapshot(w, snapshot, err)
}

func (s *Server) setRoomsHandler(w http.ResponseWriter, r *http.Request) {
	var req roomsRequest
	if !s.decode(w, r, &req) {
		return
	}

	snapshot, err := s.bManager.SetRooms(r.Context(), r.PathValue("id"), req.Rooms)
	s.writeSnapshot(w, snapshot, err)
}

func (s *Server) setRoomGuestsHandler(w http.ResponseWriter, r *http.Request) {
	idx, err := pathInt(r, "index")
	if err != nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)

		return
	}

	var req roomGuestsRequest
	if !s.decode(w, r, &req) {
		return
	}

	snapshot, err := s.bManager.SetRoomGuests(r.Context(), r.PathValue("id"), idx, booking.GuestField(req.Field), req.Value)
	s.writeSnapshot(w, snapshot, err)
}

func (s *Server) adjustMealHandler(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if !s.decode(w, r, &req) {
		return
	}

	snapshot, err := s.bManager.AdjustMeal(r.Context(), r.PathValue("id"), booking.MealKind(req.Type), req.Delta)
	s.writeSnapshot(w, snapshot, err)
}

func (s *Server) setDatesHandler(w http.ResponseWriter, r *http.Request) {
	var req datesRequest
	if !s.decode(w, r, &req) {
		return
	}

	dates, ok := req.dateRange()
	if !ok {
		s.writeJSON(w, http.StatusBadRequest, map[string][]string{
			"check_in":  {"check_in and check_out must be set together"},
			"check_out": {"check_in and check_out must be set together"},
		})

		return
	}

	snapshot, err := s.bManager.SetDates(r.Context(), r.PathValue("id"), dates)
	s.writeSnapshot(w, snapshot, err)
}

func (s *Server) applyCouponHandler(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if !s.decode(w, r, &req) {
		return
	}

	snapshot, err := s.bManager.ApplyCoupon(r.Context(), r.PathValue("id"), req.Code)
	if rejection := coupon.IsRejection(err); rejection != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody{
			Kind:    string(rejection.Reason),
			Message: rejection.Error(),
			Session: snapshot,
		})

		return
	}

	s.writeSnapshot(w, snapshot, err)
}

func (s *Server) removeCouponHandler(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.bManager.RemoveCoupon(r.Context(), r.PathValue("id"))
	s.writeSnapshot(w, snapshot, err)
}

func (s *Server) setGuestHandler(w http.ResponseWriter, r *http.Request) {
	var req guestRequest
	if !s.decode(w, r, &req) {
		return
	}

	snapshot, err := s.bManager.SetGuestInfo(r.Context(), r.PathValue("id"), booking.GuestInfo{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		SpecialRequests: req.SpecialRequests,
	})
	s.writeSnapshot(w, snapshot, err)
}

func (s *Server) submitHandler(w http.ResponseWriter, r *http.Request) {
	idempotencyKey := r.Header.Get("Idempotency-Key")
	if idempotencyKey == "" {
		http.Error(w, "Idempotency-Key header is missing", http.StatusBadRequest)

		return
	}

	ctx := booking.NewContextWithIdempotencyKey(r.Context(), idempotencyKey)

	submission, err := s.bManager.Submit(ctx, r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusCreated, submission)
}

func (s *Server) livenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addRoutes(r *http.ServeMux) {
	routes := map[string]http.HandlerFunc{
		"GET /api/properties":                      s.listPropertiesHandler,
		"GET /api/properties/{id}":                 s.getPropertyHandler,
		"GET /api/properties/{id}/recommendations": s.recommendationsHandler,
		"GET /api/cities":                          s.listCitiesHandler,
		"POST /api/sessions":                       s.startSessionHandler,
		"GET /api/sessions/{id}":                   s.getSessionHandler,
		"DELETE /api/sessions/{id}":                s.endSessionHandler,
		"PUT /api/sessions/{id}/property":          s.changePropertyHandler,
		"PUT /api/sessions/{id}/rooms":             s.setRoomsHandler,
		"PUT /api/sessions/{id}/rooms/{index}":     s.setRoomGuestsHandler,
		"POST /api/sessions/{id}/meals":            s.adjustMealHandler,
		"PUT /api/sessions/{id}/dates":             s.setDatesHandler,
		"POST /api/sessions/{id}/coupon":           s.applyCouponHandler,
		"DELETE /api/sessions/{id}/coupon":         s.removeCouponHandler,
		"PUT /api/sessions/{id}/guest":             s.setGuestHandler,
		"POST /api/sessions/{id}/submit":           s.submitHandler,
	}

	for pattern, h := range routes {
		r.Handle(pattern, s.applyMiddlewares(h, s.loggerMiddleware(), s.recoverMiddleware()))
	}

	r.Handle(
		fmt.Sprintf("GET %s", s.conf.LivenessEndpoint),
		s.applyMiddlewares(http.HandlerFunc(s.livenessHandler), s.loggerMiddleware(), s.recoverMiddleware()),
	)
}
