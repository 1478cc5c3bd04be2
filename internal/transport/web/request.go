package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/avstrong/lakeside/internal/booking"
)

var errMalformedBody = errors.New("malformed request body")

//nolint:gochecknoglobals
var validate = validator.New()

type startSessionRequest struct {
	PropertyID int `json:"property_id" validate:"gt=0"`
}

type changePropertyRequest struct {
	PropertyID int `json:"property_id" validate:"gt=0"`
}

type roomsRequest struct {
	Rooms int `json:"rooms"`
}

type roomGuestsRequest struct {
	Field string `json:"field" validate:"oneof=adults children"`
	Value int    `json:"value"`
}

type mealRequest struct {
	Type  string `json:"type"  validate:"oneof=veg nonveg jain"`
	Delta int    `json:"delta" validate:"ne=0"`
}

// datesRequest clears the stay when both dates are empty.
type datesRequest struct {
	CheckIn  string `json:"check_in"  validate:"omitempty,datetime=2006-01-02"`
	CheckOut string `json:"check_out" validate:"omitempty,datetime=2006-01-02"`
}

// dateRange reports false when only one end of the stay is given.
func (r *datesRequest) dateRange() (booking.DateRange, bool) {
	var d booking.DateRange

	if r.CheckIn == "" || r.CheckOut == "" {
		return d, r.CheckIn == r.CheckOut
	}

	// the validator already checked the layout
	d.CheckIn, _ = time.Parse(booking.DateLayout, r.CheckIn)
	d.CheckOut, _ = time.Parse(booking.DateLayout, r.CheckOut)

	return d, true
}

type couponRequest struct {
	Code string `json:"code"`
}

type guestRequest struct {
	Name            string `json:"name"             validate:"max=200"`
	Email           string `json:"email"            validate:"max=200"`
	Phone           string `json:"phone"            validate:"max=50"`
	SpecialRequests string `json:"special_requests" validate:"max=2000"`
}

// fieldErrors renders validator output the same way booking.InputError
// renders its fields.
func fieldErrors(err error) map[string][]string {
	fields := make(map[string][]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["body"] = []string{err.Error()}

		return fields
	}

	for _, fe := range verrs {
		name := jsonName(fe.StructField())
		fields[name] = append(fields[name], fmt.Sprintf("failed on %s", fe.Tag()))
	}

	return fields
}

func jsonName(field string) string {
	var b strings.Builder

	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}

		b.WriteRune(r)
	}

	return strings.ToLower(b.String())
}

// decode reads a JSON body into v and validates it. On failure the 400
// answer is already written and false is returned.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, fieldErrors(fmt.Errorf("%w: %v", errMalformedBody, err))) //nolint:errorlint

		return false
	}

	if err := validate.Struct(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, fieldErrors(err))

		return false
	}

	return true
}
