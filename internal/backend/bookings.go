package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/avstrong/lakeside/internal/booking"
)

var ErrPaymentRejected = errors.New("payment gateway returned no redirect")

// CreateBooking records the reservation and returns its identifier.
func (c *Client) CreateBooking(ctx context.Context, payload *booking.Payload) (string, error) {
	raw, err := c.do(ctx, http.MethodPost, "/admin/bookings", payload)
	if err != nil {
		return "", fmt.Errorf("create booking: %w", err)
	}

	var body struct {
		Success   *bool  `json:"success"`
		BookingID id     `json:"booking_id"`
		ID        id     `json:"id"`
		Error     string `json:"error"`
		Message   string `json:"message"`
	}

	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("decode booking answer: %w", err)
	}

	bookingID := firstString(string(body.BookingID), string(body.ID))

	if bookingID == "" || (body.Success != nil && !*body.Success) {
		msg := firstString(body.Error, body.Message)
		if msg == "" {
			return "", booking.ErrBookingRejected
		}

		return "", fmt.Errorf("%w: %s", booking.ErrBookingRejected, msg)
	}

	return bookingID, nil
}

// InitiatePayment asks the configured gateway endpoint for a redirect.
func (c *Client) InitiatePayment(ctx context.Context, req *booking.PaymentRequest) (*booking.PaymentRedirect, error) {
	raw, err := c.do(ctx, http.MethodPost, "/admin/bookings/payments/"+c.gateway, req)
	if err != nil {
		return nil, fmt.Errorf("initiate %s payment: %w", c.gateway, err)
	}

	switch c.gateway {
	case GatewayInstamojo:
		return instamojoRedirect(raw)
	default:
		return payuRedirect(raw)
	}
}

func instamojoRedirect(raw []byte) (*booking.PaymentRedirect, error) {
	var body struct {
		URL string `json:"instamojo_url"`
	}

	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode instamojo answer: %w", err)
	}

	if body.URL == "" {
		return nil, ErrPaymentRejected
	}

	//nolint:exhaustruct
	return &booking.PaymentRedirect{
		Gateway: GatewayInstamojo,
		Method:  http.MethodGet,
		URL:     body.URL,
	}, nil
}

func payuRedirect(raw []byte) (*booking.PaymentRedirect, error) {
	var body struct {
		URL         string                     `json:"payu_url"`
		PaymentData map[string]json.RawMessage `json:"payment_data"`
	}

	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode payu answer: %w", err)
	}

	if body.URL == "" {
		return nil, ErrPaymentRejected
	}

	fields := make(map[string]string, len(body.PaymentData))

	for k, v := range body.PaymentData {
		fields[k] = formValue(v)
	}

	return &booking.PaymentRedirect{
		Gateway: GatewayPayU,
		Method:  http.MethodPost,
		URL:     body.URL,
		Fields:  fields,
	}, nil
}

// formValue renders a JSON scalar the way it would appear in a form field.
func formValue(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}

	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()

	var x any
	if err := dec.Decode(&x); err != nil || x == nil {
		return ""
	}

	return fmt.Sprint(x)
}
