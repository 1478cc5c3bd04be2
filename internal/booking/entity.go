package booking

import (
	"time"

	"github.com/avstrong/lakeside/internal/coupon"
)

const DateLayout = "2006-01-02"

type Property struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Description    string   `json:"description"`
	Address        string   `json:"address"`
	CityID         int      `json:"city_id"`
	Capacity       int      `json:"capacity"`
	Rooms          int      `json:"rooms"`
	AdultPrice     int64    `json:"adult_price"`
	ChildPrice     int64    `json:"child_price"`
	Available      bool     `json:"available"`
	Features       []string `json:"features"`
	Images         []string `json:"images"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	MaxPersonVilla int      `json:"max_person_villa,omitempty"`
	RatePerPerson  float64  `json:"rate_per_person,omitempty"`
}

type City struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Image   string `json:"image,omitempty"`
	Active  bool   `json:"active"`
}

type RoomGuest struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

type GuestField string

const (
	FieldAdults   GuestField = "adults"
	FieldChildren GuestField = "children"
)

type MealKind string

const (
	MealVeg    MealKind = "veg"
	MealNonVeg MealKind = "nonveg"
	MealJain   MealKind = "jain"
)

// DateRange is a stay of nights. Zero times mean unset.
type DateRange struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

type GuestInfo struct {
	Name            string `json:"name"             validate:"notblank"`
	Email           string `json:"email"            validate:"notblank"`
	Phone           string `json:"phone"            validate:"notblank"`
	SpecialRequests string `json:"special_requests"`
}

type Quote struct {
	Nights              int   `json:"nights"`
	Subtotal            int64 `json:"subtotal"`
	ServiceFee          int64 `json:"service_fee"`
	TotalBeforeDiscount int64 `json:"total_before_discount"`
	Discount            int64 `json:"discount"`
	Total               int64 `json:"total"`
	AdvanceAmount       int64 `json:"advance_amount"`
	RemainingAmount     int64 `json:"remaining_amount"`
}

type Payload struct {
	AccommodationID int    `json:"accommodation_id"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	Rooms           int    `json:"rooms"`
	Adults          int    `json:"adults"`
	Children        int    `json:"children"`
	GuestName       string `json:"guest_name"`
	GuestEmail      string `json:"guest_email"`
	GuestPhone      string `json:"guest_phone"`
	TotalAmount     int64  `json:"total_amount"`
	AdvanceAmount   int64  `json:"advance_amount"`
	SpecialRequests string `json:"special_requests,omitempty"`
	FoodVeg         int    `json:"food_veg"`
	FoodNonVeg      int    `json:"food_nonveg"`
	FoodJain        int    `json:"food_jain"`
	CouponCode      string `json:"coupon_code,omitempty"`
}

type PaymentRequest struct {
	Amount      int64  `json:"amount"`
	FirstName   string `json:"firstname"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	BookingID   string `json:"booking_id"`
	ProductInfo string `json:"productinfo"`
	CouponCode  string `json:"coupon_code,omitempty"`
}

// PaymentRedirect tells the browser how to reach the payment gateway.
type PaymentRedirect struct {
	Gateway string            `json:"gateway"`
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type Submission struct {
	SessionID string           `json:"session_id"`
	BookingID string           `json:"booking_id"`
	Payload   Payload          `json:"payload"`
	Payment   *PaymentRedirect `json:"payment"`
	CreatedAt time.Time        `json:"created_at"`
}

type CouponState struct {
	Code     string          `json:"code,omitempty"`
	Applied  *coupon.Coupon  `json:"applied,omitempty"`
	Message  string          `json:"message,omitempty"`
	Eligible []coupon.Coupon `json:"eligible"`
}

// Snapshot is the read model of a session handed to the booking screen.
type Snapshot struct {
	ID                   string      `json:"id"`
	Property             Property    `json:"property"`
	Dates                DateRange   `json:"dates"`
	Rooms                int         `json:"rooms"`
	PerRoom              []RoomGuest `json:"per_room"`
	TotalAdults          int         `json:"total_adults"`
	TotalChildren        int         `json:"total_children"`
	Meals                MealCounts  `json:"meals"`
	MinAvailableRooms    *int        `json:"min_available_rooms"`
	MaxRoomsForSelection int         `json:"max_rooms_for_selection"`
	Coupon               CouponState `json:"coupon"`
	Guest                GuestInfo   `json:"guest"`
	Quote                Quote       `json:"quote"`
}
