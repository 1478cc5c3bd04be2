package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/avstrong/lakeside/internal/booking"
)

const (
	defaultCapacity = 2
	defaultRooms    = 1
)

type rawProperty struct {
	ID                 number `json:"id"`
	Name               string `json:"name"`
	Type               string `json:"type"`
	Description        string `json:"description"`
	PackageDescription string `json:"package_description"`
	Price              number `json:"price"`
	Capacity           number `json:"capacity"`
	Rooms              number `json:"rooms"`
	Available          flag   `json:"available"`
	Features           list   `json:"features"`
	Images             list   `json:"images"`
	Address            string `json:"address"`
	CityID             number `json:"city_id"`
	CityIDAlt          number `json:"cityId"`
	Latitude           number `json:"latitude"`
	Longitude          number `json:"longitude"`
	AdultPrice         number `json:"adult_price"`
	ChildPrice         number `json:"child_price"`
	MaxPerson          number `json:"maxPerson"`
	MaxPersonVilla     number `json:"MaxPersonVilla"`
	RatePerPerson      number `json:"ratePerPerson"`
	RatePersonVilla    number `json:"RatePersonVilla"`
	Package            *struct {
		Images list `json:"images"`
	} `json:"package"`
}

type rawPropertyDetail struct {
	rawProperty

	BasicInfo *rawProperty `json:"basicInfo"`
	Packages  *struct {
		Description string `json:"description"`
		Pricing     *struct {
			Adult number `json:"adult"`
			Child number `json:"child"`
		} `json:"pricing"`
	} `json:"packages"`
	Location *struct {
		Address string `json:"address"`
		City    *struct {
			ID number `json:"id"`
		} `json:"city"`
		Coordinates *struct {
			Latitude  number `json:"latitude"`
			Longitude number `json:"longitude"`
		} `json:"coordinates"`
	} `json:"location"`
}

func (r *rawProperty) listed() booking.Property {
	images := []string(r.Images)
	if r.Package != nil && len(r.Package.Images) > 0 {
		images = r.Package.Images
	}

	return booking.Property{
		ID:             r.ID.int(),
		Name:           r.Name,
		Type:           r.Type,
		Description:    r.Description,
		Address:        r.Address,
		CityID:         firstNumber(r.CityID, r.CityIDAlt).int(),
		Capacity:       r.Capacity.int(),
		Rooms:          r.Rooms.int(),
		AdultPrice:     firstNumber(r.AdultPrice, r.Price).money(),
		ChildPrice:     r.ChildPrice.money(),
		Available:      r.Available.value,
		Features:       nonNil(r.Features),
		Images:         nonNil(images),
		Latitude:       r.Latitude.value,
		Longitude:      r.Longitude.value,
		MaxPersonVilla: firstNumber(r.MaxPerson, r.MaxPersonVilla).int(),
		RatePerPerson:  firstNumber(r.RatePerPerson, r.RatePersonVilla).value,
	}
}

//nolint:cyclop,funlen
func (d *rawPropertyDetail) property() booking.Property {
	basic := &d.rawProperty
	if d.BasicInfo != nil {
		basic = d.BasicInfo
	}

	var (
		packageDescription string
		adult, child       number
		address            string
		cityID             number
		lat, lng           number
	)

	if d.Packages != nil {
		packageDescription = d.Packages.Description

		if d.Packages.Pricing != nil {
			adult, child = d.Packages.Pricing.Adult, d.Packages.Pricing.Child
		}
	}

	if d.Location != nil {
		address = d.Location.Address

		if d.Location.City != nil {
			cityID = d.Location.City.ID
		}

		if d.Location.Coordinates != nil {
			lat, lng = d.Location.Coordinates.Latitude, d.Location.Coordinates.Longitude
		}
	}

	capacity := firstNumber(basic.Capacity, d.Capacity).int()
	if capacity < 1 {
		capacity = defaultCapacity
	}

	rooms := firstNumber(basic.Rooms, d.Rooms).int()
	if rooms < 1 {
		rooms = defaultRooms
	}

	images := []string(basic.Images)
	if len(images) == 0 {
		images = d.Images
	}

	features := []string(basic.Features)
	if len(features) == 0 {
		features = d.Features
	}

	return booking.Property{
		ID:             firstNumber(d.ID, basic.ID).int(),
		Name:           firstString(basic.Name, d.Name),
		Type:           firstString(basic.Type, d.Type),
		Description:    firstString(packageDescription, basic.Description, d.Description, d.PackageDescription),
		Address:        firstString(address, d.Address),
		CityID:         firstNumber(cityID, d.CityID, basic.CityID, d.CityIDAlt).int(),
		Capacity:       capacity,
		Rooms:          rooms,
		AdultPrice:     firstNumber(adult, d.AdultPrice, basic.Price).money(),
		ChildPrice:     firstNumber(child, d.ChildPrice).money(),
		Available:      true,
		Features:       nonNil(features),
		Images:         nonNil(images),
		Latitude:       firstNumber(lat, d.Latitude).value,
		Longitude:      firstNumber(lng, d.Longitude).value,
		MaxPersonVilla: firstNumber(basic.MaxPerson, d.MaxPersonVilla).int(),
		RatePerPerson:  firstNumber(basic.RatePerPerson, d.RatePersonVilla).value,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

func (c *Client) GetProperties(ctx context.Context) ([]booking.Property, error) {
	raw, err := c.do(ctx, http.MethodGet, "/admin/properties/accommodations", nil)
	if err != nil {
		return nil, fmt.Errorf("get properties: %w", err)
	}

	data, err := unwrapData(raw)
	if err != nil {
		return nil, fmt.Errorf("get properties: %w", err)
	}

	var items []rawProperty

	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}

	out := make([]booking.Property, 0, len(items))

	for i := range items {
		out = append(out, items[i].listed())
	}

	return out, nil
}

func (c *Client) GetProperty(ctx context.Context, propertyID int) (*booking.Property, error) {
	raw, err := c.do(ctx, http.MethodGet, "/admin/properties/accommodations/"+strconv.Itoa(propertyID), nil)
	if err != nil {
		return nil, fmt.Errorf("get property %d: %w", propertyID, err)
	}

	var detail rawPropertyDetail

	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil, fmt.Errorf("decode property %d: %w", propertyID, err)
	}

	p := detail.property()
	if p.ID == 0 {
		p.ID = propertyID
	}

	return &p, nil
}

type rawCity struct {
	ID      number `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Image   string `json:"image"`
	Active  flag   `json:"active"`
}

func (c *Client) GetCities(ctx context.Context) ([]booking.City, error) {
	raw, err := c.do(ctx, http.MethodGet, "/admin/cities", nil)
	if err != nil {
		return nil, fmt.Errorf("get cities: %w", err)
	}

	data, err := unwrapData(raw)
	if err != nil {
		return nil, fmt.Errorf("get cities: %w", err)
	}

	var items []rawCity

	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode cities: %w", err)
	}

	out := make([]booking.City, 0, len(items))

	for _, item := range items {
		out = append(out, booking.City{
			ID:      item.ID.int(),
			Name:    item.Name,
			Country: item.Country,
			Image:   item.Image,
			Active:  !item.Active.set || item.Active.value,
		})
	}

	return out, nil
}
