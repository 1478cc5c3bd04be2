package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// CheckAvailability returns the fewest rooms free across dates, or nil when
// the answer carries no numeric figure.
func (c *Client) CheckAvailability(ctx context.Context, propertyID int, dates []string) (*int, error) {
	q := url.Values{}
	q.Set("dates", strings.Join(dates, ","))
	q.Set("id", strconv.Itoa(propertyID))

	raw, err := c.do(ctx, http.MethodGet, "/admin/bookings/multi-date-availability?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("check availability of %d: %w", propertyID, err)
	}

	var body struct {
		MinAvailableRooms json.RawMessage `json:"min_available_rooms"`
	}

	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode availability of %d: %w", propertyID, err)
	}

	var n json.Number

	// strings and nulls are "no figure", only a bare number counts
	if err := json.Unmarshal(body.MinAvailableRooms, &n); err != nil || strings.HasPrefix(string(body.MinAvailableRooms), `"`) {
		return nil, nil //nolint:nilnil
	}

	v, err := n.Float64()
	if err != nil {
		return nil, nil //nolint:nilnil,nilerr
	}

	rooms := int(v)

	return &rooms, nil
}
