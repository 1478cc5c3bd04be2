package catalog

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/avstrong/lakeside/internal/booking"
	"github.com/avstrong/lakeside/internal/logger"
)

const typeAll = "all"

type source interface {
	GetProperties(ctx context.Context) ([]booking.Property, error)
	GetProperty(ctx context.Context, id int) (*booking.Property, error)
	GetCities(ctx context.Context) ([]booking.City, error)
}

type Config struct {
	L      *logger.Logger
	Source source
	// Shuffle defaults to math/rand's global shuffle.
	Shuffle func(n int, swap func(i, j int))
}

// Filter narrows the property listing. Zero values match everything.
type Filter struct {
	CityID int
	Type   string
	Guests int
	Query  string
}

func (f *Filter) match(p *booking.Property) bool {
	if f.CityID != 0 && p.CityID != f.CityID {
		return false
	}

	if t := strings.TrimSpace(f.Type); t != "" && !strings.EqualFold(t, typeAll) && !strings.EqualFold(t, p.Type) {
		return false
	}

	if f.Guests > 0 && p.Capacity*max(1, p.Rooms) < f.Guests {
		return false
	}

	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		return strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Address), q)
	}

	return true
}

// Service lists bookable properties and cities.
type Service struct {
	l       *logger.Logger
	source  source
	shuffle func(n int, swap func(i, j int))
}

func New(conf Config) *Service {
	shuffle := conf.Shuffle
	if shuffle == nil {
		shuffle = rand.Shuffle
	}

	return &Service{
		l:       conf.L,
		source:  conf.Source,
		shuffle: shuffle,
	}
}

func (s *Service) available(ctx context.Context) ([]booking.Property, error) {
	all, err := s.source.GetProperties(ctx)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}

	seen := make(map[int]struct{}, len(all))
	out := make([]booking.Property, 0, len(all))

	for _, p := range all {
		if !p.Available {
			continue
		}

		if _, ok := seen[p.ID]; ok {
			continue
		}

		seen[p.ID] = struct{}{}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]booking.Property, error) {
	props, err := s.available(ctx)
	if err != nil {
		return nil, err
	}

	out := props[:0]

	for i := range props {
		if f.match(&props[i]) {
			out = append(out, props[i])
		}
	}

	return out, nil
}

func (s *Service) Get(ctx context.Context, id int) (*booking.Property, error) {
	p, err := s.source.GetProperty(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get property %d: %w", id, err)
	}

	return p, nil
}

func (s *Service) Cities(ctx context.Context) ([]booking.City, error) {
	all, err := s.source.GetCities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}

	out := make([]booking.City, 0, len(all))

	for _, c := range all {
		if c.Active {
			out = append(out, c)
		}
	}

	return out, nil
}

// Recommend picks up to n random available properties other than excludeID.
func (s *Service) Recommend(ctx context.Context, excludeID, n int) ([]booking.Property, error) {
	props, err := s.available(ctx)
	if err != nil {
		return nil, err
	}

	others := props[:0]

	for _, p := range props {
		if p.ID != excludeID {
			others = append(others, p)
		}
	}

	s.shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })

	if n >= 0 && n < len(others) {
		others = others[:n]
	}

	s.l.LogDebugf("Recommended %d properties besides %d", len(others), excludeID)

	return others, nil
}
