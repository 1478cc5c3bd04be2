package booking

import (
	"reflect"
	"testing"
	"time"
)

func TestMaxRoomsForSelection(t *testing.T) {
	two, zero := 2, 0

	tests := []struct {
		name         string
		rooms        int
		minAvailable *int
		want         int
	}{
		{name: "unknown", rooms: 5, minAvailable: nil, want: 5},
		{name: "fewer free", rooms: 5, minAvailable: &two, want: 2},
		{name: "sold out", rooms: 5, minAvailable: &zero, want: 1},
		{name: "property smaller", rooms: 1, minAvailable: &two, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxRoomsForSelection(tt.rooms, tt.minAvailable); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestDates(t *testing.T) {
	got := stay("2025-03-30", 3).Dates()

	want := []string{"2025-03-30", "2025-03-31", "2025-04-01"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNightsIgnoresTimeOfDay(t *testing.T) {
	d := DateRange{
		CheckIn:  time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC),
	}

	if d.Nights() != 1 {
		t.Fatalf("expected 1 night, got %d", d.Nights())
	}
}

func TestNoNights(t *testing.T) {
	in := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []DateRange{
		{},
		{CheckIn: in},
		{CheckIn: in, CheckOut: in},
		{CheckIn: in, CheckOut: in.AddDate(0, 0, -2)},
	}

	for _, d := range tests {
		if d.Nights() != 0 || d.Dates() != nil {
			t.Fatalf("expected no nights for %+v", d)
		}
	}
}
