package booking

const defaultAdultsPerRoom = 2

// Rooms is the room/guest allocator. Every room keeps at least one adult
// and never holds more guests than the property capacity.
type Rooms struct {
	capacity int
	rooms    []RoomGuest
}

func NewRooms(capacity int) *Rooms {
	if capacity < 1 {
		capacity = 1
	}

	r := &Rooms{capacity: capacity, rooms: nil}
	r.rooms = []RoomGuest{r.defaultRoom()}

	return r
}

func (r *Rooms) defaultRoom() RoomGuest {
	return RoomGuest{Adults: min(defaultAdultsPerRoom, r.capacity), Children: 0}
}

func (r *Rooms) Count() int {
	return len(r.rooms)
}

func (r *Rooms) Capacity() int {
	return r.capacity
}

func (r *Rooms) PerRoom() []RoomGuest {
	out := make([]RoomGuest, len(r.rooms))
	copy(out, r.rooms)

	return out
}

// SetCount clamps requested to [1, maxRooms], appends default rooms or
// drops rooms from the end. It returns the resulting count.
func (r *Rooms) SetCount(requested, maxRooms int) int {
	n := max(1, min(requested, max(1, maxRooms)))

	switch {
	case n > len(r.rooms):
		for len(r.rooms) < n {
			r.rooms = append(r.rooms, r.defaultRoom())
		}
	case n < len(r.rooms):
		r.rooms = r.rooms[:n]
	}

	return n
}

// SetGuestCount reports false and leaves the rooms unchanged when the
// change would overflow the room or the index is unknown.
func (r *Rooms) SetGuestCount(idx int, field GuestField, value int) bool {
	if idx < 0 || idx >= len(r.rooms) {
		return false
	}

	room := r.rooms[idx]
	v := max(0, value)

	switch field {
	case FieldAdults:
		v = max(1, v)
		if v+room.Children > r.capacity {
			return false
		}

		room.Adults = v
	case FieldChildren:
		if v+room.Adults > r.capacity {
			return false
		}

		room.Children = v
	default:
		return false
	}

	r.rooms[idx] = room

	return true
}

func (r *Rooms) TotalAdults() int {
	var n int

	for _, room := range r.rooms {
		n += room.Adults
	}

	return n
}

func (r *Rooms) TotalChildren() int {
	var n int

	for _, room := range r.rooms {
		n += room.Children
	}

	return n
}

func (r *Rooms) TotalGuests() int {
	return r.TotalAdults() + r.TotalChildren()
}
