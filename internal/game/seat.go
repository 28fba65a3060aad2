package game

// NumSeats is the number of fixed player positions at the table.
const NumSeats = 4

// Seat identifies a player position, 0 through 3.
type Seat int

func (s Seat) Valid() bool {
	return s >= 0 && s < NumSeats
}

// NextSeat returns the seat that plays after s: 0→1→2→3→0.
func NextSeat(s Seat) Seat {
	return (s + 1) % NumSeats
}
