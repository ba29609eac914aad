package board

import "fmt"

// Move encodes a capture in 12 bits:
// bits 0-5:  from square (0-63)
// bits 6-11: to square (0-63)
type Move uint16

// NoMove represents an invalid or null move. a1a1 can never be a capture.
const NoMove Move = 0

// MaxMoves is the largest number of captures any position can offer:
// one per orthogonally adjacent pair of squares (7*8 horizontal + 7*8 vertical).
const MaxMoves = 112

// NewMove creates a move from one square to another.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square, where the captured piece stood.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// String returns the wire format of the move (e.g., "c2d2").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	return m.From().String() + m.To().String()
}

// ParseMove parses a four character move string. The move is not checked
// against any position; use Position.IsLegal for that.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 {
		return NoMove, fmt.Errorf("invalid move string: %q", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	return NewMove(from, to), nil
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [MaxMoves]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
