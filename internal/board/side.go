package board

import "fmt"

// Side identifies one of the two players. It indexes Position.Occupied.
type Side uint8

const (
	White Side = iota // moves first, colour code "w"
	Black             // colour code "b"
)

// Other returns the opposing side.
func (s Side) Other() Side {
	return s ^ 1
}

// String returns the side name.
func (s Side) String() string {
	switch s {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoSide"
	}
}

// Code returns the single-character colour code used on the wire.
func (s Side) Code() byte {
	if s == Black {
		return 'b'
	}
	return 'w'
}

// ParseSide parses a colour code. Only the first character is significant.
func ParseSide(code string) (Side, error) {
	if code == "" {
		return White, fmt.Errorf("empty colour code")
	}
	switch code[0] {
	case 'w', 'W':
		return White, nil
	case 'b', 'B':
		return Black, nil
	}
	return White, fmt.Errorf("invalid colour code: %q", code)
}
