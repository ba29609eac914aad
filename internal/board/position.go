package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOverlap is returned when a square is claimed by both sides.
var ErrOverlap = errors.New("square occupied by both sides")

// Position is a Clobber position: one occupancy bitboard per side.
// It is small and meant to be copied by value; the search copies it at
// every node instead of undoing moves.
type Position struct {
	Occupied [2]Bitboard
}

// NewPosition creates the starting position: every square filled in a
// checkerboard pattern, a1 Black and b1 White.
func NewPosition() *Position {
	return &Position{Occupied: [2]Bitboard{LightSquares, DarkSquares}}
}

// NewPositionFromMasks creates a position from raw occupancy masks.
func NewPositionFromMasks(white, black Bitboard) (*Position, error) {
	p := &Position{Occupied: [2]Bitboard{white, black}}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Copy creates a copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// Apply plays a capture for side. The mover's from and to bits are toggled
// (from was set, to was clear) and the captured piece on to is removed.
// The move must be legal; it is not re-validated.
func (p *Position) Apply(side Side, m Move) {
	to := SquareBB(m.To())
	p.Occupied[side] ^= SquareBB(m.From()) | to
	p.Occupied[side.Other()] ^= to
}

// All returns the squares occupied by either side.
func (p *Position) All() Bitboard {
	return p.Occupied[White] | p.Occupied[Black]
}

// SideAt returns the owner of sq. ok is false for an empty square.
func (p *Position) SideAt(sq Square) (side Side, ok bool) {
	bb := SquareBB(sq)
	switch {
	case p.Occupied[White]&bb != 0:
		return White, true
	case p.Occupied[Black]&bb != 0:
		return Black, true
	}
	return White, false
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.All()&SquareBB(sq) == 0
}

// Count returns the number of pieces side has on the board.
func (p *Position) Count(side Side) int {
	return p.Occupied[side].PopCount()
}

// IsLegal reports whether m is a capture side may play here.
func (p *Position) IsLegal(side Side, m Move) bool {
	from, to := m.From(), m.To()
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	if !p.Occupied[side].IsSet(from) || !p.Occupied[side.Other()].IsSet(to) {
		return false
	}
	df := from.File() - to.File()
	dr := from.Rank() - to.Rank()
	return df*df+dr*dr == 1
}

// HasLost reports whether side, being on move, has no capture left.
func (p *Position) HasLost(side Side) bool {
	return p.CountMoves(side) == 0
}

// Validate checks that no square is claimed by both sides.
func (p *Position) Validate() error {
	if overlap := p.Occupied[White] & p.Occupied[Black]; overlap != 0 {
		return fmt.Errorf("%w: %s", ErrOverlap, overlap.LSB())
	}
	return nil
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			side, ok := p.SideAt(NewSquare(file, rank))
			if !ok {
				sb.WriteString(". ")
				continue
			}
			sb.WriteByte(side.Code())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}
