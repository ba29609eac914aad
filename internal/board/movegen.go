package board

// Direction offsets in square index units.
const (
	offsetWest  = -1
	offsetEast  = 1
	offsetNorth = 8
	offsetSouth = -8
)

// captureTargets returns, for each direction in generation order (left,
// right, up, down), the opponent squares side can land on and the offset
// that leads there.
func (p *Position) captureTargets(side Side) (targets [4]Bitboard, offsets [4]int) {
	us := p.Occupied[side]
	them := p.Occupied[side.Other()]

	targets[0] = us.West() & them
	targets[1] = us.East() & them
	targets[2] = us.North() & them
	targets[3] = us.South() & them

	return targets, [4]int{offsetWest, offsetEast, offsetNorth, offsetSouth}
}

// GenerateMoves generates every capture available to side.
// Moves are ordered by direction (left, right, up, down) and by ascending
// destination square within a direction. An empty list means side has lost.
func (p *Position) GenerateMoves(side Side) *MoveList {
	ml := NewMoveList()
	p.GenerateMovesInto(ml, side)
	return ml
}

// GenerateMovesInto fills ml with side's captures, discarding its previous
// contents. The search uses it with a list on its own stack frame.
func (p *Position) GenerateMovesInto(ml *MoveList, side Side) {
	ml.Clear()
	targets, offsets := p.captureTargets(side)
	for dir, bb := range targets {
		for bb != 0 {
			to := bb.PopLSB()
			from := Square(int(to) - offsets[dir])
			ml.Add(NewMove(from, to))
		}
	}
}

// CountMoves returns the number of captures available to side without
// building a list.
func (p *Position) CountMoves(side Side) int {
	targets, _ := p.captureTargets(side)
	n := 0
	for _, bb := range targets {
		n += bb.PopCount()
	}
	return n
}

// MovesFrom returns the captures side can make with the piece on sq.
func (p *Position) MovesFrom(side Side, sq Square) *MoveList {
	ml := NewMoveList()
	all := p.GenerateMoves(side)
	for _, m := range all.Slice() {
		if m.From() == sq {
			ml.Add(m)
		}
	}
	return ml
}
