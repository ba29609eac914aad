package board

import "testing"

// perft counts the number of leaf nodes at the given depth.
// This is the standard way to verify move generation correctness.
func perft(p *Position, side Side, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := p.GenerateMoves(side)
	if depth == 1 {
		return int64(moves.Len())
	}

	var nodes int64
	for _, m := range moves.Slice() {
		child := *p
		child.Apply(side, m)
		nodes += perft(&child, side.Other(), depth-1)
	}
	return nodes
}

// TestPerftStartingPosition tests move generation from the starting position.
func TestPerftStartingPosition(t *testing.T) {
	pos := NewPosition()

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 112},
		{2, 11848},
		{3, 1182276},
	}

	for _, tc := range tests {
		t.Run("", func(t *testing.T) {
			got := perft(pos, White, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftKeepsMasksDisjoint walks the tree and checks that no sequence of
// captures ever puts both sides on one square or changes the piece total by
// more than one per ply.
func TestPerftKeepsMasksDisjoint(t *testing.T) {
	var walk func(p Position, side Side, depth int)
	walk = func(p Position, side Side, depth int) {
		if err := p.Validate(); err != nil {
			t.Fatalf("overlapping masks: %v\n%s", err, p.String())
		}
		if depth == 0 {
			return
		}
		total := p.All().PopCount()
		for _, m := range p.GenerateMoves(side).Slice() {
			child := p
			child.Apply(side, m)
			if got := child.All().PopCount(); got != total-1 {
				t.Fatalf("after %s: %d pieces, want %d", m, got, total-1)
			}
			walk(child, side.Other(), depth-1)
		}
	}
	walk(*NewPosition(), White, 3)
}
