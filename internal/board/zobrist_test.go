package board

import "testing"

func TestHashIncremental(t *testing.T) {
	pos := NewPosition()
	side := White
	h := pos.Hash(side)

	for ply := 0; ply < 20; ply++ {
		ml := pos.GenerateMoves(side)
		if ml.Len() == 0 {
			break
		}
		m := ml.Get((ply * 7) % ml.Len())
		h = HashAfter(h, side, m)
		pos.Apply(side, m)
		side = side.Other()

		if want := pos.Hash(side); h != want {
			t.Fatalf("ply %d: incremental hash %x, full hash %x", ply, h, want)
		}
	}
}

func TestHashDistinguishes(t *testing.T) {
	pos := NewPosition()
	if pos.Hash(White) == pos.Hash(Black) {
		t.Error("side to move not part of the hash")
	}

	a := pos.Copy()
	a.Apply(White, NewMove(B1, A1))
	b := pos.Copy()
	b.Apply(White, NewMove(B1, C1))
	if a.Hash(Black) == b.Hash(Black) {
		t.Error("different positions share a hash")
	}

	// Transposed move order reaches the same position and hash.
	x := pos.Copy()
	x.Apply(White, NewMove(B1, A1))
	x.Apply(Black, NewMove(H8, G8))
	x.Apply(White, NewMove(D1, C1))
	x.Apply(Black, NewMove(F8, E8))

	y := pos.Copy()
	y.Apply(White, NewMove(D1, C1))
	y.Apply(Black, NewMove(F8, E8))
	y.Apply(White, NewMove(B1, A1))
	y.Apply(Black, NewMove(H8, G8))

	if x.Hash(White) != y.Hash(White) {
		t.Error("transposition hashed differently")
	}
}
