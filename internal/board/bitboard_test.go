package board

import "testing"

func TestShifts(t *testing.T) {
	tests := []struct {
		name string
		got  Bitboard
		want Bitboard
	}{
		{"west drops file a", (FileA | FileB).West(), FileA},
		{"east drops file h", (FileG | FileH).East(), FileH},
		{"north falls off rank 8", (Rank7 | Rank8).North(), Rank8},
		{"south falls off rank 1", (Rank1 | Rank2).South(), Rank1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got\n%s\nwant\n%s", tc.got, tc.want)
			}
		})
	}
}

func TestPopLSB(t *testing.T) {
	bb := SquareBB(A1) | SquareBB(H1) | SquareBB(H8)
	want := []Square{A1, H1, H8}
	for _, w := range want {
		if got := bb.PopLSB(); got != w {
			t.Fatalf("PopLSB = %s, want %s", got, w)
		}
	}
	if !bb.Empty() {
		t.Errorf("bitboard not empty after popping all squares")
	}
	if got := bb.PopLSB(); got != NoSquare {
		t.Errorf("PopLSB on empty = %v, want NoSquare", got)
	}
}

func TestCheckerboardMasks(t *testing.T) {
	if LightSquares&DarkSquares != 0 {
		t.Fatal("light and dark squares overlap")
	}
	if LightSquares.PopCount() != 32 || DarkSquares.PopCount() != 32 {
		t.Fatalf("expected 32/32 squares, got %d/%d", LightSquares.PopCount(), DarkSquares.PopCount())
	}
	if LightSquares.IsSet(A1) || !LightSquares.IsSet(B1) || !LightSquares.IsSet(A2) {
		t.Error("light squares should hold b1 and a2 but not a1")
	}
}

func TestSquareString(t *testing.T) {
	tests := []struct {
		sq   Square
		want string
	}{
		{A1, "a1"},
		{10, "c2"},
		{11, "d2"},
		{H8, "h8"},
		{NoSquare, "-"},
	}
	for _, tc := range tests {
		if got := tc.sq.String(); got != tc.want {
			t.Errorf("Square(%d).String() = %s, want %s", tc.sq, got, tc.want)
		}
		if tc.sq == NoSquare {
			continue
		}
		back, err := ParseSquare(tc.want)
		if err != nil || back != tc.sq {
			t.Errorf("ParseSquare(%s) = %v, %v", tc.want, back, err)
		}
	}
}

func TestMoveEncoding(t *testing.T) {
	m := NewMove(10, 11)
	if m.From() != 10 || m.To() != 11 {
		t.Fatalf("NewMove(10, 11) decoded as %d->%d", m.From(), m.To())
	}
	if m.String() != "c2d2" {
		t.Errorf("String() = %s, want c2d2", m)
	}
	if NoMove.String() != "0000" {
		t.Errorf("NoMove.String() = %s, want 0000", NoMove)
	}
	parsed, err := ParseMove("c2d2")
	if err != nil || parsed != m {
		t.Errorf("ParseMove(c2d2) = %v, %v", parsed, err)
	}
	for _, bad := range []string{"", "c2d", "c2d9", "z1a1"} {
		if _, err := ParseMove(bad); err == nil {
			t.Errorf("ParseMove(%q) succeeded, want error", bad)
		}
	}
}
