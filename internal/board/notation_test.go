package board

import (
	"errors"
	"testing"
)

func TestStartNotation(t *testing.T) {
	pos, side, err := ParseBoard(StartNotation)
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	if side != White {
		t.Errorf("side = %v, want White", side)
	}
	if *pos != *NewPosition() {
		t.Errorf("start notation does not match NewPosition:%s", pos)
	}
	if got := NewPosition().Notation(White); got != StartNotation {
		t.Errorf("Notation() = %q, want %q", got, StartNotation)
	}
}

func TestNotationRoundTrip(t *testing.T) {
	tests := []string{
		"8/8/8/8/8/8/8/8 w",
		"wb6/8/8/8/8/8/8/8 b",
		"8/3b4/2bwb3/3b4/8/8/8/wwwwbbbb w",
		"b6w/8/8/8/8/8/8/w6b b",
	}
	for _, n := range tests {
		t.Run(n, func(t *testing.T) {
			pos, side, err := ParseBoard(n)
			if err != nil {
				t.Fatalf("ParseBoard: %v", err)
			}
			if got := pos.Notation(side); got != n {
				t.Errorf("round trip = %q, want %q", got, n)
			}
		})
	}
}

func TestParseBoardErrors(t *testing.T) {
	tests := []string{
		"",
		"8/8/8/8/8/8/8 w",
		"9/8/8/8/8/8/8/8 w",
		"7/8/8/8/8/8/8/8 w",
		"x7/8/8/8/8/8/8/8 w",
		"8/8/8/8/8/8/8/8 z",
	}
	for _, n := range tests {
		if _, _, err := ParseBoard(n); err == nil {
			t.Errorf("ParseBoard(%q) succeeded, want error", n)
		}
	}
}

func TestParseRows(t *testing.T) {
	rows := []string{
		"wbwbwbwb",
		"bwbwbwbw",
		"wbwbwbwb",
		"bwbwbwbw",
		"wbwbwbwb",
		"bwbwbwbw",
		"wbwbwbwb",
		"bwbwbwbw",
	}
	pos, err := ParseRows(rows)
	if err != nil {
		t.Fatalf("ParseRows: %v", err)
	}
	if *pos != *NewPosition() {
		t.Errorf("rows do not decode to the start position:%s", pos)
	}

	back := pos.Rows()
	for i := range rows {
		if back[i] != rows[i] {
			t.Errorf("row %d = %q, want %q", i, back[i], rows[i])
		}
	}

	// The top row is rank 8.
	sparse := []string{"w.......", "........", "........", "........", "........", "........", "........", ".......b"}
	pos, err = ParseRows(sparse)
	if err != nil {
		t.Fatalf("ParseRows: %v", err)
	}
	if pos.Occupied[White] != SquareBB(A8) || pos.Occupied[Black] != SquareBB(H1) {
		t.Errorf("unexpected masks white=%#x black=%#x", uint64(pos.Occupied[White]), uint64(pos.Occupied[Black]))
	}

	if _, err := ParseRows(sparse[:7]); err == nil {
		t.Error("expected error for 7 rows")
	}
	if _, err := ParseRows(append(sparse[:7:7], "w")); err == nil {
		t.Error("expected error for short row")
	}
}

func TestValidateOverlap(t *testing.T) {
	_, err := NewPositionFromMasks(SquareBB(A1)|SquareBB(B1), SquareBB(B1))
	if !errors.Is(err, ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		in   string
		want Side
		ok   bool
	}{
		{"w", White, true},
		{"white", White, true},
		{"b", Black, true},
		{"", White, false},
		{"x", White, false},
	}
	for _, tc := range tests {
		got, err := ParseSide(tc.in)
		if (err == nil) != tc.ok || (tc.ok && got != tc.want) {
			t.Errorf("ParseSide(%q) = %v, %v", tc.in, got, err)
		}
	}
}
