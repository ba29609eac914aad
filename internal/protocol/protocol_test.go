package protocol

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hailam/clobberplay/internal/board"
	"github.com/hailam/clobberplay/internal/engine"
)

func turnInput(pos *board.Position, side board.Side, last string) string {
	var sb strings.Builder
	for _, row := range pos.Rows() {
		sb.WriteString(row)
		sb.WriteByte('\n')
	}
	sb.WriteString(last)
	sb.WriteByte('\n')
	sb.WriteString(strconv.Itoa(pos.CountMoves(side)))
	sb.WriteByte('\n')
	return sb.String()
}

func runAgent(t *testing.T, input string, limits engine.SearchLimits) ([]string, error) {
	t.Helper()
	var out bytes.Buffer
	agent := New(engine.NewEngine(), limits, strings.NewReader(input), &out, zerolog.Nop())
	err := agent.Run(context.Background())
	lines := strings.Fields(out.String())
	return lines, err
}

func TestRunAnswersEachTurn(t *testing.T) {
	start := board.NewPosition()

	afterFirst := start.Copy()
	afterFirst.Apply(board.White, board.NewMove(board.B1, board.A1))

	input := "8\nb\n" +
		turnInput(afterFirst, board.Black, "b1a1")

	stuck, err := board.NewPositionFromMasks(0x00000000000000FF, 0xFF00000000000000)
	if err != nil {
		t.Fatal(err)
	}
	input += turnInput(stuck, board.Black, "a1a2")

	lines, err := runAgent(t, input, engine.SearchLimits{Depth: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 moves, got %v", lines)
	}

	m, err := board.ParseMove(lines[0])
	if err != nil {
		t.Fatalf("first answer %q: %v", lines[0], err)
	}
	if !afterFirst.IsLegal(board.Black, m) {
		t.Errorf("first answer %s is not legal for Black", m)
	}
	if lines[1] != "0000" {
		t.Errorf("stuck position answered %q, want 0000", lines[1])
	}
}

func TestRunSingleCapture(t *testing.T) {
	pos, err := board.NewPositionFromMasks(board.SquareBB(board.A1), board.SquareBB(board.B1))
	if err != nil {
		t.Fatal(err)
	}
	lines, err := runAgent(t, "8\nw\n"+turnInput(pos, board.White, "null"), engine.SearchLimits{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(lines) != 1 || lines[0] != "a1b1" {
		t.Errorf("got %v, want [a1b1]", lines)
	}
}

func TestRunErrors(t *testing.T) {
	rows := strings.Join(board.NewPosition().Rows(), "\n") + "\n"

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"bad size", "9\nw\n", nil},
		{"bad colour", "8\nx\n", nil},
		{"truncated rows", "8\nw\n" + strings.Join(board.NewPosition().Rows()[:3], "\n") + "\n", io.ErrUnexpectedEOF},
		{"missing count", "8\nw\n" + rows + "null\n", io.ErrUnexpectedEOF},
		{"bad count", "8\nw\n" + rows + "null\nmany\n", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runAgent(t, tc.input, engine.SearchLimits{Depth: 1})
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Errorf("error %v does not wrap %v", err, tc.want)
			}
		})
	}
}

func TestRunEmptyGame(t *testing.T) {
	lines, err := runAgent(t, "8\nw\n", engine.SearchLimits{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected no output, got %v", lines)
	}
}
