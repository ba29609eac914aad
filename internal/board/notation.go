package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartNotation is the notation of the starting position with White to move.
const StartNotation = "wbwbwbwb/bwbwbwbw/wbwbwbwb/bwbwbwbw/wbwbwbwb/bwbwbwbw/wbwbwbwb/bwbwbwbw w"

// ParseRows decodes board rows as sent by the referee: the first row is
// rank 8, the first character of a row is file a. 'w' marks a White piece,
// 'b' a Black piece and any other character an empty square.
func ParseRows(rows []string) (*Position, error) {
	if len(rows) != Size {
		return nil, fmt.Errorf("invalid board: need %d rows, got %d", Size, len(rows))
	}

	pos := &Position{}
	for i, row := range rows {
		if len(row) < Size {
			return nil, fmt.Errorf("invalid row %d: need %d squares, got %d", i, Size, len(row))
		}
		rank := Size - i - 1
		for file := 0; file < Size; file++ {
			sq := NewSquare(file, rank)
			switch row[file] {
			case 'w':
				pos.Occupied[White] |= SquareBB(sq)
			case 'b':
				pos.Occupied[Black] |= SquareBB(sq)
			}
		}
	}
	return pos, nil
}

// Rows encodes the position in the referee's row format, '.' for empty.
func (p *Position) Rows() []string {
	rows := make([]string, 0, Size)
	for rank := Size - 1; rank >= 0; rank-- {
		var sb strings.Builder
		for file := 0; file < Size; file++ {
			side, ok := p.SideAt(NewSquare(file, rank))
			if !ok {
				sb.WriteByte('.')
				continue
			}
			sb.WriteByte(side.Code())
		}
		rows = append(rows, sb.String())
	}
	return rows
}

// ParseBoard parses a compact notation string: eight ranks from 8 down to 1
// separated by '/', digits for runs of empty squares, then the side to move.
func ParseBoard(notation string) (*Position, Side, error) {
	parts := strings.Fields(notation)
	if len(parts) != 2 {
		return nil, White, fmt.Errorf("invalid notation: need 2 fields, got %d", len(parts))
	}

	ranks := strings.Split(parts[0], "/")
	if len(ranks) != Size {
		return nil, White, fmt.Errorf("invalid placement: need %d ranks, got %d", Size, len(ranks))
	}

	pos := &Position{}
	for i, rankStr := range ranks {
		rank := Size - i - 1
		file := 0

		for _, c := range rankStr {
			if file > Size-1 {
				return nil, White, fmt.Errorf("too many squares in rank %d", rank+1)
			}

			switch {
			case c >= '1' && c <= '8':
				file += int(c - '0')
			case c == 'w':
				pos.Occupied[White] |= SquareBB(NewSquare(file, rank))
				file++
			case c == 'b':
				pos.Occupied[Black] |= SquareBB(NewSquare(file, rank))
				file++
			default:
				return nil, White, fmt.Errorf("invalid piece character: %c", c)
			}
		}

		if file != Size {
			return nil, White, fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}

	side, err := ParseSide(parts[1])
	if err != nil {
		return nil, White, fmt.Errorf("invalid side to move: %w", err)
	}

	return pos, side, nil
}

// Notation returns the compact notation of the position with side to move.
func (p *Position) Notation(side Side) string {
	var sb strings.Builder

	for rank := Size - 1; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < Size; file++ {
			owner, ok := p.SideAt(NewSquare(file, rank))
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(owner.Code())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	sb.WriteByte(side.Code())

	return sb.String()
}
