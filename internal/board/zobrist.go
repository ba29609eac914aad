package board

// Zobrist hash keys for position hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristStone      [2][64]uint64 // [Side][Square]
	zobristSideToMove uint64        // XOR when Black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for side := White; side <= Black; side++ {
		for sq := A1; sq <= H8; sq++ {
			zobristStone[side][sq] = rng.next()
		}
	}
	zobristSideToMove = rng.next()
}

// ZobristStone returns the Zobrist key for a stone of side on sq.
func ZobristStone(side Side, sq Square) uint64 {
	return zobristStone[side][sq]
}

// Hash returns the Zobrist hash of the position with toMove to play.
func (p *Position) Hash(toMove Side) uint64 {
	var h uint64
	for side := White; side <= Black; side++ {
		bb := p.Occupied[side]
		for bb != 0 {
			h ^= zobristStone[side][bb.PopLSB()]
		}
	}
	if toMove == Black {
		h ^= zobristSideToMove
	}
	return h
}

// HashAfter returns the hash after side plays m, given the hash h before
// the move. It equals p.Hash(side.Other()) after p.Apply(side, m).
func HashAfter(h uint64, side Side, m Move) uint64 {
	from, to := m.From(), m.To()
	h ^= zobristStone[side][from] ^ zobristStone[side][to]
	h ^= zobristStone[side.Other()][to]
	return h ^ zobristSideToMove
}
