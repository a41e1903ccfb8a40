package board

// Zobrist keys for the repetition history.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [2][7][64]uint64 // [Color][PieceType][Square], index 0 unused
	zobristEnPassant  [8]uint64        // One per file
	zobristCastling   [16]uint64       // All 16 castling combinations
	zobristSideToMove uint64           // XOR when black to move
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

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}

	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}

	for i := 0; i < 16; i++ {
		zobristCastling[i] = rng.next()
	}

	zobristSideToMove = rng.next()
}

// computeHash builds the key from scratch. It hashes the same fields as
// PositionKey: placement, side to move, castling rights and en-passant file.
func (b *Board) computeHash() uint64 {
	var hash uint64

	for sq := A1; sq <= H8; sq++ {
		p := b.squares[sq]
		if !p.IsEmpty() {
			hash ^= zobristPiece[p.Color][p.Type][sq]
		}
	}

	if b.sideToMove == Black {
		hash ^= zobristSideToMove
	}

	hash ^= zobristCastling[b.CastlingRights()]

	if b.enPassant != NoSquare {
		hash ^= zobristEnPassant[b.enPassant.File()]
	}

	return hash
}
