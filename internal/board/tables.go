package board

import "golang.org/x/exp/constraints"

// Ray directions. The first four are orthogonal, the last four diagonal,
// so rooks use [0,4), bishops [4,8) and queens all eight.
const (
	dirNorth = iota
	dirSouth
	dirWest
	dirEast
	dirNorthWest
	dirSouthEast
	dirNorthEast
	dirSouthWest
)

var directionOffsets = [8]int{8, -8, -1, 1, 7, -7, 9, -9}

// Pre-computed move tables, filled by init.
var (
	// numSquaresToEdge[sq][dir] is how many steps a slider on sq can take in dir.
	numSquaresToEdge [64][8]int

	knightTargets [64][]Square
	kingTargets   [64][]Square

	// pawnCaptures[c][sq] holds the squares a pawn of color c on sq attacks.
	pawnCaptures [2][64][]Square
)

var knightDeltas = [8][2]int{
	{1, 2}, {-1, 2}, {2, 1}, {-2, 1},
	{2, -1}, {-2, -1}, {1, -2}, {-1, -2},
}

var kingDeltas = [8][2]int{
	{0, 1}, {0, -1}, {-1, 0}, {1, 0},
	{-1, 1}, {1, -1}, {1, 1}, {-1, -1},
}

func init() {
	initEdgeDistances()
	initLeaperTargets()
	initPawnCaptures()
}

func initEdgeDistances() {
	for file := 0; file < 8; file++ {
		for rank := 0; rank < 8; rank++ {
			north := 7 - rank
			south := rank
			west := file
			east := 7 - file

			numSquaresToEdge[NewSquare(file, rank)] = [8]int{
				north,
				south,
				west,
				east,
				min(north, west),
				min(south, east),
				min(north, east),
				min(south, west),
			}
		}
	}
}

// leaperTargets applies (file, rank) deltas to sq and keeps the ones that
// stay on the board, which rejects wraparound across the a/h files.
func leaperTargets(sq Square, deltas [8][2]int) []Square {
	var targets []Square
	for _, d := range deltas {
		f, r := sq.File()+d[0], sq.Rank()+d[1]
		if f < 0 || f > 7 || r < 0 || r > 7 {
			continue
		}
		targets = append(targets, NewSquare(f, r))
	}
	return targets
}

func initLeaperTargets() {
	for sq := A1; sq <= H8; sq++ {
		knightTargets[sq] = leaperTargets(sq, knightDeltas)
		kingTargets[sq] = leaperTargets(sq, kingDeltas)
	}
}

func initPawnCaptures() {
	for sq := A1; sq <= H8; sq++ {
		for _, c := range []Color{White, Black} {
			r := sq.Rank() + pawnDirection(c)
			if r < 0 || r > 7 {
				continue
			}
			for _, df := range []int{-1, 1} {
				f := sq.File() + df
				if f < 0 || f > 7 {
					continue
				}
				pawnCaptures[c][sq] = append(pawnCaptures[c][sq], NewSquare(f, r))
			}
		}
	}
}

// pawnDirection is +1 rank for White and -1 for Black.
func pawnDirection(c Color) int {
	if c == White {
		return 1
	}
	return -1
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
