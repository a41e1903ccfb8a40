package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
// This is the standard way to verify move generation correctness.
func (b *Board) Perft(depth int) int64 {
	if depth <= 0 {
		return 1
	}
	buffers := make([][]Move, depth)
	return b.perft(depth, buffers)
}

// perft reuses one move buffer per remaining depth.
func (b *Board) perft(depth int, buffers [][]Move) int64 {
	moves := b.LegalMovesInto(buffers[depth-1][:0])
	buffers[depth-1] = moves
	if depth == 1 {
		return int64(len(moves))
	}

	var nodes int64
	for i := range moves {
		b.ApplyMove(&moves[i])
		nodes += b.perft(depth-1, buffers)
		b.UnapplyMove(&moves[i])
	}
	return nodes
}
