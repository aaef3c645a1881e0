package model

// IsKingInCheck reports whether color's king is attacked. A board with no
// king for that side is an illegal position and counts as checked rather
// than being an error.
func IsKingInCheck(b *Board, color Color) bool {
	kingPos, ok := b.findKing(color)
	if !ok {
		return true
	}
	for _, piece := range b.pieces(color.Opponent()) {
		for _, move := range PseudoMoves(b, piece) {
			if move == kingPos {
				return true
			}
		}
	}
	return false
}

// LegalMoves keeps the pseudo-moves that do not leave the mover's own king in
// check, by playing each one out on a cloned board. Move validation, terminal
// detection and the search all rely on this single filter.
func LegalMoves(b *Board, piece *Piece) []Position {
	legal := []Position{}
	for _, move := range PseudoMoves(b, piece) {
		next := b.Clone()
		next.ApplyMove(piece.Position, move)
		if !IsKingInCheck(next, piece.Color) {
			legal = append(legal, move)
		}
	}
	return legal
}

// LegalMovesForColor gathers every legal move for the side, in board-scan
// order.
func LegalMovesForColor(b *Board, color Color) []SimpleMove {
	moves := []SimpleMove{}
	for _, piece := range b.pieces(color) {
		for _, to := range LegalMoves(b, piece) {
			moves = append(moves, SimpleMove{From: piece.Position, To: to})
		}
	}
	return moves
}

func HasLegalMoves(b *Board, color Color) bool {
	for _, piece := range b.pieces(color) {
		if len(LegalMoves(b, piece)) > 0 {
			return true
		}
	}
	return false
}
