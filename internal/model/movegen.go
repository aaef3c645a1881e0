package model

var (
	rookDirs   = []Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	bishopDirs = []Position{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	knightDirs = []Position{{X: 2, Y: 1}, {X: 2, Y: -1}, {X: -2, Y: 1}, {X: -2, Y: -1}, {X: 1, Y: 2}, {X: 1, Y: -2}, {X: -1, Y: 2}, {X: -1, Y: -2}}
	kingDirs   = []Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
)

// PseudoMoves returns the destinations the piece can move to by its movement
// rules alone. It never consults check status; that is the legality filter's
// job.
func PseudoMoves(b *Board, piece *Piece) []Position {
	switch piece.Type {
	case Pawn:
		return pawnMoves(b, piece)
	case Knight:
		return stepMoves(b, piece, knightDirs)
	case Bishop:
		return slideMoves(b, piece, bishopDirs)
	case Rook:
		return slideMoves(b, piece, rookDirs)
	case Queen:
		return append(slideMoves(b, piece, bishopDirs), slideMoves(b, piece, rookDirs)...)
	case King:
		return stepMoves(b, piece, kingDirs)
	default:
		return []Position{}
	}
}

func pawnMoves(b *Board, piece *Piece) []Position {
	moves := []Position{}
	dir := -1 // white advances toward rank index 0
	if piece.Color == Black {
		dir = 1
	}
	forward := Position{X: piece.Position.X, Y: piece.Position.Y + dir}
	if forward.onBoard() && b.At(forward) == nil {
		moves = append(moves, forward)
		double := Position{X: piece.Position.X, Y: piece.Position.Y + 2*dir}
		if !piece.HasMoved && double.onBoard() && b.At(double) == nil {
			moves = append(moves, double)
		}
	}
	for _, dx := range []int{-1, 1} {
		capture := Position{X: piece.Position.X + dx, Y: piece.Position.Y + dir}
		if !capture.onBoard() {
			continue
		}
		if target := b.At(capture); target != nil && target.Color != piece.Color {
			moves = append(moves, capture)
		}
	}
	return moves
}

// stepMoves covers the fixed-offset movers, knight and king.
func stepMoves(b *Board, piece *Piece, dirs []Position) []Position {
	moves := []Position{}
	for _, dir := range dirs {
		target := Position{X: piece.Position.X + dir.X, Y: piece.Position.Y + dir.Y}
		if !target.onBoard() {
			continue
		}
		if occupant := b.At(target); occupant == nil || occupant.Color != piece.Color {
			moves = append(moves, target)
		}
	}
	return moves
}

// slideMoves ray-casts along each direction until the board edge, stopping
// before an own piece and on an opposing piece.
func slideMoves(b *Board, piece *Piece, dirs []Position) []Position {
	moves := []Position{}
	for _, dir := range dirs {
		target := Position{X: piece.Position.X + dir.X, Y: piece.Position.Y + dir.Y}
		for target.onBoard() {
			occupant := b.At(target)
			if occupant == nil {
				moves = append(moves, target)
			} else {
				if occupant.Color != piece.Color {
					moves = append(moves, target)
				}
				break
			}
			target = Position{X: target.X + dir.X, Y: target.Y + dir.Y}
		}
	}
	return moves
}
