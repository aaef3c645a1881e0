package model

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Ply is one half-move as recorded in the history. It snapshots everything
// undo needs: the captured piece, whether the move promoted, and the mover's
// pre-move HasMoved flag (without it a pawn would lose its double-advance
// after an undo).
type Ply struct {
	Piece         PieceType `json:"piece"`
	Color         Color     `json:"color"`
	From          Position  `json:"from"`
	To            Position  `json:"to"`
	CapturedPiece *Piece    `json:"capturedPiece"`
	Promotion     bool      `json:"promotion"`
	HadMoved      bool      `json:"hadMoved"`
	Notation      string    `json:"notation"`
}

// MoveResult tells the caller what a move attempt did. Applied is false for
// every rejected request and the game state is then unchanged.
type MoveResult struct {
	Applied  bool       `json:"applied"`
	Captured *PieceType `json:"captured,omitempty"`
	Promoted bool       `json:"promoted"`
	Outcome  *string    `json:"outcome,omitempty"`
}
