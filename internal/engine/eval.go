// Package engine picks moves for the computer player. It offers two
// strategies over the same material table: a cheap single-ply Advisor and a
// depth-bounded alpha-beta Searcher. Both work on board snapshots handed to
// them, never on a live game.
package engine

import "chess-backend/internal/model"

var pieceValues = map[model.PieceType]int{
	model.Pawn:   1,
	model.Knight: 3,
	model.Bishop: 3,
	model.Rook:   5,
	model.Queen:  9,
	model.King:   100,
}

func PieceValue(t model.PieceType) int {
	return pieceValues[t]
}

// Evaluate scores the board from pov's point of view: own material minus the
// opponent's.
func Evaluate(b *model.Board, pov model.Color) int {
	score := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			piece := b.Squares[y][x]
			if piece == nil {
				continue
			}
			value := pieceValues[piece.Type]
			if piece.Color == pov {
				score += value
			} else {
				score -= value
			}
		}
	}
	return score
}
