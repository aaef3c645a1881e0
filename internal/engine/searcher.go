package engine

import (
	"math"

	"chess-backend/internal/model"
)

// Searcher plays minimax with alpha-beta pruning to a fixed ply depth, the
// difficulty knob. Ties break to the first move encountered, so its play is
// deterministic for a given position.
type Searcher struct {
	Depth int
}

func NewSearcher(depth int) *Searcher {
	return &Searcher{Depth: depth}
}

// PickMove satisfies model.MovePicker.
func (s *Searcher) PickMove(b *model.Board, color model.Color) (model.SimpleMove, bool) {
	return s.BestMove(b, color)
}

// BestMove returns the move with the best minimized evaluation one ply down,
// searching Depth plies in total. ok is false when color has no legal moves.
func (s *Searcher) BestMove(b *model.Board, color model.Color) (model.SimpleMove, bool) {
	moves := model.LegalMovesForColor(b, color)
	if len(moves) == 0 {
		return model.SimpleMove{}, false
	}

	best := moves[0]
	bestScore := math.MinInt
	alpha, beta := math.MinInt, math.MaxInt
	for _, move := range moves {
		next := b.Clone()
		next.ApplyMove(move.From, move.To)
		score := s.search(next, color.Opponent(), color, s.Depth-1, alpha, beta)
		if score > bestScore {
			bestScore = score
			best = move
		}
		if bestScore > alpha {
			alpha = bestScore
		}
	}
	return best, true
}

// search backs up the leaf evaluations. turn is the side to move on b, pov
// the side the score is for. The recursion bottoms out at depth zero or when
// either side has no legal moves.
func (s *Searcher) search(b *model.Board, turn, pov model.Color, depth, alpha, beta int) int {
	if depth <= 0 {
		return Evaluate(b, pov)
	}
	moves := model.LegalMovesForColor(b, turn)
	if len(moves) == 0 || !model.HasLegalMoves(b, turn.Opponent()) {
		return Evaluate(b, pov)
	}

	if turn == pov {
		best := math.MinInt
		for _, move := range moves {
			next := b.Clone()
			next.ApplyMove(move.From, move.To)
			score := s.search(next, turn.Opponent(), pov, depth-1, alpha, beta)
			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := math.MaxInt
	for _, move := range moves {
		next := b.Clone()
		next.ApplyMove(move.From, move.To)
		score := s.search(next, turn.Opponent(), pov, depth-1, alpha, beta)
		if score < best {
			best = score
		}
		if best < beta {
			beta = best
		}
		if beta <= alpha {
			break
		}
	}
	return best
}
