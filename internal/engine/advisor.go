package engine

import (
	"math"
	"math/rand"

	"slices"

	"chess-backend/internal/model"
)

const advisorTopN = 3

// Advisor is the single-ply heuristic strategy: it rates every legal move,
// then picks at random among the best few so its play does not loop. The
// random source is injected via the seed so games are reproducible.
type Advisor struct {
	rng *rand.Rand
}

func NewAdvisor(seed int64) *Advisor {
	return &Advisor{rng: rand.New(rand.NewSource(seed))}
}

type ratedMove struct {
	move  model.SimpleMove
	score float64
}

// RateMove scores a single move: captures dominate (ten times the captured
// material), central destinations get a small bonus, and moving a piece off
// an attacked square is worth that piece's own value.
func (a *Advisor) RateMove(b *model.Board, move model.SimpleMove) float64 {
	score := 0.0
	if target := b.At(move.To); target != nil {
		score += float64(pieceValues[target.Type]) * 10
	}

	centerDist := math.Abs(3.5-float64(move.To.Y)) + math.Abs(3.5-float64(move.To.X))
	score += (7 - centerDist) / 2

	if piece := b.At(move.From); piece != nil && isUnderAttack(b, move.From, piece.Color.Opponent()) {
		score += float64(pieceValues[piece.Type])
	}
	return score
}

// PickMove ranks all of color's legal moves and returns one of the top three
// uniformly at random. ok is false when the side has no legal moves.
func (a *Advisor) PickMove(b *model.Board, color model.Color) (model.SimpleMove, bool) {
	moves := model.LegalMovesForColor(b, color)
	if len(moves) == 0 {
		return model.SimpleMove{}, false
	}

	rated := make([]ratedMove, 0, len(moves))
	for _, move := range moves {
		rated = append(rated, ratedMove{move: move, score: a.RateMove(b, move)})
	}
	slices.SortStableFunc(rated, func(x, y ratedMove) int {
		switch {
		case x.score > y.score:
			return -1
		case x.score < y.score:
			return 1
		default:
			return 0
		}
	})

	top := advisorTopN
	if len(rated) < top {
		top = len(rated)
	}
	return rated[a.rng.Intn(top)].move, true
}

// isUnderAttack reports whether any of byColor's pieces has a legal move
// onto pos.
func isUnderAttack(b *model.Board, pos model.Position, byColor model.Color) bool {
	for _, move := range model.LegalMovesForColor(b, byColor) {
		if move.To == pos {
			return true
		}
	}
	return false
}
