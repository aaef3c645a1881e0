package model

import (
	"testing"
)

func mustMove(t *testing.T, g *Game, fromX, fromY, toX, toY int) MoveResult {
	t.Helper()
	result, err := g.MakeMove(SimpleMove{
		From: Position{X: fromX, Y: fromY},
		To:   Position{X: toX, Y: toY},
	})
	if err != nil {
		t.Fatalf("move (%d,%d)->(%d,%d): %v", fromX, fromY, toX, toY, err)
	}
	return result
}

func TestFoolsMate(t *testing.T) {
	g := NewGame("test")

	mustMove(t, g, 5, 6, 5, 5)           // f2-f3
	mustMove(t, g, 4, 1, 4, 3)           // e7-e5
	mustMove(t, g, 6, 6, 6, 4)           // g2-g4
	result := mustMove(t, g, 3, 0, 7, 4) // Qd8-h4#

	if result.Outcome == nil || *result.Outcome != OutcomeCheckmate {
		t.Fatalf("want checkmate, got %v", result.Outcome)
	}

	state := g.GetState()
	if state.Resolve == nil || *state.Resolve != OutcomeCheckmate {
		t.Fatalf("want resolved checkmate, got %v", state.Resolve)
	}
	if state.ToMove != White {
		t.Errorf("checkmated side to move should be white, got %s", state.ToMove)
	}
	if !state.IsCheck {
		t.Error("checkmate implies check")
	}

	// The game is over; further moves are rejected without changing state.
	if _, err := g.MakeMove(SimpleMove{From: Position{X: 4, Y: 6}, To: Position{X: 4, Y: 4}}); err == nil {
		t.Error("moves after checkmate must be rejected")
	}
	if got := len(g.GetState().MoveHistory); got != 4 {
		t.Errorf("history grew after rejected move: %d", got)
	}
}

func TestStalemateDetection(t *testing.T) {
	g := NewGame("test")
	b := &Board{}
	place(b, King, Black, 0, 0)           // Ka8
	place(b, King, White, 1, 2)           // Kb6
	queen := place(b, Queen, White, 2, 6) // Qc2
	g.state.Board = b
	g.state.ToMove = White

	result, err := g.MakeMove(SimpleMove{From: queen.Position, To: Position{X: 2, Y: 1}}) // Qc7
	if err != nil {
		t.Fatalf("Qc2-c7: %v", err)
	}
	if result.Outcome == nil || *result.Outcome != OutcomeStalemate {
		t.Fatalf("want stalemate, got %v", result.Outcome)
	}

	state := g.GetState()
	if state.IsCheck {
		t.Error("stalemate must not be a check")
	}
	if state.ToMove != Black {
		t.Errorf("stalemated side to move should be black, got %s", state.ToMove)
	}
}

func TestPawnPromotionToQueen(t *testing.T) {
	g := NewGame("test")
	b := &Board{}
	place(b, King, White, 4, 7)
	place(b, King, Black, 7, 0)
	pawn := place(b, Pawn, White, 0, 1)
	pawn.HasMoved = true
	g.state.Board = b

	result := mustMove(t, g, 0, 1, 0, 0)

	if !result.Promoted {
		t.Fatal("promotion not reported")
	}
	promoted := g.GetState().Board.At(Position{X: 0, Y: 0})
	if promoted == nil || promoted.Type != Queen || promoted.Color != White {
		t.Fatalf("want white queen on a8, got %+v", promoted)
	}
	last := g.GetState().MoveHistory[0]
	if last.Notation != "a8=Q" {
		t.Errorf("promotion notation: want a8=Q, got %q", last.Notation)
	}
}

func TestCaptureBookkeeping(t *testing.T) {
	g := NewGame("test")

	mustMove(t, g, 4, 6, 4, 4)           // e2-e4
	mustMove(t, g, 3, 1, 3, 3)           // d7-d5
	result := mustMove(t, g, 4, 4, 3, 3) // exd5

	if result.Captured == nil || *result.Captured != Pawn {
		t.Fatalf("want captured pawn, got %v", result.Captured)
	}
	state := g.GetState()
	if len(state.CapturedPieces.White) != 1 || state.CapturedPieces.White[0].Type != Pawn {
		t.Errorf("white capture list wrong: %+v", state.CapturedPieces.White)
	}
	if state.Sound != "capture" {
		t.Errorf("capture sound hook: want capture, got %q", state.Sound)
	}
	if state.MoveHistory[2].Notation != "exd5" {
		t.Errorf("capture notation: want exd5, got %q", state.MoveHistory[2].Notation)
	}
}

func TestUndoRestoresBoardAndTurn(t *testing.T) {
	g := NewGame("test")

	mustMove(t, g, 4, 6, 4, 4) // e2-e4
	mustMove(t, g, 3, 1, 3, 3) // d7-d5
	mustMove(t, g, 4, 4, 3, 3) // exd5

	if err := g.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}

	state := g.GetState()
	if state.ToMove != White {
		t.Errorf("turn not restored: %s", state.ToMove)
	}
	mover := state.Board.At(Position{X: 4, Y: 4})
	if mover == nil || mover.Type != Pawn || mover.Color != White {
		t.Errorf("moving pawn not restored to e4: %+v", mover)
	}
	captured := state.Board.At(Position{X: 3, Y: 3})
	if captured == nil || captured.Type != Pawn || captured.Color != Black {
		t.Errorf("captured pawn not restored to d5: %+v", captured)
	}
	if len(state.CapturedPieces.White) != 0 {
		t.Errorf("capture list not popped: %+v", state.CapturedPieces.White)
	}
	if len(state.MoveHistory) != 2 {
		t.Errorf("history length after undo: want 2, got %d", len(state.MoveHistory))
	}
}

// The original left HasMoved set after an undo, silently costing pawns their
// double advance. Here the flag is snapshotted per ply and restored.
func TestUndoRestoresHasMoved(t *testing.T) {
	g := NewGame("test")

	mustMove(t, g, 4, 6, 4, 4) // e2-e4
	if err := g.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}

	pawn := g.GetState().Board.At(Position{X: 4, Y: 6})
	if pawn == nil {
		t.Fatal("pawn not back on e2")
	}
	if pawn.HasMoved {
		t.Fatal("HasMoved not restored by undo")
	}
	if !containsPosition(LegalMoves(g.GetState().Board, pawn), Position{X: 4, Y: 4}) {
		t.Error("double advance must be legal again after undo")
	}
}

func TestUndoRevertsPromotion(t *testing.T) {
	g := NewGame("test")
	b := &Board{}
	place(b, King, White, 4, 7)
	place(b, King, Black, 7, 0)
	pawn := place(b, Pawn, White, 0, 1)
	pawn.HasMoved = true
	g.state.Board = b

	mustMove(t, g, 0, 1, 0, 0)
	if err := g.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}

	reverted := g.GetState().Board.At(Position{X: 0, Y: 1})
	if reverted == nil || reverted.Type != Pawn {
		t.Fatalf("promotion not reverted: %+v", reverted)
	}
	if !reverted.HasMoved {
		t.Error("pawn had moved before the promotion; flag lost on undo")
	}
}

func TestUndoClearsOutcome(t *testing.T) {
	g := NewGame("test")

	mustMove(t, g, 5, 6, 5, 5)
	mustMove(t, g, 4, 1, 4, 3)
	mustMove(t, g, 6, 6, 6, 4)
	mustMove(t, g, 3, 0, 7, 4) // checkmate

	if err := g.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	state := g.GetState()
	if state.Resolve != nil {
		t.Errorf("outcome not cleared by undo: %v", *state.Resolve)
	}
	if state.ToMove != Black {
		t.Errorf("turn after undoing black's mate: want black, got %s", state.ToMove)
	}
}

func TestUndoOnEmptyHistory(t *testing.T) {
	g := NewGame("test")
	if err := g.Undo(); err == nil {
		t.Fatal("undo with no history must fail")
	}
}

func TestMoveRejections(t *testing.T) {
	g := NewGame("test")

	tests := []struct {
		name string
		move SimpleMove
	}{
		{"empty from square", SimpleMove{From: Position{X: 4, Y: 4}, To: Position{X: 4, Y: 3}}},
		{"opponent's piece", SimpleMove{From: Position{X: 4, Y: 1}, To: Position{X: 4, Y: 3}}},
		{"illegal destination", SimpleMove{From: Position{X: 4, Y: 6}, To: Position{X: 4, Y: 3}}},
		{"out of bounds", SimpleMove{From: Position{X: 4, Y: 6}, To: Position{X: 4, Y: -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := g.MakeMove(tt.move)
			if err == nil {
				t.Fatal("want rejection")
			}
			if result.Applied {
				t.Error("rejected move reported as applied")
			}
			if len(g.GetState().MoveHistory) != 0 {
				t.Error("rejected move changed state")
			}
		})
	}
}

func TestResetRebuildsStartingPosition(t *testing.T) {
	g := NewGame("test")
	if _, err := g.AddPlayer("p1"); err != nil {
		t.Fatal(err)
	}
	mustMove(t, g, 4, 6, 4, 4)

	g.Reset()

	state := g.GetState()
	if len(state.MoveHistory) != 0 || state.ToMove != White || state.Resolve != nil {
		t.Errorf("reset did not produce a fresh game: %+v", state)
	}
	if state.Board.At(Position{X: 4, Y: 6}) == nil {
		t.Error("reset did not restore the starting position")
	}
	if state.Players.White.ID != "p1" {
		t.Error("reset dropped the seated player")
	}
}

func TestLegalDestinationsQuery(t *testing.T) {
	g := NewGame("test")

	got := g.LegalDestinations(Position{X: 4, Y: 6})
	assertSameSquares(t, got, []Position{{X: 4, Y: 5}, {X: 4, Y: 4}})

	if got := g.LegalDestinations(Position{X: 4, Y: 1}); len(got) != 0 {
		t.Errorf("highlighting the opponent's piece: want none, got %v", got)
	}
	if got := g.LegalDestinations(Position{X: 4, Y: 4}); len(got) != 0 {
		t.Errorf("highlighting an empty square: want none, got %v", got)
	}
	if got := g.LegalDestinations(Position{X: -1, Y: 9}); len(got) != 0 {
		t.Errorf("highlighting off the board: want none, got %v", got)
	}
}

func TestAddPlayerAssignsColors(t *testing.T) {
	g := NewGame("test")

	c1, err := g.AddPlayer("p1")
	if err != nil || c1 != White {
		t.Fatalf("first player: want white, got %s (%v)", c1, err)
	}
	c2, err := g.AddPlayer("p2")
	if err != nil || c2 != Black {
		t.Fatalf("second player: want black, got %s (%v)", c2, err)
	}
	if _, err := g.AddPlayer("p3"); err == nil {
		t.Fatal("third player must be rejected")
	}
}
