package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"chess-backend/internal/ws"

	"github.com/gofiber/websocket/v2"
)

const (
	OutcomeCheckmate = "checkmate"
	OutcomeStalemate = "stalemate"

	// Pacing delay before an engine reply is played, so the computer does
	// not appear to answer instantly.
	aiMoveDelay = 500 * time.Millisecond

	initialClockTime = 600 * time.Second
)

// MovePicker chooses a move for a side given a board snapshot. Both engine
// strategies implement it.
type MovePicker interface {
	PickMove(b *Board, color Color) (SimpleMove, bool)
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

// The Game struct owns a single game's state and its observers.
type Game struct {
	ID          string
	mu          sync.Mutex
	state       GameState
	connections *GameConnections
	whiteClock  *Clock
	blackClock  *Clock
	ai          MovePicker
	aiColor     Color
}

type GameState struct {
	Sound          string         `json:"sound"`
	Board          *Board         `json:"board"`
	ToMove         Color          `json:"toMove"`
	MoveHistory    []Ply          `json:"moveHistory"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	IsCheck        bool           `json:"isCheck"`
	Resolve        *string        `json:"resolve"`
	LastMove       *SimpleMove    `json:"lastMove"`
	Players        struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
}

type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:          id,
		state:       newGameState(),
		connections: NewGameConnections(),
		whiteClock:  NewClock(initialClockTime),
		blackClock:  NewClock(initialClockTime),
	}
}

func newGameState() GameState {
	state := GameState{
		Board:          NewBoard(),
		ToMove:         White,
		MoveHistory:    make([]Ply, 0),
		CapturedPieces: newCapturedPieces(),
	}
	state.Players.White = ClientPlayer{TimeLeft: 6000}
	state.Players.Black = ClientPlayer{TimeLeft: 6000}
	return state
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]Piece, 0),
		Black: make([]Piece, 0),
	}
}

// EnableAI seats the engine on the given side. If it is already that side's
// turn the engine answers right away.
func (g *Game) EnableAI(picker MovePicker, color Color) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.ai = picker
	g.aiColor = color
	if color == White {
		g.state.Players.White = ClientPlayer{ID: "computer", Color: White, TimeLeft: 6000}
	} else {
		g.state.Players.Black = ClientPlayer{ID: "computer", Color: Black, TimeLeft: 6000}
	}
	g.scheduleAIMove()
}

func (g *Game) AddPlayer(playerID string) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Players.White.ID == "" {
		g.state.Players.White = ClientPlayer{ID: playerID, Color: White, TimeLeft: 6000}
		return White, nil
	}
	if g.state.Players.Black.ID == "" {
		g.state.Players.Black = ClientPlayer{ID: playerID, Color: Black, TimeLeft: 6000}
		return Black, nil
	}
	return "", errors.New("game is full")
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state
}

// Snapshot returns a deep copy of the live board and the side to move, so
// the engine can be consulted for hints without disturbing the game.
func (g *Game) Snapshot() (*Board, Color) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.state.Board.Clone(), g.state.ToMove
}

// LegalDestinations lists the legal target squares for the piece on pos, for
// client-side highlighting. Empty when the square is empty, the piece is not
// the side to move's, or the game is over.
func (g *Game) LegalDestinations(pos Position) []Position {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !pos.onBoard() || g.state.Resolve != nil {
		return []Position{}
	}
	piece := g.state.Board.At(pos)
	if piece == nil || piece.Color != g.state.ToMove {
		return []Position{}
	}
	return LegalMoves(g.state.Board, piece)
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	if g.state.Players.White.ID != "" && g.state.Players.White.ID == playerID {
		return true
	}
	if g.state.Players.Black.ID != "" && g.state.Players.Black.ID == playerID {
		return true
	}
	return false
}

func (g *Game) canSpectate() bool {
	return g.state.Players.White.ID == "" || g.state.Players.Black.ID == ""
}

// MakeMove validates and executes one move for the side to move. Every
// rejection leaves the game untouched.
func (g *Game) MakeMove(move SimpleMove) (MoveResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	result, err := g.makeMove(move)
	if err != nil {
		return result, err
	}

	g.scheduleAIMove()
	go g.broadcastState()
	return result, nil
}

func (g *Game) makeMove(move SimpleMove) (MoveResult, error) {
	if g.state.Resolve != nil {
		return MoveResult{}, errors.New("game is over")
	}
	if !move.From.onBoard() || !move.To.onBoard() {
		return MoveResult{}, errors.New("invalid move, out of bounds")
	}
	piece := g.state.Board.At(move.From)
	if piece == nil {
		return MoveResult{}, errors.New("no piece at from square")
	}
	if piece.Color != g.state.ToMove {
		return MoveResult{}, errors.New("not your turn")
	}
	if !containsPosition(LegalMoves(g.state.Board, piece), move.To) {
		return MoveResult{}, errors.New("invalid move, not legal")
	}

	if g.state.ToMove == White {
		g.whiteClock.Stop()
	} else {
		g.blackClock.Stop()
	}

	result := g.executeMove(piece, move)

	if g.state.ToMove == White {
		g.whiteClock.Start()
	} else {
		g.blackClock.Start()
	}
	g.state.Players.White.TimeLeft = int(g.whiteClock.TimeLeft().Milliseconds() / 100)
	g.state.Players.Black.TimeLeft = int(g.blackClock.TimeLeft().Milliseconds() / 100)

	return result, nil
}

func (g *Game) executeMove(piece *Piece, move SimpleMove) MoveResult {
	target := g.state.Board.At(move.To)

	ply := Ply{
		Piece:         piece.Type,
		Color:         piece.Color,
		From:          move.From,
		To:            move.To,
		CapturedPiece: target,
		HadMoved:      piece.HasMoved,
		Notation:      g.getNotation(piece, move),
	}

	result := MoveResult{Applied: true}

	g.state.Sound = "move"
	if target != nil {
		g.state.Sound = "capture"
		capturedType := target.Type
		result.Captured = &capturedType
		switch piece.Color {
		case White:
			g.state.CapturedPieces.White = append(g.state.CapturedPieces.White, *target)
		case Black:
			g.state.CapturedPieces.Black = append(g.state.CapturedPieces.Black, *target)
		}
	}

	g.state.Board.ApplyMove(move.From, move.To)
	if ply.Piece == Pawn && piece.Type == Queen {
		ply.Promotion = true
		ply.Notation += "=Q"
		result.Promoted = true
	}

	g.state.MoveHistory = append(g.state.MoveHistory, ply)
	g.state.LastMove = &SimpleMove{From: move.From, To: move.To}
	g.switchTurn()

	g.state.IsCheck = IsKingInCheck(g.state.Board, g.state.ToMove)
	if !HasLegalMoves(g.state.Board, g.state.ToMove) {
		resolve := OutcomeStalemate
		if g.state.IsCheck {
			resolve = OutcomeCheckmate
		}
		g.state.Resolve = &resolve
		result.Outcome = &resolve
	}
	if g.state.IsCheck {
		g.state.Sound = "check"
	}

	return result
}

// Undo takes back the last ply: occupancy, capture list, turn, outcome and
// the mover's HasMoved flag are all restored. Promotions revert to a pawn.
func (g *Game) Undo() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.state.MoveHistory) == 0 {
		return errors.New("no moves to undo")
	}

	last := len(g.state.MoveHistory) - 1
	ply := g.state.MoveHistory[last]
	g.state.MoveHistory = g.state.MoveHistory[:last]

	piece := g.state.Board.At(ply.To)
	piece.Position = ply.From
	piece.HasMoved = ply.HadMoved
	if ply.Promotion {
		piece.Type = Pawn
	}
	g.state.Board.Squares[ply.From.Y][ply.From.X] = piece
	g.state.Board.Squares[ply.To.Y][ply.To.X] = ply.CapturedPiece

	if ply.CapturedPiece != nil {
		switch ply.Color {
		case White:
			g.state.CapturedPieces.White = g.state.CapturedPieces.White[:len(g.state.CapturedPieces.White)-1]
		case Black:
			g.state.CapturedPieces.Black = g.state.CapturedPieces.Black[:len(g.state.CapturedPieces.Black)-1]
		}
	}

	g.switchTurn()
	g.state.Resolve = nil
	g.state.IsCheck = IsKingInCheck(g.state.Board, g.state.ToMove)
	g.state.Sound = ""
	if len(g.state.MoveHistory) > 0 {
		prev := g.state.MoveHistory[len(g.state.MoveHistory)-1]
		g.state.LastMove = &SimpleMove{From: prev.From, To: prev.To}
	} else {
		g.state.LastMove = nil
	}

	go g.broadcastState()
	return nil
}

// Reset rebuilds the starting position in place, keeping the seated players
// and the engine configuration.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	players := g.state.Players
	g.state = newGameState()
	g.state.Players = players
	g.whiteClock = NewClock(initialClockTime)
	g.blackClock = NewClock(initialClockTime)

	g.scheduleAIMove()
	go g.broadcastState()
}

// scheduleAIMove fires the engine when it is its turn. Called with g.mu held.
func (g *Game) scheduleAIMove() {
	if g.ai == nil || g.state.Resolve != nil || g.state.ToMove != g.aiColor {
		return
	}
	go func() {
		time.Sleep(aiMoveDelay)

		g.mu.Lock()
		defer g.mu.Unlock()

		if g.ai == nil || g.state.Resolve != nil || g.state.ToMove != g.aiColor {
			return
		}
		move, ok := g.ai.PickMove(g.state.Board.Clone(), g.aiColor)
		if !ok {
			return
		}
		if _, err := g.makeMove(move); err != nil {
			log.Printf("engine move %v rejected: %v", move, err)
			return
		}
		go g.broadcastState()
	}()
}

func (g *Game) getNotation(piece *Piece, move SimpleMove) string {
	prefix := piece.Type.getPieceNotation()
	capture := ""
	if g.state.Board.At(move.To) != nil {
		capture = "x"
	}
	pawnFile := ""
	if piece.Type == Pawn && move.From.X != move.To.X {
		pawnFile = move.From.getFileNotation()
	}
	return fmt.Sprintf("%s%s%s%s", prefix, pawnFile, capture, move.To.getSquareNotation())
}

func (g *Game) switchTurn() {
	if g.state.ToMove == White {
		g.state.ToMove = Black
	} else {
		g.state.ToMove = White
	}
}

func containsPosition(positions []Position, pos Position) bool {
	for _, p := range positions {
		if p == pos {
			return true
		}
	}
	return false
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID) || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return errors.New("not authorized to join this game")
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// Keep the healthy connection and reject the new one.
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()

	go g.broadcastState()
	return nil
}

func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	delete(g.connections.connections, playerID)
}

func (g *Game) broadcastState() {
	state := g.GetState()

	jsonGameState, err := json.Marshal(state)
	if err != nil {
		log.Printf("failed to marshal game state: %v", err)
		return
	}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	for playerID, conn := range g.connections.connections {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(jsonGameState),
		}); err != nil {
			log.Printf("failed to send state to player %s: %v", playerID, err)
			delete(g.connections.connections, playerID)
		}
	}
}
