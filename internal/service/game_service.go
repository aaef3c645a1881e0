package service

import (
	"fmt"

	"chess-backend/internal/engine"
	"chess-backend/internal/model"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
	hinter      *engine.Searcher
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
		hinter:      engine.NewSearcher(DefaultSearchDepth),
	}
}

func (gs *GameService) CreateGame(opts GameOptions) (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID, opts); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

// GetLegalMoves lists the legal destinations for the piece on pos, for
// client-side highlighting.
func (gs *GameService) GetLegalMoves(gameID string, pos model.Position) ([]model.Position, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalDestinations(pos), nil
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.SimpleMove) (model.MoveResult, error) {
	return gs.gameManager.MakeMove(gameID, move)
}

func (gs *GameService) HandleUndo(gameID string, playerID string) error {
	return gs.gameManager.Undo(gameID)
}

func (gs *GameService) HandleReset(gameID string, playerID string) error {
	return gs.gameManager.Reset(gameID)
}

// Hint runs the searcher over a snapshot of the game for the side to move,
// leaving the live game untouched.
func (gs *GameService) Hint(gameID string) (model.SimpleMove, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.SimpleMove{}, err
	}

	board, toMove := game.Snapshot()
	move, ok := gs.hinter.BestMove(board, toMove)
	if !ok {
		return model.SimpleMove{}, fmt.Errorf("no legal moves for %s", toMove)
	}
	return move, nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string) {
	gs.gameManager.UnregisterConnection(gameID, playerID)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	return gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID)
}
