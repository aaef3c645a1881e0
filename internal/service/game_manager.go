// service/game_manager.go
package service

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"chess-backend/internal/engine"
	"chess-backend/internal/model"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// DefaultSearchDepth is the engine depth used when a caller does not pick a
// difficulty.
const DefaultSearchDepth = 3

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	mu               sync.RWMutex
}

func NewGameManager() *GameManager {
	gm := &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
	}

	go gm.processMatchmaking()

	return gm
}

// GameOptions configures a new game. With VsComputer set the engine takes
// black; Depth <= 0 selects the single-ply advisor instead of the searcher.
type GameOptions struct {
	VsComputer bool `json:"vsComputer"`
	Depth      int  `json:"depth"`
}

func (gm *GameManager) CreateGame(gameID string, opts GameOptions) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return errors.New("game already exists")
	}

	game := model.NewGame(gameID)
	if opts.VsComputer {
		game.EnableAI(newPicker(opts.Depth), model.Black)
	}
	gm.games[gameID] = game
	return nil
}

func newPicker(depth int) model.MovePicker {
	if depth <= 0 {
		return engine.NewAdvisor(time.Now().UnixNano())
	}
	return engine.NewSearcher(depth)
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, errors.New("game not found")
	}

	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}

	return game.AddPlayer(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}

	return game.GetState(), nil
}

func (gm *GameManager) MakeMove(gameID string, move model.SimpleMove) (model.MoveResult, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.MoveResult{}, err
	}

	return game.MakeMove(move)
}

func (gm *GameManager) Undo(gameID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	return game.Undo()
}

func (gm *GameManager) Reset(gameID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	game.Reset()
	return nil
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	// Replace any stale channel left by a dropped connection.
	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}

	gm.matchingChannels[playerID] = ch
	return nil
}

func (gm *GameManager) UnregisterMatchmakingChannel(playerID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	// The channel's creator closes it; we only stop routing to it.
	delete(gm.matchingChannels, playerID)
}

func (gm *GameManager) processMatchmaking() {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		gm.mu.Lock()
		for gm.queue.Size() >= 2 {
			player1, player2 := gm.queue.GetNextPair()

			gameID := uuid.New().String()
			game := model.NewGame(gameID)

			p1Color, err := game.AddPlayer(player1.ID)
			if err != nil {
				log.Printf("matchmaking: adding player %s: %v", player1.ID, err)
				continue
			}
			p2Color, err := game.AddPlayer(player2.ID)
			if err != nil {
				log.Printf("matchmaking: adding player %s: %v", player2.ID, err)
				continue
			}
			gm.games[gameID] = game

			gm.notifyMatch(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
			gm.notifyMatch(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
		}
		gm.mu.Unlock()
	}
}

// notifyMatch sends the match event to the player's matchmaking channel and
// retires the channel. Called with gm.mu held.
func (gm *GameManager) notifyMatch(playerID string, event model.MatchFoundEvent) {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("matchmaking: marshal event for %s: %v", playerID, err)
		return
	}
	select {
	case ch <- string(payload):
		delete(gm.matchingChannels, playerID)
		close(ch)
	default:
		log.Printf("matchmaking: failed to notify player %s", playerID)
	}
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}

	game.UnregisterConnection(playerID)
}
