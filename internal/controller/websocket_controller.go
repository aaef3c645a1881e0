package controller

import (
	"encoding/json"
	"fmt"
	"log"

	"chess-backend/internal/model"
	"chess-backend/internal/service"
	"chess-backend/internal/ws"

	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
// for a game.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Printf("Failed to register connection: %v", err)
		c.Close()
		return
	}

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Printf("read error: %v", err)
			break
		}

		if messageType == websocket.TextMessage {
			var msg ws.Message
			if err := json.Unmarshal(message, &msg); err != nil {
				log.Printf("parse error: %v", err)
				continue
			}

			if err := wsc.handleMessage(c, gameID, playerID, msg); err != nil {
				log.Printf("handle error: %v", err)
				wsc.sendError(c, err.Error())
			}
		}
	}

	wsc.gameService.UnregisterConnection(gameID, playerID)
}

func (wsc *WebSocketController) handleMessage(c *websocket.Conn, gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.SimpleMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		_, err := wsc.gameService.HandleMove(gameID, playerID, move)
		return err

	case ws.MessageTypeUndo:
		return wsc.gameService.HandleUndo(gameID, playerID)

	case ws.MessageTypeReset:
		return wsc.gameService.HandleReset(gameID, playerID)

	case ws.MessageTypeHint:
		move, err := wsc.gameService.Hint(gameID)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(move)
		if err != nil {
			return err
		}
		return c.WriteJSON(ws.Message{
			Type:    ws.MessageTypeHintResult,
			Payload: json.RawMessage(payload),
		})

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// HandleMatchmaking parks the connection until matchmaking pairs the player,
// then sends them the created game.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID := c.Locals("playerID").(string)

	ch := make(chan string, 1)
	if err := wsc.gameService.RegisterMatchmakingChannel(playerID, ch); err != nil {
		log.Printf("Failed to register matchmaking channel: %v", err)
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID)

	event, ok := <-ch
	if !ok {
		// Channel replaced by a newer connection.
		c.Close()
		return
	}

	if err := c.WriteJSON(ws.Message{
		Type:    ws.MessageTypeMatchFound,
		Payload: json.RawMessage(event),
	}); err != nil {
		log.Printf("Failed to send match event to player %s: %v", playerID, err)
	}
	c.Close()
}

func (wsc *WebSocketController) sendError(c *websocket.Conn, errorMsg string) {
	payload, _ := json.Marshal(errorPayload{Error: errorMsg})
	c.WriteJSON(ws.Message{
		Type:    ws.MessageTypeError,
		Payload: json.RawMessage(payload),
	})
}

type errorPayload struct {
	Error string `json:"error"`
}
