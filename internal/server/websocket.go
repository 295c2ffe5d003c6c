package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/websocket/v2"

	"github.com/lgbarn/chess-engine-go/internal/chess"
	"github.com/lgbarn/chess-engine-go/internal/config"
	"github.com/lgbarn/chess-engine-go/internal/errors"
)

// socket is the part of *websocket.Conn the connection loop needs.
type socket interface {
	Conn
	ReadMessage() (messageType int, p []byte, err error)
}

func (s *Server) handleSocket(c *websocket.Conn) {
	player, _ := c.Locals(playerIDKey).(string)
	s.serveSocket(context.Background(), c.Params("id"), player, c)
}

// serveSocket sends the current state, announces the player to the other
// watchers and then handles messages until the connection fails or the
// player leaves.
func (s *Server) serveSocket(ctx context.Context, gameID, player string, ws socket) {
	snap, err := s.manager.Get(ctx, gameID)
	if err != nil {
		s.logWrite(gameID, player, ws.WriteJSON(errorMessage(err)))
		return
	}

	c := s.hub.Register(gameID, player, ws)
	defer s.hub.Unregister(gameID, c)

	role := "observer"
	switch player {
	case snap.White:
		role = "white"
	case snap.Black:
		role = "black"
	}
	if err := c.Send(newMessage(MessageTypeGameState, snap)); err != nil {
		s.logWrite(gameID, player, err)
		return
	}
	s.hub.BroadcastExcept(gameID, c, notification(fmt.Sprintf("%s joined as %s", player, role)))

	for {
		msgType, data, err := ws.ReadMessage()
		if err != nil {
			if s.cfg.Verbosity >= config.Verbose {
				s.logger.Printf("game %s: %s disconnected: %v", gameID, player, err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logWrite(gameID, player, c.Send(errorMessage(fmt.Errorf("malformed message: %w", err))))
			continue
		}
		done, err := s.handleMessage(ctx, gameID, player, msg)
		if err != nil {
			s.logWrite(gameID, player, c.Send(errorMessage(err)))
		}
		if done {
			return
		}
	}
}

// logWrite records a failed write to player's connection.
func (s *Server) logWrite(gameID, player string, err error) {
	if err != nil && s.cfg.Verbosity >= config.Verbose {
		s.logger.Printf("game %s: write to %s: %v", gameID, player, err)
	}
}

// handleMessage applies one client message. done reports that the
// connection should close.
func (s *Server) handleMessage(ctx context.Context, gameID, player string, msg Message) (done bool, err error) {
	switch msg.Type {
	case MessageTypeMove:
		move, err := moveFromPayload(msg.Payload)
		if err != nil {
			return false, err
		}
		update, err := s.manager.Move(ctx, gameID, player, move)
		if err != nil {
			return false, err
		}
		s.publish(update)

	case MessageTypeResign:
		update, err := s.manager.Resign(ctx, gameID, player)
		if err != nil {
			return false, err
		}
		s.publish(update)

	case MessageTypeLeave:
		update, err := s.manager.Leave(ctx, gameID, player)
		if err != nil {
			return false, err
		}
		s.publish(update)
		return true, nil

	default:
		return false, fmt.Errorf("unknown message type %q", msg.Type)
	}
	return false, nil
}

// moveFromPayload decodes a move message payload.
func moveFromPayload(payload []byte) (chess.Move, error) {
	var req MovePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return chess.Move{}, errors.Wrap(errors.ErrInvalidMoveText, err.Error())
	}
	return chess.ParseMove(req.Move)
}
