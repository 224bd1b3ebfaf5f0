package network

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cbodonnell/drivesim/pkg/log"
	"github.com/cbodonnell/drivesim/pkg/messages"
	"github.com/cbodonnell/drivesim/pkg/session"
	"nhooyr.io/websocket"
)

// writeTimeout bounds a single write to a client.
const writeTimeout = 5 * time.Second

// HandleSessionStream upgrades the request to a WebSocket connection and
// streams every snapshot the session publishes until the session ends or the
// client goes away. Input and ping messages from the client are handled on
// the same connection.
func HandleSessionStream(w http.ResponseWriter, r *http.Request, s *session.Session) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Error("Failed to upgrade to WebSocket: %v", err)
		return
	}
	defer conn.CloseNow()

	logger := log.Default().With("session", s.ID().String()).With("remote", r.RemoteAddr)
	logger.Debug("New WebSocket connection")

	updates, unsubscribe := s.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		defer cancel()
		handleClientMessages(ctx, conn, s, logger)
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("WebSocket connection closed")
			return
		case snapshot, ok := <-updates:
			if !ok {
				endSessionStream(ctx, conn, s, logger)
				return
			}
			msg, err := messages.NewPoseUpdateMessage(messages.PoseUpdateFromSnapshot(snapshot))
			if err != nil {
				logger.Error("Failed to create pose update: %v", err)
				continue
			}
			if err := WriteMessageToWS(ctx, conn, msg); err != nil {
				logger.Debug("Failed to write pose update: %v", err)
				return
			}
		}
	}
}

// endSessionStream tells the client the session is over and closes the
// connection normally.
func endSessionStream(ctx context.Context, conn *websocket.Conn, s *session.Session, logger *log.Logger) {
	msg, err := messages.NewJSONMessage(messages.MessageTypeServerSessionEnd, messages.ServerSessionEnd{
		SessionID: s.ID().String(),
		Ticks:     s.Snapshot().Tick,
	})
	if err != nil {
		logger.Error("Failed to create session end message: %v", err)
	} else if err := WriteMessageToWS(ctx, conn, msg); err != nil {
		logger.Debug("Failed to write session end message: %v", err)
	}
	conn.Close(websocket.StatusNormalClosure, "session ended")
}

// handleClientMessages reads messages from the client until the connection
// fails or ctx is cancelled.
func handleClientMessages(ctx context.Context, conn *websocket.Conn, s *session.Session, logger *log.Logger) {
	for {
		_, b, err := conn.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && ctx.Err() == nil {
				logger.Debug("Error reading WebSocket message: %v", err)
			}
			return
		}

		message, err := messages.DeserializeMessage(b)
		if err != nil {
			logger.Warn("Dropping malformed message: %v", err)
			continue
		}

		switch message.Type {
		case messages.MessageTypeClientInput:
			input := &messages.ClientInput{}
			if err := json.Unmarshal(message.Payload, input); err != nil {
				logger.Warn("Failed to unmarshal client input: %v", err)
				continue
			}
			if err := s.Input(input.Direction, input.Pressed); err != nil {
				logger.Warn("Failed to queue client input: %v", err)
			}
		case messages.MessageTypeClientPing:
			ping := &messages.ClientPing{}
			if err := json.Unmarshal(message.Payload, ping); err != nil {
				logger.Warn("Failed to unmarshal ping: %v", err)
				continue
			}
			pong, err := messages.NewJSONMessage(messages.MessageTypeServerPong, messages.ServerPong{
				ClientTimestamp: ping.Timestamp,
				ServerTimestamp: time.Now().UnixMilli(),
			})
			if err != nil {
				logger.Error("Failed to create pong: %v", err)
				continue
			}
			if err := WriteMessageToWS(ctx, conn, pong); err != nil {
				logger.Debug("Failed to write pong: %v", err)
				return
			}
		default:
			logger.Warn("Unhandled message type: %s", message.Type)
		}
	}
}

// WriteMessageToWS writes a Message to a WebSocket connection
func WriteMessageToWS(ctx context.Context, conn *websocket.Conn, msg *messages.Message) error {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := conn.Write(ctx, websocket.MessageBinary, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}

	return nil
}

// ReadMessageFromWS reads a Message from a WebSocket connection
func ReadMessageFromWS(ctx context.Context, conn *websocket.Conn) (*messages.Message, error) {
	_, b, err := conn.Read(ctx)
	if err != nil {
		return nil, err
	}

	msg, err := messages.DeserializeMessage(b)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	return msg, nil
}
