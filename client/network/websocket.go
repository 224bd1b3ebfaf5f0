package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cbodonnell/drivesim/pkg/log"
	"github.com/cbodonnell/drivesim/pkg/messages"
	"github.com/cbodonnell/drivesim/pkg/network"
	"github.com/cbodonnell/drivesim/pkg/state"
	"github.com/cbodonnell/drivesim/pkg/vehicle"
	"nhooyr.io/websocket"
)

const (
	DefaultServerURL = "http://localhost:8080"
	// pingInterval is how often the client measures the round trip time.
	pingInterval = 2 * time.Second
)

// WSClient drives a remote session over a WebSocket connection.
type WSClient struct {
	serverURL  string
	httpClient *http.Client
	conn       *websocket.Conn
	sessionID  string
	cancel     context.CancelFunc
	rtts       rttTracker
	done       chan struct{}

	lock   sync.RWMutex
	latest *messages.ServerPoseUpdate
	err    error
}

type NewWSClientOptions struct {
	ServerURL  string
	HTTPClient *http.Client
}

func NewWSClient(opts NewWSClientOptions) *WSClient {
	serverURL := opts.ServerURL
	if serverURL == "" {
		serverURL = DefaultServerURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &WSClient{
		serverURL:  serverURL,
		httpClient: httpClient,
		done:       make(chan struct{}),
	}
}

// CreateSession asks the server for a new session and returns its ID.
func (c *WSClient) CreateSession(ctx context.Context, tickIntervalMs float64) (string, error) {
	body := map[string]interface{}{}
	if tickIntervalMs > 0 {
		body["tickIntervalMs"] = tickIntervalMs
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal create session request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/sessions", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("failed to create session request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send create session request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("failed to create session: status: %s, body: %s", resp.Status, string(b))
	}

	snapshot := &state.Snapshot{}
	if err := json.NewDecoder(resp.Body).Decode(snapshot); err != nil {
		return "", fmt.Errorf("failed to decode create session response: %v", err)
	}

	return snapshot.SessionID.String(), nil
}

// Connect opens the stream of an existing session and starts handling
// server messages in the background.
func (c *WSClient) Connect(ctx context.Context, sessionID string) error {
	streamURL, err := c.streamURL(sessionID)
	if err != nil {
		return err
	}

	log.Info("Connecting to session stream at %s", streamURL)
	dialCtx, cancelDial := context.WithTimeout(ctx, 10*time.Second)
	defer cancelDial()
	conn, _, err := websocket.Dial(dialCtx, streamURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %v", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	c.conn = conn
	c.sessionID = sessionID
	c.cancel = cancel

	go c.handleMessages(ctx)
	go c.pingLoop(ctx)

	return nil
}

func (c *WSClient) streamURL(sessionID string) (string, error) {
	u, err := url.Parse(c.serverURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse server URL: %v", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported server URL scheme: %s", u.Scheme)
	}
	u.Path = fmt.Sprintf("/sessions/%s/ws", sessionID)
	return u.String(), nil
}

// handleMessages handles incoming messages until the connection closes.
func (c *WSClient) handleMessages(ctx context.Context) {
	defer close(c.done)
	defer c.cancel()

	for {
		msg, err := network.ReadMessageFromWS(ctx, c.conn)
		if err != nil {
			if ctx.Err() != nil {
				c.setErr(&ErrConnectionClosedByClient{})
			} else {
				c.setErr(err)
			}
			return
		}

		if err := c.handleMessage(msg); err != nil {
			c.setErr(err)
			c.conn.Close(websocket.StatusNormalClosure, "")
			return
		}
	}
}

// handleMessage processes a received message. It returns an error once the
// session has ended.
func (c *WSClient) handleMessage(msg *messages.Message) error {
	log.Trace("Received message from server of type %s", msg.Type)

	switch msg.Type {
	case messages.MessageTypeServerPoseUpdate:
		update, err := messages.DeserializePoseUpdate(msg.Payload)
		if err != nil {
			log.Error("Failed to deserialize pose update: %v", err)
			return nil
		}
		c.lock.Lock()
		if c.latest == nil || update.Tick > c.latest.Tick {
			c.latest = update
		}
		c.lock.Unlock()
	case messages.MessageTypeServerPong:
		pong := &messages.ServerPong{}
		if err := json.Unmarshal(msg.Payload, pong); err != nil {
			log.Error("Failed to unmarshal pong: %v", err)
			return nil
		}
		c.rtts.add(time.Now().UnixMilli() - pong.ClientTimestamp)
	case messages.MessageTypeServerSessionEnd:
		end := &messages.ServerSessionEnd{}
		if err := json.Unmarshal(msg.Payload, end); err != nil {
			log.Error("Failed to unmarshal session end: %v", err)
		}
		return &ErrSessionEnded{Ticks: end.Ticks}
	default:
		log.Warn("Received unexpected message type from server: %s", msg.Type)
	}

	return nil
}

func (c *WSClient) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			if err := c.send(ctx, messages.MessageTypeClientPing, messages.ClientPing{Timestamp: t.UnixMilli()}); err != nil {
				log.Debug("Failed to send ping: %v", err)
			}
		}
	}
}

// Input sends a press or release to the server.
func (c *WSClient) Input(direction vehicle.Direction, pressed bool) error {
	return c.send(context.Background(), messages.MessageTypeClientInput, messages.ClientInput{
		Direction: direction,
		Pressed:   pressed,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (c *WSClient) send(ctx context.Context, msgType messages.MessageType, payload interface{}) error {
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	msg, err := messages.NewJSONMessage(msgType, payload)
	if err != nil {
		return err
	}
	return network.WriteMessageToWS(ctx, c.conn, msg)
}

// Latest returns the most recent pose update received from the server.
func (c *WSClient) Latest() (*messages.ServerPoseUpdate, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.latest, c.latest != nil
}

// Ping returns the estimated round trip time in milliseconds.
func (c *WSClient) Ping() float64 {
	return c.rtts.ping()
}

func (c *WSClient) SessionID() string {
	return c.sessionID
}

// Done is closed when the connection has ended. Err then reports why.
func (c *WSClient) Done() <-chan struct{} {
	return c.done
}

func (c *WSClient) Err() error {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.err
}

func (c *WSClient) setErr(err error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.err == nil {
		c.err = err
	}
}

// Close closes the WebSocket connection.
func (c *WSClient) Close() error {
	if c.conn == nil {
		log.Warn("WebSocket connection is already closed")
		return nil
	}
	c.cancel()
	err := c.conn.Close(websocket.StatusNormalClosure, "")
	<-c.done
	return err
}
