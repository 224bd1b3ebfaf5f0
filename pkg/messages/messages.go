package messages

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cbodonnell/drivesim/pkg/kinematic"
	"github.com/cbodonnell/drivesim/pkg/state"
	"github.com/cbodonnell/drivesim/pkg/vehicle"
)

const (
	// MessageBufferSize represents the maximum size of a message
	MessageBufferSize = 1024
)

type MessageType uint8

// Message types
const (
	MessageTypeClientPing MessageType = iota + 1
	MessageTypeServerPong
	MessageTypeClientInput
	MessageTypeServerPoseUpdate
	MessageTypeServerSessionEnd
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeClientPing:
		return "ClientPing"
	case MessageTypeServerPong:
		return "ServerPong"
	case MessageTypeClientInput:
		return "ClientInput"
	case MessageTypeServerPoseUpdate:
		return "ServerPoseUpdate"
	case MessageTypeServerSessionEnd:
		return "ServerSessionEnd"
	default:
		return "Unknown"
	}
}

// Message represents a generic message for serialization/deserialization
type Message struct {
	Type      MessageType
	Timestamp int64
	Payload   []byte
}

// ClientInput is a press or release sent by a client. Direction is encoded
// as its lowercase name.
type ClientInput struct {
	Direction vehicle.Direction `json:"direction"`
	Pressed   bool              `json:"pressed"`
	Timestamp int64             `json:"timestamp"`
}

// ClientPing carries the client's send time; the server echoes it back in a
// ServerPong.
type ClientPing struct {
	Timestamp int64 `json:"timestamp"`
}

type ServerPong struct {
	ClientTimestamp int64 `json:"clientTimestamp"`
	ServerTimestamp int64 `json:"serverTimestamp"`
}

// ServerPoseUpdate is the state of a session after one tick.
type ServerPoseUpdate struct {
	SessionID        string
	Tick             uint64
	Timestamp        int64
	Pose             kinematic.Pose
	SpeedMomentum    float64
	SteeringMomentum float64
	SpeedIntent      vehicle.SpeedIntent
	SteeringIntent   vehicle.SteeringIntent
}

type ServerSessionEnd struct {
	SessionID string `json:"sessionID"`
	Ticks     uint64 `json:"ticks"`
}

func PoseUpdateFromSnapshot(snapshot state.Snapshot) *ServerPoseUpdate {
	return &ServerPoseUpdate{
		SessionID:        snapshot.SessionID.String(),
		Tick:             snapshot.Tick,
		Timestamp:        snapshot.Timestamp,
		Pose:             snapshot.Vehicle.Pose,
		SpeedMomentum:    snapshot.Vehicle.SpeedMomentum,
		SteeringMomentum: snapshot.Vehicle.SteeringMomentum,
		SpeedIntent:      snapshot.Vehicle.SpeedIntent,
		SteeringIntent:   snapshot.Vehicle.SteeringIntent,
	}
}

// VehicleState returns the vehicle part of the update.
func (u *ServerPoseUpdate) VehicleState() vehicle.State {
	return vehicle.State{
		Pose:             u.Pose,
		SpeedMomentum:    u.SpeedMomentum,
		SteeringMomentum: u.SteeringMomentum,
		SpeedIntent:      u.SpeedIntent,
		SteeringIntent:   u.SteeringIntent,
	}
}

// NewJSONMessage wraps a JSON encoded payload in a message stamped with the
// current time.
func NewJSONMessage(t MessageType, payload interface{}) (*Message, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %v", t, err)
	}
	return &Message{Type: t, Timestamp: time.Now().UnixMilli(), Payload: b}, nil
}

// NewPoseUpdateMessage wraps a FlatBuffers encoded pose update in a message.
func NewPoseUpdateMessage(update *ServerPoseUpdate) (*Message, error) {
	b, err := SerializePoseUpdate(update)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize pose update: %v", err)
	}
	return &Message{Type: MessageTypeServerPoseUpdate, Timestamp: update.Timestamp, Payload: b}, nil
}
