package messages

//go:generate flatc --go -o ../../flatbuffers ../../flatbuffers/message.fbs ../../flatbuffers/pose.fbs

import (
	"fmt"

	messagefb "github.com/cbodonnell/drivesim/flatbuffers/message"
	posefb "github.com/cbodonnell/drivesim/flatbuffers/pose"
	"github.com/cbodonnell/drivesim/pkg/vehicle"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/klauspost/compress/zstd"
)

var (
	encoder *zstd.Encoder
	decoder *zstd.Decoder
)

func init() {
	var err error
	encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		panic(fmt.Sprintf("failed to create zstd encoder: %v", err))
	}
	decoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MessageBufferSize*MessageBufferSize))
	if err != nil {
		panic(fmt.Sprintf("failed to create zstd decoder: %v", err))
	}
}

// SerializeMessage encodes a message as a FlatBuffer and compresses it.
func SerializeMessage(m *Message) ([]byte, error) {
	b, err := SerializeMessageFlatbuffer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %v", err)
	}

	return encoder.EncodeAll(b, make([]byte, 0, len(b))), nil
}

func DeserializeMessage(data []byte) (*Message, error) {
	b, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress message: %v", err)
	}

	message, err := DeserializeMessageFlatbuffer(b)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	return message, nil
}

func SerializeMessageFlatbuffer(m *Message) ([]byte, error) {
	builder := flatbuffers.NewBuilder(0)

	payload := builder.CreateByteVector(m.Payload)

	messagefb.MessageStart(builder)
	messagefb.MessageAddType(builder, byte(m.Type))
	messagefb.MessageAddPayload(builder, payload)
	messagefb.MessageAddTimestamp(builder, m.Timestamp)
	messageOffset := messagefb.MessageEnd(builder)
	builder.Finish(messageOffset)

	return builder.FinishedBytes(), nil
}

func DeserializeMessageFlatbuffer(b []byte) (m *Message, err error) {
	// the generated accessors panic on truncated input
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed message: %v", r)
		}
	}()

	if len(b) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("message too short: %d bytes", len(b))
	}

	messageFlatbuffer := messagefb.GetRootAsMessage(b, 0)
	message := &Message{
		Type:      MessageType(messageFlatbuffer.Type()),
		Timestamp: messageFlatbuffer.Timestamp(),
		Payload:   messageFlatbuffer.PayloadBytes(),
	}
	if message.Type == 0 {
		return nil, fmt.Errorf("message has no type")
	}

	return message, nil
}

func SerializePoseUpdate(update *ServerPoseUpdate) ([]byte, error) {
	builder := flatbuffers.NewBuilder(0)
	poseUpdate := SerializePoseUpdateFlatbuffer(builder, update)
	builder.Finish(poseUpdate)
	return builder.FinishedBytes(), nil
}

func DeserializePoseUpdate(b []byte) (update *ServerPoseUpdate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pose update: %v", r)
		}
	}()

	if len(b) < flatbuffers.SizeUOffsetT {
		return nil, fmt.Errorf("pose update too short: %d bytes", len(b))
	}

	return PoseUpdateFlatbufferToServerPoseUpdate(posefb.GetRootAsPoseUpdate(b, 0)), nil
}

func SerializePoseUpdateFlatbuffer(builder *flatbuffers.Builder, update *ServerPoseUpdate) flatbuffers.UOffsetT {
	sessionID := builder.CreateString(update.SessionID)

	posefb.PoseUpdateStart(builder)
	posefb.PoseUpdateAddSessionId(builder, sessionID)
	posefb.PoseUpdateAddTick(builder, update.Tick)
	posefb.PoseUpdateAddTimestamp(builder, update.Timestamp)
	posefb.PoseUpdateAddX(builder, update.Pose.X)
	posefb.PoseUpdateAddY(builder, update.Pose.Y)
	posefb.PoseUpdateAddR(builder, update.Pose.R)
	posefb.PoseUpdateAddSpeedMomentum(builder, update.SpeedMomentum)
	posefb.PoseUpdateAddSteeringMomentum(builder, update.SteeringMomentum)
	posefb.PoseUpdateAddSpeedIntent(builder, byte(update.SpeedIntent))
	posefb.PoseUpdateAddSteeringIntent(builder, byte(update.SteeringIntent))
	return posefb.PoseUpdateEnd(builder)
}

func PoseUpdateFlatbufferToServerPoseUpdate(fb *posefb.PoseUpdate) *ServerPoseUpdate {
	update := &ServerPoseUpdate{}
	update.SessionID = string(fb.SessionId())
	update.Tick = fb.Tick()
	update.Timestamp = fb.Timestamp()
	update.Pose.X = fb.X()
	update.Pose.Y = fb.Y()
	update.Pose.R = fb.R()
	update.SpeedMomentum = fb.SpeedMomentum()
	update.SteeringMomentum = fb.SteeringMomentum()
	update.SpeedIntent = vehicle.SpeedIntent(fb.SpeedIntent())
	update.SteeringIntent = vehicle.SteeringIntent(fb.SteeringIntent())

	return update
}
