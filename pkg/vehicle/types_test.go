package vehicle

import (
	"encoding/json"
	"testing"

	"github.com/cbodonnell/drivesim/pkg/kinematic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_JSONUsesIntentNames(t *testing.T) {
	state := State{
		Pose:           kinematic.Pose{X: 1},
		SpeedIntent:    SpeedIntentAccelerating,
		SteeringIntent: SteeringIntentLeft,
	}

	b, err := json.Marshal(state)
	require.NoError(t, err)

	fields := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(b, &fields))
	assert.Equal(t, "accelerating", fields["speedIntent"])
	assert.Equal(t, "left", fields["steeringIntent"])

	decoded := State{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, state, decoded)
}

func TestIntentText(t *testing.T) {
	for _, intent := range []SpeedIntent{SpeedIntentNeutral, SpeedIntentAccelerating, SpeedIntentBraking} {
		b, err := intent.MarshalText()
		require.NoError(t, err)
		var parsed SpeedIntent
		require.NoError(t, parsed.UnmarshalText(b))
		assert.Equal(t, intent, parsed)
	}
	for _, intent := range []SteeringIntent{SteeringIntentNeutral, SteeringIntentLeft, SteeringIntentRight} {
		b, err := intent.MarshalText()
		require.NoError(t, err)
		var parsed SteeringIntent
		require.NoError(t, parsed.UnmarshalText(b))
		assert.Equal(t, intent, parsed)
	}

	_, err := SpeedIntent(9).MarshalText()
	assert.Error(t, err)
	_, err = SteeringIntent(9).MarshalText()
	assert.Error(t, err)

	var speed SpeedIntent
	assert.Error(t, speed.UnmarshalText([]byte("unknown")))
	var steering SteeringIntent
	assert.Error(t, steering.UnmarshalText([]byte("sideways")))
}
