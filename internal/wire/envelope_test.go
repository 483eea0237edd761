package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sampleBody struct {
	Name string
	N    int
}

func TestEncodeDecodeEnvelopeRoundTrips(t *testing.T) {
	payload, err := EncodeEnvelope("Sample", sampleBody{Name: "x", N: 7})
	require.NoError(t, err)

	env, err := DecodeEnvelope(payload)
	require.NoError(t, err)
	require.Equal(t, "Sample", env.Tag)

	var out sampleBody
	require.NoError(t, DecodeBody(env.Body, &out))
	require.Equal(t, sampleBody{Name: "x", N: 7}, out)
}

func TestEncodeEnvelopeWithNilBody(t *testing.T) {
	payload, err := EncodeEnvelope("Shutdown", nil)
	require.NoError(t, err)

	env, err := DecodeEnvelope(payload)
	require.NoError(t, err)
	require.Equal(t, "Shutdown", env.Tag)

	var out sampleBody
	require.NoError(t, DecodeBody(env.Body, &out), "decoding an empty body into any target must be a no-op")
}

func TestDecodeEnvelopeTwoPhaseDoesNotRequireKnowingTypeUpfront(t *testing.T) {
	payload, err := EncodeEnvelope("Sample", sampleBody{Name: "y", N: 1})
	require.NoError(t, err)

	// The whole point of the envelope split (spec.md §9): the tag can be
	// read and switched on before the concrete body type is known.
	env, err := DecodeEnvelope(payload)
	require.NoError(t, err)

	factories := map[string]func() interface{}{
		"Sample": func() interface{} { return &sampleBody{} },
	}
	factory, ok := factories[env.Tag]
	require.True(t, ok)
	out := factory()
	require.NoError(t, DecodeBody(env.Body, out))
	require.Equal(t, &sampleBody{Name: "y", N: 1}, out)
}
