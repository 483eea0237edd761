package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteFrameThenReadFrameRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFrameWriter(&buf)

	require.NoError(t, fw.WriteFrame([]byte("hello")))
	require.NoError(t, fw.WriteFrame([]byte("world!!")))

	fr := NewFrameReader(&buf)
	got1, err := fr.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, "hello", string(got1))

	got2, err := fr.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, "world!!", string(got2))
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})

	fr := NewFrameReader(&buf)
	_, err := fr.ReadFrame()
	require.Error(t, err)
}

func TestFrameReaderReusesBufferAcrossCalls(t *testing.T) {
	var buf bytes.Buffer
	fw := NewFrameWriter(&buf)
	require.NoError(t, fw.WriteFrame([]byte("aaaaaaaaaa")))
	require.NoError(t, fw.WriteFrame([]byte("bb")))

	fr := NewFrameReader(&buf)
	first, err := fr.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, "aaaaaaaaaa", string(first))

	second, err := fr.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, "bb", string(second), "the reused buffer must be re-sliced to the new frame's length")
}
