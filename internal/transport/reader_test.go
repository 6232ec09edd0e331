package transport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/av2bridge/internal/protocol"
)

type fakeSink struct {
	applied []protocol.Status
}

func (s *fakeSink) Apply(status protocol.Status) {
	s.applied = append(s.applied, status)
}

// systemFrame is a complete system status response: power on, input OP1,
// volume 5 muted, decode mode Stereo Direct.
var systemFrame = protocol.EncodeResponse([]byte{
	protocol.RespSystemStatus, 0x81, 0xE7, 0x85, 0x55, 0x30,
})

func TestReaderDecodesFrameStream(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(systemFrame)
	stream.Write(systemFrame)

	sink := &fakeSink{}
	require.NoError(t, NewReader(&stream, sink).Run())

	require.Len(t, sink.applied, 2)
	st, ok := sink.applied[0].(protocol.SystemStatus)
	require.True(t, ok)
	assert.True(t, st.Power)
	assert.Equal(t, protocol.InputOP1, st.Source)
	assert.Equal(t, 5, st.Volume)
	assert.True(t, st.Mute)
	assert.Equal(t, protocol.DecodeMode("Stereo Direct"), st.Mode)
}

func TestReaderDropsBadFramesAndContinues(t *testing.T) {
	var stream bytes.Buffer
	// Wrong header byte: dropped.
	stream.Write([]byte("*AV2 junk"))
	stream.WriteByte(protocol.EOL)
	// Known code with a truncated payload: dropped.
	stream.Write(protocol.EncodeResponse([]byte{protocol.RespSystemStatus, 0x81}))
	// A healthy frame after the garbage still lands.
	stream.Write(systemFrame)

	sink := &fakeSink{}
	require.NoError(t, NewReader(&stream, sink).Run())

	require.Len(t, sink.applied, 1)
	assert.IsType(t, protocol.SystemStatus{}, sink.applied[0])
}

func TestReaderIgnoresUnknownResponseCodes(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(protocol.EncodeResponse([]byte{0x42, 0xAA, 0xBB}))

	sink := &fakeSink{}
	require.NoError(t, NewReader(&stream, sink).Run())
	assert.Empty(t, sink.applied, "unrecognised codes never reach the sink")
}

func TestReaderSkipsEmptyFrames(t *testing.T) {
	var stream bytes.Buffer
	// Back-to-back delimiters happen when the device pads the line.
	stream.WriteByte(protocol.EOL)
	stream.WriteByte(protocol.EOL)
	stream.Write(systemFrame)

	sink := &fakeSink{}
	require.NoError(t, NewReader(&stream, sink).Run())
	assert.Len(t, sink.applied, 1)
}
