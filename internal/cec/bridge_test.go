package cec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/av2bridge/internal/device"
	"github.com/muurk/av2bridge/internal/protocol"
)

type fakeQueue struct {
	payloads [][]byte
}

func (q *fakeQueue) Enqueue(payload []byte) {
	q.payloads = append(q.payloads, payload)
}

func newTestBridge() (*Bridge, *fakeQueue) {
	queue := &fakeQueue{}
	facade := device.NewFacade(device.NewStore(), queue)
	return New(&Config{Client: "cec-client", OSDName: "AV2 Bridge"}, facade), queue
}

func TestParseFrame(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []byte
		wantErr bool
	}{
		{name: "volume up key", line: "05:44:41", want: []byte{0x05, 0x44, 0x41}},
		{name: "polling", line: "05", want: []byte{0x05}},
		{name: "broadcast standby", line: "0f:36", want: []byte{0x0F, 0x36}},
		{name: "garbage", line: "zz:36", wantErr: true},
		{name: "empty", line: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFrame(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleFrameVolumeKeys(t *testing.T) {
	bridge, queue := newTestBridge()

	// Volume up from the cached level 0 requests level 1.
	bridge.handleFrame([]byte{0x05, opUserControlPressed, keyVolumeUp})
	require.Len(t, queue.payloads, 1)
	assert.Equal(t, []byte{0x01}, queue.payloads[0])

	// Mute toggles against the cached state (off), so mute-on goes out.
	bridge.handleFrame([]byte{0x05, opUserControlPressed, keyMute})
	require.Len(t, queue.payloads, 2)
	assert.Equal(t, []byte{protocol.CmdMuteOn}, queue.payloads[1])
}

func TestHandleFrameStandby(t *testing.T) {
	bridge, queue := newTestBridge()

	// Cached power is off, so a standby request enqueues nothing.
	bridge.handleFrame([]byte{0x05, opStandby})
	assert.Empty(t, queue.payloads)

	// Source activation powers the processor on.
	bridge.handleFrame([]byte{0x05, opSetStreamPath})
	require.Len(t, queue.payloads, 1)
	assert.Equal(t, []byte{protocol.CmdPowerOn}, queue.payloads[0])
}

func TestHandleFrameIgnoresOtherDestinations(t *testing.T) {
	bridge, queue := newTestBridge()

	// A volume key addressed to the TV (destination 0) is not ours.
	bridge.handleFrame([]byte{0x50, opUserControlPressed, keyVolumeUp})
	assert.Empty(t, queue.payloads)
}

func TestHandleLineExtractsReceivedTrafficOnly(t *testing.T) {
	bridge, queue := newTestBridge()

	bridge.handleLine("DEBUG:   [  1234]\tcommand received")
	bridge.handleLine("TRAFFIC: [  1234]\t<< 50:7a:20")
	assert.Empty(t, queue.payloads)

	bridge.handleLine("TRAFFIC: [  1234]\t>> 05:44:41")
	require.Len(t, queue.payloads, 1)
	assert.Equal(t, []byte{0x01}, queue.payloads[0])
}
