package device

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/av2bridge/internal/protocol"
)

type fakeQueue struct {
	payloads [][]byte
}

func (q *fakeQueue) Enqueue(payload []byte) {
	q.payloads = append(q.payloads, payload)
}

func (q *fakeQueue) last(t *testing.T) []byte {
	t.Helper()
	require.NotEmpty(t, q.payloads)
	return q.payloads[len(q.payloads)-1]
}

func newTestFacade() (*Facade, *Store, *fakeQueue) {
	store := NewStore()
	queue := &fakeQueue{}
	return NewFacade(store, queue), store, queue
}

func TestStartupSyncRequestsAllStatuses(t *testing.T) {
	facade, _, queue := newTestFacade()

	facade.StartupSync()

	require.Len(t, queue.payloads, 6)
	assert.Equal(t, [][]byte{
		{protocol.CmdRequestSystemStatus},
		{protocol.CmdRequestInputMenuStatus},
		{protocol.CmdRequestSpeakerMenuStatus},
		{protocol.CmdRequestSoftwareVersion},
		{protocol.CmdRequestFirmwareVersion},
		{protocol.CmdRequestExtraStatus},
	}, queue.payloads)
}

func TestSettersAreIdempotentAgainstCache(t *testing.T) {
	facade, store, queue := newTestFacade()
	store.Apply(protocol.SystemStatus{Power: true, Mute: false})

	facade.SetPower(true)
	facade.SetMute(false)
	assert.Empty(t, queue.payloads, "matching the cache enqueues nothing")

	facade.SetPower(false)
	assert.Equal(t, []byte{protocol.CmdPowerOff}, queue.last(t))

	facade.SetMute(true)
	assert.Equal(t, []byte{protocol.CmdMuteOn}, queue.last(t))
}

func TestCacheUpdatesOnlyFromResponses(t *testing.T) {
	facade, store, queue := newTestFacade()

	facade.SetPower(true)
	require.Len(t, queue.payloads, 1)

	// The command went out but no response arrived, so the cache still
	// says off and a repeat request is transmitted again.
	assert.False(t, facade.Power())
	facade.SetPower(true)
	assert.Len(t, queue.payloads, 2)

	// Once the device confirms, the repeat becomes a no-op.
	store.Apply(protocol.SystemStatus{Power: true})
	facade.SetPower(true)
	assert.Len(t, queue.payloads, 2)
}

func TestSetVolume(t *testing.T) {
	tests := []struct {
		name    string
		cached  int
		level   int
		want    []byte
		wantErr bool
	}{
		{name: "valid level", cached: 0, level: 45, want: []byte{45}},
		{name: "maximum", cached: 0, level: 99, want: []byte{99}},
		{name: "minimum from nonzero", cached: 20, level: 0, want: []byte{0}},
		{name: "matches cache", cached: 45, level: 45},
		{name: "negative", level: -1, wantErr: true},
		{name: "above maximum", level: 100, wantErr: true},
		{name: "reserved level ten", level: 10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facade, store, queue := newTestFacade()
			store.Apply(protocol.SystemStatus{Volume: tt.cached})

			err := facade.SetVolume(tt.level)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidLevel)
				assert.Empty(t, queue.payloads, "rejected levels enqueue nothing")
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, queue.payloads)
			} else {
				assert.Equal(t, tt.want, queue.last(t))
			}
		})
	}
}

func TestVolumeStepsSkipReservedLevel(t *testing.T) {
	facade, store, queue := newTestFacade()

	store.Apply(protocol.SystemStatus{Volume: 9})
	facade.VolumeUp()
	assert.Equal(t, []byte{11}, queue.last(t), "up from 9 lands on 11")

	store.Apply(protocol.SystemStatus{Volume: 11})
	facade.VolumeDown()
	assert.Equal(t, []byte{9}, queue.last(t), "down from 11 lands on 9")
}

func TestVolumeStepsSaturate(t *testing.T) {
	facade, store, queue := newTestFacade()

	store.Apply(protocol.SystemStatus{Volume: 99})
	facade.VolumeUp()
	assert.Empty(t, queue.payloads, "no wraparound at the top")

	store.Apply(protocol.SystemStatus{Volume: 0})
	facade.VolumeDown()
	assert.Empty(t, queue.payloads, "no wraparound at the bottom")
}

func TestSelectInput(t *testing.T) {
	facade, store, queue := newTestFacade()

	require.NoError(t, facade.SelectInput(protocol.InputOP2))
	assert.Equal(t, []byte{protocol.CmdSelectInput, 8}, queue.last(t))

	store.Apply(protocol.SystemStatus{Source: protocol.InputOP2})
	require.NoError(t, facade.SelectInput(protocol.InputOP2))
	assert.Len(t, queue.payloads, 1, "selecting the cached input is a no-op")

	require.Error(t, facade.SelectInput(protocol.InputFuture),
		"reserved sources have no selection code")
}

func TestSetInputLabel(t *testing.T) {
	facade, _, queue := newTestFacade()

	require.NoError(t, facade.SetInputLabel(3, "DVD"))
	assert.Equal(t, []byte{protocol.CmdSetInputLabel, 3, 1}, queue.last(t))

	require.Error(t, facade.SetInputLabel(0, "DVD"))
	require.Error(t, facade.SetInputLabel(11, "DVD"))
	require.Error(t, facade.SetInputLabel(3, "NOT-A-LABEL"))
	assert.Len(t, queue.payloads, 1)
}

func TestSetInputLabelDefaultNameIsIdempotent(t *testing.T) {
	facade, store, queue := newTestFacade()

	// Input 7's own name is OP1; once the menu reports that, clearing the
	// label again changes nothing.
	store.Apply(protocol.InputMenuStatus{Labels: func() (l [protocol.NumInputs]string) {
		for i := range l {
			l[i] = protocol.InputLabelName(i+1, 0)
		}
		return
	}()})

	require.NoError(t, facade.SetInputLabel(7, ""))
	assert.Empty(t, queue.payloads)
}

func TestAudioStatusDebounceReplacesNotStacks(t *testing.T) {
	facade, store, _ := newTestFacade()
	store.Apply(protocol.SystemStatus{Mute: true})

	type broadcast struct {
		volume int
		mute   bool
	}
	got := make(chan broadcast, 8)
	facade.SetAudioStatusFunc(func(volume int, mute bool) {
		got <- broadcast{volume, mute}
	})
	facade.SetAudioStatusDelay(30 * time.Millisecond)

	// A burst of volume changes arms and re-arms the same timer.
	require.NoError(t, facade.SetVolume(20))
	require.NoError(t, facade.SetVolume(25))
	require.NoError(t, facade.SetVolume(30))

	// By broadcast time the device has confirmed a level.
	store.Apply(protocol.SystemStatus{Volume: 30, Mute: true})

	select {
	case b := <-got:
		assert.Equal(t, broadcast{volume: 30, mute: true}, b)
	case <-time.After(time.Second):
		t.Fatal("audio status broadcast never fired")
	}

	select {
	case b := <-got:
		t.Fatalf("debounce stacked: extra broadcast %+v", b)
	case <-time.After(100 * time.Millisecond):
	}
}
