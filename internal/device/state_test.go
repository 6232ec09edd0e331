package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/av2bridge/internal/protocol"
)

func applyStartup(store *Store, statuses ...protocol.Status) {
	for _, st := range statuses {
		store.Apply(st)
	}
}

func requiredStatuses() []protocol.Status {
	return []protocol.Status{
		protocol.SystemStatus{Power: true, Volume: 20, Source: protocol.InputCO1},
		protocol.InputMenuStatus{},
		protocol.SpeakerMenuStatus{},
		protocol.SoftwareVersion{Version: "4.3"},
		protocol.FirmwareVersion{Version: "7.1.2"},
	}
}

func TestReadyFiresOnceAfterAllRequiredResponses(t *testing.T) {
	store := NewStore()

	readyCount := 0
	store.OnReady(func() { readyCount++ })

	statuses := requiredStatuses()
	applyStartup(store, statuses[:len(statuses)-1]...)
	assert.False(t, store.Snapshot().Ready(), "ready needs all five responses")
	assert.Zero(t, readyCount)

	store.Apply(statuses[len(statuses)-1])
	assert.True(t, store.Snapshot().Ready())
	assert.Equal(t, 1, readyCount)

	// Later responses never re-fire ready.
	store.Apply(protocol.SystemStatus{Volume: 30})
	store.Apply(protocol.SoftwareVersion{Version: "4.4"})
	assert.Equal(t, 1, readyCount)
}

func TestReadyIndependentOfResponseOrder(t *testing.T) {
	store := NewStore()
	fired := false
	store.OnReady(func() { fired = true })

	statuses := requiredStatuses()
	// Reversed arrival order, as the device is free to answer the startup
	// queries however it likes.
	for i := len(statuses) - 1; i >= 0; i-- {
		store.Apply(statuses[i])
	}
	assert.True(t, fired)
}

func TestReadyDoesNotRequireExtraStatus(t *testing.T) {
	store := NewStore()
	applyStartup(store, requiredStatuses()...)

	snap := store.Snapshot()
	assert.True(t, snap.Ready())
	assert.Zero(t, snap.Progress&ProgressExtra)

	// The extra record still marks progress when it does arrive.
	store.Apply(protocol.ExtraStatus{Data: []byte{1}})
	assert.NotZero(t, store.Snapshot().Progress&ProgressExtra)
}

func TestApplyReplacesSubRecordWholesale(t *testing.T) {
	store := NewStore()

	store.Apply(protocol.SystemStatus{Power: true, Mute: true, Volume: 40})
	// A later record with zero values overwrites everything; fields from
	// the previous record never survive a replacement.
	store.Apply(protocol.SystemStatus{Volume: 12})

	sys := store.Snapshot().System
	assert.False(t, sys.Power)
	assert.False(t, sys.Mute)
	assert.Equal(t, 12, sys.Volume)
}

func TestOnChangeDeliversOrderedSnapshots(t *testing.T) {
	store := NewStore()

	type transition struct{ prev, next State }
	var seen []transition
	store.OnChange(func(prev, next State) {
		seen = append(seen, transition{prev, next})
	})

	store.Apply(protocol.SystemStatus{Volume: 10})
	store.Apply(protocol.SystemStatus{Volume: 20})
	store.Apply(protocol.SystemStatus{Volume: 30})

	require.Len(t, seen, 3)
	assert.Equal(t, 0, seen[0].prev.System.Volume)
	assert.Equal(t, 10, seen[0].next.System.Volume)
	assert.Equal(t, 10, seen[1].prev.System.Volume)
	assert.Equal(t, 20, seen[1].next.System.Volume)
	assert.Equal(t, 20, seen[2].prev.System.Volume)
	assert.Equal(t, 30, seen[2].next.System.Volume)
}
