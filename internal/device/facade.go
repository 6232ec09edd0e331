package device

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/muurk/av2bridge/internal/protocol"
)

// DefaultAudioStatusDelay is how long volume activity must settle before
// the companion audio-status broadcast is recomputed.
const DefaultAudioStatusDelay = 1000 * time.Millisecond

// ErrInvalidLevel is returned for volume levels outside 0-99 or the
// reserved level 10.
var ErrInvalidLevel = errors.New("invalid volume level")

// Enqueuer accepts command payloads for transmission. The transport queue
// implements this.
type Enqueuer interface {
	Enqueue(payload []byte)
}

// AudioStatusFunc receives the debounced volume/mute broadcast derived
// from volume changes. The CEC bridge uses it to answer the TV.
type AudioStatusFunc func(volume int, mute bool)

// Facade exposes the processor's semantic operations. Every setter
// translates a state transition into command bytes on the queue.
//
// The cached state follows a confirmed-update policy: it is mutated only
// by decoded status responses, never optimistically at call time. A setter
// whose requested value already matches the cache enqueues nothing.
type Facade struct {
	store *Store
	queue Enqueuer

	debounceMu    sync.Mutex
	debounce      *time.Timer
	debounceDelay time.Duration
	audioStatus   AudioStatusFunc
}

// NewFacade creates a facade over the state store and command queue.
func NewFacade(store *Store, queue Enqueuer) *Facade {
	return &Facade{
		store:         store,
		queue:         queue,
		debounceDelay: DefaultAudioStatusDelay,
	}
}

// SetAudioStatusFunc installs the downstream audio-status broadcast.
func (f *Facade) SetAudioStatusFunc(fn AudioStatusFunc) {
	f.debounceMu.Lock()
	f.audioStatus = fn
	f.debounceMu.Unlock()
}

// SetAudioStatusDelay overrides the broadcast debounce delay.
func (f *Facade) SetAudioStatusDelay(d time.Duration) {
	f.debounceMu.Lock()
	f.debounceDelay = d
	f.debounceMu.Unlock()
}

// State returns a snapshot of the cached device state.
func (f *Facade) State() State { return f.store.Snapshot() }

// Ready reports whether the startup synchronisation has completed.
func (f *Facade) Ready() bool { return f.store.Snapshot().Ready() }

// OnChange registers a state-change observer.
func (f *Facade) OnChange(fn ChangeFunc) { f.store.OnChange(fn) }

// OnReady registers a one-time ready observer.
func (f *Facade) OnReady(fn func()) { f.store.OnReady(fn) }

// StartupSync requests every status record from the device. Ready fires
// once all required responses have arrived, in whatever order the device
// answers.
func (f *Facade) StartupSync() {
	for _, cmd := range []byte{
		protocol.CmdRequestSystemStatus,
		protocol.CmdRequestInputMenuStatus,
		protocol.CmdRequestSpeakerMenuStatus,
		protocol.CmdRequestSoftwareVersion,
		protocol.CmdRequestFirmwareVersion,
		protocol.CmdRequestExtraStatus,
	} {
		f.queue.Enqueue([]byte{cmd})
	}
}

// Power reports the cached power state.
func (f *Facade) Power() bool { return f.store.Snapshot().System.Power }

// SetPower requests the given power state.
func (f *Facade) SetPower(on bool) {
	f.setToggle(f.store.Snapshot().System.Power, on, protocol.CmdPowerOn, protocol.CmdPowerOff)
}

// Mute reports the cached mute state.
func (f *Facade) Mute() bool { return f.store.Snapshot().System.Mute }

// SetMute requests the given mute state.
func (f *Facade) SetMute(on bool) {
	f.setToggle(f.store.Snapshot().System.Mute, on, protocol.CmdMuteOn, protocol.CmdMuteOff)
}

// SetDisplay requests the given front display state.
func (f *Facade) SetDisplay(on bool) {
	f.setToggle(f.store.Snapshot().System.Display, on, protocol.CmdDisplayOn, protocol.CmdDisplayOff)
}

// SetMidnightMode requests the given midnight (dynamic compression) mode.
func (f *Facade) SetMidnightMode(on bool) {
	f.setToggle(f.store.Snapshot().System.MidnightMode, on, protocol.CmdMidnightOn, protocol.CmdMidnightOff)
}

// SetBassMix requests the given bass mix state.
func (f *Facade) SetBassMix(on bool) {
	f.setToggle(f.store.Snapshot().System.BassMix, on, protocol.CmdBassMixOn, protocol.CmdBassMixOff)
}

// SetCineEQ requests the given cinema EQ state.
func (f *Facade) SetCineEQ(on bool) {
	f.setToggle(f.store.Snapshot().System.CineEQ, on, protocol.CmdCineEQOn, protocol.CmdCineEQOff)
}

// SetVerbose requests the given verbose mode. With verbose off the device
// stops pushing unsolicited status updates, which starves the cache; the
// bridge keeps it on.
func (f *Facade) SetVerbose(on bool) {
	f.setToggle(f.store.Snapshot().System.Verbose, on, protocol.CmdVerboseOn, protocol.CmdVerboseOff)
}

// SetInputMenuMode requests the given on-screen input menu state.
func (f *Facade) SetInputMenuMode(on bool) {
	f.setToggle(f.store.Snapshot().System.InputMenu, on, protocol.CmdInputMenuOn, protocol.CmdInputMenuOff)
}

// SetSpeakerMenuMode requests the given on-screen speaker menu state.
func (f *Facade) SetSpeakerMenuMode(on bool) {
	f.setToggle(f.store.Snapshot().System.SpeakerMenu, on, protocol.CmdSpeakerMenuOn, protocol.CmdSpeakerMenuOff)
}

// Units reports the cached distance units.
func (f *Facade) Units() protocol.Units { return f.store.Snapshot().SpeakerMenu.Units }

// SetUnits requests the given distance units.
func (f *Facade) SetUnits(units protocol.Units) {
	f.setToggle(f.store.Snapshot().SpeakerMenu.Units == protocol.UnitsFeet,
		units == protocol.UnitsFeet, protocol.CmdUnitsFeet, protocol.CmdUnitsMetres)
}

func (f *Facade) setToggle(current, want bool, onCmd, offCmd byte) {
	if current == want {
		return
	}
	if want {
		f.queue.Enqueue([]byte{onCmd})
	} else {
		f.queue.Enqueue([]byte{offCmd})
	}
}

// Volume reports the cached volume level.
func (f *Facade) Volume() int { return f.store.Snapshot().System.Volume }

// SetVolume requests an absolute volume level (0-99). Level 10 is
// rejected: that byte triggers the device's OSD recall function instead of
// a volume change.
func (f *Facade) SetVolume(level int) error {
	if level < 0 || level > protocol.CmdVolumeMax {
		return fmt.Errorf("%w: %d not in 0-99", ErrInvalidLevel, level)
	}
	if level == protocol.CmdOSDRecall {
		return fmt.Errorf("%w: level 10 is reserved by the device", ErrInvalidLevel)
	}
	if f.store.Snapshot().System.Volume == level {
		return nil
	}
	f.queue.Enqueue([]byte{byte(level)})
	f.scheduleAudioStatus()
	return nil
}

// VolumeUp raises the volume one step. Level 10 is skipped (9 steps to
// 11) and 99 saturates.
func (f *Facade) VolumeUp() {
	f.stepVolume(+1)
}

// VolumeDown lowers the volume one step. Level 10 is skipped (11 steps to
// 9) and 0 saturates.
func (f *Facade) VolumeDown() {
	f.stepVolume(-1)
}

func (f *Facade) stepVolume(dir int) {
	current := f.store.Snapshot().System.Volume
	target := current + dir
	if target == protocol.CmdOSDRecall {
		target += dir
	}
	if target < 0 || target > protocol.CmdVolumeMax {
		return
	}
	f.queue.Enqueue([]byte{byte(target)})
	f.scheduleAudioStatus()
}

// Source reports the cached input source.
func (f *Facade) Source() protocol.InputSource { return f.store.Snapshot().System.Source }

// SelectInput requests the given input source.
func (f *Facade) SelectInput(src protocol.InputSource) error {
	code, err := protocol.InputSourceCode(src)
	if err != nil {
		return err
	}
	if f.store.Snapshot().System.Source == src {
		return nil
	}
	f.queue.Enqueue([]byte{protocol.CmdSelectInput, code})
	return nil
}

// InputLabel reports the cached label of an input (1-10).
func (f *Facade) InputLabel(inputNum int) (string, error) {
	if inputNum < 1 || inputNum > protocol.NumInputs {
		return "", fmt.Errorf("input number %d not in 1-%d", inputNum, protocol.NumInputs)
	}
	return f.store.Snapshot().InputMenu.Labels[inputNum-1], nil
}

// SetInputLabel assigns a vocabulary label to an input (1-10). An empty
// label restores the input's own default name.
func (f *Facade) SetInputLabel(inputNum int, label string) error {
	if inputNum < 1 || inputNum > protocol.NumInputs {
		return fmt.Errorf("input number %d not in 1-%d", inputNum, protocol.NumInputs)
	}

	var code byte
	if label != "" {
		var err error
		code, err = protocol.InputLabelCode(label)
		if err != nil {
			return err
		}
	}

	if f.store.Snapshot().InputMenu.Labels[inputNum-1] == protocol.InputLabelName(inputNum, code) {
		return nil
	}
	f.queue.Enqueue([]byte{protocol.CmdSetInputLabel, byte(inputNum), code})
	return nil
}

// scheduleAudioStatus arms the audio-status debounce. Each new volume
// change replaces the pending timer; rapid changes produce one broadcast.
func (f *Facade) scheduleAudioStatus() {
	f.debounceMu.Lock()
	defer f.debounceMu.Unlock()

	if f.audioStatus == nil {
		return
	}
	if f.debounce != nil {
		f.debounce.Stop()
	}
	f.debounce = time.AfterFunc(f.debounceDelay, func() {
		sys := f.store.Snapshot().System
		f.debounceMu.Lock()
		fn := f.audioStatus
		f.debounceMu.Unlock()
		if fn != nil {
			fn(sys.Volume, sys.Mute)
		}
	})
}
