package device

import (
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/av2bridge/internal/logging"
	"github.com/muurk/av2bridge/internal/protocol"
)

// Progress tracks which of the initial status queries have been answered
// since startup. Flags are only ever set, never cleared.
type Progress uint8

const (
	ProgressSystem Progress = 1 << iota
	ProgressInputMenu
	ProgressSpeakerMenu
	ProgressSoftware
	ProgressFirmware
	ProgressExtra
)

// readyMask is the set of responses required before the device is
// considered usable. The extra status is reserved and optional.
const readyMask = ProgressSystem | ProgressInputMenu | ProgressSpeakerMenu |
	ProgressSoftware | ProgressFirmware

// State is the processor's believed state: one sub-record per status
// response plus the startup progress mask. Sub-records are replaced
// wholesale by decoded responses, never field-merged.
type State struct {
	System      protocol.SystemStatus
	InputMenu   protocol.InputMenuStatus
	SpeakerMenu protocol.SpeakerMenuStatus
	Software    string
	Firmware    string
	Progress    Progress
}

// Ready reports whether every required startup response has arrived.
func (s State) Ready() bool {
	return s.Progress&readyMask == readyMask
}

// ChangeFunc receives the full state before and after a decoded response
// was applied.
type ChangeFunc func(prev, next State)

// Store owns the single State instance. It is written only by Apply and
// read through Snapshot; observers registered with OnChange and OnReady
// are invoked in the order their triggering frames were decoded.
type Store struct {
	mu    sync.Mutex
	state State
	// ready fires exactly once, when the last required startup response
	// lands. Later state changes never re-fire it.
	readyFired bool

	// notifyMu serialises observer dispatch so notification order matches
	// apply order.
	notifyMu sync.Mutex
	onChange []ChangeFunc
	onReady  []func()
}

// NewStore creates an empty state store.
func NewStore() *Store {
	return &Store{}
}

// OnChange registers an observer for state-change notifications. Register
// before response traffic starts; there is no replay of missed changes.
func (s *Store) OnChange(fn ChangeFunc) {
	s.notifyMu.Lock()
	s.onChange = append(s.onChange, fn)
	s.notifyMu.Unlock()
}

// OnReady registers an observer for the one-time ready transition.
func (s *Store) OnReady(fn func()) {
	s.notifyMu.Lock()
	s.onReady = append(s.onReady, fn)
	s.notifyMu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Apply replaces the sub-record matching the status, marks its startup
// progress flag and notifies observers with the previous and new
// snapshots. Statuses the store has no record for are ignored.
func (s *Store) Apply(status protocol.Status) {
	s.mu.Lock()
	prev := s.state

	switch st := status.(type) {
	case protocol.SystemStatus:
		s.state.System = st
		s.state.Progress |= ProgressSystem
	case protocol.InputMenuStatus:
		s.state.InputMenu = st
		s.state.Progress |= ProgressInputMenu
	case protocol.SpeakerMenuStatus:
		s.state.SpeakerMenu = st
		s.state.Progress |= ProgressSpeakerMenu
	case protocol.SoftwareVersion:
		s.state.Software = st.Version
		s.state.Progress |= ProgressSoftware
	case protocol.FirmwareVersion:
		s.state.Firmware = st.Version
		s.state.Progress |= ProgressFirmware
	case protocol.ExtraStatus:
		s.state.Progress |= ProgressExtra
	default:
		s.mu.Unlock()
		return
	}

	next := s.state
	fireReady := !s.readyFired && next.Ready()
	if fireReady {
		s.readyFired = true
	}
	s.mu.Unlock()

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	for _, fn := range s.onChange {
		fn(prev, next)
	}
	if fireReady {
		logging.Info("Device ready",
			zap.String("software", next.Software),
			zap.String("firmware", next.Firmware),
		)
		for _, fn := range s.onReady {
			fn()
		}
	}
}
