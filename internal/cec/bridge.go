package cec

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/av2bridge/internal/device"
	"github.com/muurk/av2bridge/internal/logging"
)

// CEC opcodes the bridge reacts to. Everything else on the bus is left to
// cec-client's own handling.
const (
	opStandby                = 0x36
	opUserControlPressed     = 0x44
	opGiveAudioStatus        = 0x71
	opSystemAudioModeRequest = 0x70
	opSetStreamPath          = 0x86
)

// CEC user control codes carried in <User Control Pressed>.
const (
	keyVolumeUp   = 0x41
	keyVolumeDown = 0x42
	keyMute       = 0x43
)

// Logical addresses. The bridge claims the audio system address so the TV
// routes volume keys and audio status queries to it.
const (
	addrTV          = 0x0
	addrAudioSystem = 0x5
)

// Config holds the CEC bridge configuration.
type Config struct {
	// Client is the cec-client binary to drive.
	Client string
	// OSDName is the name shown in the TV's device list.
	OSDName string
}

// Bridge runs a cec-client subprocess registered as the HDMI audio system
// and translates bus traffic into facade calls. Volume keys, mute and
// standby from the TV land on the processor; the processor's volume and
// mute are reported back as the CEC audio status.
type Bridge struct {
	config *Config
	facade *device.Facade

	mu    sync.Mutex
	cmd   *exec.Cmd
	stdin io.WriteCloser

	done chan struct{}
}

// New creates a CEC bridge over the device facade.
func New(config *Config, facade *device.Facade) *Bridge {
	return &Bridge{
		config: config,
		facade: facade,
		done:   make(chan struct{}),
	}
}

// Start launches cec-client and begins translating traffic. The returned
// error covers launch failures only; a client that dies later is logged
// and the bridge goes quiet until restarted.
func (b *Bridge) Start() error {
	cmd := exec.Command(b.config.Client,
		"-t", "a", // register as audio system
		"-o", b.config.OSDName,
		"-d", "8", // traffic-level logging, needed to observe the bus
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to open cec-client stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open cec-client stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", b.config.Client, err)
	}

	b.mu.Lock()
	b.cmd = cmd
	b.stdin = stdin
	b.mu.Unlock()

	logging.Info("CEC bridge started",
		zap.String("client", b.config.Client),
		zap.String("osd_name", b.config.OSDName),
	)

	go b.readLoop(stdout)
	return nil
}

// Stop terminates the cec-client subprocess.
func (b *Bridge) Stop() {
	close(b.done)

	b.mu.Lock()
	cmd := b.cmd
	stdin := b.stdin
	b.mu.Unlock()

	if stdin != nil {
		// "q" asks cec-client to release the bus cleanly before exiting.
		_, _ = stdin.Write([]byte("q\n"))
		_ = stdin.Close()
	}
	if cmd != nil {
		_ = cmd.Wait()
	}
}

// BroadcastAudioStatus reports the processor's volume and mute to the TV
// as the CEC <Report Audio Status>. The facade installs this as its
// debounced audio-status sink.
func (b *Bridge) BroadcastAudioStatus(volume int, mute bool) {
	status := byte(volume)
	if mute {
		status |= 0x80
	}
	b.transmit(fmt.Sprintf("%X%X:7A:%02X", addrAudioSystem, addrTV, status))
}

func (b *Bridge) transmit(frame string) {
	b.mu.Lock()
	stdin := b.stdin
	b.mu.Unlock()
	if stdin == nil {
		return
	}

	logging.Debug("CEC transmit", zap.String("frame", frame))
	if _, err := fmt.Fprintf(stdin, "tx %s\n", frame); err != nil {
		logging.Warn("CEC transmit failed", zap.Error(err))
	}
}

func (b *Bridge) readLoop(stdout io.Reader) {
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		select {
		case <-b.done:
			return
		default:
		}
		b.handleLine(scanner.Text())
	}

	select {
	case <-b.done:
	default:
		logging.Error("cec-client exited", zap.Error(scanner.Err()))
	}
}

// handleLine inspects one cec-client log line for inbound traffic.
// Received frames look like:
//
//	TRAFFIC: [  1234]	>> 05:44:41
func (b *Bridge) handleLine(line string) {
	if !strings.Contains(line, "TRAFFIC") {
		return
	}
	idx := strings.Index(line, ">> ")
	if idx < 0 {
		return
	}

	frame, err := parseFrame(strings.TrimSpace(line[idx+3:]))
	if err != nil {
		logging.Debug("Skipping unparseable CEC frame", zap.String("line", line))
		return
	}
	b.handleFrame(frame)
}

// parseFrame decodes a colon-separated hex frame into bytes. The first
// byte packs the initiator and destination addresses.
func parseFrame(s string) ([]byte, error) {
	parts := strings.Split(s, ":")
	frame := make([]byte, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return nil, err
		}
		frame = append(frame, byte(v))
	}
	if len(frame) == 0 {
		return nil, fmt.Errorf("empty frame")
	}
	return frame, nil
}

func (b *Bridge) handleFrame(frame []byte) {
	if len(frame) < 2 {
		// Polling message, address byte only.
		return
	}
	dest := frame[0] & 0x0F
	if dest != addrAudioSystem && dest != 0x0F {
		return
	}
	opcode := frame[1]
	operands := frame[2:]

	switch opcode {
	case opStandby:
		logging.Info("TV requested standby")
		b.facade.SetPower(false)

	case opSetStreamPath:
		logging.Info("TV activated a source")
		b.facade.SetPower(true)

	case opUserControlPressed:
		if len(operands) < 1 {
			return
		}
		b.handleKey(operands[0])

	case opGiveAudioStatus:
		sys := b.facade.State().System
		b.BroadcastAudioStatus(sys.Volume, sys.Mute)

	case opSystemAudioModeRequest:
		// Grant the request so the TV sends volume keys our way.
		b.transmit(fmt.Sprintf("%XF:72:01", addrAudioSystem))
		b.facade.SetPower(true)
	}
}

func (b *Bridge) handleKey(key byte) {
	switch key {
	case keyVolumeUp:
		b.facade.VolumeUp()
	case keyVolumeDown:
		b.facade.VolumeDown()
	case keyMute:
		b.facade.SetMute(!b.facade.Mute())
	default:
		logging.Debug("Ignoring CEC key", zap.Uint8("key", key))
	}
}
