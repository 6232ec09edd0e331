package player

import (
	"bytes"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/av2bridge/internal/device"
	"github.com/muurk/av2bridge/internal/logging"
	"github.com/muurk/av2bridge/internal/protocol"
)

// Config holds the player poller configuration.
type Config struct {
	// StatusFile is the activity file written by the media player. Its
	// first line is the player state; "playing" is the only state that
	// triggers action. A missing file reads as stopped.
	StatusFile string
	// Interval is the polling period.
	Interval time.Duration
	// Input is the processor input to select when playback starts.
	Input protocol.InputSource
}

// Poller watches the media player's activity file and wakes the processor
// when playback starts: power on, then select the player's input. Both
// calls are idempotent through the facade, so a processor already set up
// sees no serial traffic. Playback stopping takes no action; powering
// down is the TV's call, relayed over CEC.
type Poller struct {
	config *Config
	facade *device.Facade

	playing bool
	stop    chan struct{}
	done    chan struct{}
}

// New creates a poller over the device facade.
func New(config *Config, facade *device.Facade) *Poller {
	return &Poller{
		config: config,
		facade: facade,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start begins polling in a background goroutine.
func (p *Poller) Start() {
	logging.Info("Player poller started",
		zap.String("status_file", p.config.StatusFile),
		zap.Duration("interval", p.config.Interval),
		zap.String("input", string(p.config.Input)),
	)
	go p.run()
}

// Stop halts polling and waits for the poll goroutine to exit.
func (p *Poller) Stop() {
	close(p.stop)
	<-p.done
}

func (p *Poller) run() {
	defer close(p.done)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

func (p *Poller) poll() {
	playing := p.readActivity()
	if playing == p.playing {
		return
	}
	p.playing = playing

	if playing {
		logging.Info("Playback started, waking processor",
			zap.String("input", string(p.config.Input)),
		)
		p.facade.SetPower(true)
		if err := p.facade.SelectInput(p.config.Input); err != nil {
			logging.Warn("Failed to select player input", zap.Error(err))
		}
	} else {
		logging.Debug("Playback stopped")
	}
}

func (p *Poller) readActivity() bool {
	data, err := os.ReadFile(p.config.StatusFile)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("Failed to read player status file", zap.Error(err))
		}
		return false
	}

	line, _, _ := bytes.Cut(data, []byte("\n"))
	return string(bytes.TrimSpace(line)) == "playing"
}
