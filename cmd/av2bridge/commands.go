package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/av2bridge/internal/cec"
	"github.com/muurk/av2bridge/internal/config"
	"github.com/muurk/av2bridge/internal/device"
	"github.com/muurk/av2bridge/internal/logging"
	"github.com/muurk/av2bridge/internal/player"
	"github.com/muurk/av2bridge/internal/protocol"
	"github.com/muurk/av2bridge/internal/server"
	"github.com/muurk/av2bridge/internal/transport"
)

// Command flags
var (
	configPath string
	serialPort string
	logLevel   string
	sendWait   time.Duration
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "/etc/av2bridge/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&serialPort, "port", "", "Serial adapter path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
}

// loadConfig merges the configuration file with command line overrides and
// initialises logging from the result.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if serialPort != "" {
		cfg.Serial.Port = serialPort
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if err := logging.InitializeWithRotation(cfg.Log.Level, logging.Rotation{
		Filename:   cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	return cfg, nil
}

// runCmd implements the 'run' command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bridge daemon",
	Long: `Run the bridge daemon against the configured serial adapter.

On startup the bridge queries the processor for all of its status records
and reports ready once the required ones have arrived. The CEC bridge,
player poller and monitor API start according to the configuration.`,
	Example: `  # Run with the default configuration file
  av2bridge run

  # Run against a specific adapter with debug logging
  av2bridge run --port /dev/ttyUSB1 --log-level debug`,
	RunE: runBridge,
}

func runBridge(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logging.Sync()

	port, err := transport.OpenPort(cfg.Serial.Port, cfg.Serial.Baud)
	if err != nil {
		return err
	}
	defer port.Close()

	logging.Info("Serial port opened",
		zap.String("port", cfg.Serial.Port),
		zap.Int("baud", cfg.Serial.Baud),
	)

	store := device.NewStore()
	queue := transport.NewQueue(port)
	facade := device.NewFacade(store, queue)
	facade.SetAudioStatusDelay(cfg.AudioStatusDelay)

	facade.OnChange(func(prev, next device.State) {
		logging.LogStateChange("system", prev.System, next.System)
	})

	reader := transport.NewReader(port, store)
	go func() {
		if err := reader.Run(); err != nil {
			logging.Error("Inbound reader stopped", zap.Error(err))
		}
	}()

	var cecBridge *cec.Bridge
	if cfg.CEC.Enabled {
		cecBridge = cec.New(&cec.Config{
			Client:  cfg.CEC.Client,
			OSDName: cfg.CEC.OSDName,
		}, facade)
		if err := cecBridge.Start(); err != nil {
			// The serial side is still useful without CEC; keep going.
			logging.Error("CEC bridge failed to start", zap.Error(err))
			cecBridge = nil
		} else {
			facade.SetAudioStatusFunc(cecBridge.BroadcastAudioStatus)
		}
	}

	var poller *player.Poller
	if cfg.Player.Enabled {
		poller = player.New(&player.Config{
			StatusFile: cfg.Player.StatusFile,
			Interval:   cfg.Player.Interval,
			Input:      protocol.InputSource(cfg.Player.Input),
		}, facade)
		poller.Start()
	}

	var srv *server.Server
	if cfg.Server.Enabled {
		srv = server.New(&server.Config{
			Addr: cfg.Server.Addr,
			MDNS: cfg.Server.MDNS,
		}, facade)
		if err := srv.Start(); err != nil {
			return err
		}
	}

	queue.Start()
	facade.StartupSync()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	received := <-sig
	logging.Info("Shutting down", zap.String("signal", received.String()))

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logging.Warn("Monitor server shutdown failed", zap.Error(err))
		}
	}
	if poller != nil {
		poller.Stop()
	}
	if cecBridge != nil {
		cecBridge.Stop()
	}
	queue.Stop()

	return nil
}

// sendCmd implements the 'send' command
var sendCmd = &cobra.Command{
	Use:   "send <hex-bytes>",
	Short: "Send a raw command payload to the processor",
	Long: `Send a raw command payload to the processor and print any responses.

The payload is given as hex bytes; the frame header and delimiter are
added automatically. This is a debugging aid; it takes the serial port
exclusively, so stop the daemon first.`,
	Example: `  # Request the system status and watch the reply
  av2bridge send 80

  # Switch to input CO1 (code 9)
  av2bridge send 9009 --wait 0`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().DurationVar(&sendWait, "wait", 2*time.Second, "How long to listen for responses after sending")
}

// sendPrinter prints decoded responses during 'send'.
type sendPrinter struct{}

func (sendPrinter) Apply(status protocol.Status) {
	fmt.Println(status.String())
}

func runSend(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	payload, err := hex.DecodeString(strings.ReplaceAll(args[0], " ", ""))
	if err != nil {
		return fmt.Errorf("invalid hex payload %q: %w", args[0], err)
	}
	if len(payload) == 0 {
		return fmt.Errorf("empty payload")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logging.Sync()

	port, err := transport.OpenPort(cfg.Serial.Port, cfg.Serial.Baud)
	if err != nil {
		return err
	}
	defer port.Close()

	if sendWait > 0 {
		reader := transport.NewReader(port, sendPrinter{})
		go func() { _ = reader.Run() }()
	}

	queue := transport.NewQueue(port)
	queue.Start()
	queue.Enqueue(payload)

	// Wait for the payload to clear the queue, then give the device time
	// to answer.
	for queue.Depth() > 0 {
		time.Sleep(transport.TickPeriod)
	}
	time.Sleep(sendWait)
	queue.Stop()

	return nil
}
