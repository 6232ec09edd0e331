package transport

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

// Channel is the physical half-duplex link to the processor. Drain blocks
// until every written byte has been handed to the device; the transmitter's
// timing contract is defined in terms of that point.
type Channel interface {
	io.ReadWriteCloser
	Drain() error
}

// DefaultBaudRate matches the processor's fixed serial configuration
// (9600 8N1, no flow control).
const DefaultBaudRate = 9600

// OpenPort opens the serial adapter at the given path as a Channel.
func OpenPort(path string, baudRate int) (Channel, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}

	port, err := serial.Open(path, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", path, err)
	}

	return port, nil
}
