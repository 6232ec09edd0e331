package protocol

import (
	"bytes"
	"errors"
	"fmt"
)

// Wire framing constants.
//
// Commands are sent as '*AV2 <payload>\xff' and the processor answers with
// '#AV2 <payload>\xff'. The payload is one command or response byte optionally
// followed by parameter bytes. There is no checksum in this protocol.
const (
	CommandHeader  = 0x2A // '*' - leading byte of every outbound frame
	ResponseHeader = 0x23 // '#' - leading byte of every inbound frame
	Space          = 0x20
	EOL            = 0xFF // frame delimiter in both directions
)

// DeviceID is the addressed device identifier carried in every frame.
const DeviceID = "AV2"

// ErrInvalidHeader is returned by Decode when an inbound buffer does not
// start with the '#AV2 ' prefix. Such frames are dropped by the caller.
var ErrInvalidHeader = errors.New("invalid response header")

// commandPrefix and responsePrefix are the fixed 5-byte frame prefixes.
var (
	commandPrefix  = append([]byte{CommandHeader}, DeviceID+" "...)
	responsePrefix = append([]byte{ResponseHeader}, DeviceID+" "...)
)

// Encode wraps a command payload in a complete outbound frame:
//
//	[0]     0x2A           Header ('*')
//	[1-3]   "AV2"          Device identifier
//	[4]     0x20           Separator
//	[5+]    payload        Command byte plus optional parameter bytes
//	[N]     0xFF           End of frame
//
// Payload length is not validated here; each command knows how many
// parameter bytes it carries.
func Encode(payload []byte) []byte {
	frame := make([]byte, 0, len(commandPrefix)+len(payload)+1)
	frame = append(frame, commandPrefix...)
	frame = append(frame, payload...)
	frame = append(frame, EOL)
	return frame
}

// Decode extracts the response payload from an inbound frame that has
// already been stripped of its 0xFF delimiter. The frame must start with
// '#AV2 ' (0x23 'A' 'V' '2' 0x20); trailing whitespace and control bytes
// are removed from the remainder.
func Decode(raw []byte) ([]byte, error) {
	if len(raw) < len(responsePrefix) || !bytes.Equal(raw[:len(responsePrefix)], responsePrefix) {
		return nil, fmt.Errorf("%w: % x", ErrInvalidHeader, truncate(raw, 8))
	}

	payload := raw[len(responsePrefix):]

	// Strip trailing whitespace/control characters. Some firmware revisions
	// pad responses with CR/LF or spaces before the delimiter.
	end := len(payload)
	for end > 0 && payload[end-1] <= Space {
		end--
	}

	return payload[:end], nil
}

// EncodeResponse builds an inbound-style frame ('#AV2 ' prefix) around a
// payload. The bridge never sends these; it exists for the device simulator
// used in tests and debugging.
func EncodeResponse(payload []byte) []byte {
	frame := make([]byte, 0, len(responsePrefix)+len(payload)+1)
	frame = append(frame, responsePrefix...)
	frame = append(frame, payload...)
	frame = append(frame, EOL)
	return frame
}

func truncate(data []byte, n int) []byte {
	if len(data) > n {
		return data[:n]
	}
	return data
}
