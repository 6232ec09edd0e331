// Package protocol implements the AV2 processor's serial control protocol.
//
// This package handles the byte-level framing of commands and responses and
// the decoding of densely packed status payloads into typed records. It has
// no I/O and no timing; transmission discipline lives in internal/transport.
//
// # Wire format
//
// Outbound command frames:
//   - Header byte: 0x2A ('*')
//   - Device identifier: "AV2"
//   - Separator: 0x20
//   - Payload: one command byte plus optional parameter bytes
//   - End of frame: 0xFF
//
// Inbound response frames are delimited by 0xFF and carry the same layout
// with a 0x23 ('#') header. There is no checksum; a frame whose first five
// bytes are not '#AV2 ' is simply dropped.
//
// # Status responses
//
// The first payload byte of a response selects which state record it
// updates: system status, input menu, speaker menu, software version,
// firmware version, or the reserved extra status. Each record replaces its
// predecessor wholesale; see ParseStatus and the per-type structure
// documentation for the exact bit layouts.
//
// Unknown response codes decode to UnknownStatus and are ignored upstream,
// so firmware newer than this build cannot wedge the bridge.
//
// # Usage
//
//	frame := protocol.Encode([]byte{protocol.CmdPowerOn})
//	// ... transmit frame ...
//
//	payload, err := protocol.Decode(raw)
//	if err != nil {
//	    // malformed frame, drop
//	}
//	status, err := protocol.ParseStatus(payload)
//
// # Thread safety
//
// All functions are stateless and safe for concurrent use.
package protocol
