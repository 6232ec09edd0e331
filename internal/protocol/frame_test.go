package protocol

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    []byte
	}{
		{
			name:    "single command byte",
			payload: []byte{CmdPowerOn},
			want:    []byte{0x2A, 'A', 'V', '2', 0x20, CmdPowerOn, 0xFF},
		},
		{
			name:    "command with parameter",
			payload: []byte{CmdSelectInput, 0x07},
			want:    []byte{0x2A, 'A', 'V', '2', 0x20, CmdSelectInput, 0x07, 0xFF},
		},
		{
			name:    "volume level byte",
			payload: []byte{42},
			want:    []byte{0x2A, 'A', 'V', '2', 0x20, 42, 0xFF},
		},
		{
			name:    "empty payload still framed",
			payload: nil,
			want:    []byte{0x2A, 'A', 'V', '2', 0x20, 0xFF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.payload)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Encode() = % x, want % x", got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		raw     []byte
		want    []byte
		wantErr bool
	}{
		{
			name: "valid response",
			raw:  []byte{0x23, 'A', 'V', '2', 0x20, RespSystemStatus, 0x81, 0xE7, 0x85, 0x00, 0x30},
			want: []byte{RespSystemStatus, 0x81, 0xE7, 0x85, 0x00, 0x30},
		},
		{
			name: "trailing whitespace stripped",
			raw:  []byte{0x23, 'A', 'V', '2', 0x20, RespSoftwareVersion, 4, 12, '\r', '\n', ' '},
			want: []byte{RespSoftwareVersion, 4, 12},
		},
		{
			name: "trailing control bytes stripped",
			raw:  []byte{0x23, 'A', 'V', '2', 0x20, RespFirmwareVersion, 2, 1, 7, 0x00, 0x00},
			want: []byte{RespFirmwareVersion, 2, 1, 7},
		},
		{
			name:    "command header is not a response",
			raw:     []byte{0x2A, 'A', 'V', '2', 0x20, RespSystemStatus},
			wantErr: true,
		},
		{
			name:    "wrong device id",
			raw:     []byte{0x23, 'A', 'V', '3', 0x20, RespSystemStatus},
			wantErr: true,
		},
		{
			name:    "missing separator",
			raw:     []byte{0x23, 'A', 'V', '2', RespSystemStatus, 0x00},
			wantErr: true,
		},
		{
			name:    "too short for prefix",
			raw:     []byte{0x23, 'A', 'V'},
			wantErr: true,
		},
		{
			name:    "empty buffer",
			raw:     nil,
			wantErr: true,
		},
		{
			name: "payload of only whitespace decodes empty",
			raw:  []byte{0x23, 'A', 'V', '2', 0x20, ' ', ' '},
			want: []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidHeader) {
					t.Errorf("Decode() error = %v, want ErrInvalidHeader", err)
				}
				return
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Decode() = % x, want % x", got, tt.want)
			}
		})
	}
}

// Payloads round-trip through the response framing as long as they contain
// no 0xFF delimiter and do not end in whitespace/control bytes (those are
// indistinguishable from device padding and get stripped).
func TestResponseRoundTrip(t *testing.T) {
	payloads := [][]byte{
		{RespSystemStatus, 0x81, 0xE7, 0x85, 0x00, 0x30},
		{RespExtraStatus, 0xDE, 0xAD, 0xBE, 0xEF},
		{0xF0, 0x21},
		{0x7F},
	}

	for _, payload := range payloads {
		frame := EncodeResponse(payload)
		if frame[len(frame)-1] != EOL {
			t.Fatalf("EncodeResponse() missing EOL: % x", frame)
		}

		// The reader strips the delimiter before decoding.
		got, err := Decode(frame[:len(frame)-1])
		if err != nil {
			t.Fatalf("Decode(EncodeResponse(% x)) error: %v", payload, err)
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("round trip = % x, want % x", got, payload)
		}
	}
}
