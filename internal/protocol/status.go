package protocol

import "fmt"

// Status is a decoded state-update response from the processor.
type Status interface {
	Code() byte
	String() string
}

// SystemStatus (response 0x69) carries the processor's main state. It is
// pushed unsolicited on every state change while verbose mode is on, and on
// request via CmdRequestSystemStatus.
//
// Payload structure (byte 0 is the response code itself):
//
//	[1]     flags A: bit7 power, bit6 input menu, bit5 speaker menu,
//	        bit4 display, bit3 Dolby Digital, bit2 Dolby PLII, bit1 DTS,
//	        bit0 stereo
//	[2]     bits 7-4: midnight mode, bass mix, cine EQ, verbose
//	        bits 3-0: current input code (1-11)
//	[3]     bit7 mute, bits 6-0 volume (0-99)
//	[4]     reserved
//	[5]     decode mode code
type SystemStatus struct {
	Power        bool
	InputMenu    bool
	SpeakerMenu  bool
	Display      bool
	DolbyDigital bool
	DolbyPLII    bool
	DTS          bool
	Stereo       bool

	MidnightMode bool
	BassMix      bool
	CineEQ       bool
	Verbose      bool

	Mute   bool
	Volume int

	Source InputSource
	Mode   DecodeMode
}

func (s SystemStatus) Code() byte { return RespSystemStatus }

func (s SystemStatus) String() string {
	return fmt.Sprintf("System{power=%v, input=%s, volume=%d, mute=%v, mode=%s}",
		s.Power, s.Source, s.Volume, s.Mute, s.Mode)
}

// InputMenuStatus (response 0x6A) carries the input menu configuration:
// the label assigned to each of the ten inputs plus the panorama settings.
//
//	[1-10]  label code per input (0 = input's own name, 1-20 = vocabulary)
//	[11]    panorama on/off (nonzero = on)
//	[12]    panorama width (0-7)
//	[13]    panorama depth (0-6)
type InputMenuStatus struct {
	Labels   [NumInputs]string
	Panorama bool
	Width    int
	Depth    int
}

func (s InputMenuStatus) Code() byte { return RespInputMenuStatus }

func (s InputMenuStatus) String() string {
	return fmt.Sprintf("InputMenu{labels=%v, panorama=%v, width=%d, depth=%d}",
		s.Labels, s.Panorama, s.Width, s.Depth)
}

// SpeakerMenuStatus (response 0x6B) carries the speaker configuration.
//
//	[1-4]   size code per group: front, centre, surround, back
//	        (1=Small, 2=Large, 3=2-Small, 4=2-Large, else Off)
//	[5]     subwoofer present (nonzero)
//	[6]     units (nonzero = feet, else metres)
//	[7-14]  channel distances, raw values in the configured unit
//	[15-22] channel levels, raw value minus 30 = dB offset (-30..+30)
type SpeakerMenuStatus struct {
	Sizes     [NumSpeakerGroups]SpeakerSize
	Subwoofer bool
	Units     Units
	Distances [NumChannels]int
	Levels    [NumChannels]int // dB
}

func (s SpeakerMenuStatus) Code() byte { return RespSpeakerMenuStatus }

func (s SpeakerMenuStatus) String() string {
	return fmt.Sprintf("SpeakerMenu{sizes=%v, sub=%v, units=%s}",
		s.Sizes, s.Subwoofer, s.Units)
}

// SoftwareVersion (response 0x6C): bytes [1] and [2] are the major and
// minor components of the control software version.
type SoftwareVersion struct {
	Version string
}

func (s SoftwareVersion) Code() byte     { return RespSoftwareVersion }
func (s SoftwareVersion) String() string { return "Software{" + s.Version + "}" }

// FirmwareVersion (response 0x6D): bytes [1], [2] and [3] are the major,
// minor and patch components of the DSP firmware version.
type FirmwareVersion struct {
	Version string
}

func (s FirmwareVersion) Code() byte     { return RespFirmwareVersion }
func (s FirmwareVersion) String() string { return "Firmware{" + s.Version + "}" }

// ExtraStatus (response 0x6E) is reserved. The payload is kept verbatim so
// newer firmware can be inspected from logs.
type ExtraStatus struct {
	Data []byte
}

func (s ExtraStatus) Code() byte     { return RespExtraStatus }
func (s ExtraStatus) String() string { return fmt.Sprintf("Extra{%d bytes}", len(s.Data)) }

// UnknownStatus is the fallback for response codes this build does not
// know about. Callers ignore it; newer firmware may add codes at any time.
type UnknownStatus struct {
	RespCode byte
	Data     []byte
}

func (s UnknownStatus) Code() byte { return s.RespCode }

func (s UnknownStatus) String() string {
	return fmt.Sprintf("Unknown{code=0x%02x, len=%d}", s.RespCode, len(s.Data))
}

// ParseStatus decodes a response payload (as returned by Decode) into a
// typed status record. Unrecognised response codes yield UnknownStatus and
// no error. A recognised code with a truncated payload is an error; the
// caller drops the frame without touching device state.
func ParseStatus(payload []byte) (Status, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty response payload")
	}

	switch payload[0] {
	case RespSystemStatus:
		return parseSystemStatus(payload)
	case RespInputMenuStatus:
		return parseInputMenuStatus(payload)
	case RespSpeakerMenuStatus:
		return parseSpeakerMenuStatus(payload)
	case RespSoftwareVersion:
		return parseSoftwareVersion(payload)
	case RespFirmwareVersion:
		return parseFirmwareVersion(payload)
	case RespExtraStatus:
		return ExtraStatus{Data: payload[1:]}, nil
	default:
		return UnknownStatus{RespCode: payload[0], Data: payload[1:]}, nil
	}
}

func parseSystemStatus(payload []byte) (SystemStatus, error) {
	if len(payload) < 6 {
		return SystemStatus{}, fmt.Errorf("system status too short: %d bytes (minimum 6)", len(payload))
	}

	flags := payload[1]
	st := SystemStatus{
		Power:        flags&0x80 != 0,
		InputMenu:    flags&0x40 != 0,
		SpeakerMenu:  flags&0x20 != 0,
		Display:      flags&0x10 != 0,
		DolbyDigital: flags&0x08 != 0,
		DolbyPLII:    flags&0x04 != 0,
		DTS:          flags&0x02 != 0,
		Stereo:       flags&0x01 != 0,
	}

	modes := payload[2]
	st.MidnightMode = modes&0x80 != 0
	st.BassMix = modes&0x40 != 0
	st.CineEQ = modes&0x20 != 0
	st.Verbose = modes&0x10 != 0
	st.Source = InputSourceFromCode(modes & 0x0F)

	// Volume above 99 is protocol-invalid but stored as received; the
	// device never reports it in practice.
	st.Mute = payload[3]&0x80 != 0
	st.Volume = int(payload[3] & 0x7F)

	st.Mode = DecodeModeFromCode(payload[5])

	return st, nil
}

func parseInputMenuStatus(payload []byte) (InputMenuStatus, error) {
	if len(payload) < 14 {
		return InputMenuStatus{}, fmt.Errorf("input menu status too short: %d bytes (minimum 14)", len(payload))
	}

	var st InputMenuStatus
	for i := 0; i < NumInputs; i++ {
		st.Labels[i] = InputLabelName(i+1, payload[1+i])
	}
	st.Panorama = payload[11] != 0
	st.Width = int(payload[12])
	st.Depth = int(payload[13])

	return st, nil
}

func parseSpeakerMenuStatus(payload []byte) (SpeakerMenuStatus, error) {
	if len(payload) < 23 {
		return SpeakerMenuStatus{}, fmt.Errorf("speaker menu status too short: %d bytes (minimum 23)", len(payload))
	}

	var st SpeakerMenuStatus
	for i := 0; i < NumSpeakerGroups; i++ {
		st.Sizes[i] = SpeakerSizeFromCode(payload[1+i])
	}
	st.Subwoofer = payload[5] != 0
	if payload[6] != 0 {
		st.Units = UnitsFeet
	} else {
		st.Units = UnitsMetres
	}
	for i := 0; i < NumChannels; i++ {
		st.Distances[i] = int(payload[7+i])
	}
	// Levels are biased by +30 on the wire: raw 0 is -30 dB, raw 60 is
	// +30 dB.
	for i := 0; i < NumChannels; i++ {
		st.Levels[i] = int(payload[15+i]) - 30
	}

	return st, nil
}

func parseSoftwareVersion(payload []byte) (SoftwareVersion, error) {
	if len(payload) < 3 {
		return SoftwareVersion{}, fmt.Errorf("software version too short: %d bytes (minimum 3)", len(payload))
	}
	return SoftwareVersion{Version: fmt.Sprintf("%d.%d", payload[1], payload[2])}, nil
}

func parseFirmwareVersion(payload []byte) (FirmwareVersion, error) {
	if len(payload) < 4 {
		return FirmwareVersion{}, fmt.Errorf("firmware version too short: %d bytes (minimum 4)", len(payload))
	}
	return FirmwareVersion{Version: fmt.Sprintf("%d.%d.%d", payload[1], payload[2], payload[3])}, nil
}
