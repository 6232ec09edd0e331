package protocol

import "fmt"

// Command bytes understood by the processor.
//
// Volume is set by sending the raw level as a single command byte
// (0x00-0x63). Byte 0x0A inside that range is claimed by the OSD recall
// function, so level 10 cannot be addressed; callers step over it.
const (
	CmdVolumeMin = 0x00
	CmdVolumeMax = 0x63 // 99
	CmdOSDRecall = 0x0A // unrelated function in the middle of the volume range
)

// Toggle commands. Each attribute has a distinct byte per target state;
// there are no toggle-current-state commands on this device.
const (
	CmdPowerOff       = 0xA0
	CmdPowerOn        = 0xA1
	CmdMuteOff        = 0xA2
	CmdMuteOn         = 0xA3
	CmdDisplayOff     = 0xA4
	CmdDisplayOn      = 0xA5
	CmdMidnightOff    = 0xA6
	CmdMidnightOn     = 0xA7
	CmdBassMixOff     = 0xA8
	CmdBassMixOn      = 0xA9
	CmdCineEQOff      = 0xAA
	CmdCineEQOn       = 0xAB
	CmdVerboseOff     = 0xAC
	CmdVerboseOn      = 0xAD
	CmdInputMenuOff   = 0xAE
	CmdInputMenuOn    = 0xAF
	CmdSpeakerMenuOff = 0xB0
	CmdSpeakerMenuOn  = 0xB1
	CmdUnitsMetres    = 0xB2
	CmdUnitsFeet      = 0xB3
)

// Status query commands. The processor answers each with the matching
// status response; the startup sequence issues all six.
const (
	CmdRequestSystemStatus      = 0x80
	CmdRequestInputMenuStatus   = 0x81
	CmdRequestSpeakerMenuStatus = 0x82
	CmdRequestSoftwareVersion   = 0x83
	CmdRequestFirmwareVersion   = 0x84
	CmdRequestExtraStatus       = 0x85
)

// Parameterised commands.
const (
	CmdSelectInput   = 0x90 // + input source code (1-11)
	CmdSetInputLabel = 0x91 // + input number (1-10) + label code (0-20)
)

// Response codes: first payload byte of every inbound frame.
const (
	RespSystemStatus      = 0x69
	RespInputMenuStatus   = 0x6A
	RespSpeakerMenuStatus = 0x6B
	RespSoftwareVersion   = 0x6C
	RespFirmwareVersion   = 0x6D
	RespExtraStatus       = 0x6E
)

// InputSource identifies one of the selectable inputs.
type InputSource string

const (
	InputVIP1   InputSource = "VIP1"
	InputVIP2   InputSource = "VIP2"
	InputAN3    InputSource = "AN3"
	InputAN4    InputSource = "AN4"
	InputAN5    InputSource = "AN5"
	InputAN6    InputSource = "AN6"
	InputOP1    InputSource = "OP1"
	InputOP2    InputSource = "OP2"
	InputCO1    InputSource = "CO1"
	InputCO2    InputSource = "CO2"
	InputMulti  InputSource = "Multi"
	InputFuture InputSource = "Future" // reserved codes on newer firmware
)

// inputSourceCodes maps wire codes 1-11 to input sources. Anything outside
// the table decodes as InputFuture.
var inputSourceCodes = map[byte]InputSource{
	1:  InputVIP1,
	2:  InputVIP2,
	3:  InputAN3,
	4:  InputAN4,
	5:  InputAN5,
	6:  InputAN6,
	7:  InputOP1,
	8:  InputOP2,
	9:  InputCO1,
	10: InputCO2,
	11: InputMulti,
}

// InputSourceFromCode decodes a wire input code.
func InputSourceFromCode(code byte) InputSource {
	if src, ok := inputSourceCodes[code]; ok {
		return src
	}
	return InputFuture
}

// InputSourceCode returns the wire code for an input source, or an error
// for sources that cannot be selected (InputFuture has no code).
func InputSourceCode(src InputSource) (byte, error) {
	for code, s := range inputSourceCodes {
		if s == src {
			return code, nil
		}
	}
	return 0, fmt.Errorf("input source %q has no selection code", src)
}

// NumInputs is the number of physical inputs with assignable labels.
const NumInputs = 10

// DecodeMode is the active surround decode mode reported in the system
// status.
type DecodeMode string

const DecodeModeFuture DecodeMode = "Future"

// decodeModeNames maps the mode code in the system status to its name.
// Codes 0-23 and 48-55 are defined; everything else reports as Future.
var decodeModeNames = map[byte]DecodeMode{
	0:  "Direct",
	1:  "Mono",
	2:  "Stereo",
	3:  "Dolby Pro Logic",
	4:  "Dolby PLII Movie",
	5:  "Dolby PLII Music",
	6:  "Dolby PLII Matrix",
	7:  "Dolby PLII Game",
	8:  "Dolby PLII Emulation",
	9:  "Dolby Digital",
	10: "Dolby Digital EX",
	11: "Dolby Digital + PLII Movie",
	12: "Dolby Digital + PLII Music",
	13: "Dolby Digital Karaoke",
	14: "DTS",
	15: "DTS ES Matrix",
	16: "DTS ES Discrete",
	17: "DTS 96/24",
	18: "DTS Neo:6 Cinema",
	19: "DTS Neo:6 Music",
	20: "MPEG Multichannel",
	21: "Multichannel PCM",
	22: "Multichannel Stereo",
	23: "Party",
	48: "Stereo Direct",
	49: "Stereo + Sub",
	50: "Analogue Direct",
	51: "Analogue Multichannel",
	52: "PCM 96kHz",
	53: "PCM 192kHz",
	54: "External Decoder",
	55: "Tuner",
}

// DecodeModeFromCode decodes a wire decode-mode code.
func DecodeModeFromCode(code byte) DecodeMode {
	if mode, ok := decodeModeNames[code]; ok {
		return mode
	}
	return DecodeModeFuture
}

// Input label vocabulary. Label code 0 means "use the input's own name";
// codes 1-20 select a fixed name; anything else displays as "---".
var inputLabelNames = map[byte]string{
	1:  "DVD",
	2:  "SAT",
	3:  "CABLE",
	4:  "TV",
	5:  "VCR",
	6:  "GAME",
	7:  "CD",
	8:  "TUNER",
	9:  "TAPE",
	10: "MD",
	11: "PC",
	12: "AUX",
	13: "PHONO",
	14: "CAMERA",
	15: "LASER",
	16: "AMP",
	17: "RADIO",
	18: "VIDEO",
	19: "MUSIC",
	20: "MOVIE",
}

// InputLabelName resolves a label code for the given input number (1-10).
// Code 0 falls back to the input's default name.
func InputLabelName(inputNum int, code byte) string {
	if code == 0 {
		return defaultInputName(inputNum)
	}
	if name, ok := inputLabelNames[code]; ok {
		return name
	}
	return "---"
}

// InputLabelCode returns the wire code for a vocabulary label name, or an
// error when the name is not in the vocabulary.
func InputLabelCode(name string) (byte, error) {
	for code, n := range inputLabelNames {
		if n == name {
			return code, nil
		}
	}
	return 0, fmt.Errorf("label %q is not in the input label vocabulary", name)
}

// defaultInputName maps input numbers 1-10 to the source selected on the
// same position, matching the front panel defaults.
func defaultInputName(inputNum int) string {
	if inputNum >= 1 && inputNum <= NumInputs {
		return string(InputSourceFromCode(byte(inputNum)))
	}
	return "---"
}

// SpeakerSize is the configured size of one speaker group.
type SpeakerSize string

const (
	SpeakerOff      SpeakerSize = "Off"
	SpeakerSmall    SpeakerSize = "Small"
	SpeakerLarge    SpeakerSize = "Large"
	SpeakerTwoSmall SpeakerSize = "2-Small"
	SpeakerTwoLarge SpeakerSize = "2-Large"
)

// SpeakerSizeFromCode decodes a speaker size code. Codes outside 1-4 mean
// the group is disabled.
func SpeakerSizeFromCode(code byte) SpeakerSize {
	switch code {
	case 1:
		return SpeakerSmall
	case 2:
		return SpeakerLarge
	case 3:
		return SpeakerTwoSmall
	case 4:
		return SpeakerTwoLarge
	default:
		return SpeakerOff
	}
}

// NumSpeakerGroups is the number of size-configurable speaker groups
// (front, centre, surround, back).
const NumSpeakerGroups = 4

// NumChannels is the number of distance/level channels in the speaker menu.
const NumChannels = 8

// Units selects the distance unit reported in the speaker menu.
type Units string

const (
	UnitsMetres Units = "Metres"
	UnitsFeet   Units = "Feet"
)
