// Package cec links the TV's HDMI-CEC bus to the processor.
//
// The bridge drives a cec-client subprocess registered as the HDMI audio
// system. TV-originated events (standby, source activation, volume and
// mute keys, audio status queries) become facade calls, and the facade's
// debounced volume broadcast is answered back to the TV as the CEC audio
// status, so the TV's volume overlay tracks the processor.
package cec
