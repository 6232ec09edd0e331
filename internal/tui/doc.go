// Package tui implements the interactive terminal client for the bridge.
//
// The model connects to the bridge's WebSocket API, renders the live
// device state and maps key presses to control commands. All state shown
// is the bridge's confirmed cache; a key press is reflected on screen
// only once the processor has acknowledged the change.
package tui
