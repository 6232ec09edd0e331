// Package player watches the media player's activity file.
//
// When the player reports playback, the poller powers the processor on
// and selects the player's input through the facade. Stopping playback
// takes no action; power-down comes from the TV over CEC.
package player
