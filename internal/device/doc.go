// Package device holds the processor's believed state and the semantic
// operations over it.
//
// The Store is the single owned instance of device state. It is written
// exclusively by decoded status responses (wholesale sub-record
// replacement) and read through snapshots, and it delivers ordered
// state-change notifications plus a one-time ready signal once the startup
// synchronisation completes.
//
// The Facade translates semantic operations (power, mute, volume, input
// selection, labels) into command bytes on the transmit queue. Setters are
// idempotent against the cache and the cache is confirmed-update only: it
// changes when the device says so, not when a command is issued. Commands
// the device rejects or drops therefore never leave the cache lying.
package device
