// Package transport owns the physical serial link to the processor: the
// timing-governed transmit queue on the outbound side and the frame reader
// on the inbound side.
//
// # Timing discipline
//
// The link is half duplex from the device's point of view. The queue
// guarantees one command frame in flight at a time, a minimum 105 ms gap
// between successive commands, and the two-phase attention-byte write the
// device's receiver requires. See Queue for the exact sequence.
//
// # Inbound path
//
// The Reader splits the byte stream on 0xFF delimiters and feeds decoded
// status records to a StatusSink. Inbound frames are processed immediately
// and independently of the outbound queue's state. Malformed frames are
// logged and dropped; they never mutate device state and never stop the
// read loop.
package transport
