// Package config loads and validates the bridge's YAML configuration.
//
// Configuration covers the serial adapter, the monitor API, the CEC and
// player collaborators, logging, and the audio-status debounce. A missing
// file yields working defaults; a present file only needs to specify the
// fields it changes.
package config
