// Package server exposes the bridge's state over HTTP and WebSocket.
//
// # Endpoints
//
//   - /state: JSON snapshot of the cached device state
//   - /healthz: liveness plus device readiness
//   - /ws: state events pushed on every change, plus a small command surface
//   - /metrics: Prometheus metrics
//
// The server is a monitoring aid for dashboards and the TUI. It never
// touches the serial port directly; everything goes through the device
// facade. When enabled, the API is advertised over mDNS as
// _av2bridge._tcp so clients on the LAN can find it without
// configuration.
package server
