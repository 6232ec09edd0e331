package tui

import (
	"fmt"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
)

// StateView mirrors the bridge's WebSocket state event payload.
type StateView struct {
	Ready        bool     `json:"ready"`
	Power        bool     `json:"power"`
	Mute         bool     `json:"mute"`
	Volume       int      `json:"volume"`
	Source       string   `json:"source"`
	DecodeMode   string   `json:"decode_mode"`
	Display      bool     `json:"display"`
	MidnightMode bool     `json:"midnight_mode"`
	BassMix      bool     `json:"bass_mix"`
	CineEQ       bool     `json:"cine_eq"`
	Labels       []string `json:"input_labels"`
	Software     string   `json:"software_version"`
	Firmware     string   `json:"firmware_version"`
}

type event struct {
	Type  string    `json:"type"`
	State StateView `json:"state"`
}

type command struct {
	Op    string `json:"op"`
	On    bool   `json:"on,omitempty"`
	Level int    `json:"level,omitempty"`
	Input string `json:"input,omitempty"`
}

// Messages delivered into the bubbletea update loop.
type (
	connectedMsg struct{ conn *websocket.Conn }
	stateMsg     StateView
	errMsg       struct{ err error }
)

// connect dials the bridge's WebSocket endpoint.
func connect(addr string) tea.Cmd {
	return func() tea.Msg {
		u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
		conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
		if err != nil {
			return errMsg{fmt.Errorf("failed to connect to %s: %w", addr, err)}
		}
		return connectedMsg{conn}
	}
}

// readEvent waits for the next state event from the bridge.
func readEvent(conn *websocket.Conn) tea.Cmd {
	return func() tea.Msg {
		var ev event
		if err := conn.ReadJSON(&ev); err != nil {
			return errMsg{fmt.Errorf("connection lost: %w", err)}
		}
		return stateMsg(ev.State)
	}
}

// send transmits one control command to the bridge.
func send(conn *websocket.Conn, cmd command) tea.Cmd {
	return func() tea.Msg {
		if conn == nil {
			return nil
		}
		if err := conn.WriteJSON(cmd); err != nil {
			return errMsg{fmt.Errorf("failed to send command: %w", err)}
		}
		return nil
	}
}
