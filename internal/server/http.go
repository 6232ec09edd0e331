package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/muurk/av2bridge/internal/device"
	"github.com/muurk/av2bridge/internal/logging"
)

// stateView is the JSON shape of a state snapshot served to clients.
type stateView struct {
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

func viewOf(st device.State) stateView {
	return stateView{
		Ready:        st.Ready(),
		Power:        st.System.Power,
		Mute:         st.System.Mute,
		Volume:       st.System.Volume,
		Source:       string(st.System.Source),
		DecodeMode:   string(st.System.Mode),
		Display:      st.System.Display,
		MidnightMode: st.System.MidnightMode,
		BassMix:      st.System.BassMix,
		CineEQ:       st.System.CineEQ,
		Labels:       st.InputMenu.Labels[:],
		Software:     st.Software,
		Firmware:     st.Firmware,
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(viewOf(s.facade.State())); err != nil {
		logging.Error("Failed to encode state", zap.Error(err))
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	status := struct {
		Status string `json:"status"`
		Ready  bool   `json:"device_ready"`
	}{
		Status: "ok",
		Ready:  s.facade.Ready(),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(status)
}
