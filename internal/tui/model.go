package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
)

// selectableInputs is the cycling order for input selection.
var selectableInputs = []string{
	"VIP1", "VIP2", "AN3", "AN4", "AN5", "AN6",
	"OP1", "OP2", "CO1", "CO2", "Multi",
}

type keyMap struct {
	VolumeUp   key.Binding
	VolumeDown key.Binding
	Mute       key.Binding
	Power      key.Binding
	NextInput  key.Binding
	PrevInput  key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.VolumeUp, k.VolumeDown, k.Mute, k.Power, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.VolumeUp, k.VolumeDown, k.Mute, k.Power},
		{k.NextInput, k.PrevInput, k.Help, k.Quit},
	}
}

func newKeyMap() keyMap {
	return keyMap{
		VolumeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "volume up"),
		),
		VolumeDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "volume down"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		Power: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "power"),
		),
		NextInput: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "next input"),
		),
		PrevInput: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "previous input"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model is the control TUI over the bridge's WebSocket API.
type Model struct {
	addr string
	conn *websocket.Conn

	state     StateView
	connected bool
	err       error

	width  int
	height int

	keys    keyMap
	help    help.Model
	spinner spinner.Model
}

// NewModel creates a TUI model that connects to the bridge at addr.
func NewModel(addr string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	return Model{
		addr:    addr,
		keys:    newKeyMap(),
		help:    help.New(),
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(connect(m.addr), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case connectedMsg:
		m.conn = msg.conn
		m.connected = true
		return m, readEvent(m.conn)

	case stateMsg:
		m.state = StateView(msg)
		return m, readEvent(m.conn)

	case errMsg:
		m.err = msg.err
		m.connected = false
		return m, nil

	case spinner.TickMsg:
		if m.connected {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.conn != nil {
			_ = m.conn.Close()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if !m.connected {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.VolumeUp):
		return m, send(m.conn, command{Op: "volume_up"})
	case key.Matches(msg, m.keys.VolumeDown):
		return m, send(m.conn, command{Op: "volume_down"})
	case key.Matches(msg, m.keys.Mute):
		return m, send(m.conn, command{Op: "set_mute", On: !m.state.Mute})
	case key.Matches(msg, m.keys.Power):
		return m, send(m.conn, command{Op: "set_power", On: !m.state.Power})
	case key.Matches(msg, m.keys.NextInput):
		return m, send(m.conn, command{Op: "select_input", Input: m.neighbourInput(+1)})
	case key.Matches(msg, m.keys.PrevInput):
		return m, send(m.conn, command{Op: "select_input", Input: m.neighbourInput(-1)})
	}

	return m, nil
}

// neighbourInput returns the selectable input adjacent to the current one,
// wrapping at both ends.
func (m Model) neighbourInput(dir int) string {
	current := 0
	for i, src := range selectableInputs {
		if src == m.state.Source {
			current = i
			break
		}
	}
	next := (current + dir + len(selectableInputs)) % len(selectableInputs)
	return selectableInputs[next]
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("AV2 BRIDGE"))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(alertStyle.Render(m.err.Error()))
		b.WriteString("\n")
	case !m.connected:
		b.WriteString(m.spinner.View())
		b.WriteString(offStyle.Render(" connecting to " + m.addr))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderState())
	}

	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderState() string {
	st := m.state

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
	}

	var b strings.Builder
	if !st.Ready {
		b.WriteString(alertStyle.Render("synchronising with processor..."))
		b.WriteString("\n\n")
	}

	b.WriteString(row("Power", renderToggle(st.Power)))
	b.WriteString(labelStyle.Render("Volume"))
	b.WriteString(renderVolumeBar(st.Volume, st.Mute))
	if st.Mute {
		b.WriteString(alertStyle.Render(fmt.Sprintf("  %2d (muted)", st.Volume)))
	} else {
		b.WriteString(valueStyle.Render(fmt.Sprintf("  %2d", st.Volume)))
	}
	b.WriteString("\n")
	b.WriteString(row("Decode mode", st.DecodeMode))
	b.WriteString(row("Display", renderToggle(st.Display)))
	b.WriteString(row("Midnight", renderToggle(st.MidnightMode)))
	b.WriteString(row("Bass mix", renderToggle(st.BassMix)))
	b.WriteString(row("Cine EQ", renderToggle(st.CineEQ)))
	b.WriteString("\n")
	b.WriteString(m.renderInputs())
	b.WriteString("\n")
	b.WriteString(offStyle.Render(
		fmt.Sprintf("software %s  firmware %s", st.Software, st.Firmware)))
	b.WriteString("\n")

	return panelStyle.Render(b.String()) + "\n"
}

// renderInputs lists the selectable inputs with the active one highlighted
// and each input's assigned label alongside.
func (m Model) renderInputs() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Inputs"))
	b.WriteString("\n")

	for i, src := range selectableInputs {
		name := src
		if i < len(m.state.Labels) && m.state.Labels[i] != "" && m.state.Labels[i] != src {
			name = fmt.Sprintf("%s (%s)", src, m.state.Labels[i])
		}
		if src == m.state.Source {
			b.WriteString(selectedInputStyle.Render("→ " + name))
		} else {
			b.WriteString(inputStyle.Render(name))
		}
		b.WriteString("\n")
	}
	return b.String()
}
