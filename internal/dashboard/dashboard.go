// Package dashboard is the reference terminal UI: a bubbletea.Model that
// renders the foreground.Driver's state and forwards keybindings to it.
// It consumes only the UI contract the driver exposes (spec §6.2) and
// never reaches into Process/Supervisor internals directly.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/deckrun/deck/internal/foreground"
)

var (
	tabBarStyle = lipgloss.NewStyle().
			Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(0, 1)
	selectedPaneStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("212"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

// tickMsg drives the poll cycle; bubbletea delivers it on its own
// goroutine's event loop, which is the sole goroutine touching the driver,
// keeping with the engine's single-threaded cooperative model.
type tickMsg time.Time

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the bubbletea.Model wrapping one foreground.Driver.
type Model struct {
	driver   *foreground.Driver
	interval time.Duration
	vp       viewport.Model
	width    int
	height   int
	ready    bool
}

// New returns a Model driving d, polling at interval.
func New(d *foreground.Driver, interval time.Duration) Model {
	return Model{driver: d, interval: interval}
}

// Init starts the poll cycle. The caller is expected to have already
// spawned the driver's Processes (see cmd/deck) — spawn failures abort the
// whole foreground run before the UI ever starts, per spec §7, so there is
// nothing for Init itself to fail on.
func (m Model) Init() tea.Cmd {
	return tick(m.interval)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.vp = viewport.New(msg.Width, m.logHeight())
		m.ready = true
		m.syncViewport()
		return m, nil

	case tickMsg:
		flowed := m.driver.Tick()
		if flowed {
			m.syncViewport()
		}
		return m, tick(m.interval)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.driver.Shutdown()
		return m, tea.Quit

	case "tab":
		m.driver.Select(m.driver.Selected() + 1)
		m.syncViewport()
		return m, nil

	case "shift+tab":
		m.driver.Select(m.driver.Selected() - 1)
		m.syncViewport()
		return m, nil

	case "r":
		_ = m.driver.Restart()
		m.syncViewport()
		return m, nil

	// Kill is bound to "x" rather than "k": "k" doubles as the vim-style
	// scroll-up key below, and the two must not collide.
	case "x":
		m.driver.Kill()
		m.syncViewport()
		return m, nil

	case "up", "k":
		m.driver.SetScrollOffset(max(0, m.driver.ScrollOffset()-1))
		m.vp.LineUp(1)
		return m, nil

	case "down", "j":
		m.driver.SetScrollOffset(m.driver.ScrollOffset() + 1)
		m.vp.LineDown(1)
		return m, nil

	case "G":
		m.driver.SetAutoScroll(true)
		m.syncViewport()
		return m, nil
	}
	return m, nil
}

func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	p := m.driver.SelectedProcess()
	if p == nil {
		m.vp.SetContent("")
		return
	}
	m.vp.SetContent(string(p.Log.AllText()))
	if m.driver.AutoScroll() {
		m.vp.GotoBottom()
	}
}

func (m Model) logHeight() int {
	if m.height < 6 {
		return 1
	}
	return m.height - 5
}

func (m Model) View() string {
	if !m.ready {
		return "initializing..."
	}

	sup := m.driver.Supervisor()
	tabs := make([]string, 0, sup.Len())
	for i := 0; i < sup.Len(); i++ {
		p := sup.At(i)
		label := fmt.Sprintf("%s [%s]", p.Name, p.Status())
		if i == m.driver.Selected() {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	tabBar := tabBarStyle.Render(strings.Join(tabs, " "))

	pane := selectedPaneStyle.Width(m.width - 2).Render(m.vp.View())

	mode := "following"
	if !m.driver.AutoScroll() {
		mode = "scrolled"
	}
	status := statusStyle.Render(fmt.Sprintf(
		"tab/shift+tab switch  r restart  x kill  j/k or arrows scroll  G tail  q quit  (%s)", mode,
	))

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, pane, status)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
