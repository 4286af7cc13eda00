package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studia-app/studia/internal/cli/formatter"
	"github.com/studia-app/studia/internal/domain"
)

type tickMsg time.Time

type timerKeyMap struct {
	Finish key.Binding
	Quit   key.Binding
}

var timerKeys = timerKeyMap{
	Finish: key.NewBinding(
		key.WithKeys("enter", "f"),
		key.WithHelp("enter", "finish now"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "leave open"),
	),
}

// timerModel counts down one session. It never talks to services; the
// caller closes the session once the program exits with finish set.
type timerModel struct {
	title   string
	kind    domain.SessionKind
	total   time.Duration
	started time.Time
	now     time.Time
	finish  bool
}

func newTimerModel(title string, kind domain.SessionKind, minutes int) timerModel {
	now := time.Now()
	return timerModel{
		title:   title,
		kind:    kind,
		total:   time.Duration(minutes) * time.Minute,
		started: now,
		now:     now,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m timerModel) Init() tea.Cmd {
	return tick()
}

func (m timerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = time.Time(msg)
		if m.now.Sub(m.started) >= m.total {
			m.finish = true
			return m, tea.Quit
		}
		return m, tick()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, timerKeys.Finish):
			m.finish = true
			return m, tea.Quit
		case key.Matches(msg, timerKeys.Quit):
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m timerModel) View() string {
	elapsed := m.now.Sub(m.started)
	if elapsed > m.total {
		elapsed = m.total
	}
	remaining := m.total - elapsed

	label := "Focus"
	if m.kind != domain.SessionWork {
		label = "Break"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(formatter.Header(fmt.Sprintf("%s: %s", label, m.title)))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  %s  %s\n\n",
		formatter.RenderProgress(elapsed.Seconds()/m.total.Seconds(), 24),
		formatter.Bold(fmtCountdown(remaining)))
	b.WriteString(formatter.Dim("  enter finish now · q leave open"))
	b.WriteString("\n")
	return b.String()
}

func fmtCountdown(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

// runTimer blocks until the countdown ends or a key dismisses it, and
// reports whether the session should be closed.
func runTimer(title string, kind domain.SessionKind, minutes int) (bool, error) {
	final, err := tea.NewProgram(newTimerModel(title, kind, minutes)).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(timerModel)
	if !ok {
		return false, nil
	}
	return m.finish, nil
}
