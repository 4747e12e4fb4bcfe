package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mtb2597/repo-intel-agent/pkg/extract"
	"github.com/mtb2597/repo-intel-agent/pkg/scan"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type scanTickMsg time.Time

type scanResultMsg struct{ set *extract.Set }

type scanDoneMsg struct{ batch *scan.Batch }

// scanModel is the bubbletea model showing live scan progress: one
// line per completed repository plus a spinner while work remains.
type scanModel struct {
	total   int
	results <-chan *extract.Set
	done    <-chan *scan.Batch
	cancel  context.CancelFunc

	completed []*extract.Set
	frame     int
	batch     *scan.Batch
}

func newScanModel(total int, results <-chan *extract.Set, done <-chan *scan.Batch, cancel context.CancelFunc) scanModel {
	return scanModel{
		total:   total,
		results: results,
		done:    done,
		cancel:  cancel,
	}
}

func (m scanModel) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.waitEvent())
}

func (m scanModel) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return scanTickMsg(t)
	})
}

// waitEvent delivers the next completed repository, draining pending
// results before reporting batch completion.
func (m scanModel) waitEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case set := <-m.results:
			return scanResultMsg{set}
		default:
		}
		select {
		case set := <-m.results:
			return scanResultMsg{set}
		case batch := <-m.done:
			return scanDoneMsg{batch}
		}
	}
}

func (m scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, nil
		}
	case scanTickMsg:
		m.frame++
		if m.batch == nil {
			return m, m.tick()
		}
	case scanResultMsg:
		m.completed = append(m.completed, msg.set)
		return m, m.waitEvent()
	case scanDoneMsg:
		m.batch = msg.batch
		return m, tea.Quit
	}
	return m, nil
}

func (m scanModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Scanning repositories"))
	b.WriteString("\n")

	for _, set := range m.completed {
		if set.Success {
			b.WriteString(styleIconSuccess.Render(iconSuccess))
			b.WriteString(fmt.Sprintf(" %s: %d dependencies", set.Repo, len(set.Dependencies)))
		} else {
			b.WriteString(styleIconError.Render(iconError))
			b.WriteString(fmt.Sprintf(" %s: %s", set.Repo, set.Reason))
		}
		b.WriteString("\n")
	}

	if m.batch == nil {
		frame := spinnerFrames[m.frame%len(spinnerFrames)]
		b.WriteString(styleIconSpinner.Render(frame))
		b.WriteString(StyleDim.Render(fmt.Sprintf(" scanning %d/%d repositories (q to cancel)",
			len(m.completed), m.total)))
		b.WriteString("\n")
	}
	return b.String()
}
