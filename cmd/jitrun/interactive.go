package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tierdb/jitexec/vm"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	compiledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	mgr      *vm.CompilationManager
	mods     []*vm.Module
	spinner  spinner.Model
	result   string
	selected int
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type callResultMsg struct {
	result string
}

func newInteractiveModel(mgr *vm.CompilationManager, mods []*vm.Module) *interactiveModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &interactiveModel{
		mgr:     mgr,
		mods:    mods,
		spinner: sp,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case callResultMsg:
		m.result = msg.result
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.mods)-1 {
				m.selected++
			}
		case "enter":
			return m, m.callSelected()
		}
	}
	return m, nil
}

// callSelected dispatches every function of the highlighted module through
// whatever tier its entries currently point at.
func (m *interactiveModel) callSelected() tea.Cmd {
	mod := m.mods[m.selected]
	return func() tea.Msg {
		var sb strings.Builder
		for _, fn := range mod.Bytecode().Functions {
			entry := mod.Entry(fn.ID)
			tier := "interp"
			if entry.Compiled() {
				tier = "native"
			}
			results, err := entry.Call(context.Background())
			if err != nil {
				sb.WriteString(errorStyle.Render(fmt.Sprintf("%s (%s): %v", fn.Name, tier, err)))
			} else {
				sb.WriteString(resultStyle.Render(fmt.Sprintf("%s (%s) -> %v", fn.Name, tier, results)))
			}
			sb.WriteString("\n")
		}
		return callResultMsg{result: sb.String()}
	}
}

func (m *interactiveModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("jitrun"))
	sb.WriteString("\n\n")

	for i, mod := range m.mods {
		gate := mod.GateState()
		var status string
		switch gate {
		case vm.GateCompiled:
			status = compiledStyle.Render(gate.String())
		case vm.GateFailed:
			status = errorStyle.Render(gate.String())
		default:
			status = pendingStyle.Render(m.spinner.View() + gate.String())
		}

		line := fmt.Sprintf("%-16s %s", mod.Name(), status)
		if i == m.selected {
			sb.WriteString(selectedStyle.Render("> " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	if m.result != "" {
		sb.WriteString("\n")
		sb.WriteString(m.result)
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("up/down: select • enter: call • q: quit"))
	sb.WriteString("\n")
	return sb.String()
}

func runInteractive(mgr *vm.CompilationManager, mods []*vm.Module) error {
	p := tea.NewProgram(newInteractiveModel(mgr, mods))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
