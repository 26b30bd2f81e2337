// Package tui is a local snapshot viewer for a disassembly window: a
// bubbletea program that renders branch-flow gutters and a register/flag
// panel. It is a demo surface for inspecting a Console, not the shipped
// debugger UI.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"snes816/console"
	"snes816/disasm"
)

const windowLines = 20

var (
	gutterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	pcStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type model struct {
	console *console.Console
	ctx     *disasm.DisassemblerContext
	err     error
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "j":
			if _, _, err := m.console.Step(); err != nil {
				m.err = err
				return m, nil
			}
			ctx, err := disasm.Disassemble(m.console, windowLines)
			if err != nil {
				m.err = err
				return m, nil
			}
			m.ctx = ctx
			m.err = nil
		}
	}
	return m, nil
}

func gutterGlyph(flags []disasm.Flag) string {
	for _, f := range flags {
		switch f.Kind {
		case disasm.BranchStart:
			return "╔"
		case disasm.BranchEnd:
			return "╚"
		case disasm.BranchCont:
			return "║"
		}
	}
	return " "
}

func (m model) renderLines() string {
	var b strings.Builder
	for _, line := range m.ctx.Lines {
		gutter := gutterGlyph(line.Flags)
		text := line.Decoded.Text()
		if line.Location == m.console.CPU.LongPC() {
			text = pcStyle.Render(text)
		}
		fmt.Fprintf(&b, "%s %s\n", gutterStyle.Render(gutter), text)
	}
	return b.String()
}

func (m model) renderRegisters() string {
	s := m.console.CPU
	return fmt.Sprintf(
		"PC: %02X:%04X\nA:  %04X\nX:  %04X\nY:  %04X\nS:  %04X\nD:  %04X\nDBR: %02X\nP:  %s\n",
		s.K, s.PC, s.A, s.X, s.Y, s.S, s.D, s.DBR, s.P.String(),
	)
}

func (m model) View() string {
	if m.err != nil {
		return errStyle.Render(fmt.Sprintf("disassembly stalled: %v\n\n%s", m.err, spew.Sdump(m.console.CPU)))
	}
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderLines(),
		"  ",
		m.renderRegisters(),
	) + "\n(space/j: step, q: quit)\n"
}

// Run starts an interactive snapshot viewer over c, disassembling
// windowLines instructions from the current PC after every step.
func Run(c *console.Console) error {
	ctx, err := disasm.Disassemble(c, windowLines)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model{console: c, ctx: ctx}).Run()
	return err
}
