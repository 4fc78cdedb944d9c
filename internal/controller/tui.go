package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	m "scopemeter.dev/pkg/scopemeter/internal/model"
)

// reservedLines is the space taken by the pager header and footer.
const reservedLines = 4

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Faint(true).Padding(0, 1)
)

// TUI implements UI with a scrollable Bubble Tea pager for long text output.
// Short output and machine readable formats are printed directly.
type TUI struct {
	*SimpleUI

	output io.Writer
	size   func() (width, height int)
	run    func(model tea.Model, output io.Writer) error
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	t := &TUI{
		SimpleUI: NewSimpleUI(cmd),
		output:   cmd.OutOrStdout(),
		run:      runProgram,
	}
	t.size = t.terminalSize

	return t
}

func runProgram(model tea.Model, output io.Writer) error {
	program := tea.NewProgram(model, tea.WithOutput(output), tea.WithAltScreen())
	_, err := program.Run()

	return err
}

// DisplayReport pages the text report when it does not fit on screen.
func (t *TUI) DisplayReport(ctx context.Context, report m.Report, opts DisplayOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := RenderReport(report, opts)
	if err != nil {
		return err
	}

	return t.page("scopemeter report", out, opts.Format)
}

// DisplaySources pages the per-file scope listing.
func (t *TUI) DisplaySources(ctx context.Context, results []m.FileResult, opts DisplayOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := RenderSources(results, opts)
	if err != nil {
		return err
	}

	return t.page(fmt.Sprintf("scopemeter sources (%d files)", len(results)), out, opts.Format)
}

// DisplayComparison pages the snapshot diff.
func (t *TUI) DisplayComparison(ctx context.Context, older, newer m.Snapshot, opts DisplayOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := RenderComparison(older, newer, opts)
	if err != nil {
		return err
	}

	return t.page("scopemeter compare", out, opts.Format)
}

func (t *TUI) page(title, content string, format Format) error {
	width, height := t.size()

	if (format != FormatText && format != "") || !needsPaging(content, height) {
		_, err := fmt.Fprint(t.output, content)
		return err
	}

	return t.run(newPagerModel(title, content, width, height), t.output)
}

func (t *TUI) terminalSize() (int, int) {
	f, ok := t.output.(*os.File)
	if !ok {
		return 0, 0
	}

	width, height, err := term.GetSize(f.Fd())
	if err != nil {
		return 0, 0
	}

	return width, height
}

// needsPaging reports whether content is taller than the screen. An unknown
// height never pages.
func needsPaging(content string, height int) bool {
	if height <= 0 {
		return false
	}

	return strings.Count(content, "\n") > height-reservedLines
}

// pagerModel is the Bubble Tea model that scrolls long output.
type pagerModel struct {
	title    string
	viewport viewport.Model
}

func newPagerModel(title, content string, width, height int) pagerModel {
	vp := viewport.New(width, max(1, height-reservedLines))
	vp.SetContent(content)

	return pagerModel{title: title, viewport: vp}
}

func (p pagerModel) Init() tea.Cmd {
	return nil
}

func (p pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.viewport.Width = msg.Width
		p.viewport.Height = max(1, msg.Height-reservedLines)

		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return p, tea.Quit
		case "g", "home":
			p.viewport.GotoTop()
			return p, nil
		case "G", "end":
			p.viewport.GotoBottom()
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)

	return p, cmd
}

func (p pagerModel) View() string {
	footer := fmt.Sprintf("%3.f%% | ↑/k: up | ↓/j: down | g: top | G: bottom | q: quit", p.viewport.ScrollPercent()*100)

	return titleStyle.Render(p.title) + "\n\n" + p.viewport.View() + "\n" + footerStyle.Render(footer)
}
