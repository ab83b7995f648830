package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wippyai/dataset/array"
	"github.com/wippyai/dataset/scalar"
	"github.com/wippyai/dataset/txttable"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	frameStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#666666"))
)

const maxCellWidth = 24

type viewModel struct {
	table    table.Model
	filename string
	columns  []txttable.Column
	blanks   []int
}

func newViewCommand(opts *rootOptions) *cobra.Command {
	var height int

	cmd := &cobra.Command{
		Use:   "view <table>",
		Short: "Browse a table interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := opts.loadTable(cmd, args[0])
			if err != nil {
				return err
			}
			defer t.Release()

			m, err := newViewModel(args[0], t, height)
			if err != nil {
				return err
			}
			p := tea.NewProgram(m, tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().IntVar(&height, "height", 20, "visible rows")
	return cmd
}

func newViewModel(filename string, t *txttable.Table, height int) (*viewModel, error) {
	cols := make([]table.Column, len(t.Columns))
	blanks := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		title := c.Info.Name
		if title == "" {
			title = fmt.Sprintf("col%d", c.Info.Index)
		}
		cols[i] = table.Column{Title: title, Width: len(title)}
		blanks[i] = array.CountBlank(c.Data)
	}

	rows := make([]table.Row, t.Rows())
	for r := range rows {
		row := make(table.Row, len(t.Columns))
		for i, c := range t.Columns {
			cell, err := cellText(c, r)
			if err != nil {
				return nil, err
			}
			row[i] = cell
			cols[i].Width = min(max(cols[i].Width, len(cell)), maxCellWidth)
		}
		rows[r] = row
	}

	tbl := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#666666")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4"))
	tbl.SetStyles(styles)

	return &viewModel{table: tbl, filename: filename, columns: t.Columns, blanks: blanks}, nil
}

func cellText(c txttable.Column, r int) (string, error) {
	if c.Data.IsBlankAt(r) {
		return c.Info.BlankToken(), nil
	}
	v, err := c.Data.At(r)
	if err != nil {
		return "", err
	}
	return scalar.FormatValue(v), nil
}

func (m *viewModel) Init() tea.Cmd {
	return nil
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *viewModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("dsarr"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")
	b.WriteString(frameStyle.Render(m.table.View()))
	b.WriteString("\n")
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move • pgup/pgdn page • q quit"))
	return b.String()
}

func (m *viewModel) status() string {
	parts := make([]string, len(m.columns))
	for i, c := range m.columns {
		parts[i] = fmt.Sprintf("%s:%d blank", c.Info.TypeCode(), m.blanks[i])
	}
	return fmt.Sprintf("row %d/%d  %s", m.table.Cursor()+1, len(m.table.Rows()), strings.Join(parts, "  "))
}
