package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/dataset/array"
	"github.com/wippyai/dataset/txttable"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	blankStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

func newInfoCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info <table|->",
		Short: "Describe the columns of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := opts.loadTable(cmd, args[0])
			if err != nil {
				return err
			}
			defer t.Release()

			w := cmd.OutOrStdout()
			printInfo(w, args[0], t, isTerminal(w))
			return nil
		},
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printInfo(w io.Writer, name string, t *txttable.Table, styled bool) {
	style := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	fmt.Fprintf(w, "%s %s: %d columns, %d rows\n",
		style(headerStyle, "Table"), name, len(t.Columns), t.Rows())

	rows := make([][]string, 0, len(t.Columns))
	widths := make([]int, 6)
	for _, c := range t.Columns {
		blanks := array.CountBlank(c.Data)
		row := []string{
			strconv.Itoa(c.Info.Index),
			orDash(c.Info.Name),
			orDash(c.Info.Unit),
			c.Info.TypeCode(),
			c.Data.Backing().String(),
			strconv.Itoa(blanks),
		}
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
		rows = append(rows, row)
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cell + strings.Repeat(" ", widths[i]-len(cell))
		}
		cells[3] = style(kindStyle, cells[3])
		if row[5] != "0" {
			cells[5] = style(blankStyle, cells[5])
		}
		fmt.Fprintf(w, "  %s\n", strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
