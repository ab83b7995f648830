package txttable

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wippyai/dataset/array"
	"github.com/wippyai/dataset/errors"
	"github.com/wippyai/dataset/scalar"
	"github.com/wippyai/dataset/store"
)

// Column pairs a one-dimensional array with its info.
type Column struct {
	Info ColumnInfo
	Data *array.Array
}

// Table is a set of columns of equal length. The table owns the arrays.
type Table struct {
	Columns []Column
}

// Rows returns the column length, or 0 for a table without columns.
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Data.Len()
}

// Release releases every column and returns the first error.
func (t *Table) Release() error {
	var first error
	for _, c := range t.Columns {
		if c.Data == nil || c.Data.Released() {
			continue
		}
		if err := c.Data.Release(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// ReadOptions controls Read.
type ReadOptions struct {
	// Policy is the backing of numeric columns.
	Policy store.Policy
}

// Read parses a text table. Comment lines starting with '#' may declare
// column info in any order; other comments and empty lines are skipped.
// Every data row must have the same number of tokens. Columns without a
// declared type become f64 when every token parses as a float and string
// otherwise. A nil alloc means array.DefaultAllocator.
func Read(r io.Reader, alloc *array.Allocator, opts ReadOptions) (*Table, error) {
	if alloc == nil {
		alloc = array.DefaultAllocator()
	}

	infos := make(map[int]ColumnInfo)
	var (
		cols     [][]string
		rowLines []int
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			info, ok, err := ParseColumnInfo(trimmed)
			if err != nil {
				return nil, withLine(err, lineNo)
			}
			if !ok {
				continue
			}
			if _, dup := infos[info.Index]; dup {
				return nil, parseError(lineNo, "duplicate info for column "+strconv.Itoa(info.Index))
			}
			infos[info.Index] = info
			continue
		}

		tokens, err := splitTokens(trimmed)
		if err != nil {
			return nil, withLine(err, lineNo)
		}
		if cols == nil {
			cols = make([][]string, len(tokens))
		}
		if len(tokens) != len(cols) {
			return nil, parseError(lineNo,
				strconv.Itoa(len(tokens))+" tokens, expected "+strconv.Itoa(len(cols)))
		}
		for i, tok := range tokens {
			cols[i] = append(cols[i], tok)
		}
		rowLines = append(rowLines, lineNo)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.IO(errors.PhaseParse, "Read", "", err)
	}
	if len(rowLines) == 0 {
		return nil, errors.InvalidData(errors.PhaseParse, "Read", "no data rows")
	}
	for idx := range infos {
		if idx > len(cols) {
			return nil, errors.InvalidData(errors.PhaseParse, "Read",
				"info for column "+strconv.Itoa(idx)+" but rows have "+strconv.Itoa(len(cols))+" tokens")
		}
	}

	t := &Table{Columns: make([]Column, 0, len(cols))}
	for i, tokens := range cols {
		info, ok := infos[i+1]
		if !ok {
			info = ColumnInfo{Index: i + 1}
		}
		data, err := buildColumn(alloc, &info, tokens, rowLines, opts.Policy)
		if err != nil {
			if rerr := t.Release(); rerr != nil {
				Logger().Warn("release partial table", zap.Error(rerr))
			}
			return nil, err
		}
		t.Columns = append(t.Columns, Column{Info: info, Data: data})
	}

	Logger().Debug("read table",
		zap.Int("columns", len(t.Columns)),
		zap.Int("rows", len(rowLines)))
	return t, nil
}

func inferKind(info ColumnInfo, tokens []string) scalar.Kind {
	for _, tok := range tokens {
		if info.Blank != "" && tok == info.Blank {
			continue
		}
		if _, err := strconv.ParseFloat(tok, 64); err != nil {
			return scalar.KindString
		}
	}
	return scalar.KindF64
}

func buildColumn(alloc *array.Allocator, info *ColumnInfo, tokens []string, lines []int, policy store.Policy) (*array.Array, error) {
	if !info.Kind.Supported() {
		info.Kind = inferKind(*info, tokens)
	}

	a, err := alloc.Allocate(info.Kind, []int{len(tokens)}, array.Options{Policy: policy})
	if err != nil {
		return nil, err
	}
	blank, err := scalar.Blank(info.Kind)
	if err != nil {
		_ = a.Release()
		return nil, err
	}
	blankTok := info.BlankToken()

	for i, tok := range tokens {
		var v any
		switch {
		case tok == blankTok:
			v = blank
			a.SetAnyBlank(true)
		case info.Kind == scalar.KindString:
			if info.Width > 0 && len(tok) > info.Width {
				tok = truncate(tok, info.Width)
			}
			v = tok
		default:
			v, err = scalar.ParseValue(info.Kind, tok)
			if err != nil {
				_ = a.Release()
				return nil, withLine(err, lines[i])
			}
			if scalar.IsBlankValue(info.Kind, v) {
				a.SetAnyBlank(true)
			}
		}
		if err := a.Set(i, v); err != nil {
			_ = a.Release()
			return nil, err
		}
	}
	return a, nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func parseError(line int, detail string) error {
	return errors.New(errors.PhaseParse, errors.KindInvalidData).
		Op("Read").
		Value(line).
		Detail("line %d: %s", line, detail).
		Build()
}

func withLine(err error, line int) error {
	return errors.New(errors.PhaseParse, errors.KindInvalidData).
		Op("Read").
		Value(line).
		Cause(err).
		Detail("line %d", line).
		Build()
}

// Write prints the column-info comments followed by one row per element.
// Blank elements print as the column's blank token. String columns without
// a declared width are declared as wide as their longest value.
func Write(w io.Writer, t *Table) error {
	rows := t.Rows()
	for _, c := range t.Columns {
		if c.Data.Released() {
			return errors.Released(errors.PhaseParse, "Write")
		}
		if c.Data.Len() != rows {
			return errors.New(errors.PhaseParse, errors.KindShape).
				Op("Write").
				Shape(c.Data.Shape()).
				Detail("column %d has %d rows, expected %d", c.Info.Index, c.Data.Len(), rows).
				Build()
		}
	}

	bw := bufio.NewWriter(w)
	infos := make([]ColumnInfo, len(t.Columns))
	for i, c := range t.Columns {
		info := c.Info
		info.Index = i + 1
		info.Kind = c.Data.Kind()
		if info.Kind == scalar.KindString && info.Width == 0 {
			info.Width = maxWidth(c.Data)
		}
		infos[i] = info
		bw.WriteString(info.String())
		bw.WriteByte('\n')
	}

	for r := range rows {
		for i, c := range t.Columns {
			if i > 0 {
				bw.WriteByte(' ')
			}
			tok := infos[i].BlankToken()
			if !c.Data.IsBlankAt(r) {
				v, err := c.Data.At(r)
				if err != nil {
					return err
				}
				tok = scalar.FormatValue(v)
			}
			bw.WriteString(quoteToken(tok))
		}
		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		return errors.IO(errors.PhaseParse, "Write", "", err)
	}
	return nil
}

func maxWidth(a *array.Array) int {
	s, err := array.Strings(a)
	if err != nil {
		return 1
	}
	n := 1
	for _, v := range s {
		n = max(n, len(v))
	}
	return n
}
