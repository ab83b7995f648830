package txttable

import (
	"strconv"
	"strings"

	"github.com/wippyai/dataset/errors"
	"github.com/wippyai/dataset/scalar"
)

const infoPrefix = "Column"

// ColumnInfo is the metadata carried by one column-info comment:
//
//	# Column <index>: <name> [<unit>,<type-code>,<blank>] <description>
type ColumnInfo struct {
	Index       int // 1-based
	Name        string
	Unit        string
	Kind        scalar.Kind // KindBit when the line gives no type code
	Width       int         // declared str<N> width, 0 otherwise
	Blank       string      // empty means scalar.BlankLiteral(Kind)
	Description string
}

// BlankToken returns the text that stands for a blank in this column.
func (c ColumnInfo) BlankToken() string {
	if c.Blank != "" {
		return c.Blank
	}
	return scalar.BlankLiteral(c.Kind)
}

// TypeCode returns the type code written for the column, or "" when the
// kind is unknown.
func (c ColumnInfo) TypeCode() string {
	if !c.Kind.Supported() {
		return ""
	}
	if c.Kind == scalar.KindString && c.Width > 0 {
		return "str" + strconv.Itoa(c.Width)
	}
	return scalar.Code(c.Kind)
}

// String formats the info as a comment line without a trailing newline.
func (c ColumnInfo) String() string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(infoPrefix)
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(c.Index))
	b.WriteByte(':')
	if c.Name != "" {
		b.WriteByte(' ')
		b.WriteString(c.Name)
	}
	b.WriteString(" [")
	b.WriteString(c.Unit)
	b.WriteByte(',')
	b.WriteString(c.TypeCode())
	b.WriteByte(',')
	if c.Kind.Supported() {
		b.WriteString(c.BlankToken())
	} else {
		b.WriteString(c.Blank)
	}
	b.WriteByte(']')
	if c.Description != "" {
		b.WriteByte(' ')
		b.WriteString(c.Description)
	}
	return b.String()
}

// ParseColumnInfo parses one comment line. ok is false when the line is not
// a column-info comment at all. Bracket fields may be omitted from the right
// and left empty.
func ParseColumnInfo(line string) (info ColumnInfo, ok bool, err error) {
	rest, found := strings.CutPrefix(strings.TrimSpace(line), "#")
	if !found {
		return ColumnInfo{}, false, nil
	}
	rest, found = strings.CutPrefix(strings.TrimSpace(rest), infoPrefix)
	if !found || rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return ColumnInfo{}, false, nil
	}

	colon := strings.IndexByte(rest, ':')
	if colon < 0 {
		return ColumnInfo{}, true, infoError(line, "missing ':' after column index")
	}
	idx, convErr := strconv.Atoi(strings.TrimSpace(rest[:colon]))
	if convErr != nil || idx < 1 {
		return ColumnInfo{}, true, infoError(line, "column index must be a positive integer")
	}
	info.Index = idx

	body := strings.TrimSpace(rest[colon+1:])
	open := strings.IndexByte(body, '[')
	if open < 0 {
		info.Name = body
		return info, true, nil
	}
	info.Name = strings.TrimSpace(body[:open])

	end := strings.IndexByte(body[open:], ']')
	if end < 0 {
		return ColumnInfo{}, true, infoError(line, "unterminated '['")
	}
	end += open
	info.Description = strings.TrimSpace(body[end+1:])

	fields := strings.Split(body[open+1:end], ",")
	if len(fields) > 3 {
		return ColumnInfo{}, true, infoError(line, "at most three bracket fields: unit, type, blank")
	}
	info.Unit = strings.TrimSpace(fields[0])
	if len(fields) > 1 {
		if code := strings.TrimSpace(fields[1]); code != "" {
			k, width, perr := scalar.ParseCode(code)
			if perr != nil {
				return ColumnInfo{}, true, perr
			}
			info.Kind = k
			info.Width = width
		}
	}
	if len(fields) > 2 {
		info.Blank = strings.TrimSpace(fields[2])
	}
	return info, true, nil
}

func infoError(line, detail string) error {
	return errors.New(errors.PhaseParse, errors.KindInvalidData).
		Op("ParseColumnInfo").
		Value(line).
		Detail("%s", detail).
		Build()
}

// splitTokens splits a data row on whitespace. A double-quoted token may
// hold whitespace; the quotes are dropped and a doubled quote inside it
// stands for one literal quote.
func splitTokens(line string) ([]string, error) {
	var tokens []string
	i := 0
	for i < len(line) {
		switch c := line[i]; {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '"':
			tok, next, ok := unquote(line, i)
			if !ok {
				return nil, errors.New(errors.PhaseParse, errors.KindInvalidData).
					Op("splitTokens").
					Value(line).
					Detail("unterminated quote at byte %d", i).
					Build()
			}
			tokens = append(tokens, tok)
			i = next
		default:
			j := i
			for j < len(line) && line[j] != ' ' && line[j] != '\t' && line[j] != '\r' {
				j++
			}
			tokens = append(tokens, line[i:j])
			i = j
		}
	}
	return tokens, nil
}

// unquote reads the quoted token opening at line[start]. It returns the
// token and the index just past the closing quote.
func unquote(line string, start int) (string, int, bool) {
	var b strings.Builder
	i := start + 1
	for {
		end := strings.IndexByte(line[i:], '"')
		if end < 0 {
			return "", 0, false
		}
		b.WriteString(line[i : i+end])
		i += end + 1
		if i < len(line) && line[i] == '"' {
			b.WriteByte('"')
			i++
			continue
		}
		return b.String(), i, true
	}
}

// quoteToken quotes s for writing when it would not survive splitTokens
// or would start a comment line. Quotes inside s are doubled.
func quoteToken(s string) string {
	if s != "" && s[0] != '#' && !strings.ContainsAny(s, " \t\r\"") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
