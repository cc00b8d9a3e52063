package action

import (
	"strconv"
	"strings"
)

// FormatCommand substitutes the first replacement field of cmd with v.
//
// Fields follow the brace syntax older rc files were written in: {} and
// {0}, each optionally followed by a spec such as {:d}, {0:03d} or
// {:>4}. {{ and }} are literal braces. Fields after the first one, and
// fields that cannot hold an integer, are kept as written. Without a
// value the command is returned untouched, braces included.
func FormatCommand(cmd string, v Value) string {
	n, ok := v.Int()
	if !ok {
		return cmd
	}

	var b strings.Builder
	b.Grow(len(cmd) + 4)
	used := false
	for i := 0; i < len(cmd); i++ {
		c := cmd[i]
		switch {
		case c == '{' && i+1 < len(cmd) && cmd[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(cmd) && cmd[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(cmd[i:], '}')
			if end < 0 {
				b.WriteString(cmd[i:])
				return b.String()
			}
			field := cmd[i+1 : i+end]
			if !used {
				if s, ok := formatField(field, n); ok {
					b.WriteString(s)
					used = true
					i += end
					continue
				}
			}
			b.WriteString(cmd[i : i+end+1])
			i += end
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// formatField renders n for one field body, the text between the braces.
func formatField(field string, n int) (string, bool) {
	arg, spec, _ := strings.Cut(field, ":")
	if arg != "" && arg != "0" {
		return "", false
	}
	fs, ok := parseSpec(spec)
	if !ok {
		return "", false
	}
	return fs.render(n)
}

// fieldSpec is a parsed [[fill]align][sign][#][0][width][,|_][.precision][type]
type fieldSpec struct {
	fill      byte
	align     byte
	sign      byte
	alt       bool
	width     int
	precision int
	verb      byte
}

func isAlign(c byte) bool {
	return c == '<' || c == '>' || c == '^' || c == '='
}

func parseSpec(spec string) (fieldSpec, bool) {
	fs := fieldSpec{fill: ' ', sign: '-', precision: -1}
	i := 0
	if len(spec) >= 2 && isAlign(spec[1]) {
		fs.fill, fs.align = spec[0], spec[1]
		i = 2
	} else if len(spec) >= 1 && isAlign(spec[0]) {
		fs.align = spec[0]
		i = 1
	}
	if i < len(spec) && (spec[i] == '+' || spec[i] == '-' || spec[i] == ' ') {
		fs.sign = spec[i]
		i++
	}
	if i < len(spec) && spec[i] == '#' {
		fs.alt = true
		i++
	}
	if i < len(spec) && spec[i] == '0' {
		if fs.align == 0 {
			fs.fill, fs.align = '0', '='
		}
		i++
	}
	start := i
	for i < len(spec) && spec[i] >= '0' && spec[i] <= '9' {
		i++
	}
	if i > start {
		fs.width, _ = strconv.Atoi(spec[start:i])
	}
	// grouping never shows for values in 0-100
	if i < len(spec) && (spec[i] == ',' || spec[i] == '_') {
		i++
	}
	if i < len(spec) && spec[i] == '.' {
		i++
		start = i
		for i < len(spec) && spec[i] >= '0' && spec[i] <= '9' {
			i++
		}
		if i == start {
			return fieldSpec{}, false
		}
		fs.precision, _ = strconv.Atoi(spec[start:i])
	}
	if i < len(spec) {
		fs.verb = spec[i]
		i++
	}
	if i != len(spec) {
		return fieldSpec{}, false
	}
	return fs, true
}

func (fs fieldSpec) render(n int) (string, bool) {
	neg := n < 0
	if neg {
		n = -n
	}

	var digits, prefix string
	switch fs.verb {
	case 0, 'd', 'n':
		if fs.precision >= 0 {
			return "", false
		}
		digits = strconv.Itoa(n)
	case 'x', 'X':
		digits = strconv.FormatInt(int64(n), 16)
		prefix = "0x"
		if fs.verb == 'X' {
			digits, prefix = strings.ToUpper(digits), "0X"
		}
	case 'o':
		digits, prefix = strconv.FormatInt(int64(n), 8), "0o"
	case 'b':
		digits, prefix = strconv.FormatInt(int64(n), 2), "0b"
	case 'f', 'F', '%':
		f := float64(n)
		if fs.verb == '%' {
			f *= 100
		}
		prec := fs.precision
		if prec < 0 {
			prec = 6
		}
		digits = strconv.FormatFloat(f, 'f', prec, 64)
		if fs.verb == '%' {
			digits += "%"
		}
	default:
		return "", false
	}
	if fs.precision >= 0 && fs.verb != 'f' && fs.verb != 'F' && fs.verb != '%' {
		return "", false
	}
	if !fs.alt {
		prefix = ""
	}

	sign := ""
	switch {
	case neg:
		sign = "-"
	case fs.sign == '+':
		sign = "+"
	case fs.sign == ' ':
		sign = " "
	}

	body := sign + prefix + digits
	pad := fs.width - len(body)
	if pad <= 0 {
		return body, true
	}
	fill := strings.Repeat(string(fs.fill), pad)
	switch fs.align {
	case '<':
		return body + fill, true
	case '^':
		left := strings.Repeat(string(fs.fill), pad/2)
		return left + body + strings.Repeat(string(fs.fill), pad-pad/2), true
	case '=':
		return sign + prefix + fill + digits, true
	default:
		return fill + body, true
	}
}
