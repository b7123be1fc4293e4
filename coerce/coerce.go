// Package coerce turns raw configuration strings into typed values using a
// small literal grammar. It never evaluates expressions.
package coerce

import (
	"strconv"
	"strings"
)

// MaxDepth bounds how deeply sequence literals may nest.
const MaxDepth = 8

// Coerce returns the best-guess typed value for raw. Recognized forms are
// integers (int), floats (float64), booleans, quoted strings and
// parenthesized or bracketed sequences ([]any) of those forms. Anything else,
// including a malformed literal, is returned as the original string.
func Coerce(raw string) any {
	v, ok := parse(strings.TrimSpace(raw))
	if !ok {
		return raw
	}
	return v
}

// Sequence reports whether v is a sequence value produced by Coerce.
func Sequence(v any) ([]any, bool) {
	seq, ok := v.([]any)
	return seq, ok
}

type parser struct {
	s     string
	pos   int
	depth int
}

func parse(s string) (any, bool) {
	if s == "" {
		return nil, false
	}
	p := &parser{s: s}
	v, ok := p.value()
	if !ok {
		return nil, false
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return nil, false
	}
	return v, true
}

func (p *parser) skipSpace() {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) value() (any, bool) {
	p.skipSpace()
	if p.pos >= len(p.s) {
		return nil, false
	}
	switch c := p.s[p.pos]; c {
	case '(':
		return p.sequence(')')
	case '[':
		return p.sequence(']')
	case '"', '\'':
		return p.quoted(c)
	default:
		return p.scalar()
	}
}

func (p *parser) sequence(closer byte) (any, bool) {
	p.depth++
	if p.depth > MaxDepth {
		return nil, false
	}
	defer func() { p.depth-- }()

	p.pos++ // opening bracket
	items := []any{}
	sawComma := false
	for {
		p.skipSpace()
		if p.pos >= len(p.s) {
			return nil, false
		}
		if p.s[p.pos] == closer {
			p.pos++
			break
		}
		v, ok := p.value()
		if !ok {
			return nil, false
		}
		items = append(items, v)

		p.skipSpace()
		if p.pos >= len(p.s) {
			return nil, false
		}
		switch p.s[p.pos] {
		case ',':
			sawComma = true
			p.pos++
		case closer:
			// handled at the top of the loop
		default:
			return nil, false
		}
	}

	// (x) is a grouped value, not a one-element tuple.
	if closer == ')' && len(items) == 1 && !sawComma {
		return items[0], true
	}
	return items, true
}

func (p *parser) quoted(quote byte) (any, bool) {
	p.pos++ // opening quote
	var b strings.Builder
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), true
		case c == '\\' && p.pos+1 < len(p.s):
			b.WriteString(unescape(p.s[p.pos+1]))
			p.pos += 2
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return nil, false
}

func unescape(c byte) string {
	switch c {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '0':
		return "\x00"
	case '\\', '\'', '"':
		return string(c)
	default:
		return "\\" + string(c)
	}
}

func (p *parser) scalar() (any, bool) {
	start := p.pos
	for p.pos < len(p.s) && !isDelimiter(p.s[p.pos]) {
		p.pos++
	}
	return literal(p.s[start:p.pos])
}

func isDelimiter(c byte) bool {
	switch c {
	case ',', '(', ')', '[', ']', '"', '\'', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

func literal(tok string) (any, bool) {
	switch tok {
	case "":
		return nil, false
	case "true", "True":
		return true, true
	case "false", "False":
		return false, true
	}

	// An integer that does not fit stays a string rather than losing
	// precision as a float.
	if n, shaped, ok := integer(tok); shaped {
		return n, ok
	}
	if !numeric(tok) {
		return nil, false
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

// integer parses decimal or hex integers. shaped reports whether tok looks
// like an integer at all; ok is false when it does but cannot be parsed.
func integer(tok string) (n int, shaped, ok bool) {
	digits := strings.TrimLeft(tok, "+-")
	if len(tok)-len(digits) > 1 {
		return 0, false, false
	}
	sign := tok[:len(tok)-len(digits)]
	base := 10
	if rest, hex := cutHexPrefix(digits); hex {
		digits, base = rest, 16
	}
	if digits == "" {
		return 0, base == 16, false
	}
	for i := 0; i < len(digits); i++ {
		if !isDigit(digits[i], base) {
			return 0, base == 16, false
		}
	}
	v, err := strconv.ParseInt(sign+digits, base, 0)
	if err != nil {
		return 0, true, false
	}
	return int(v), true, true
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && (c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'):
		return true
	}
	return false
}

func cutHexPrefix(s string) (string, bool) {
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		return rest, true
	}
	return strings.CutPrefix(s, "0X")
}

// numeric rejects tokens such as "inf" or "nan" that ParseFloat accepts but
// which are not numeric literals.
func numeric(tok string) bool {
	hasDigit := false
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		switch {
		case c >= '0' && c <= '9':
			hasDigit = true
		case c == '.', c == 'e', c == 'E', c == '+', c == '-':
		default:
			return false
		}
	}
	return hasDigit
}
