package mal

import (
	"strconv"
	"strings"
)

// PrStr renders a Value to text, round-trip compatible with ReadStr for
// every base type (spec.md §4.6). In readable mode, strings are escaped
// and quote-delimited; in display mode they are emitted raw. This mirrors
// lisp1_5/parse.go's buildString/SExprString pair, widened to the full
// Value model.
func PrStr(v Value, readable bool) string {
	var b strings.Builder
	writeValue(&b, v, readable)
	return b.String()
}

func writeValue(b *strings.Builder, v Value, readable bool) {
	switch v := v.(type) {
	case NilValue:
		b.WriteString("nil")
	case TrueValue:
		b.WriteString("true")
	case FalseValue:
		b.WriteString("false")
	case Number:
		writeNumber(b, v)
	case Symbol:
		b.WriteString(string(v))
	case Keyword:
		b.WriteByte(':')
		b.WriteString(string(v))
	case String:
		writeString(b, string(v), readable)
	case *List:
		writeSeq(b, v.Items, '(', ')', readable)
	case *Vector:
		writeSeq(b, v.Items, '[', ']', readable)
	case *Map:
		writeMap(b, v, readable)
	case *Func:
		b.WriteString("#<rust_function>")
	case *Closure:
		if v.Macro {
			b.WriteString("#<macro>")
		} else {
			b.WriteString("#<function>")
		}
	case *Atom:
		b.WriteString("(atom ")
		writeValue(b, v.Value, readable)
		b.WriteByte(')')
	default:
		b.WriteString("#<unknown>")
	}
}

func writeNumber(b *strings.Builder, n Number) {
	// 'f' never switches to exponential notation, keeping the printed form
	// inside the tokenizer's -?digit+(.digit*)? number grammar so it reads
	// back as a Number rather than falling through to a Symbol.
	b.WriteString(strconv.FormatFloat(float64(n), 'f', -1, 64))
}

func writeString(b *strings.Builder, s string, readable bool) {
	if !readable {
		b.WriteString(s)
		return
	}
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}

func writeSeq(b *strings.Builder, items []Value, open, close byte, readable bool) {
	b.WriteByte(open)
	for i, item := range items {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeValue(b, item, readable)
	}
	b.WriteByte(close)
}

func writeMap(b *strings.Builder, m *Map, readable bool) {
	b.WriteByte('{')
	for i, key := range m.Keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeValue(b, KeyToValue(key), readable)
		b.WriteByte(' ')
		writeValue(b, m.Values[key], readable)
	}
	b.WriteByte('}')
}
