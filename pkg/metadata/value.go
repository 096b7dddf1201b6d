package metadata

import (
	"strconv"
)

// Kind reports what a Value holds.
type Kind int

const (
	KindAbsent Kind = iota
	KindNumber
	KindString
)

// Value is a single decoded tag value. The zero value is absent.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// String returns a string Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

// Float returns the numeric value and whether v holds a number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Text returns the rendered value as it appears in a CSV cell.
//
// Numbers use the shortest decimal representation without an exponent, so 28/10
// renders as "2.8" and 400 as "400". Absent values render as "".
func (v Value) Text() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	default:
		return ""
	}
}

func (v Value) String() string {
	return v.Text()
}
