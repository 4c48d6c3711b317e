package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindInvalid Kind = iota // zero Type; Len() == 0
	KindInt
	KindInt64
	KindBool
	KindFloat64
	KindString // fixed width, length-prefixed
)

// StringLenPrefix is the number of bytes a STRING(N) spends on its length header.
const StringLenPrefix = 4

var (
	ErrUnknownType = errors.New("types: unknown type")
	ErrBadWidth    = errors.New("types: bad string width")
)

// Type is a fixed-length field type. Values are comparable with ==.
type Type struct {
	kind  Kind
	width int // only meaningful for KindString
}

var (
	Int     = Type{kind: KindInt}
	Int64   = Type{kind: KindInt64}
	Bool    = Type{kind: KindBool}
	Float64 = Type{kind: KindFloat64}
)

// StringType returns a STRING(n) type occupying n bytes in a tuple:
// a 4 byte length followed by up to n-4 bytes of payload.
// It panics if n leaves no room for payload.
func StringType(n int) Type {
	if n <= StringLenPrefix {
		panic(fmt.Sprintf("types: STRING(%d) must be wider than %d bytes", n, StringLenPrefix))
	}
	return Type{kind: KindString, width: n}
}

func (t Type) Kind() Kind { return t.kind }

// Len is the fixed number of bytes a value of t occupies in a tuple.
func (t Type) Len() int {
	switch t.kind {
	case KindInt:
		return 4
	case KindInt64, KindFloat64:
		return 8
	case KindBool:
		return 1
	case KindString:
		return t.width
	}
	return 0
}

// MaxPayload is the longest string a STRING type can hold, 0 for other kinds.
func (t Type) MaxPayload() int {
	if t.kind != KindString {
		return 0
	}
	return t.width - StringLenPrefix
}

func (t Type) String() string {
	switch t.kind {
	case KindInt:
		return "INT"
	case KindInt64:
		return "INT64"
	case KindBool:
		return "BOOL"
	case KindFloat64:
		return "FLOAT64"
	case KindString:
		return "STRING(" + strconv.Itoa(t.width) + ")"
	case KindInvalid:
		return "INVALID"
	}
	return fmt.Sprintf("Type(%d)", t.kind)
}

// ParseType reads a type name as written in config files, e.g. "int",
// "bigint", "string(20)". A bare "string" gets defaultStringLen bytes.
func ParseType(text string, defaultStringLen int) (Type, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	switch s {
	case "int", "int32", "integer":
		return Int, nil
	case "int64", "bigint":
		return Int64, nil
	case "bool", "boolean":
		return Bool, nil
	case "float64", "double":
		return Float64, nil
	case "string":
		return stringOfWidth(defaultStringLen)
	}

	if inner, ok := strings.CutPrefix(s, "string("); ok {
		num, ok := strings.CutSuffix(inner, ")")
		if !ok {
			return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, text)
		}
		n, err := strconv.Atoi(strings.TrimSpace(num))
		if err != nil {
			return Type{}, fmt.Errorf("%w: %q", ErrBadWidth, text)
		}
		return stringOfWidth(n)
	}
	return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, text)
}

func stringOfWidth(n int) (Type, error) {
	if n <= StringLenPrefix {
		return Type{}, fmt.Errorf("%w: %d (need > %d)", ErrBadWidth, n, StringLenPrefix)
	}
	return StringType(n), nil
}
