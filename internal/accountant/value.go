package accountant

import "fmt"

// Kind is the declared type of an option or argument.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "null"
	}
}

// Value is a resolved option or argument value. It is comparable with ==.
type Value struct {
	kind Kind
	b    bool
	s    string
}

// Null is the absent value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) IsTrue() bool { return v.kind == KindBool && v.b }
func (v Value) Str() string { return v.s }
func (v Value) BoolVal() bool { return v.b }

// Truthy reports whether the value would enable a step: true booleans and
// non-empty strings.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindString:
		return v.s != ""
	}
	return false
}

// Any converts the value to a plain Go value (nil, bool or string).
func (v Value) Any() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindString:
		return v.s
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	}
	return "null"
}

// FromAny converts nil, bool and string into a Value.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	}
	return Value{}, fmt.Errorf("unsupported value type %T", x)
}
