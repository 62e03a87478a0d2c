package service

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ValueKind enumerates the scalar shapes a table cell can take.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindText
)

// Value is a tagged scalar: a boolean, a number, a text or null. It is the
// only value type that crosses the JSON and database boundaries, so client
// payloads and rows keep their types without a compile-time row shape.
type Value struct {
	kind ValueKind
	b    bool
	num  json.Number
	s    string
}

func NullValue() Value {
	return Value{kind: KindNull}
}

func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

func NumberValue(n json.Number) Value {
	return Value{kind: KindNumber, num: n}
}

func Int64Value(n int64) Value {
	return Value{kind: KindNumber, num: json.Number(fmt.Sprintf("%d", n))}
}

func TextValue(s string) Value {
	return Value{kind: KindText, s: s}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Bool returns the boolean payload. It is false when the value is not a
// boolean.
func (v Value) Bool() bool {
	return v.kind == KindBool && v.b
}

// Int64 returns the numeric payload as an integer, when it is one.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	n, err := v.num.Int64()
	if err != nil {
		return 0, false
	}
	return n, true
}

func (v Value) Text() string {
	if v.kind == KindText {
		return v.s
	}
	return ""
}

// Truthy reports whether the value reads as true under loose form
// semantics: true booleans, non-zero numbers and the strings "true"/"1".
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		f, err := v.num.Float64()
		return err == nil && f != 0
	case KindText:
		return v.s == "true" || v.s == "1"
	default:
		return false
	}
}

// Param converts the value to a driver-level bind parameter.
func (v Value) Param() driver.Value {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if n, err := v.num.Int64(); err == nil {
			return n
		}
		f, _ := v.num.Float64()
		return f
	case KindText:
		return v.s
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindNumber:
		return v.num.String()
	case KindText:
		return v.s
	default:
		return "null"
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		if v.num == "" {
			return []byte("0"), nil
		}
		return []byte(v.num), nil
	case KindText:
		return json.Marshal(v.s)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	switch t := raw.(type) {
	case nil:
		*v = NullValue()
	case bool:
		*v = BoolValue(t)
	case json.Number:
		*v = NumberValue(t)
	case string:
		*v = TextValue(t)
	default:
		return fmt.Errorf("unsupported value %v of type %T, expected a scalar", raw, raw)
	}

	return nil
}

// FromDriver converts a scanned database value into a Value. Byte slices
// are treated as text, timestamps are rendered in RFC 3339.
func FromDriver(raw interface{}) Value {
	switch t := raw.(type) {
	case nil:
		return NullValue()
	case bool:
		return BoolValue(t)
	case int64:
		return Int64Value(t)
	case float64:
		return NumberValue(json.Number(fmt.Sprintf("%g", t)))
	case string:
		return TextValue(t)
	case []byte:
		return TextValue(string(t))
	case time.Time:
		return TextValue(t.Format(time.RFC3339))
	default:
		return TextValue(fmt.Sprintf("%v", t))
	}
}
