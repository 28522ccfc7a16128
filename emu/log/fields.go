package log

import (
	"fmt"
	"strconv"
)

type FieldType uint8

const (
	FieldTypeUnknown FieldType = iota
	FieldTypeBool
	FieldTypeString
	FieldTypeHex8
	FieldTypeHex16
	FieldTypeInt
	FieldTypeError
	FieldTypeStringer
)

// ZField is a typed key/value pair, formatted only when the entry is
// emitted.
type ZField struct {
	Type FieldType
	Key  string

	Integer  int64
	String   string
	Error    error
	Stringer fmt.Stringer
}

// Value formats the field value. Registers and addresses are shown in
// uppercase hexadecimal, as in the dumps and traces.
func (f *ZField) Value() string {
	switch f.Type {
	case FieldTypeBool:
		return strconv.FormatBool(f.Integer != 0)
	case FieldTypeString:
		return f.String
	case FieldTypeInt:
		return strconv.FormatInt(f.Integer, 10)
	case FieldTypeHex8:
		return fmt.Sprintf("0x%02X", uint8(f.Integer))
	case FieldTypeHex16:
		return fmt.Sprintf("0x%04X", uint16(f.Integer))
	case FieldTypeError:
		if f.Error == nil {
			return "<nil>"
		}
		return f.Error.Error()
	case FieldTypeStringer:
		if f.Stringer == nil {
			return "<nil>"
		}
		return f.Stringer.String()
	}
	return ""
}
