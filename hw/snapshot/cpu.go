package snapshot

import (
	"io"
	"slices"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Version of the snapshot format.
const Version = 1

var ErrVersion = errors.New("unsupported snapshot version")

// CPU is the serializable state of a CHIP-8 CPU.
type CPU struct {
	Version int

	Mem     []byte
	Display []byte
	Program []byte

	V      [16]uint8
	I      uint16
	PC     uint16
	SP     uint8
	Stack  [16]uint16
	DT, ST uint8
	Keypad uint16
	Cycles int64

	State      uint8
	Halt       uint8
	KeyLatched bool
	LastKey    uint8

	Opcode    uint16 // last fetched opcode
	FaultAddr uint16 // address of the faulting instruction, if any
}

// Encode writes the JSON representation of s to e.
func (s *CPU) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("version", func(e *jx.Encoder) { e.Int(s.Version) })
		e.Field("mem", func(e *jx.Encoder) { e.Base64(s.Mem) })
		e.Field("display", func(e *jx.Encoder) { e.Base64(s.Display) })
		e.Field("program", func(e *jx.Encoder) { e.Base64(s.Program) })
		e.Field("v", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, v := range s.V {
					e.UInt8(v)
				}
			})
		})
		e.Field("i", func(e *jx.Encoder) { e.UInt16(s.I) })
		e.Field("pc", func(e *jx.Encoder) { e.UInt16(s.PC) })
		e.Field("sp", func(e *jx.Encoder) { e.UInt8(s.SP) })
		e.Field("stack", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, v := range s.Stack {
					e.UInt16(v)
				}
			})
		})
		e.Field("dt", func(e *jx.Encoder) { e.UInt8(s.DT) })
		e.Field("st", func(e *jx.Encoder) { e.UInt8(s.ST) })
		e.Field("keypad", func(e *jx.Encoder) { e.UInt16(s.Keypad) })
		e.Field("cycles", func(e *jx.Encoder) { e.Int64(s.Cycles) })
		e.Field("state", func(e *jx.Encoder) { e.UInt8(s.State) })
		e.Field("halt", func(e *jx.Encoder) { e.UInt8(s.Halt) })
		e.Field("key_latched", func(e *jx.Encoder) { e.Bool(s.KeyLatched) })
		e.Field("last_key", func(e *jx.Encoder) { e.UInt8(s.LastKey) })
		e.Field("opcode", func(e *jx.Encoder) { e.UInt16(s.Opcode) })
		e.Field("fault_addr", func(e *jx.Encoder) { e.UInt16(s.FaultAddr) })
	})
}

// Decode reads the JSON representation of a CPU from d into s.
func (s *CPU) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "version":
			s.Version, err = d.Int()
		case "mem":
			s.Mem, err = d.Base64()
		case "display":
			s.Display, err = d.Base64()
		case "program":
			s.Program, err = d.Base64()
		case "v":
			i := 0
			err = d.Arr(func(d *jx.Decoder) error {
				if i >= len(s.V) {
					return errors.Errorf("too many registers")
				}
				v, err := d.UInt8()
				s.V[i] = v
				i++
				return err
			})
		case "i":
			s.I, err = d.UInt16()
		case "pc":
			s.PC, err = d.UInt16()
		case "sp":
			s.SP, err = d.UInt8()
		case "stack":
			i := 0
			err = d.Arr(func(d *jx.Decoder) error {
				if i >= len(s.Stack) {
					return errors.Errorf("stack too deep")
				}
				v, err := d.UInt16()
				s.Stack[i] = v
				i++
				return err
			})
		case "dt":
			s.DT, err = d.UInt8()
		case "st":
			s.ST, err = d.UInt8()
		case "keypad":
			s.Keypad, err = d.UInt16()
		case "cycles":
			s.Cycles, err = d.Int64()
		case "state":
			s.State, err = d.UInt8()
		case "halt":
			s.Halt, err = d.UInt8()
		case "key_latched":
			s.KeyLatched, err = d.Bool()
		case "last_key":
			s.LastKey, err = d.UInt8()
		case "opcode":
			s.Opcode, err = d.UInt16()
		case "fault_addr":
			s.FaultAddr, err = d.UInt16()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	})
}

func (s *CPU) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	s.Encode(&e)
	return slices.Clone(e.Bytes()), nil
}

func (s *CPU) UnmarshalJSON(data []byte) error {
	return s.Decode(jx.DecodeBytes(data))
}

// Write writes the snapshot to w.
func Write(w io.Writer, s *CPU) error {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	e.SetIdent(2)
	s.Encode(e)
	_, err := e.WriteTo(w)
	return err
}

// Read reads a snapshot from r and checks its version.
func Read(r io.Reader) (*CPU, error) {
	var s CPU
	if err := s.Decode(jx.Decode(r, 4096)); err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}
	if s.Version != Version {
		return nil, errors.Wrapf(ErrVersion, "got %d, want %d", s.Version, Version)
	}
	return &s, nil
}
