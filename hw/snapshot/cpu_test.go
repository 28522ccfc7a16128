package snapshot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/google/go-cmp/cmp"
)

func TestReadWrite(t *testing.T) {
	want := &CPU{
		Version: Version,
		Mem:     []byte{0xF0, 0x90, 0x90},
		Display: []byte{0, 1, 1, 0},
		Program: []byte{0x12, 0x00},
		V:       [16]uint8{1, 2, 3, 0xF: 0xFF},
		I:       0xFFF,
		PC:      0x202,
		SP:      2,
		Stack:   [16]uint16{0x204, 0x310},
		DT:      60,
		ST:      1,
		Keypad:  0x8001,
		Cycles:  1 << 40,
		State:   2,
		Halt:    4,
		Opcode:  0x2200,
	}

	var buf bytes.Buffer
	if err := Write(&buf, want); err != nil {
		t.Fatal(err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr error
	}{
		{
			name:    "version",
			json:    `{"version": 42}`,
			wantErr: ErrVersion,
		},
		{
			name: "too many registers",
			json: `{"version": 1, "v": [0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0]}`,
		},
		{
			name: "register overflow",
			json: `{"version": 1, "v": [256]}`,
		},
		{
			name: "malformed",
			json: `{"version": 1,`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.json))
			if err == nil {
				t.Fatalf("Read() should fail")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Read() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUnknownFieldsSkipped(t *testing.T) {
	const js = `{"version": 1, "comment": {"by": ["someone"]}, "pc": 514}`

	var s CPU
	if err := s.UnmarshalJSON([]byte(js)); err != nil {
		t.Fatal(err)
	}
	if s.PC != 514 {
		t.Fatalf("PC = %d, want 514", s.PC)
	}
}
