package hw

import (
	"bytes"
	"strings"
	"testing"
)

func TestDump(t *testing.T) {
	cpu := newTestCPU(t,
		0x6A42, // 200: LD VA, 0x42
		0xA123, // 202: LD I, 0x123
		0x2208, // 204: CALL 0x208
		0x0000, // 206
		0x1208, // 208: JP 0x208
	)
	cpu.SetBreakpoint(0x204)
	if st := cpu.Run(10); st != StatusBreakpoint {
		t.Fatalf("status = %s, want %s", st, StatusBreakpoint)
	}

	var out bytes.Buffer
	if err := cpu.Dump(&out); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(out.String(), "\n")
	want := map[int]string{
		0:  "State: Halted (Breakpoint)",
		1:  "PC: 0x208",
		2:  "ST: 0x00",
		3:  "DT: 0x00",
		4:  "I: 0x123",
		5:  "",
		6:  "V0: 0x00",
		16: "VA: 0x42",
		21: "VF: 0x00",
		23: "SP: 0x01",
		24: "stack[0]: 0x0206",
		39: "stack[F]: 0x0000",
	}
	if len(lines) < 40 {
		t.Fatalf("dump too short:\n%s", out.String())
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}
