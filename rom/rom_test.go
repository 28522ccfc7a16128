package rom

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-faster/errors"

	"chip8/hw"
)

func TestRomOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "maze.ch8")
	data := []byte{0xA2, 0x1E, 0xC2, 0x01, 0x32, 0x01, 0xA2, 0x1A}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	rom, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if rom.Name != "maze" {
		t.Errorf("Name = %q, want %q", rom.Name, "maze")
	}
	if !bytes.Equal(rom.Data, data) {
		t.Errorf("Data = % X, want % X", rom.Data, data)
	}
	if rom.Size() != len(data) {
		t.Errorf("Size() = %d, want %d", rom.Size(), len(data))
	}
}

func TestRomOpenErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing", func(t *testing.T) {
		_, err := Open(filepath.Join(dir, "missing.ch8"))
		if !errors.Is(err, ErrIO) {
			t.Fatalf("got err = %v, want ErrIO", err)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("got err = %v, want fs.ErrNotExist in chain", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		path := filepath.Join(dir, "empty.ch8")
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
		rom, err := Open(path)
		if err != nil {
			t.Fatalf("Open(empty) = %v", err)
		}
		if rom.Size() != 0 {
			t.Fatalf("Size() = %d, want 0", rom.Size())
		}
	})

	t.Run("too large", func(t *testing.T) {
		path := filepath.Join(dir, "large.ch8")
		if err := os.WriteFile(path, make([]byte, hw.MaxProgramSize+1), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Open(path)
		if !errors.Is(err, hw.ErrProgramTooLarge) {
			t.Fatalf("got err = %v, want ErrProgramTooLarge", err)
		}
	})
}

func TestReadFromMaxSize(t *testing.T) {
	var rom Rom
	n, err := rom.ReadFrom(bytes.NewReader(make([]byte, hw.MaxProgramSize)))
	if err != nil {
		t.Fatal(err)
	}
	if n != hw.MaxProgramSize {
		t.Errorf("ReadFrom returned %d, want %d", n, hw.MaxProgramSize)
	}
}

func TestPrintInfos(t *testing.T) {
	rom := &Rom{Name: "test", Data: []byte{0x00, 0xE0, 0x12}}

	var sb strings.Builder
	rom.PrintInfos(&sb)

	for _, want := range []string{
		"name: test\n",
		"size: 3 bytes (1 instructions)\n",
		"range: 0x200-0x202\n",
		"sha1: " + rom.SHA1() + "\n",
		"warning: odd size",
	} {
		if !strings.Contains(sb.String(), want) {
			t.Errorf("infos missing %q, got:\n%s", want, sb.String())
		}
	}
}
