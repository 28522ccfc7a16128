// package rom implements a reader for CHIP-8 program images. Images are raw
// binary dumps with no header, loaded at address 0x200.
package rom

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"

	"chip8/hw"
)

var (
	ErrIO       = errors.New("can't read rom")
	ErrTooLarge = hw.ErrProgramTooLarge
)

type Rom struct {
	Name string // Name is the base name of the rom file, without extension.
	Data []byte // Data is the raw program image.
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	rom := &Rom{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, errors.Wrapf(err, "rom %s", path)
	}
	return rom, nil
}

// ReadFrom implements io.ReaderFrom interface. At most MaxProgramSize+1
// bytes are consumed from r, that's enough to detect oversized images.
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(io.LimitReader(r, hw.MaxProgramSize+1))
	if err != nil {
		return int64(len(buf)), fmt.Errorf("%w: %w", ErrIO, err)
	}
	if len(buf) > hw.MaxProgramSize {
		return int64(len(buf)), errors.Wrapf(ErrTooLarge, "more than %d bytes", hw.MaxProgramSize)
	}

	rom.Data = buf
	return int64(len(buf)), nil
}

// Size returns the size of the program image, in bytes.
func (rom *Rom) Size() int {
	return len(rom.Data)
}

// SHA1 returns the hex-encoded SHA-1 checksum of the program image.
func (rom *Rom) SHA1() string {
	sum := sha1.Sum(rom.Data)
	return hex.EncodeToString(sum[:])
}

// Odd reports whether the image has an odd number of bytes, in which case
// the last byte can't be part of an instruction.
func (rom *Rom) Odd() bool {
	return len(rom.Data)%2 != 0
}

// PrintInfos writes a human readable summary of the rom.
func (rom *Rom) PrintInfos(w io.Writer) {
	fmt.Fprintf(w, "name: %s\n", rom.Name)
	fmt.Fprintf(w, "size: %d bytes (%d instructions)\n", rom.Size(), rom.Size()/2)
	fmt.Fprintf(w, "free: %d bytes\n", hw.MaxProgramSize-rom.Size())
	if rom.Size() != 0 {
		fmt.Fprintf(w, "range: 0x%03X-0x%03X\n", hw.ProgramBase, hw.ProgramBase+rom.Size()-1)
	}
	fmt.Fprintf(w, "sha1: %s\n", rom.SHA1())
	if rom.Odd() {
		fmt.Fprintf(w, "warning: odd size, last byte is data\n")
	}
}
