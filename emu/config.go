package emu

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/errors"
	"github.com/kirsle/configdir"

	"chip8/emu/log"
	"chip8/hw/audio"
	"chip8/hw/input"
	"chip8/hw/shaders"
)

const (
	DefaultClock = 1080 // Hz
	ClockStep    = 60   // Hz, clock speed increment of the speed hotkeys
	MinClock     = 60   // Hz
)

type Config struct {
	Input     input.Config    `toml:"input"`
	Video     VideoConfig     `toml:"video"`
	Audio     AudioConfig     `toml:"audio"`
	Emulation EmulationConfig `toml:"emulation"`

	TraceOut io.WriteCloser `toml:"-"`
	DumpOut  io.Writer      `toml:"-"` // breakpoint and fault reports, defaults to stdout
}

type EmulationConfig struct {
	Clock       int      `toml:"clock"`        // instruction clock, in Hz
	Seed        uint64   `toml:"seed"`         // random source seed, 0 seeds from time
	Breakpoints []uint16 `toml:"breakpoints"`  // addresses of breakpoints
	SnapshotDir string   `toml:"snapshot_dir"` // where JSON snapshots are written

	Restore string `toml:"-"` // snapshot file to restore at launch
}

func (ecfg *EmulationConfig) Check() {
	if ecfg.Clock < MinClock {
		log.ModEmu.Warnf("Invalid clock speed %d Hz, fallback to %d Hz", ecfg.Clock, DefaultClock)
		ecfg.Clock = DefaultClock
	}
	if ecfg.SnapshotDir == "" {
		ecfg.SnapshotDir = filepath.Join(ConfigDir(), "snapshots")
	}
}

type VideoConfig struct {
	DisableVSync bool   `toml:"disable_vsync"`
	Monitor      int32  `toml:"monitor"`
	Shader       string `toml:"shader"`
	Scale        int    `toml:"scale"`
	Foreground   Color  `toml:"foreground"`
	Background   Color  `toml:"background"`
	Terminal     bool   `toml:"-"`
}

func (vcfg *VideoConfig) Check() {
	// Ensure we have a valid shader.
	if vcfg.Shader == "" {
		vcfg.Shader = shaders.DefaultName
	}
	if !shaders.Exists(vcfg.Shader) {
		log.ModEmu.Warnf("Invalid shader name %q, fallback to %q", vcfg.Shader, shaders.DefaultName)
		vcfg.Shader = shaders.DefaultName
	}
	if vcfg.Scale < 1 {
		vcfg.Scale = 10
	}
	if vcfg.Foreground == vcfg.Background {
		log.ModEmu.Warnf("Foreground and background colors are the same (%s), fallback to default", vcfg.Foreground)
		vcfg.Foreground, vcfg.Background = White, Black
	}
}

type AudioConfig struct {
	DisableAudio bool `toml:"disable_audio"`
	audio.Config

	Record string `toml:"-"` // WAV file to record to
}

// A Color is a RGB color, marshaled as "#RRGGBB".
type Color [3]uint8

var (
	White = Color{0xFF, 0xFF, 0xFF}
	Black = Color{0x00, 0x00, 0x00}
)

func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c[0], c[1], c[2])
}

// Floats returns the color components, normalized to [0, 1].
func (c Color) Floats() [3]float32 {
	return [3]float32{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	var r, g, b uint8
	if len(text) != 7 {
		return fmt.Errorf("malformed color %q, want #RRGGBB", text)
	}
	if _, err := fmt.Sscanf(string(text), "#%02x%02x%02x", &r, &g, &b); err != nil {
		return fmt.Errorf("malformed color %q, want #RRGGBB", text)
	}
	*c = Color{r, g, b}
	return nil
}

// DefaultConfig returns the configuration used when there's no config file.
func DefaultConfig() Config {
	return Config{
		Input: input.DefaultConfig(),
		Video: VideoConfig{
			Shader:     shaders.DefaultName,
			Scale:      10,
			Foreground: White,
			Background: Black,
		},
		Audio: AudioConfig{
			Config: audio.Config{
				SampleRate: audio.DefaultSampleRate,
				Frequency:  audio.DefaultFrequency,
				Volume:     audio.DefaultVolume,
			},
		},
		Emulation: EmulationConfig{
			Clock: DefaultClock,
		},
	}
}

// Check fixes invalid configuration values.
func (cfg *Config) Check() error {
	cfg.Video.Check()
	cfg.Audio.Check()
	cfg.Emulation.Check()
	return cfg.Input.Check()
}

// ConfigDir returns the chip8 configuration directory, creating it if
// needed.
var ConfigDir = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("chip8")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the chip8 config directory,
// or provide a default one. Values missing from the file keep their default.
func LoadConfigOrDefault() Config {
	cfg, err := LoadConfig(filepath.Join(ConfigDir(), cfgFilename))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.ModEmu.WarnZ("Failed to load config, using default").Error("err", err).End()
		}
		return DefaultConfig()
	}
	return cfg
}

// LoadConfig loads the configuration file at path.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return DefaultConfig(), errors.Wrapf(err, "config %s", path)
	}
	for _, key := range md.Undecoded() {
		log.ModEmu.WarnZ("Unknown config key").Stringer("key", key).End()
	}
	return cfg, nil
}

// SaveConfig into chip8 config directory.
func SaveConfig(cfg Config) error {
	return saveConfig(cfg, filepath.Join(ConfigDir(), cfgFilename))
}

func saveConfig(cfg Config, path string) error {
	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, buf, 0644)
}
