package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "VRSANDBOX_CONFIG"

// DefaultPath is used when neither the flag nor the environment names a file.
const DefaultPath = "config/vrsandbox.yaml"

// Config holds runtime settings for the sandbox. Simulation constants are
// compiled in and not configurable here.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Assets   AssetsConfig   `yaml:"assets"`
	Emulator EmulatorConfig `yaml:"emulator"`

	// Headless runs the frame loop without a window, drawing into a recorder.
	Headless       bool `yaml:"headless"`
	HeadlessFrames int  `yaml:"headless_frames"`

	ShowHUD bool `yaml:"show_hud"`
	Verbose bool `yaml:"verbose"` // per-frame stats in the log
}

// WindowConfig sizes the desktop mirror window.
type WindowConfig struct {
	Width     int32  `yaml:"width"`
	Height    int32  `yaml:"height"`
	Title     string `yaml:"title"`
	TargetFPS int32  `yaml:"target_fps"`
	HighDPI   bool   `yaml:"high_dpi"`
}

// AssetsConfig points at mesh and shader directories. Empty mesh
// directories fall back to procedural meshes.
type AssetsConfig struct {
	ShaderDir string   `yaml:"shader_dir"`
	CubeDir   string   `yaml:"cube_dir"`
	HammerDir string   `yaml:"hammer_dir"`
	Materials []string `yaml:"materials"`
}

// EmulatorConfig tunes the desktop stand-in for the headset.
type EmulatorConfig struct {
	MoveSpeed float32 `yaml:"move_speed"`
	LookSpeed float32 `yaml:"look_speed"`
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Width:     1280,
			Height:    720,
			Title:     "VR Sandbox",
			TargetFPS: 90,
			HighDPI:   true,
		},
		Assets: AssetsConfig{
			ShaderDir: "assets/shaders",
		},
		Emulator: EmulatorConfig{
			MoveSpeed: 1.5,
			LookSpeed: 0.1,
		},
		HeadlessFrames: 600,
		ShowHUD:        true,
	}
}

// Load reads config from a YAML file over the defaults.
// If the file doesn't exist, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the loop cannot run with.
func (c Config) Validate() error {
	var errs []error
	if !c.Headless && (c.Window.Width <= 0 || c.Window.Height <= 0) {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.TargetFPS < 0 {
		errs = append(errs, fmt.Errorf("target_fps %d must not be negative", c.Window.TargetFPS))
	}
	if c.Headless && c.HeadlessFrames <= 0 {
		errs = append(errs, fmt.Errorf("headless_frames %d must be positive", c.HeadlessFrames))
	}
	if c.Emulator.MoveSpeed < 0 || c.Emulator.LookSpeed < 0 {
		errs = append(errs, errors.New("emulator speeds must not be negative"))
	}
	return errors.Join(errs...)
}

// ResolvePath picks the config file: the environment wins over the flag,
// and the flag over DefaultPath.
func ResolvePath(flagPath string) string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	if flagPath != "" {
		return flagPath
	}
	return DefaultPath
}
