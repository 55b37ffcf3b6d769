package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ionut-t/goaccel/internal/atomicfile"
	"gopkg.in/yaml.v3"
)

const (
	appName            = "goaccel"
	maxConfigFileBytes = 1 << 20 // 1MB
)

var (
	ErrPathRequired   = errors.New("config path required")
	ErrHeightBounds   = errors.New("height.min must not exceed height.max")
	ErrConfigTooLarge = errors.New("config file too large")
)

var userHomeDirFn = os.UserHomeDir

// Height bounds in desk units (tenths of a millimetre).
type HeightConfig struct {
	Min     int `yaml:"min"`
	Max     int `yaml:"max"`
	Default int `yaml:"default"`
}

type CaptureConfig struct {
	// RecognizeAltGr makes AltGraph act as the AltGr modifier.
	RecognizeAltGr bool `yaml:"recognize_altgr"`
	// LivePreview shows the modifiers held so far on the capture button.
	LivePreview bool `yaml:"live_preview"`
}

type Config struct {
	PositionsFile string        `yaml:"positions_file"`
	LogFile       string        `yaml:"log_file,omitempty"`
	Theme         string        `yaml:"theme"`
	Height        HeightConfig  `yaml:"height"`
	Capture       CaptureConfig `yaml:"capture"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		PositionsFile: DefaultPositionsPath(),
		Theme:         "catppuccin-mocha",
		Height: HeightConfig{
			Min:     6200,
			Max:     12700,
			Default: 7200,
		},
	}
}

// DefaultPath resolves the config file path under XDG_CONFIG_HOME, falling
// back to ~/.config and then to the temp dir.
func DefaultPath() string {
	base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME"))
	if base == "" {
		base = homeRelative(".config")
	}
	return filepath.Join(base, appName, "config.yaml")
}

// DefaultPositionsPath resolves the positions file under XDG_DATA_HOME,
// falling back to ~/.local/share.
func DefaultPositionsPath() string {
	base := strings.TrimSpace(os.Getenv("XDG_DATA_HOME"))
	if base == "" {
		base = homeRelative(filepath.Join(".local", "share"))
	}
	return filepath.Join(base, appName, "positions.yaml")
}

func homeRelative(dir string) string {
	home, err := userHomeDirFn()
	if err != nil {
		slog.Warn("[config] using temp dir as fallback", "error", err)
		return os.TempDir()
	}
	return filepath.Join(home, dir)
}

// Load reads the config file. A missing or empty file yields the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, ErrPathRequired
	}

	raw, err := readLimitedFile(path, maxConfigFileBytes)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if len(raw) == 0 {
		return cfg, nil
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		slog.Warn("[config] failed to parse config, using defaults", "path", path, "error", err)
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := applyDefaultsAndValidate(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save validates cfg and writes it to path.
func Save(path string, cfg Config) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return cfg, ErrPathRequired
	}
	if err := applyDefaultsAndValidate(&cfg); err != nil {
		return cfg, fmt.Errorf("save config: %w", err)
	}

	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return cfg, fmt.Errorf("save config: marshal: %w", err)
	}
	if err := atomicfile.Write(path, raw, 0o600); err != nil {
		return cfg, fmt.Errorf("save config: %w", err)
	}
	slog.Debug("[config] config saved", "path", path)
	return cfg, nil
}

func applyDefaultsAndValidate(cfg *Config) error {
	defaults := DefaultConfig()

	cfg.PositionsFile = strings.TrimSpace(cfg.PositionsFile)
	if cfg.PositionsFile == "" {
		cfg.PositionsFile = defaults.PositionsFile
	}
	cfg.PositionsFile = expandHome(cfg.PositionsFile)
	cfg.LogFile = expandHome(strings.TrimSpace(cfg.LogFile))

	if strings.TrimSpace(cfg.Theme) == "" {
		cfg.Theme = defaults.Theme
	}

	if cfg.Height.Min <= 0 {
		cfg.Height.Min = defaults.Height.Min
	}
	if cfg.Height.Max <= 0 {
		cfg.Height.Max = defaults.Height.Max
	}
	if cfg.Height.Min > cfg.Height.Max {
		return fmt.Errorf("%w: %d > %d", ErrHeightBounds, cfg.Height.Min, cfg.Height.Max)
	}
	if cfg.Height.Default < cfg.Height.Min || cfg.Height.Default > cfg.Height.Max {
		cfg.Height.Default = min(max(defaults.Height.Default, cfg.Height.Min), cfg.Height.Max)
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := userHomeDirFn()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func readLimitedFile(path string, maxBytes int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxBytes {
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrConfigTooLarge, path, info.Size())
	}
	return os.ReadFile(path)
}
