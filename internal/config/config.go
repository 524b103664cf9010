// Package config loads the game's TOML configuration.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "SKIRMISH_CONFIG"

// DefaultPath is used when neither a flag nor EnvPath names a config file.
const DefaultPath = "config/game.toml"

type Config struct {
	Window  WindowConfig  `toml:"window"`
	Game    GameConfig    `toml:"game"`
	Assets  AssetsConfig  `toml:"assets"`
	Logging LoggingConfig `toml:"logging"`
}

type WindowConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
}

type GameConfig struct {
	TPS        int    `toml:"tps"`
	Level      int    `toml:"level"`
	ScriptsDir string `toml:"scripts_dir"`
	Debug      bool   `toml:"debug"` // start with collision boxes and the GUI visible
}

type AssetsConfig struct {
	Manifest string `toml:"manifest"` // YAML list of shared textures and fonts
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Load reads the TOML file at path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read config %s", path)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, eris.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return nil, eris.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaults()
}

// ResolvePath picks the config path: the flag value if set, then EnvPath,
// then DefaultPath.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

func (c *Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return eris.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Game.TPS <= 0 {
		return eris.Errorf("tps %d must be positive", c.Game.TPS)
	}
	if c.Game.Level <= 0 {
		return eris.Errorf("level %d must be positive", c.Game.Level)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Title:     "Skirmish",
			Width:     1280,
			Height:    720,
			Resizable: true,
		},
		Game: GameConfig{
			TPS:        60,
			Level:      1,
			ScriptsDir: "assets/scripts",
		},
		Assets: AssetsConfig{
			Manifest: "assets/manifest.yaml",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
