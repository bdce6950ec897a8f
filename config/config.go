package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Game   GameConfig   `mapstructure:"game"`
}

type ServerConfig struct {
	Debug bool `mapstructure:"debug"`
}

type GameConfig struct {
	TickMs           int     `mapstructure:"tick_ms"`
	InteractionRange float64 `mapstructure:"interaction_range"` // forward probe length
	ProbeRadius      float64 `mapstructure:"probe_radius"`      // lateral tolerance around the probe line
	GrabRadius       float64 `mapstructure:"grab_radius"`       // overlap volume around the agent
	BrewTimeS        float64 `mapstructure:"brew_time_s"`
	CarryOffset      float64 `mapstructure:"carry_offset"` // carried prop offset ahead of the holder
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Game.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration without reading any file.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// Unmarshal of pure defaults cannot fail.
	_ = v.Unmarshal(cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.debug", false)
	v.SetDefault("game.tick_ms", 50)
	v.SetDefault("game.interaction_range", 200.0)
	v.SetDefault("game.probe_radius", 50.0)
	v.SetDefault("game.grab_radius", 150.0)
	v.SetDefault("game.brew_time_s", 3.0)
	v.SetDefault("game.carry_offset", 100.0)
}

func (g *GameConfig) validate() error {
	if g.TickMs <= 0 {
		return fmt.Errorf("game.tick_ms must be positive, got %d", g.TickMs)
	}
	if g.InteractionRange <= 0 {
		return fmt.Errorf("game.interaction_range must be positive, got %v", g.InteractionRange)
	}
	if g.GrabRadius <= 0 {
		return fmt.Errorf("game.grab_radius must be positive, got %v", g.GrabRadius)
	}
	if g.BrewTimeS < 0 {
		return fmt.Errorf("game.brew_time_s must not be negative, got %v", g.BrewTimeS)
	}
	return nil
}
