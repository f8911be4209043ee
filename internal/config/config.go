// Package config loads the application configuration from flags, an
// optional config file and the environment, flags winning over the file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/soar/inputcore/internal/gamepad"
)

// Config is the resolved application configuration.
type Config struct {
	Listen        string  `mapstructure:"listen"`
	Backend       string  `mapstructure:"backend"`
	Deadzone      float64 `mapstructure:"deadzone"`
	AxisThreshold float64 `mapstructure:"axis_threshold"`
	UUIDFallback  string  `mapstructure:"uuid_fallback"`
	// DeadzonePerAxis overrides the radius for individual axes by logical
	// name (config file only), e.g. "left_x: 0.1".
	DeadzonePerAxis map[string]float64 `mapstructure:"deadzone_per_axis"`
}

// Load parses flags and the optional inputcore.yaml config file.
func Load(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("inputcore", pflag.ContinueOnError)
	flags.String("listen", ":8080", "HTTP listen address")
	flags.String("backend", "sdl", "input backend (sdl or joydev)")
	flags.Float64("deadzone", -1, "deadzone radius override for all stick axes (-1 keeps backend defaults)")
	flags.Float64("axis-threshold", gamepad.DefaultAxisThreshold, "minimum normalized axis delta that emits an event")
	flags.String("uuid-fallback", "weak", "identity matching for serial-less devices (weak or strict)")
	flags.String("config", "", "path to config file")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("deadzone_per_axis", map[string]float64{})
	for _, name := range []string{"listen", "backend", "deadzone", "uuid-fallback"} {
		if err := v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name)); err != nil {
			return nil, err
		}
	}
	if err := v.BindPFlag("axis_threshold", flags.Lookup("axis-threshold")); err != nil {
		return nil, err
	}

	v.SetEnvPrefix("INPUTCORE")
	v.AutomaticEnv()

	if path, _ := flags.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("inputcore")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/inputcore")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	switch cfg.UUIDFallback {
	case "weak", "strict":
	default:
		return nil, fmt.Errorf("invalid uuid_fallback %q (want weak or strict)", cfg.UUIDFallback)
	}
	return &cfg, nil
}

// Options maps the configuration onto the core's option set.
func (c *Config) Options() gamepad.Options {
	opts := gamepad.Options{
		AxisThreshold: c.AxisThreshold,
	}
	if c.UUIDFallback == "strict" {
		opts.UUIDFallback = gamepad.FallbackStrict
	}

	deadzone := make(map[gamepad.AxisCode]float64)
	if c.Deadzone >= 0 {
		for _, a := range []gamepad.AxisCode{
			gamepad.AxisLeftX, gamepad.AxisLeftY,
			gamepad.AxisRightX, gamepad.AxisRightY,
		} {
			deadzone[a] = c.Deadzone
		}
	}
	for name, d := range c.DeadzonePerAxis {
		if code, ok := axisByName(name); ok {
			deadzone[code] = d
		}
	}
	if len(deadzone) > 0 {
		opts.Deadzone = deadzone
	}
	return opts
}

func axisByName(name string) (gamepad.AxisCode, bool) {
	for code := gamepad.AxisLeftX; code <= gamepad.AxisDpadY; code++ {
		if code.String() == name {
			return code, true
		}
	}
	return 0, false
}
