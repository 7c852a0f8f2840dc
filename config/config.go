// Package config loads the YAML or TOML scene description.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"particle-morph/animation"
	"particle-morph/core"
	"particle-morph/entity"
	"particle-morph/scene"
)

// Config is the full scene description.
type Config struct {
	Window      core.WindowConfig `yaml:"window" toml:"window"`
	Camera      CameraConfig      `yaml:"camera" toml:"camera"`
	Transition  TransitionConfig  `yaml:"transition" toml:"transition"`
	Parallax    ParallaxConfig    `yaml:"parallax" toml:"parallax"`
	DecoderPath string            `yaml:"decoder_path" toml:"decoder_path"`
	Background  core.Color        `yaml:"background" toml:"background"`
	Entities    []entity.Config   `yaml:"entities" toml:"entities"`
}

type CameraConfig struct {
	FOV       float32    `yaml:"fov" toml:"fov"` // degrees
	Near      float32    `yaml:"near" toml:"near"`
	Far       float32    `yaml:"far" toml:"far"`
	Distance  float32    `yaml:"distance" toml:"distance"`
	Position  [3]float32 `yaml:"position" toml:"position"` // overrides distance when set
	Target    [3]float32 `yaml:"target" toml:"target"`
	Orbit     bool       `yaml:"orbit" toml:"orbit"`
	OrbitRate float32    `yaml:"orbit_rate" toml:"orbit_rate"` // radians per pixel dragged
	ZoomRate  float32    `yaml:"zoom_rate" toml:"zoom_rate"`   // distance per scroll step
}

type TransitionConfig struct {
	Duration float32 `yaml:"duration" toml:"duration"`
	Ease     string  `yaml:"ease" toml:"ease"`
}

// ParallaxConfig maps the cursor to a small scene rotation.
type ParallaxConfig struct {
	Strength float32 `yaml:"strength" toml:"strength"` // maximum rotation in radians
	Duration float32 `yaml:"duration" toml:"duration"`
	Ease     string  `yaml:"ease" toml:"ease"`
}

// Default returns the two-entity scene used when no file is given.
func Default() Config {
	return Config{
		Window: core.DefaultWindowConfig(),
		Camera: CameraConfig{
			FOV:       50,
			Near:      0.1,
			Far:       100,
			Distance:  5,
			Position:  [3]float32{0, 1, 5},
			OrbitRate: 0.005,
			ZoomRate:  0.5,
		},
		Transition: TransitionConfig{Duration: entity.DefaultDuration, Ease: "outCubic"},
		Parallax:   ParallaxConfig{Strength: 0.2, Duration: 0.5, Ease: "outQuad"},
		Background: mustHex("#47001b"),
		Entities: []entity.Config{
			{
				Name:        "skull",
				File:        "builtin:torus",
				Color1:      mustHex("#ff0000"),
				Color2:      mustHex("#ffff00"),
				Background:  mustHex("#47001b"),
				PlaceOnLoad: true,
			},
			{
				Name:       "horse",
				File:       "builtin:sphere",
				Color1:     mustHex("#0000ff"),
				Color2:     mustHex("#ffc0cb"),
				Background: mustHex("#110047"),
			},
		},
	}
}

func mustHex(s string) core.Color {
	c, err := core.ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads path over the defaults, so a file only needs the keys it changes.
// An "entities" list replaces the default entities entirely. Files ending in
// .toml are decoded as TOML, anything else as YAML. A leading "~" in the
// path, the decoder path and entity files expands to the home directory.
func Load(path string) (Config, error) {
	cfg := Default()
	path, err := homedir.Expand(path)
	if err != nil {
		return cfg, fmt.Errorf("config path: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	defaults := cfg.Entities
	cfg.Entities = nil
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	if cfg.Entities == nil {
		cfg.Entities = defaults
	}

	if err := cfg.expandPaths(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) expandPaths() error {
	var err error
	if c.DecoderPath, err = homedir.Expand(c.DecoderPath); err != nil {
		return fmt.Errorf("decoder path: %w", err)
	}
	for i := range c.Entities {
		e := &c.Entities[i]
		if strings.HasPrefix(e.File, scene.BuiltinPrefix) {
			continue
		}
		if e.File, err = homedir.Expand(e.File); err != nil {
			return fmt.Errorf("entity %q: %w", e.Name, err)
		}
	}
	return nil
}

// Validate reports every problem found, joined.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %v must be in (0, 180)", c.Camera.FOV))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip range [%v, %v] is invalid", c.Camera.Near, c.Camera.Far))
	}
	if c.Transition.Duration <= 0 {
		errs = append(errs, fmt.Errorf("transition duration %v must be positive", c.Transition.Duration))
	}
	if _, err := animation.EaseByName(c.Transition.Ease); err != nil {
		errs = append(errs, fmt.Errorf("transition: %w", err))
	}
	if _, err := animation.EaseByName(c.Parallax.Ease); err != nil {
		errs = append(errs, fmt.Errorf("parallax: %w", err))
	}
	if len(c.Entities) == 0 {
		errs = append(errs, errors.New("at least one entity is required"))
	}
	seen := make(map[string]bool)
	for i, e := range c.Entities {
		switch {
		case e.Name == "":
			errs = append(errs, fmt.Errorf("entity %d: name is required", i))
		case seen[e.Name]:
			errs = append(errs, fmt.Errorf("entity %d: duplicate name %q", i, e.Name))
		}
		seen[e.Name] = true
		if e.File == "" {
			errs = append(errs, fmt.Errorf("entity %q: file is required", e.Name))
		}
		if e.Count < 0 {
			errs = append(errs, fmt.Errorf("entity %q: count %d must not be negative", e.Name, e.Count))
		}
	}
	return errors.Join(errs...)
}

// TransitionSettings resolves the configured show/hide tween.
func (c Config) TransitionSettings() (entity.Transition, error) {
	fn, err := animation.EaseByName(c.Transition.Ease)
	if err != nil {
		return entity.Transition{}, err
	}
	return entity.Transition{Duration: c.Transition.Duration, Ease: fn}, nil
}
