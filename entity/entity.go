// Package entity implements the lifecycle of one mesh-derived particle
// cloud: asynchronous load, then tween-driven show and hide transitions.
//
// All methods except the loader goroutine run on the render thread.
package entity

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/chewxy/math32"
	"github.com/tanema/gween/ease"

	"particle-morph/animation"
	"particle-morph/core"
	"particle-morph/particles"
	"particle-morph/scene"
)

// DefaultDuration is the show/hide transition length in seconds.
const DefaultDuration = 0.8

// hiddenRotation is the Y rotation of a fully hidden cloud.
const hiddenRotation = math32.Pi

// Loader decodes the mesh at path.
type Loader interface {
	Load(ctx context.Context, path string) (*scene.Mesh, error)
}

// Config holds the per-entity constants, set once at construction.
type Config struct {
	Name        string     `yaml:"name" toml:"name"`
	File        string     `yaml:"file" toml:"file"`
	Color1      core.Color `yaml:"color1" toml:"color1"`
	Color2      core.Color `yaml:"color2" toml:"color2"`
	Background  core.Color `yaml:"background" toml:"background"`
	PlaceOnLoad bool       `yaml:"place_on_load" toml:"place_on_load"`
	Count       int        `yaml:"count" toml:"count"`           // sampled points; 0 means particles.DefaultCount
	Seed        int64      `yaml:"seed" toml:"seed"`             // 0 means time-seeded
	PointSize   float32    `yaml:"point_size" toml:"point_size"` // pixels; 0 means 2
}

// Transition configures show and hide tweens.
type Transition struct {
	Duration float32
	Ease     ease.TweenFunc
}

// Env bundles the collaborators an entity needs. Tweens, Scene and Post are
// required; Backdrop and Logger are optional.
type Env struct {
	Scene      *scene.Scene
	Tweens     *animation.Engine
	Loader     Loader
	Post       func(func()) // runs a closure on the render thread
	Backdrop   *Backdrop
	Transition Transition
	Logger     *slog.Logger
}

// Entity is one independently loadable and showable particle cloud.
type Entity struct {
	cfg   Config
	env   Env
	log   *slog.Logger
	state State

	node  *scene.Node
	cloud *scene.PointCloud

	// token belongs to the transition in flight; replacing it cancels
	// the previous transition's tweens and completion callbacks.
	token *animation.Token
}

func New(cfg Config, env Env) *Entity {
	if env.Transition.Duration <= 0 {
		env.Transition.Duration = DefaultDuration
	}
	if env.Transition.Ease == nil {
		env.Transition.Ease = ease.OutCubic
	}
	logger := env.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Entity{
		cfg: cfg,
		env: env,
		log: logger.With("entity", cfg.Name),
	}
}

func (e *Entity) Name() string { return e.cfg.Name }
func (e *Entity) Config() Config { return e.cfg }
func (e *Entity) State() State { return e.state }
func (e *Entity) Node() *scene.Node { return e.node }
func (e *Entity) Cloud() *scene.PointCloud { return e.cloud }

// IsVisible reports whether the entity is showing or shown.
func (e *Entity) IsVisible() bool {
	return e.state == Showing || e.state == Shown
}

// IsActive reports whether the cloud is attached to the scene, which
// includes the fade out of a hide.
func (e *Entity) IsActive() bool {
	return e.IsVisible() || e.state == Hiding
}

// Load starts decoding and sampling in the background. The returned channel
// receives the outcome once it has been applied on the render thread.
// Loading happens at most once; later calls report nil immediately.
func (e *Entity) Load(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	if e.state != Unloaded {
		done <- nil
		return done
	}
	e.state = Loading
	e.log.Debug("loading", "file", e.cfg.File)

	cfg, loader := e.cfg, e.env.Loader
	go func() {
		cloud, err := buildCloud(ctx, loader, cfg)
		e.env.Post(func() {
			e.finishLoad(cloud, err)
			done <- err
		})
	}()
	return done
}

// buildCloud runs on the loader goroutine and touches no shared state.
func buildCloud(ctx context.Context, loader Loader, cfg Config) (*scene.PointCloud, error) {
	if loader == nil {
		return nil, fmt.Errorf("load %q: no loader configured", cfg.Name)
	}
	mesh, err := loader.Load(ctx, cfg.File)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", cfg.Name, err)
	}

	count := cfg.Count
	if count == 0 {
		count = particles.DefaultCount
	}
	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	set, err := particles.Sample(mesh, count, rng)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", cfg.Name, err)
	}
	buf := particles.Build(set)

	size := cfg.PointSize
	if size <= 0 {
		size = 2
	}
	return scene.NewPointCloud(cfg.Name, buf.Positions, buf.Randomness, scene.PointMaterial{
		Color1: cfg.Color1,
		Color2: cfg.Color2,
		Size:   size,
	}), nil
}

func (e *Entity) finishLoad(cloud *scene.PointCloud, err error) {
	if err != nil {
		e.state = Unloaded
		e.log.Error("load failed", "file", e.cfg.File, "error", err)
		return
	}

	node := scene.NewNode(e.cfg.Name)
	node.Points = cloud
	node.Transform.Rotation[1] = hiddenRotation

	e.node, e.cloud = node, cloud
	e.state = Ready
	e.log.Info("loaded", "points", cloud.Count())

	if e.cfg.PlaceOnLoad {
		e.Show()
	}
}

// Show attaches the cloud and grows it in. Calling Show while hiding
// reverses the hide from the current scale and rotation.
func (e *Entity) Show() {
	switch e.state {
	case Ready:
		e.cloud.Material.Scale = 0
		e.node.Transform.Rotation[1] = hiddenRotation
		e.env.Scene.AddNode(e.node)
	case Hiding:
		// still attached; the hide tweens are cancelled below
	default:
		e.log.Debug("show ignored", "state", e.state)
		return
	}

	token := e.restart()
	e.state = Showing
	e.log.Debug("showing")

	opts := e.options(token)
	opts.OnComplete = func() {
		e.state = Shown
		e.log.Debug("shown")
	}
	e.env.Tweens.To(&e.cloud.Material.Scale, 1, opts)
	e.env.Tweens.To(&e.node.Transform.Rotation[1], 0, e.options(token))

	if e.env.Backdrop != nil {
		e.env.Backdrop.FadeTo(e.env.Tweens, e.cfg.Background, e.env.Transition)
	}
}

// Hide shrinks the cloud out and detaches it once the scale reaches zero.
func (e *Entity) Hide() {
	switch e.state {
	case Showing, Shown:
	default:
		e.log.Debug("hide ignored", "state", e.state)
		return
	}

	token := e.restart()
	e.state = Hiding
	e.log.Debug("hiding")

	opts := e.options(token)
	opts.OnComplete = func() {
		e.env.Scene.RemoveNode(e.node)
		e.state = Ready
		e.log.Debug("hidden")
	}
	e.env.Tweens.To(&e.cloud.Material.Scale, 0, opts)
	e.env.Tweens.To(&e.node.Transform.Rotation[1], hiddenRotation, e.options(token))
}

// Tick feeds the elapsed time to the shader. It is a no-op until loaded.
func (e *Entity) Tick(elapsed float32) {
	if e.cloud == nil {
		return
	}
	e.cloud.Material.Time = elapsed
}

// Cancel stops any transition in flight, leaving values where they are.
func (e *Entity) Cancel() {
	e.token.Cancel()
}

func (e *Entity) restart() *animation.Token {
	e.token.Cancel()
	e.token = animation.NewToken()
	return e.token
}

func (e *Entity) options(token *animation.Token) animation.Options {
	return animation.Options{
		Duration: e.env.Transition.Duration,
		Ease:     e.env.Transition.Ease,
		Token:    token,
	}
}
