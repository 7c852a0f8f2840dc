// Package director owns the scene, the camera and the entities, and advances
// them one frame at a time.
package director

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"

	"particle-morph/animation"
	"particle-morph/config"
	"particle-morph/entity"
	"particle-morph/internal/mainthread"
	"particle-morph/scene"
)

var (
	ErrUnknownEntity = errors.New("unknown entity")
	ErrDisposed      = errors.New("director disposed")
)

// Surface is the drawing target.
type Surface interface {
	SetSize(width, height int)
	Render(s *scene.Scene) error
}

// Clock reports monotonically increasing seconds since start.
type Clock interface {
	Elapsed() float64
}

// SystemClock measures wall time from its creation.
type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) Elapsed() float64 {
	return time.Since(c.start).Seconds()
}

// Deps are the external collaborators of a Director.
type Deps struct {
	Surface Surface
	Loader  entity.Loader
	Clock   Clock
	Logger  *slog.Logger
}

// Director is constructed once per process. Every method must be called
// from the render thread.
type Director struct {
	cfg  config.Config
	deps Deps
	log  *slog.Logger

	scene    *scene.Scene
	camera   *scene.OrbitCamera
	tweens   *animation.Engine
	queue    *mainthread.Queue
	entities []*entity.Entity
	byName   map[string]*entity.Entity

	width, height int // framebuffer pixels
	cursorW       int // window size in screen coordinates
	cursorH       int
	lastElapsed   float64
	framed        bool

	parallaxEase  ease.TweenFunc
	parallaxToken *animation.Token

	cancel   context.CancelFunc
	disposed bool
}

func New(cfg config.Config, deps Deps) (*Director, error) {
	if deps.Surface == nil {
		return nil, errors.New("director: surface is required")
	}
	if deps.Loader == nil {
		deps.Loader = scene.AssetLoader{DecoderPath: cfg.DecoderPath}
	}
	if deps.Clock == nil {
		deps.Clock = NewSystemClock()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("director: %w", err)
	}
	transition, err := cfg.TransitionSettings()
	if err != nil {
		return nil, fmt.Errorf("director: %w", err)
	}
	parallaxEase, err := animation.EaseByName(cfg.Parallax.Ease)
	if err != nil {
		return nil, fmt.Errorf("director: parallax: %w", err)
	}

	d := &Director{
		cfg:          cfg,
		deps:         deps,
		log:          deps.Logger,
		scene:        scene.NewScene(),
		tweens:       animation.NewEngine(),
		queue:        mainthread.NewQueue(len(cfg.Entities) + 1),
		byName:       make(map[string]*entity.Entity),
		width:        cfg.Window.Width,
		height:       cfg.Window.Height,
		cursorW:      cfg.Window.Width,
		cursorH:      cfg.Window.Height,
		parallaxEase: parallaxEase,
	}
	d.scene.Background = cfg.Background

	c := cfg.Camera
	d.camera = scene.NewOrbitCamera(mgl32.Vec3(c.Target), c.Distance, mgl32.DegToRad(c.FOV), float32(d.width)/float32(d.height))
	d.camera.NearPlane, d.camera.FarPlane = c.Near, c.Far
	if c.Position != [3]float32{} {
		d.camera.PlaceAt(mgl32.Vec3(c.Position))
	}
	d.camera.Enabled = c.Orbit
	d.scene.SetCamera(d.camera.Camera)

	env := entity.Env{
		Scene:      d.scene,
		Tweens:     d.tweens,
		Loader:     deps.Loader,
		Post:       d.queue.Post,
		Backdrop:   entity.NewBackdrop(&d.scene.Background),
		Transition: transition,
		Logger:     deps.Logger,
	}
	for _, ec := range cfg.Entities {
		e := entity.New(ec, env)
		d.entities = append(d.entities, e)
		d.byName[ec.Name] = e
	}
	return d, nil
}

// Init sizes the surface and starts loading every entity.
func (d *Director) Init(ctx context.Context) error {
	if d.disposed {
		return ErrDisposed
	}
	ctx, d.cancel = context.WithCancel(ctx)
	d.deps.Surface.SetSize(d.width, d.height)
	for _, e := range d.entities {
		e.Load(ctx)
	}
	d.log.Info("director initialized", "entities", len(d.entities))
	return nil
}

// WaitLoaded blocks until no entity is loading, applying load results as
// they arrive.
func (d *Director) WaitLoaded(ctx context.Context) error {
	for d.loading() {
		if err := d.queue.RunOne(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (d *Director) loading() bool {
	for _, e := range d.entities {
		if e.State() == entity.Loading {
			return true
		}
	}
	return false
}

// Frame advances one display refresh: apply finished loads, step tweens by
// the clock delta, feed time to entities on screen, then render once.
func (d *Director) Frame() error {
	if d.disposed {
		return ErrDisposed
	}
	elapsed := d.deps.Clock.Elapsed()
	dt := 0.0
	if d.framed {
		dt = elapsed - d.lastElapsed
	}
	d.framed = true
	d.lastElapsed = elapsed

	d.queue.Drain()
	d.tweens.Update(float32(dt))
	for _, e := range d.entities {
		if e.IsActive() {
			e.Tick(float32(elapsed))
		}
	}
	return d.deps.Surface.Render(d.scene)
}

// Resize updates the camera aspect and the surface size from the framebuffer
// size. Zero sizes (minimised windows) are ignored.
func (d *Director) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	d.width, d.height = width, height
	d.camera.UpdateAspectRatio(float32(width), float32(height))
	d.deps.Surface.SetSize(width, height)
}

// SetWindowSize records the window size in screen coordinates. It differs
// from the framebuffer size on HiDPI displays. Zero sizes are ignored.
func (d *Director) SetWindowSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	d.cursorW, d.cursorH = width, height
}

// MouseMove retargets the scene parallax rotation from a cursor position in
// screen coordinates. The left and top edges tilt by +Strength, the right
// and bottom edges by -Strength.
func (d *Director) MouseMove(x, y float64) {
	p := d.cfg.Parallax
	nx := animation.MapLinear(float32(x), 0, float32(d.cursorW), 1, -1)
	ny := animation.MapLinear(float32(y), 0, float32(d.cursorH), 1, -1)

	d.parallaxToken.Cancel()
	d.parallaxToken = animation.NewToken()
	opts := animation.Options{Duration: p.Duration, Ease: d.parallaxEase, Token: d.parallaxToken}
	rot := &d.scene.Root.Transform.Rotation
	d.tweens.To(&rot[1], nx*p.Strength, opts)
	d.tweens.To(&rot[0], ny*p.Strength, opts)
}

// Select shows the named entity and hides every other one. Nothing is hidden
// when the target cannot be shown, e.g. because its load failed.
func (d *Director) Select(name string) error {
	target, ok := d.byName[name]
	if !ok {
		return fmt.Errorf("select %q: %w", name, ErrUnknownEntity)
	}
	target.Show()
	if !target.IsVisible() {
		d.log.Debug("select ignored", "entity", name, "state", target.State())
		return nil
	}
	for _, e := range d.entities {
		if e != target {
			e.Hide()
		}
	}
	d.log.Debug("selected", "entity", name, "state", target.State())
	return nil
}

// SelectIndex selects the i-th configured entity.
func (d *Director) SelectIndex(i int) error {
	if i < 0 || i >= len(d.entities) {
		return fmt.Errorf("select #%d: %w", i, ErrUnknownEntity)
	}
	return d.Select(d.entities[i].Name())
}

// SetOrbitEnabled toggles the orbit controls.
func (d *Director) SetOrbitEnabled(enabled bool) {
	d.camera.Enabled = enabled
}

// Orbit rotates the camera by a cursor drag in pixels.
func (d *Director) Orbit(dx, dy float64) {
	rate := d.cfg.Camera.OrbitRate
	d.camera.Orbit(-float32(dx)*rate, float32(dy)*rate)
}

// Zoom moves the camera by scroll steps; positive steps move closer.
func (d *Director) Zoom(steps float64) {
	d.camera.Zoom(-float32(steps) * d.cfg.Camera.ZoomRate)
}

func (d *Director) Scene() *scene.Scene { return d.scene }
func (d *Director) Camera() *scene.OrbitCamera { return d.camera }
func (d *Director) Entities() []*entity.Entity { return d.entities }
func (d *Director) Entity(name string) *entity.Entity { return d.byName[name] }

// Visible returns the names of entities that are showing or shown.
func (d *Director) Visible() []string {
	var names []string
	for _, e := range d.entities {
		if e.IsVisible() {
			names = append(names, e.Name())
		}
	}
	return names
}

// Dispose cancels pending loads and stops every tween. The director cannot
// be reused.
func (d *Director) Dispose() {
	if d.disposed {
		return
	}
	d.disposed = true
	if d.cancel != nil {
		d.cancel()
	}
	for _, e := range d.entities {
		e.Cancel()
	}
	d.tweens.Clear()
	d.log.Info("director disposed")
}
