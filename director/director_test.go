package director

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"particle-morph/config"
	"particle-morph/core"
	"particle-morph/entity"
	"particle-morph/scene"
)

type fakeClock struct {
	now float64
}

func (c *fakeClock) Elapsed() float64 { return c.now }

type fakeSurface struct {
	width, height int
	renders       int
	err           error
}

func (s *fakeSurface) SetSize(width, height int) {
	s.width, s.height = width, height
}

func (s *fakeSurface) Render(*scene.Scene) error {
	s.renders++
	return s.err
}

type fixture struct {
	d       *Director
	clock   *fakeClock
	surface *fakeSurface
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Transition.Ease = "linear"
	for i := range cfg.Entities {
		cfg.Entities[i].Count = 500
		cfg.Entities[i].Seed = int64(i + 1)
	}
	return cfg
}

func newFixture(t *testing.T, cfg config.Config) *fixture {
	t.Helper()
	f := &fixture{clock: &fakeClock{}, surface: &fakeSurface{}}
	d, err := New(cfg, Deps{
		Surface: f.surface,
		Clock:   f.clock,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	f.d = d
	t.Cleanup(d.Dispose)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Init(ctx))
	require.NoError(t, d.WaitLoaded(ctx))
	return f
}

// run advances the clock at 60Hz for the given number of seconds.
func (f *fixture) run(t *testing.T, seconds float64) {
	t.Helper()
	frames := int(seconds*60 + 0.5)
	for i := 0; i < frames; i++ {
		f.clock.now += 1.0 / 60
		require.NoError(t, f.d.Frame())
	}
}

func assertColorNear(t *testing.T, want, got core.Color) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, 1e-4)
	assert.InDelta(t, want.G, got.G, 1e-4)
	assert.InDelta(t, want.B, got.B, 1e-4)
	assert.InDelta(t, want.A, got.A, 1e-4)
}

func TestSelectSwapsEntities(t *testing.T) {
	f := newFixture(t, testConfig())
	skull, horse := f.d.Entity("skull"), f.d.Entity("horse")
	require.NotNil(t, skull)
	require.NotNil(t, horse)

	assert.Equal(t, entity.Showing, skull.State())
	assert.Equal(t, entity.Ready, horse.State())

	f.run(t, 1)
	assert.Equal(t, entity.Shown, skull.State())
	assert.Equal(t, []string{"skull"}, f.d.Visible())
	assertColorNear(t, skull.Config().Background, f.d.Scene().Background)

	require.NoError(t, f.d.Select("horse"))
	assert.Equal(t, entity.Showing, horse.State())
	assert.Equal(t, entity.Hiding, skull.State())

	for i := 0; i < 60; i++ {
		f.run(t, 1.0/60)
		assert.LessOrEqual(t, len(f.d.Visible()), 1)
	}
	assert.Equal(t, entity.Shown, horse.State())
	assert.Equal(t, entity.Ready, skull.State())
	assert.False(t, f.d.Scene().Contains(skull.Node()))
	assert.True(t, f.d.Scene().Contains(horse.Node()))
	assertColorNear(t, horse.Config().Background, f.d.Scene().Background)
}

func TestSelectIndexAndUnknown(t *testing.T) {
	f := newFixture(t, testConfig())

	err := f.d.Select("dragon")
	assert.True(t, errors.Is(err, ErrUnknownEntity))
	assert.True(t, errors.Is(f.d.SelectIndex(7), ErrUnknownEntity))
	assert.True(t, errors.Is(f.d.SelectIndex(-1), ErrUnknownEntity))

	require.NoError(t, f.d.SelectIndex(1))
	assert.Equal(t, entity.Showing, f.d.Entity("horse").State())
	assert.Equal(t, entity.Hiding, f.d.Entity("skull").State())
}

func TestFrameRendersOncePerCall(t *testing.T) {
	f := newFixture(t, testConfig())
	f.run(t, 0.5)
	assert.Equal(t, 30, f.surface.renders)

	f.surface.err = errors.New("lost context")
	assert.Error(t, f.d.Frame())
}

func TestTickOnlyVisibleEntities(t *testing.T) {
	f := newFixture(t, testConfig())
	f.run(t, 0.5)

	assert.InDelta(t, 0.5, f.d.Entity("skull").Cloud().Material.Time, 1e-3)
	assert.Zero(t, f.d.Entity("horse").Cloud().Material.Time)
}

func TestTickContinuesWhileHiding(t *testing.T) {
	f := newFixture(t, testConfig())
	skull := f.d.Entity("skull")
	f.run(t, 1)
	require.NoError(t, f.d.Select("horse"))

	f.run(t, 0.5)
	require.Equal(t, entity.Hiding, skull.State())
	assert.InDelta(t, 1.5, skull.Cloud().Material.Time, 1e-3)

	f.run(t, 0.5)
	require.Equal(t, entity.Ready, skull.State())
	frozen := skull.Cloud().Material.Time
	f.run(t, 0.5)
	assert.Equal(t, frozen, skull.Cloud().Material.Time)
}

func TestResizeKeepsEntityState(t *testing.T) {
	f := newFixture(t, testConfig())
	assert.Equal(t, 1280, f.surface.width)
	assert.Equal(t, 720, f.surface.height)

	f.run(t, 0.3)
	before := f.d.Entity("skull").State()
	scale := f.d.Entity("skull").Cloud().Material.Scale

	f.d.Resize(800, 400)
	assert.Equal(t, 800, f.surface.width)
	assert.Equal(t, 400, f.surface.height)
	assert.InDelta(t, 2, f.d.Camera().AspectRatio, 1e-6)
	assert.Equal(t, before, f.d.Entity("skull").State())
	assert.Equal(t, scale, f.d.Entity("skull").Cloud().Material.Scale)

	f.d.Resize(0, 0)
	assert.Equal(t, 800, f.surface.width)
	assert.InDelta(t, 2, f.d.Camera().AspectRatio, 1e-6)
}

func TestMouseParallaxReachesTarget(t *testing.T) {
	cfg := testConfig()
	f := newFixture(t, cfg)
	root := f.d.Scene().Root

	// The right edge turns the scene by -Strength, the left by +Strength.
	f.d.MouseMove(1280, 360)
	f.run(t, float64(cfg.Parallax.Duration)+0.1)
	assert.InDelta(t, -cfg.Parallax.Strength, root.Transform.Rotation[1], 1e-4)
	assert.InDelta(t, 0, root.Transform.Rotation[0], 1e-4)

	// A new target mid-flight replaces the old one.
	f.d.MouseMove(1280, 720)
	f.run(t, float64(cfg.Parallax.Duration)/2)
	f.d.MouseMove(0, 0)
	f.run(t, float64(cfg.Parallax.Duration)+0.1)
	assert.InDelta(t, cfg.Parallax.Strength, root.Transform.Rotation[1], 1e-4)
	assert.InDelta(t, cfg.Parallax.Strength, root.Transform.Rotation[0], 1e-4)

	f.d.MouseMove(640, 720)
	f.run(t, float64(cfg.Parallax.Duration)+0.1)
	assert.InDelta(t, 0, root.Transform.Rotation[1], 1e-4)
	assert.InDelta(t, -cfg.Parallax.Strength, root.Transform.Rotation[0], 1e-4)
}

func TestMouseParallaxUsesWindowCoordinates(t *testing.T) {
	cfg := testConfig()
	cfg.Window.Width, cfg.Window.Height = 2560, 1440 // framebuffer at 2x
	f := newFixture(t, cfg)
	f.d.SetWindowSize(1280, 720)
	root := f.d.Scene().Root

	f.d.MouseMove(1280, 720)
	f.run(t, float64(cfg.Parallax.Duration)+0.1)
	assert.InDelta(t, -cfg.Parallax.Strength, root.Transform.Rotation[1], 1e-4)
	assert.InDelta(t, -cfg.Parallax.Strength, root.Transform.Rotation[0], 1e-4)

	f.d.MouseMove(640, 360)
	f.run(t, float64(cfg.Parallax.Duration)+0.1)
	assert.InDelta(t, 0, root.Transform.Rotation[1], 1e-4)
	assert.InDelta(t, 0, root.Transform.Rotation[0], 1e-4)

	// A framebuffer resize leaves the cursor space alone.
	f.d.Resize(2000, 1000)
	f.d.SetWindowSize(0, 0)
	f.d.MouseMove(0, 720)
	f.run(t, float64(cfg.Parallax.Duration)+0.1)
	assert.InDelta(t, cfg.Parallax.Strength, root.Transform.Rotation[1], 1e-4)
	assert.InDelta(t, -cfg.Parallax.Strength, root.Transform.Rotation[0], 1e-4)
}

func TestOrbitControls(t *testing.T) {
	f := newFixture(t, testConfig())
	cam := f.d.Camera()
	start := cam.Position
	assert.InDelta(t, 1, start.Y(), 1e-5)
	assert.InDelta(t, 5, start.Z(), 1e-5)
	assert.False(t, cam.Enabled, "disabled by default")
	f.d.Orbit(120, 40)
	assert.Equal(t, start, cam.Position)

	f.d.SetOrbitEnabled(false)
	f.d.Orbit(120, 40)
	f.d.Zoom(2)
	assert.Equal(t, start, cam.Position)

	f.d.SetOrbitEnabled(true)
	f.d.Orbit(120, 40)
	assert.NotEqual(t, start, cam.Position)

	dist := cam.Distance
	f.d.Zoom(1)
	assert.Less(t, cam.Distance, dist)
}

func TestFailedLoadDoesNotStopFrames(t *testing.T) {
	cfg := testConfig()
	cfg.Entities = append(cfg.Entities, entity.Config{Name: "ghost", File: "does/not/exist.obj", Count: 10})
	f := newFixture(t, cfg)

	ghost := f.d.Entity("ghost")
	assert.Equal(t, entity.Unloaded, ghost.State())

	f.run(t, 1)
	require.Equal(t, []string{"skull"}, f.d.Visible())

	require.NoError(t, f.d.Select("ghost"))
	assert.Equal(t, entity.Unloaded, ghost.State())
	assert.Equal(t, entity.Shown, f.d.Entity("skull").State(), "a failed target must not hide the current one")
	f.run(t, 1)
	assert.Equal(t, []string{"skull"}, f.d.Visible())
	assert.Equal(t, 120, f.surface.renders)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Entities = nil
	_, err := New(cfg, Deps{Surface: &fakeSurface{}})
	assert.Error(t, err)

	_, err = New(testConfig(), Deps{})
	assert.Error(t, err)
}

func TestDispose(t *testing.T) {
	f := newFixture(t, testConfig())
	f.d.Dispose()
	assert.ErrorIs(t, f.d.Frame(), ErrDisposed)
	assert.ErrorIs(t, f.d.Init(context.Background()), ErrDisposed)
	f.d.Dispose()
}
