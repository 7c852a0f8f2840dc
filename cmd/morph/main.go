// Command morph opens a window and morphs configured meshes in and out as
// particle clouds. Keys 1-9 select an entity, O toggles orbit controls,
// left-drag orbits, scroll zooms and Esc quits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"particle-morph/config"
	"particle-morph/core"
	"particle-morph/director"
	"particle-morph/renderer"
)

const (
	statsInterval = 2 * time.Second
	configUsage   = "scene description (YAML, or TOML for .toml files); built-in defaults when empty"
)

func main() {
	configPath := flag.String("config", "", configUsage)
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(*configPath, logger); err != nil {
		logger.Error("morph failed", "err", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	window, err := core.NewWindow(cfg.Window)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	engine, err := renderer.NewRenderEngine(window, logger)
	if err != nil {
		return fmt.Errorf("create render engine: %w", err)
	}
	defer engine.Destroy()

	// The framebuffer can differ from the requested window size on HiDPI.
	cfg.Window.Width, cfg.Window.Height = window.GetFramebufferSize()

	d, err := director.New(cfg, director.Deps{Surface: engine, Logger: logger})
	if err != nil {
		return err
	}
	d.SetWindowSize(window.GetSize())
	defer func() {
		d.Dispose()
		for _, e := range d.Entities() {
			if pc := e.Cloud(); pc != nil {
				engine.Release(pc)
			}
		}
	}()

	in := &input{window: window, director: d, logger: logger, orbit: cfg.Camera.Orbit}
	in.bind()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := d.Init(ctx); err != nil {
		return err
	}

	title := ""
	frames, lastReport := 0, time.Now()
	for !window.ShouldClose() {
		window.PollEvents()
		if err := d.Frame(); err != nil {
			if errors.Is(err, director.ErrDisposed) {
				return nil
			}
			return fmt.Errorf("frame: %w", err)
		}
		if t := windowTitle(cfg.Window.Title, d.Visible()); t != title {
			window.SetTitle(t)
			title = t
		}

		frames++
		if since := time.Since(lastReport); since >= statsInterval {
			objects, culled, points := engine.Stats()
			logger.Debug("frame stats",
				"fps", float64(frames)/since.Seconds(),
				"objects", objects, "culled", culled, "points", points)
			frames, lastReport = 0, time.Now()
		}
	}
	return nil
}

func windowTitle(base string, visible []string) string {
	if len(visible) == 0 {
		return base
	}
	return base + " - " + strings.Join(visible, ", ")
}

// input routes window callbacks to the director.
type input struct {
	window   *core.Window
	director *director.Director
	logger   *slog.Logger

	orbit        bool
	dragging     bool
	lastX, lastY float64
}

func (in *input) bind() {
	in.window.SetResizeCallback(in.director.Resize)
	in.window.SetWindowSizeCallback(in.director.SetWindowSize)
	in.window.SetKeyCallback(in.key)
	in.window.SetCursorCallback(in.cursor)
	in.window.SetScrollCallback(func(_, yoff float64) {
		in.director.Zoom(yoff)
	})
}

func (in *input) key(key int) {
	switch {
	case key >= core.Key1 && key <= core.Key9:
		if err := in.director.SelectIndex(key - core.Key1); err != nil {
			in.logger.Debug("no entity for key", "index", key-core.Key1+1)
		}
	case key == core.KeyO:
		in.orbit = !in.orbit
		in.director.SetOrbitEnabled(in.orbit)
		in.logger.Info("orbit controls", "enabled", in.orbit)
	case key == core.KeyEscape:
		in.window.SetShouldClose(true)
	}
}

func (in *input) cursor(x, y float64) {
	in.director.MouseMove(x, y)

	pressed := in.window.IsMouseButtonPressed(core.MouseButtonLeft)
	if pressed && in.dragging {
		in.director.Orbit(x-in.lastX, y-in.lastY)
	}
	in.dragging = pressed
	in.lastX, in.lastY = x, y
}
