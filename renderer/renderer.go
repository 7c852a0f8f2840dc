package renderer

import (
	"errors"
	"fmt"
	"log/slog"

	"particle-morph/core"
	"particle-morph/internal/opengl"
	"particle-morph/scene"
)

// ErrNoCamera is returned by Render when the scene has no camera.
var ErrNoCamera = errors.New("no scene or camera")

// RenderEngine is the high-level renderer that drives the OpenGL backend
// and presents into a window.
type RenderEngine struct {
	gl     *opengl.Renderer
	window *core.Window

	width, height int

	// Per-frame stats (populated during Render)
	lastObjects int
	lastCulled  int
	lastPoints  int
}

func NewRenderEngine(window *core.Window, logger *slog.Logger) (*RenderEngine, error) {
	glRenderer, err := opengl.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenGL renderer: %w", err)
	}

	w, h := window.GetFramebufferSize()
	re := &RenderEngine{gl: glRenderer, window: window}
	re.SetSize(w, h)

	logger.Info("render engine initialized", "backend", "opengl", "version", glRenderer.Version())
	return re, nil
}

// SetSize resizes the drawing surface in framebuffer pixels.
func (re *RenderEngine) SetSize(width, height int) {
	re.width, re.height = width, height
	re.gl.SetViewport(width, height)
}

// Size returns the current surface size.
func (re *RenderEngine) Size() (int, int) {
	return re.width, re.height
}

// Render clears to the scene background, draws every attached point cloud
// and presents the frame.
func (re *RenderEngine) Render(s *scene.Scene) error {
	if s == nil || s.Camera == nil {
		return ErrNoCamera
	}
	re.gl.Clear(s.Background)

	nodes := s.GetVisibleNodes()
	re.lastObjects, re.lastPoints = re.gl.DrawPoints(nodes, s.Camera.GetViewProjectionMatrix())
	re.lastCulled = len(nodes) - re.lastObjects

	re.window.SwapBuffers()
	return nil
}

// Stats returns the drawn object, culled object and drawn point counts of
// the last frame.
func (re *RenderEngine) Stats() (objects, culled, points int) {
	return re.lastObjects, re.lastCulled, re.lastPoints
}

// Release frees GPU resources held for a point cloud.
func (re *RenderEngine) Release(pc *scene.PointCloud) {
	re.gl.ReleasePoints(pc)
}

func (re *RenderEngine) Destroy() {
	re.gl.Destroy()
}
