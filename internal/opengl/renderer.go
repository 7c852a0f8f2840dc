package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"particle-morph/core"
	"particle-morph/scene"
)

// Renderer is the OpenGL rendering backend.
type Renderer struct {
	points *PointRenderer

	viewportW int32
	viewportH int32
}

// NewRenderer initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	points, err := newPointRenderer()
	if err != nil {
		return nil, err
	}

	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE) // additive glow

	return &Renderer{points: points}, nil
}

// Version returns the driver's GL version string.
func (r *Renderer) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (r *Renderer) SetViewport(width, height int) {
	r.viewportW = int32(width)
	r.viewportH = int32(height)
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (r *Renderer) Clear(c core.Color) {
	gl.ClearColor(c.R, c.G, c.B, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawPoints draws every node carrying a point cloud whose bounds reach
// into the view frustum, and returns the nodes and points drawn.
func (r *Renderer) DrawPoints(nodes []*scene.Node, viewProj mgl32.Mat4) (drawn, points int) {
	frustum := scene.FrustumFromVP(viewProj)
	for _, n := range nodes {
		box := n.Points.Bounds.Expand(maxPointDrift).Transformed(n.GetWorldMatrix())
		if !box.IntersectsFrustum(&frustum) {
			continue
		}
		r.points.draw(n, viewProj)
		drawn++
		points += n.Points.Count()
	}
	return drawn, points
}

// ReleasePoints frees the GPU buffers of a cloud; it is re-uploaded on next draw.
func (r *Renderer) ReleasePoints(pc *scene.PointCloud) {
	r.points.release(pc)
}

func (r *Renderer) Destroy() {
	r.points.destroy()
}
