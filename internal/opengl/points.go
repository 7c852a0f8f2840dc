package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"particle-morph/scene"
)

// ── Point shaders ────────────────────────────────────────────────────────────

// Each particle sits at inPosition*uScale and drifts along its random vector
// as the cloud collapses, so hidden clouds scatter instead of shrinking to a dot.
const pointVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inRandom;

uniform mat4  uModel;
uniform mat4  uViewProj;
uniform float uTime;
uniform float uScale;
uniform float uSize;

out float vMix;
out float vAlpha;

void main() {
    vec3 pos = inPosition * uScale;
    pos += inRandom * (1.0 - uScale) * 2.0;

    // Slow per-particle wobble.
    float phase = uTime * 0.6 + dot(inRandom, vec3(12.9898, 78.233, 37.719));
    pos += inRandom * 0.015 * sin(phase);

    gl_Position  = uViewProj * uModel * vec4(pos, 1.0);
    gl_PointSize = uSize * (1.25 + 0.5 * inRandom.z);

    vMix   = clamp(0.5 + 0.5 * inRandom.x, 0.0, 1.0);
    vAlpha = uScale;
}
` + "\x00"

// Soft round sprite tinted between the two cloud colours.
const pointFragSrc = `
#version 410 core
in float vMix;
in float vAlpha;

uniform vec3 uColor1;
uniform vec3 uColor2;

out vec4 outColor;

void main() {
    float d = length(gl_PointCoord - vec2(0.5)) * 2.0;
    if (d > 1.0) {
        discard;
    }
    float a = (1.0 - d * d) * vAlpha;
    outColor = vec4(mix(uColor1, uColor2, vMix), a);
}
` + "\x00"

// maxPointDrift bounds how far the vertex shader moves a point from its
// rest position on any axis: |inRandom| <= 1 scaled by 2, plus the wobble.
const maxPointDrift = 2.0 + 0.015

// GPUPoints holds the buffer objects of an uploaded point cloud.
type GPUPoints struct {
	VAO     uint32
	PosVBO  uint32
	RandVBO uint32
	Count   int32
}

// PointRenderer owns the point program.
type PointRenderer struct {
	prog      uint32
	modelLoc  int32
	vpLoc     int32
	timeLoc   int32
	scaleLoc  int32
	sizeLoc   int32
	color1Loc int32
	color2Loc int32
	uploaded  map[*scene.PointCloud]*GPUPoints
}

func newPointRenderer() (*PointRenderer, error) {
	prog, err := newProgram(pointVertSrc, pointFragSrc)
	if err != nil {
		return nil, fmt.Errorf("point shader: %w", err)
	}
	loc := func(name string) int32 {
		return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
	}
	return &PointRenderer{
		prog:      prog,
		modelLoc:  loc("uModel"),
		vpLoc:     loc("uViewProj"),
		timeLoc:   loc("uTime"),
		scaleLoc:  loc("uScale"),
		sizeLoc:   loc("uSize"),
		color1Loc: loc("uColor1"),
		color2Loc: loc("uColor2"),
		uploaded:  make(map[*scene.PointCloud]*GPUPoints),
	}, nil
}

// upload creates the two attribute buffers. Point data is immutable, so
// this happens once per cloud.
func (pr *PointRenderer) upload(pc *scene.PointCloud) *GPUPoints {
	if g, ok := pr.uploaded[pc]; ok {
		return g
	}
	g := &GPUPoints{Count: int32(pc.Count())}
	gl.GenVertexArrays(1, &g.VAO)
	gl.BindVertexArray(g.VAO)

	attrib := func(vbo *uint32, location uint32, data []float32) {
		gl.GenBuffers(1, vbo)
		gl.BindBuffer(gl.ARRAY_BUFFER, *vbo)
		if len(data) > 0 {
			gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
		}
		gl.EnableVertexAttribArray(location)
		gl.VertexAttribPointer(location, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))
	}
	attrib(&g.PosVBO, 0, pc.Positions)
	attrib(&g.RandVBO, 1, pc.Randomness)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	pr.uploaded[pc] = g
	pc.GPUData = g
	return g
}

func (pr *PointRenderer) draw(node *scene.Node, viewProj mgl32.Mat4) {
	pc := node.Points
	if pc.Count() == 0 {
		return
	}
	g := pr.upload(pc)
	m := pc.Material
	model := node.GetWorldMatrix()

	gl.UseProgram(pr.prog)
	gl.UniformMatrix4fv(pr.modelLoc, 1, false, &model[0])
	gl.UniformMatrix4fv(pr.vpLoc, 1, false, &viewProj[0])
	gl.Uniform1f(pr.timeLoc, m.Time)
	gl.Uniform1f(pr.scaleLoc, m.Scale)
	gl.Uniform1f(pr.sizeLoc, m.Size)
	gl.Uniform3f(pr.color1Loc, m.Color1.R, m.Color1.G, m.Color1.B)
	gl.Uniform3f(pr.color2Loc, m.Color2.R, m.Color2.G, m.Color2.B)

	gl.BindVertexArray(g.VAO)
	gl.DrawArrays(gl.POINTS, 0, g.Count)
	gl.BindVertexArray(0)
}

func (pr *PointRenderer) release(pc *scene.PointCloud) {
	g, ok := pr.uploaded[pc]
	if !ok {
		return
	}
	gl.DeleteBuffers(1, &g.PosVBO)
	gl.DeleteBuffers(1, &g.RandVBO)
	gl.DeleteVertexArrays(1, &g.VAO)
	delete(pr.uploaded, pc)
	pc.GPUData = nil
}

func (pr *PointRenderer) destroy() {
	for pc := range pr.uploaded {
		pr.release(pc)
	}
	gl.DeleteProgram(pr.prog)
}
