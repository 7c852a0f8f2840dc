package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func testFrustum() Frustum {
	cam := NewCamera(mgl32.DegToRad(60), 1, 0.1, 100)
	cam.SetPosition(mgl32.Vec3{0, 0, 5})
	cam.LookAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	return FrustumFromVP(cam.GetViewProjectionMatrix())
}

func TestFrustumCulling(t *testing.T) {
	f := testFrustum()
	unit := AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}

	assert.True(t, unit.IntersectsFrustum(&f), "box at the target")
	behind := unit.Transformed(mgl32.Translate3D(0, 0, 20))
	assert.False(t, behind.IntersectsFrustum(&f), "box behind the camera")
	aside := unit.Transformed(mgl32.Translate3D(50, 0, 0))
	assert.False(t, aside.IntersectsFrustum(&f), "box far to the side")
	far := unit.Transformed(mgl32.Translate3D(0, 0, -200))
	assert.False(t, far.IntersectsFrustum(&f), "box past the far plane")
}

func TestAABBTransformedAndExpand(t *testing.T) {
	b := AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{2, 1, 1}}
	r := b.Transformed(mgl32.HomogRotate3DZ(mgl32.DegToRad(90)))
	assert.InDelta(t, -1, r.Min[0], 1e-5)
	assert.InDelta(t, 0, r.Max[0], 1e-5)
	assert.InDelta(t, 2, r.Max[1], 1e-5)

	e := b.Expand(0.5)
	assert.Equal(t, mgl32.Vec3{-0.5, -0.5, -0.5}, e.Min)
	assert.Equal(t, mgl32.Vec3{2.5, 1.5, 1.5}, e.Max)
}
