package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Transform is a TRS transform with Euler rotation (radians, applied Y then X then Z).
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

func (t Transform) GetMatrix() mgl32.Mat4 {
	translation := mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	rotation := mgl32.HomogRotate3DY(t.Rotation[1]).
		Mul4(mgl32.HomogRotate3DX(t.Rotation[0])).
		Mul4(mgl32.HomogRotate3DZ(t.Rotation[2]))
	scale := mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2])
	return translation.Mul4(rotation).Mul4(scale)
}

// Node represents an object in the scene graph
type Node struct {
	ID        uuid.UUID
	Name      string
	Transform Transform
	Parent    *Node
	Children  []*Node
	Points    *PointCloud
	Visible   bool
}

func NewNode(name string) *Node {
	return &Node{
		ID:        uuid.New(),
		Name:      name,
		Transform: NewTransform(),
		Children:  make([]*Node, 0),
		Visible:   true,
	}
}

func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// GetWorldMatrix composes the transforms from the root down to n.
// Transforms are tweened every frame, so nothing is cached.
func (n *Node) GetWorldMatrix() mgl32.Mat4 {
	local := n.Transform.GetMatrix()
	if n.Parent != nil {
		return n.Parent.GetWorldMatrix().Mul4(local)
	}
	return local
}

// Traverse visits all nodes in the graph
func (n *Node) Traverse(callback func(*Node)) {
	callback(n)
	for _, child := range n.Children {
		child.Traverse(callback)
	}
}
