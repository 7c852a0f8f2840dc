package scene

import "particle-morph/core"

// Scene manages a collection of nodes, the active camera and the backdrop.
type Scene struct {
	Root       *Node
	Camera     *Camera
	Background core.Color
}

func NewScene() *Scene {
	return &Scene{
		Root:       NewNode("Root"),
		Background: core.ColorBlack,
	}
}

func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

func (s *Scene) AddNode(node *Node) {
	s.Root.AddChild(node)
}

func (s *Scene) RemoveNode(node *Node) {
	s.Root.RemoveChild(node)
}

// Contains reports whether node is currently attached under the root.
func (s *Scene) Contains(node *Node) bool {
	for p := node.Parent; p != nil; p = p.Parent {
		if p == s.Root {
			return true
		}
	}
	return false
}

// GetVisibleNodes returns all visible nodes that carry a point cloud.
func (s *Scene) GetVisibleNodes() []*Node {
	var visible []*Node
	s.Root.Traverse(func(node *Node) {
		if node.Visible && node.Points != nil {
			visible = append(visible, node)
		}
	})
	return visible
}
