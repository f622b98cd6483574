package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Mefin-SR/FlowtrixGame/core"
	"github.com/Mefin-SR/FlowtrixGame/vmath"
)

// Node is one object in the scene tree
// Pose is stored relative to the parent; world pose is derived on demand
type Node struct {
	graph     *Graph
	handle    core.Handle
	name      string
	tag       core.Tag
	prototype string

	active    bool
	destroyed bool

	parent   *Node
	children []*Node
	local    vmath.Pose
}

func (n *Node) Handle() core.Handle {
	return n.handle
}

func (n *Node) Name() string {
	return n.name
}

func (n *Node) Tag() core.Tag {
	return n.tag
}

// Prototype returns the prototype id the node was constructed from, empty for plain nodes
func (n *Node) Prototype() string {
	return n.prototype
}

// Active reports the node's own active flag
func (n *Node) Active() bool {
	return n.active
}

// SetActive toggles the node's own active flag
func (n *Node) SetActive(active bool) {
	if n.destroyed {
		return
	}
	n.active = active
}

// ActiveInHierarchy is true when the node and every ancestor are active
func (n *Node) ActiveInHierarchy() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if !cur.active {
			return false
		}
	}
	return true
}

// Destroyed reports whether Destroy was called
func (n *Node) Destroyed() bool {
	return n.destroyed
}

func (n *Node) Parent() *Node {
	return n.parent
}

// ChildCount returns the number of direct children
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Child returns the i-th direct child
func (n *Node) Child(i int) *Node {
	return n.children[i]
}

// Children returns a copy of the direct children in attach order
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// CountTagged counts direct children carrying tag
func (n *Node) CountTagged(tag core.Tag) int {
	count := 0
	for _, c := range n.children {
		if c.tag == tag {
			count++
		}
	}
	return count
}

// Find returns the first direct child with the given name
func (n *Node) Find(name string) *Node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// FindTagged returns the first direct child with the given tag
func (n *Node) FindTagged(tag core.Tag) *Node {
	for _, c := range n.children {
		if c.tag == tag {
			return c
		}
	}
	return nil
}

// SetParent moves the node under parent
// keepWorld preserves the current world pose; otherwise the local pose is kept as is
func (n *Node) SetParent(parent *Node, keepWorld bool) {
	if n.destroyed || parent == n {
		return
	}
	var world vmath.Pose
	if keepWorld {
		world = n.WorldPose()
	}
	n.detach()
	if parent != nil {
		parent.children = append(parent.children, n)
	}
	n.parent = parent
	if keepWorld {
		n.SetWorldPose(world)
	}
}

func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			copy(p.children[i:], p.children[i+1:])
			p.children[len(p.children)-1] = nil
			p.children = p.children[:len(p.children)-1]
			break
		}
	}
	n.parent = nil
}

func (n *Node) LocalPose() vmath.Pose {
	return n.local
}

func (n *Node) SetLocalPose(p vmath.Pose) {
	n.local = p
}

func (n *Node) LocalPosition() mgl64.Vec3 {
	return n.local.Position
}

func (n *Node) SetLocalPosition(pos mgl64.Vec3) {
	n.local.Position = pos
}

func (n *Node) LocalRotation() mgl64.Quat {
	return n.local.Rotation
}

func (n *Node) SetLocalRotation(rot mgl64.Quat) {
	n.local.Rotation = rot
}

// WorldPose composes the local pose with every ancestor
func (n *Node) WorldPose() vmath.Pose {
	pose := n.local
	for p := n.parent; p != nil; p = p.parent {
		pose = p.local.Compose(pose)
	}
	return pose
}

// SetWorldPose sets the local pose so the node lands on the given world pose
func (n *Node) SetWorldPose(world vmath.Pose) {
	if n.parent == nil {
		n.local = world
		return
	}
	n.local = n.parent.WorldPose().Relative(world)
}

// SetWorldRotation keeps the local position and sets the world orientation
func (n *Node) SetWorldRotation(rot mgl64.Quat) {
	if n.parent == nil {
		n.local.Rotation = rot
		return
	}
	n.local.Rotation = n.parent.WorldPose().Rotation.Inverse().Mul(rot).Normalize()
}

// WorldPosition is a shorthand for WorldPose().Position
func (n *Node) WorldPosition() mgl64.Vec3 {
	return n.WorldPose().Position
}

// Forward returns the world forward axis
func (n *Node) Forward() mgl64.Vec3 {
	return n.WorldPose().Forward()
}

// InverseTransformPoint maps a world point into this node's local frame
func (n *Node) InverseTransformPoint(world mgl64.Vec3) mgl64.Vec3 {
	return n.WorldPose().InverseTransformPoint(world)
}

// Destroy detaches the node and its subtree; destroyed nodes ignore further mutation
func (n *Node) Destroy() {
	if n.destroyed {
		return
	}
	n.detach()
	n.destroyTree()
}

func (n *Node) destroyTree() {
	for _, c := range n.children {
		c.parent = nil
		c.destroyTree()
	}
	n.children = nil
	n.active = false
	n.destroyed = true
	if n.graph != nil {
		n.graph.live--
	}
}
