package scene

import (
	"github.com/Mefin-SR/FlowtrixGame/core"
	"github.com/Mefin-SR/FlowtrixGame/vmath"
)

// Graph allocates nodes and owns the root scope
type Graph struct {
	next core.Handle
	live int
	root *Node
}

// NewGraph creates an empty scene with an active root
func NewGraph() *Graph {
	g := &Graph{}
	g.root = g.alloc("root", core.TagScope, "")
	return g
}

// Root returns the top-level scope
func (g *Graph) Root() *Node { return g.root }

// Live returns the number of nodes that have not been destroyed, root included
func (g *Graph) Live() int { return g.live }

// NewNode creates an active node under the root
func (g *Graph) NewNode(name string, tag core.Tag) *Node {
	return g.NewNodeUnder(g.root, name, tag, "")
}

// NewNodeUnder creates an active node under parent with identity local pose
// prototype is stored on the node for pool routing
func (g *Graph) NewNodeUnder(parent *Node, name string, tag core.Tag, prototype string) *Node {
	n := g.alloc(name, tag, prototype)
	if parent != nil {
		n.SetParent(parent, false)
	}
	return n
}

// NewScope creates a holding scope under the root
func (g *Graph) NewScope(name string) *Node {
	return g.NewNodeUnder(g.root, name, core.TagScope, "")
}

func (g *Graph) alloc(name string, tag core.Tag, prototype string) *Node {
	g.next++
	g.live++
	return &Node{
		graph:     g,
		handle:    g.next,
		name:      name,
		tag:       tag,
		prototype: prototype,
		active:    true,
		local:     vmath.IdentityPose(),
	}
}
