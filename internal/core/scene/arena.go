package scene

import (
	"errors"

	"github.com/zeusync/motorig/internal/core/physics"
	"github.com/zeusync/motorig/internal/core/render"
)

var (
	ErrNotAComponent = errors.New("not a scene component")
	ErrAlreadyOwned  = errors.New("component already has a parent")
	ErrCycle         = errors.New("component would become its own ancestor")
	ErrNotAChild     = errors.New("component is not a child of parent")
)

// Handle refers to a node in an Arena. The zero Handle is never valid, and a
// handle goes stale once its node is destroyed.
type Handle struct {
	index uint32
	gen   uint32
}

func (h Handle) IsZero() bool { return h.gen == 0 }

// Tick is passed to every node's update.
type Tick struct {
	Dt    float64
	Frame uint64
}

type node struct {
	gen      uint32
	alive    bool
	parented bool
	body     *physics.Body
	payload  Payload
	children []Handle
}

// Arena owns scene nodes. Each node optionally owns one body, positioned in
// world space by whoever created it; children never inherit transforms.
type Arena struct {
	nodes     []node
	free      []uint32
	destroyer physics.BodyDestroyer
}

func NewArena(destroyer physics.BodyDestroyer) *Arena {
	return &Arena{destroyer: destroyer}
}

// New adds a root node.
func (a *Arena) New(body *physics.Body, payload Payload) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.nodes = append(a.nodes, node{})
		idx = uint32(len(a.nodes) - 1)
	}
	nd := &a.nodes[idx]
	nd.gen++
	nd.alive = true
	nd.parented = false
	nd.body = body
	nd.payload = payload
	nd.children = nil
	return Handle{index: idx, gen: nd.gen}
}

func (a *Arena) get(h Handle) (*node, error) {
	if h.gen == 0 || int(h.index) >= len(a.nodes) {
		return nil, ErrNotAComponent
	}
	nd := &a.nodes[h.index]
	if !nd.alive || nd.gen != h.gen {
		return nil, ErrNotAComponent
	}
	return nd, nil
}

func (a *Arena) Valid(h Handle) bool {
	_, err := a.get(h)
	return err == nil
}

// Len returns the number of live nodes.
func (a *Arena) Len() int { return len(a.nodes) - len(a.free) }

func (a *Arena) Body(h Handle) *physics.Body {
	if nd, err := a.get(h); err == nil {
		return nd.body
	}
	return nil
}

func (a *Arena) Payload(h Handle) Payload {
	if nd, err := a.get(h); err == nil {
		return nd.payload
	}
	return nil
}

func (a *Arena) Children(h Handle) []Handle {
	nd, err := a.get(h)
	if err != nil {
		return nil
	}
	out := make([]Handle, 0, len(nd.children))
	for _, c := range nd.children {
		if a.Valid(c) {
			out = append(out, c)
		}
	}
	return out
}

func (a *Arena) AddChild(parent, child Handle) error {
	p, err := a.get(parent)
	if err != nil {
		return err
	}
	c, err := a.get(child)
	if err != nil {
		return err
	}
	if c.parented {
		return ErrAlreadyOwned
	}
	if parent == child || a.contains(child, parent) {
		return ErrCycle
	}
	c.parented = true
	p.children = append(p.children, child)
	return nil
}

// RemoveChild detaches child from parent without destroying it; the caller
// takes over ownership.
func (a *Arena) RemoveChild(parent, child Handle) error {
	p, err := a.get(parent)
	if err != nil {
		return err
	}
	c, err := a.get(child)
	if err != nil {
		return err
	}
	for i, h := range p.children {
		if h == child {
			p.children = append(p.children[:i], p.children[i+1:]...)
			c.parented = false
			return nil
		}
	}
	return ErrNotAChild
}

// contains reports whether target is root or one of its descendants.
func (a *Arena) contains(root, target Handle) bool {
	found := false
	a.Walk(root, func(h Handle) bool {
		if h == target {
			found = true
			return false
		}
		return true
	})
	return found
}

// Walk visits h and its descendants in pre-order until fn returns false.
func (a *Arena) Walk(h Handle, fn func(Handle) bool) {
	a.walk(h, fn)
}

func (a *Arena) walk(h Handle, fn func(Handle) bool) bool {
	nd, err := a.get(h)
	if err != nil {
		return true
	}
	if !fn(h) {
		return false
	}
	for _, c := range nd.children {
		if !a.walk(c, fn) {
			return false
		}
	}
	return true
}

// Draw renders h and then its children. Each node sets up its own body's
// world transform between Save and Restore, so nothing compounds. A node
// without a body draws its payload in world coordinates.
func (a *Arena) Draw(h Handle, s render.Surface) error {
	nd, err := a.get(h)
	if err != nil {
		return err
	}
	s.Save()
	if nd.body != nil {
		s.Translate(physics.Pt(nd.body.GetPosition()))
		s.Rotate(nd.body.GetAngle())
	}
	drawPayload(s, nd.body, nd.payload)
	s.Restore()
	for _, c := range nd.children {
		if a.Valid(c) {
			_ = a.Draw(c, s)
		}
	}
	return nil
}

// Update runs h's update and then its children's, depth-first pre-order.
func (a *Arena) Update(h Handle, t Tick) error {
	nd, err := a.get(h)
	if err != nil {
		return err
	}
	updateKind(nd.body, nd.payload, t)
	for _, c := range nd.children {
		if a.Valid(c) {
			_ = a.Update(c, t)
		}
	}
	return nil
}

// Destroy releases children first, then h's own body, and frees the slot.
func (a *Arena) Destroy(h Handle) error {
	nd, err := a.get(h)
	if err != nil {
		return err
	}
	children := nd.children
	for _, c := range children {
		if a.Valid(c) {
			_ = a.Destroy(c)
		}
	}

	nd = &a.nodes[h.index]
	if nd.body != nil && a.destroyer != nil {
		a.destroyer.DestroyBody(nd.body)
	}
	nd.alive = false
	nd.parented = false
	nd.body = nil
	nd.payload = nil
	nd.children = nil
	a.free = append(a.free, h.index)
	return nil
}
