package node

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/datmesh/datfile"
	"github.com/notargets/datmesh/types"
)

var ErrIDsNotComputed = errors.New("ids not computed")

const (
	KeyNode       = "NODE"
	KeyFiberNode  = "FNODE"
	KeyCoordinate = "COORD"
)

// Node is a point in 3-space. Identity is the pointer, ID is transient.
type Node struct {
	Coords r3.Vec
	ID     types.ID
	Fibers Fibers
	Data   map[string][]float64 // attached per-node quantities

	nodesets [types.NumNodesetKinds][]*Nodeset // back-references, rebuilt by Link
}

func NewNode(coords r3.Vec) *Node {
	return &Node{
		Coords: coords,
		Fibers: make(Fibers),
		Data:   make(map[string][]float64),
	}
}

// Nodesets returns the nodesets of the given kind containing this node,
// as of the last rebuild of back-references.
func (n *Node) Nodesets(kind types.NodesetKind) []*Nodeset {
	return n.nodesets[kind]
}

// ClearNodesets drops all back-references.
func (n *Node) ClearNodesets() {
	for i := range n.nodesets {
		n.nodesets[i] = nil
	}
}

func (n *Node) addNodeset(ns *Nodeset) {
	for _, existing := range n.nodesets[ns.Kind] {
		if existing == ns {
			return
		}
	}
	n.nodesets[ns.Kind] = append(n.nodesets[ns.Kind], ns)
}

// GetID returns the assigned id or ErrIDsNotComputed.
func (n *Node) GetID() (int, error) {
	id, ok := n.ID.Get()
	if !ok {
		return 0, fmt.Errorf("node at %v: %w", n.Coords, ErrIDsNotComputed)
	}
	return id, nil
}

// Line renders the NODE COORDS record. Nodes with fibers use FNODE.
func (n *Node) Line() (line string, err error) {
	var id int
	if id, err = n.GetID(); err != nil {
		return
	}
	key := KeyNode
	if len(n.Fibers) > 0 {
		key = KeyFiberNode
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d %s %s", key, id, KeyCoordinate,
		strings.Join(datfile.FormatFloats(n.Coords.X, n.Coords.Y, n.Coords.Z), " "))
	if len(n.Fibers) > 0 {
		sb.WriteString(" ")
		sb.WriteString(datfile.LineOptionList(n.Fibers.Options()))
	}
	return sb.String(), nil
}

// ParseNode reads a "[F]NODE <id> COORD x y z [FIBER fx fy fz]*" record.
func ParseNode(line string) (n *Node, id int, err error) {
	key := KeyNode
	if strings.HasPrefix(strings.TrimSpace(line), KeyFiberNode) {
		key = KeyFiberNode
	}
	if id, err = datfile.ReadInt(line, key); err != nil {
		return
	}
	var coords []float64
	if coords, err = datfile.ReadFloats(line, KeyCoordinate, 3); err != nil {
		return nil, 0, fmt.Errorf("node %d: %w", id, err)
	}
	n = NewNode(r3.Vec{X: coords[0], Y: coords[1], Z: coords[2]})
	if n.Fibers, err = ParseFibers(line); err != nil {
		return nil, 0, fmt.Errorf("node %d: %w", id, err)
	}
	return
}
