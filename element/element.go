package element

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/notargets/datmesh/datfile"
	"github.com/notargets/datmesh/node"
	"github.com/notargets/datmesh/types"
)

// Element is a cell of the discretization. Nodes are owned by the
// Discretization; order is significant and encodes the face/edge topology.
type Element struct {
	ID      types.ID
	Type    string // solver formulation, e.g. SOLIDH8
	Shape   Shape
	Nodes   []*node.Node
	Options datfile.Options
	Fibers  node.Fibers
	Data    map[string][]float64

	shapeName string // only for Generic
}

// New builds an element of a known shape. The node count must match the shape.
func New(elType string, shape Shape, nodes []*node.Node) (e *Element, err error) {
	if !shape.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownShape, shape)
	}
	if len(nodes) != shape.NumNodes() {
		return nil, fmt.Errorf("you tried to create a %s element with %d nodes, need %d",
			shape, len(nodes), shape.NumNodes())
	}
	return newElement(elType, shape, nodes), nil
}

func newElement(elType string, shape Shape, nodes []*node.Node) *Element {
	return &Element{
		Type:   elType,
		Shape:  shape,
		Nodes:  nodes,
		Fibers: make(node.Fibers),
		Data:   make(map[string][]float64),
	}
}

// Create is the element factory. Unknown shape names fail when strict is set,
// otherwise they yield a Generic element carrying the name.
func Create(elType, shapeName string, nodes []*node.Node, strict bool) (*Element, error) {
	shape, err := ParseShape(shapeName)
	if err != nil {
		if strict {
			return nil, err
		}
		e := newElement(elType, Generic, nodes)
		e.shapeName = shapeName
		return e, nil
	}
	return New(elType, shape, nodes)
}

func (e *Element) ShapeName() string {
	if e.Shape == Generic {
		return e.shapeName
	}
	return e.Shape.String()
}

// Dim is the topological dimension, -1 for Generic elements.
func (e *Element) Dim() int { return e.Shape.Dim() }

func (e *Element) sub(indices [][]int, shapes func(i int) Shape) (subs []*Element) {
	subs = make([]*Element, len(indices))
	for i, idx := range indices {
		nodes := make([]*node.Node, len(idx))
		for j, k := range idx {
			nodes[j] = e.Nodes[k]
		}
		subs[i] = newElement("", shapes(i), nodes)
	}
	return
}

// Faces returns transient face elements in the canonical order of the shape.
// Surface shapes return themselves, lines and vertices return none.
func (e *Element) Faces() ([]*Element, error) {
	si := e.Shape.info()
	if si == nil {
		return nil, fmt.Errorf("%w: faces of %s", ErrNotImplemented, e.ShapeName())
	}
	if si.dim == 2 {
		return []*Element{e}, nil
	}
	return e.sub(si.faces, func(i int) Shape { return si.faceShapes[i] }), nil
}

// Edges returns transient edge elements. Lines return themselves.
func (e *Element) Edges() ([]*Element, error) {
	si := e.Shape.info()
	if si == nil {
		return nil, fmt.Errorf("%w: edges of %s", ErrNotImplemented, e.ShapeName())
	}
	if si.dim == 1 {
		return []*Element{e}, nil
	}
	return e.sub(si.edges, func(int) Shape { return si.edgeShape }), nil
}

// NodeIDs returns the ids of the element's nodes in order.
func (e *Element) NodeIDs() (ids []int, err error) {
	ids = make([]int, len(e.Nodes))
	for i, n := range e.Nodes {
		if ids[i], err = n.GetID(); err != nil {
			return nil, err
		}
	}
	return
}

// SharedNodesets returns the nodesets of kind that contain every node of
// the element, based on the nodes' back-references.
func (e *Element) SharedNodesets(kind types.NodesetKind) (shared []*node.Nodeset) {
	if len(e.Nodes) == 0 {
		return nil
	}
	for _, ns := range e.Nodes[0].Nodesets(kind) {
		inAll := true
		for _, n := range e.Nodes[1:] {
			if !ns.Contains(n) {
				inAll = false
				break
			}
		}
		if inAll {
			shared = append(shared, ns)
		}
	}
	return
}

func (e *Element) DPoints() []*node.Nodeset { return e.SharedNodesets(types.DPoint) }
func (e *Element) DLines() []*node.Nodeset { return e.SharedNodesets(types.DLine) }
func (e *Element) DSurfs() []*node.Nodeset { return e.SharedNodesets(types.DSurf) }
func (e *Element) DVols() []*node.Nodeset { return e.SharedNodesets(types.DVol) }

// Line renders "<id> <TYPE> <SHAPE> n1 .. nK [KEY v..]* [FIBER fx fy fz]*".
func (e *Element) Line() (line string, err error) {
	id, ok := e.ID.Get()
	if !ok {
		return "", fmt.Errorf("%s element: %w", e.ShapeName(), node.ErrIDsNotComputed)
	}
	var ids []int
	if ids, err = e.NodeIDs(); err != nil {
		return
	}
	opts := make(datfile.Options, 0, 1+len(e.Options))
	nodeValues := make([]string, len(ids))
	for i, nid := range ids {
		nodeValues[i] = strconv.Itoa(nid)
	}
	opts = append(opts, datfile.Option{Key: e.ShapeName(), Values: nodeValues})
	opts = append(opts, e.Options...)
	opts = append(opts, e.Fibers.Options()...)
	return fmt.Sprintf("%d %s %s", id, e.Type, datfile.LineOptionList(opts)), nil
}

var elementRegex = regexp.MustCompile(`^ *([0-9]+) +(\S+) +(\S+) +`)

// Parse reads an element record. Node ids are 1-based indices into nodes.
// A line that is not an element record returns a nil element and no error.
// In lenient mode an unknown shape takes every integer token after it as a node.
func Parse(line string, nodes []*node.Node, strict bool) (e *Element, id int, err error) {
	content := datfile.StripComment(line)
	loc := elementRegex.FindStringSubmatchIndex(content)
	if loc == nil {
		return nil, 0, nil
	}
	if id, err = strconv.Atoi(content[loc[2]:loc[3]]); err != nil {
		return nil, 0, err
	}
	elType, shapeName := content[loc[4]:loc[5]], content[loc[6]:loc[7]]

	// node ids are searched from the shape token on so a type named like a
	// shape is not mistaken for it
	rest := content[loc[6]:]
	var (
		nodeStrs []string
		tail     string
	)
	shape, shapeErr := ParseShape(shapeName)
	switch {
	case shapeErr == nil:
		var span [2]int
		if nodeStrs, span, err = datfile.ReadOptionItem(rest, shapeName, shape.NumNodes()); err != nil {
			return nil, id, fmt.Errorf("element %d: %w", id, err)
		}
		tail = rest[span[1]:]
	case strict:
		return nil, id, fmt.Errorf("element %d: %w", id, shapeErr)
	default:
		if nodeStrs, tail, err = leadingInts(content[loc[1]:]); err != nil {
			return nil, id, fmt.Errorf("element %d: %w", id, err)
		}
	}

	elNodes := make([]*node.Node, len(nodeStrs))
	for i, s := range nodeStrs {
		var nid int
		if nid, err = strconv.Atoi(s); err != nil {
			return nil, id, fmt.Errorf("element %d: node %q: %w", id, s, err)
		}
		if nid < 1 || nid > len(nodes) {
			return nil, id, fmt.Errorf("element %d: node %d out of range [1,%d]", id, nid, len(nodes))
		}
		elNodes[i] = nodes[nid-1]
	}
	if e, err = Create(elType, shapeName, elNodes, strict); err != nil {
		return nil, id, fmt.Errorf("element %d: %w", id, err)
	}

	s := datfile.NewKeyValueScanner(tail, node.FiberValueCount)
	for s.Scan() {
		values := s.Values()
		if ft, ok := types.ParseFiberType(s.Key()); ok {
			var v []float64
			if v, err = datfile.ParseFloats(values); err != nil {
				return nil, id, fmt.Errorf("element %d: fiber %s: %w", id, ft, err)
			}
			e.Fibers[ft] = vec(v)
			continue
		}
		e.Options.Set(s.Key(), values...)
	}
	if err = s.Err(); err != nil {
		return nil, id, fmt.Errorf("element %d: %w", id, err)
	}
	return
}

// leadingInts splits off the run of integer tokens at the start of rest.
func leadingInts(rest string) (values []string, tail string, err error) {
	tail = rest
	for {
		trimmed := strings.TrimLeft(tail, " \t\r\n")
		end := strings.IndexAny(trimmed, " \t\r\n")
		if end < 0 {
			end = len(trimmed)
		}
		tok := trimmed[:end]
		if tok == "" {
			break
		}
		if _, convErr := strconv.Atoi(tok); convErr != nil {
			break
		}
		values = append(values, tok)
		tail = trimmed[end:]
	}
	if len(values) == 0 {
		err = fmt.Errorf("no node ids after shape")
	}
	return
}
