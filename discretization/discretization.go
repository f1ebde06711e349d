package discretization

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/datmesh/element"
	"github.com/notargets/datmesh/node"
	"github.com/notargets/datmesh/types"
)

// Discretization owns the nodes, the elements and the nodesets of one mesh.
// The order of Nodes is the order node ids are assigned in.
type Discretization struct {
	Nodes    []*node.Node
	Elements *ElementContainer
	Nodesets [types.NumNodesetKinds][]*node.Nodeset
}

func New() *Discretization {
	return &Discretization{Elements: &ElementContainer{}}
}

// ComputeIDs numbers nodes, elements and each nodeset kind separately, in
// container order, starting at 0 or 1.
func (d *Discretization) ComputeIDs(zeroBased bool) {
	base := 1
	if zeroBased {
		base = 0
	}
	for i, n := range d.Nodes {
		n.ID.Set(base + i)
	}
	for i, e := range d.Elements.All() {
		e.ID.Set(base + i)
	}
	for _, sets := range d.Nodesets {
		for i, ns := range sets {
			ns.ID.Set(base + i)
		}
	}
}

// Reset clears every assigned id.
func (d *Discretization) Reset() {
	for _, n := range d.Nodes {
		n.ID.Clear()
	}
	for _, e := range d.Elements.All() {
		e.ID.Clear()
	}
	for _, sets := range d.Nodesets {
		for _, ns := range sets {
			ns.ID.Clear()
		}
	}
}

// Finalize rebuilds the node to nodeset back-references. Call it after the
// nodeset lists have been replaced; mutation does not trigger it.
func (d *Discretization) Finalize() {
	for _, n := range d.Nodes {
		n.ClearNodesets()
	}
	for _, sets := range d.Nodesets {
		for _, ns := range sets {
			ns.Link()
		}
	}
}

// NodeCoords returns the node coordinates as a len(Nodes) x 3 matrix.
func (d *Discretization) NodeCoords() *mat.Dense {
	if len(d.Nodes) == 0 {
		return &mat.Dense{}
	}
	X := mat.NewDense(len(d.Nodes), 3, nil)
	for i, n := range d.Nodes {
		X.SetRow(i, []float64{n.Coords.X, n.Coords.Y, n.Coords.Z})
	}
	return X
}

// NodesIn returns the nodes, in node order, that belong to any of the
// nodesets of kind at the given indices. Uses the back-references.
func (d *Discretization) NodesIn(kind types.NodesetKind, indices ...int) (nodes []*node.Node, err error) {
	want := make(map[*node.Nodeset]struct{}, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(d.Nodesets[kind]) {
			return nil, fmt.Errorf("%s nodeset index %d out of range [0,%d)", kind, i, len(d.Nodesets[kind]))
		}
		want[d.Nodesets[kind][i]] = struct{}{}
	}
	for _, n := range d.Nodes {
		for _, ns := range n.Nodesets(kind) {
			if _, ok := want[ns]; ok {
				nodes = append(nodes, n)
				break
			}
		}
	}
	return
}

// Validate checks that elements and nodesets only reference owned nodes and
// that the back-references match the nodeset lists. All problems are joined.
func (d *Discretization) Validate() error {
	var errs []error
	owned := make(map[*node.Node]struct{}, len(d.Nodes))
	for _, n := range d.Nodes {
		owned[n] = struct{}{}
	}
	for i, e := range d.Elements.All() {
		for j, n := range e.Nodes {
			if _, ok := owned[n]; !ok {
				errs = append(errs, fmt.Errorf("element %d (%s): node %d is not owned by the discretization",
					i, e.ShapeName(), j))
			}
		}
	}
	for _, kind := range allKinds() {
		known := make(map[*node.Nodeset]struct{}, len(d.Nodesets[kind]))
		for i, ns := range d.Nodesets[kind] {
			known[ns] = struct{}{}
			for _, n := range ns.Nodes() {
				if _, ok := owned[n]; !ok {
					errs = append(errs, fmt.Errorf("%s nodeset %d references a node not owned by the discretization", kind, i))
					continue
				}
				if !hasNodeset(n, kind, ns) {
					errs = append(errs, fmt.Errorf("%s nodeset %d: stale back-reference, call Finalize", kind, i))
				}
			}
		}
		for i, n := range d.Nodes {
			for _, ns := range n.Nodesets(kind) {
				if _, ok := known[ns]; !ok || !ns.Contains(n) {
					errs = append(errs, fmt.Errorf("node %d: stale %s back-reference, call Finalize", i, kind))
				}
			}
		}
	}
	return errors.Join(errs...)
}

func hasNodeset(n *node.Node, kind types.NodesetKind, ns *node.Nodeset) bool {
	for _, other := range n.Nodesets(kind) {
		if other == ns {
			return true
		}
	}
	return false
}

func allKinds() []types.NodesetKind {
	return []types.NodesetKind{types.DPoint, types.DLine, types.DSurf, types.DVol}
}

func (d *Discretization) String() string {
	var sb strings.Builder
	sb.WriteString("Discretization with ...\n")
	fmt.Fprintf(&sb, "%10d nodes\n", len(d.Nodes))
	for _, r := range d.Elements.Roles() {
		fmt.Fprintf(&sb, "%10d %s elements\n", d.Elements.Num(r), r)
	}
	for _, kind := range allKinds() {
		if num := len(d.Nodesets[kind]); num > 0 {
			fmt.Fprintf(&sb, "%10d %s nodesets\n", num, kind)
		}
	}
	return sb.String()
}

// elementsOf returns the elements of the present role, nil when absent.
func (d *Discretization) elementsOf(role types.FieldRole) []*element.Element {
	eles, _ := d.Elements.Get(role)
	return eles
}
