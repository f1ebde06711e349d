package meshio

import (
	"fmt"

	"github.com/notargets/datmesh/element"
)

// CellInfo describes one generic cell type and its dat counterpart.
type CellInfo struct {
	Type        string
	NumNodes    int
	Dim         int
	Shape       element.Shape
	ElementType string // default solver element type for the shape
	// Order maps dat node positions to generic node positions:
	// dat node i is generic node Order[i]. nil is the identity.
	Order []int
}

const unknownElementType = "UNKNOWN"

var hex20Order = []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 16, 17, 18, 19, 12, 13, 14, 15}

var cellTable = []CellInfo{
	{Type: "vertex", NumNodes: 1, Dim: 0, Shape: element.Vertex1, ElementType: unknownElementType},
	{Type: "line", NumNodes: 2, Dim: 1, Shape: element.Line2, ElementType: unknownElementType},
	{Type: "line3", NumNodes: 3, Dim: 1, Shape: element.Line3, ElementType: unknownElementType},
	{Type: "triangle", NumNodes: 3, Dim: 2, Shape: element.Tri3, ElementType: unknownElementType},
	{Type: "triangle6", NumNodes: 6, Dim: 2, Shape: element.Tri6, ElementType: unknownElementType},
	{Type: "quad", NumNodes: 4, Dim: 2, Shape: element.Quad4, ElementType: unknownElementType},
	{Type: "quad8", NumNodes: 8, Dim: 2, Shape: element.Quad8, ElementType: unknownElementType},
	{Type: "quad9", NumNodes: 9, Dim: 2, Shape: element.Quad9, ElementType: unknownElementType},
	{Type: "tetra", NumNodes: 4, Dim: 3, Shape: element.Tet4, ElementType: "SOLIDT4"},
	{Type: "tetra10", NumNodes: 10, Dim: 3, Shape: element.Tet10, ElementType: "SOLIDT10"},
	{Type: "pyramid", NumNodes: 5, Dim: 3, Shape: element.Pyramid5, ElementType: "PYRAMID5"},
	{Type: "wedge", NumNodes: 6, Dim: 3, Shape: element.Wedge6, ElementType: unknownElementType},
	{Type: "hexahedron", NumNodes: 8, Dim: 3, Shape: element.Hex8, ElementType: "SOLIDH8"},
	{Type: "hexahedron20", NumNodes: 20, Dim: 3, Shape: element.Hex20, ElementType: "SOLIDH20",
		Order: hex20Order},
	{Type: "hexahedron27", NumNodes: 27, Dim: 3, Shape: element.Hex27, ElementType: "SOLIDH27",
		Order: append(append([]int{}, hex20Order...), 20, 21, 22, 23, 24, 25, 26)},
}

var (
	cellByType  = make(map[string]*CellInfo)
	cellByShape = make(map[element.Shape]*CellInfo)
)

func init() {
	for i := range cellTable {
		ci := &cellTable[i]
		if ci.Order != nil && len(ci.Order) != ci.NumNodes {
			panic(fmt.Sprintf("node order of %s has %d entries, need %d", ci.Type, len(ci.Order), ci.NumNodes))
		}
		cellByType[ci.Type] = ci
		cellByShape[ci.Shape] = ci
	}
}

// CellType looks up a generic cell type name.
func CellType(name string) (*CellInfo, error) {
	ci, ok := cellByType[name]
	if !ok {
		return nil, fmt.Errorf("the cell type %q is not implemented", name)
	}
	return ci, nil
}

// CellForShape is the generic cell type of a dat shape.
func CellForShape(shape element.Shape) (*CellInfo, error) {
	ci, ok := cellByShape[shape]
	if !ok {
		return nil, fmt.Errorf("no generic cell type for shape %s", shape)
	}
	return ci, nil
}

// ToDat reorders generic cell nodes into dat order.
func (ci *CellInfo) ToDat(cell []int) []int {
	if ci.Order == nil {
		return append([]int(nil), cell...)
	}
	out := make([]int, len(ci.Order))
	for i, j := range ci.Order {
		out[i] = cell[j]
	}
	return out
}

// FromDat is the inverse of ToDat.
func (ci *CellInfo) FromDat(nodes []int) []int {
	if ci.Order == nil {
		return append([]int(nil), nodes...)
	}
	out := make([]int, len(ci.Order))
	for i, j := range ci.Order {
		out[j] = nodes[i]
	}
	return out
}
