package element

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrUnknownShape   = errors.New("unknown element shape")
	ErrNotImplemented = errors.New("not implemented for this shape")
)

// Shape is the closed set of element geometries. Generic stands in for a
// shape name that is carried through opaquely.
type Shape uint8

const (
	Vertex1 Shape = iota
	Line2
	Line3
	Tri3
	Tri6
	Quad4
	Quad8
	Quad9
	Tet4
	Tet10
	Hex8
	Hex20
	Hex27
	Pyramid5
	Wedge6
	NumShapes
	Generic Shape = 255
)

var shapeNames = [NumShapes]string{
	"VERTEX1", "LINE2", "LINE3", "TRI3", "TRI6", "QUAD4", "QUAD8", "QUAD9",
	"TET4", "TET10", "HEX8", "HEX20", "HEX27", "PYRAMID5", "WEDGE6",
}

func (s Shape) String() string {
	if s >= NumShapes {
		return "GENERIC"
	}
	return shapeNames[s]
}

var ShapeNameMap = func() map[string]Shape {
	m := make(map[string]Shape, NumShapes)
	for i, name := range shapeNames {
		m[name] = Shape(i)
	}
	return m
}()

func ParseShape(name string) (s Shape, err error) {
	var ok bool
	if s, ok = ShapeNameMap[name]; !ok {
		err = fmt.Errorf("%w: %q", ErrUnknownShape, name)
	}
	return
}

func (s Shape) Valid() bool { return s < NumShapes }

func (s Shape) info() *shapeInfo {
	if !s.Valid() {
		return nil
	}
	return &shapeTable[s]
}

// shapeInfo is the per-shape table of topology and interpolation data.
type shapeInfo struct {
	numNodes   int
	dim        int
	faces      [][]int
	faceShapes []Shape
	edges      [][]int
	edgeShape  Shape
	refCoords  [][]float64
	fcns       func(xi []float64) []float64
	derivs     func(xi []float64) [][]float64 // dim rows, one column per node
	gauss      map[int]gaussRule
	inRef      func(xi []float64, includeBoundary bool) bool
}

func (s Shape) NumNodes() int {
	if si := s.info(); si != nil {
		return si.numNodes
	}
	return 0
}

// Dim is the reference-domain dimension: 0 vertex, 1 line, 2 surface, 3 volume.
func (s Shape) Dim() int {
	if si := s.info(); si != nil {
		return si.dim
	}
	return -1
}

// FaceIndices returns the local node indices of each face, in canonical order.
func (s Shape) FaceIndices() [][]int {
	if si := s.info(); si != nil {
		return si.faces
	}
	return nil
}

func (s Shape) EdgeIndices() [][]int {
	if si := s.info(); si != nil {
		return si.edges
	}
	return nil
}

// RefCoords returns the reference coordinate of every node.
func (s Shape) RefCoords() [][]float64 {
	if si := s.info(); si != nil {
		return si.refCoords
	}
	return nil
}

func (s Shape) checkXi(xi []float64) error {
	si := s.info()
	if si == nil {
		return fmt.Errorf("%w: %s", ErrNotImplemented, s)
	}
	if len(xi) < si.dim {
		return fmt.Errorf("%s: need %d reference coordinates, got %d", s, si.dim, len(xi))
	}
	return nil
}

// ShapeFcns evaluates one weight per node at reference coordinate xi.
func (s Shape) ShapeFcns(xi []float64) (N []float64, err error) {
	if err = s.checkXi(xi); err != nil {
		return
	}
	return s.info().fcns(xi), nil
}

// ShapeFcnsDerivs returns dN_j/dxi_i as a dim x numNodes matrix.
func (s Shape) ShapeFcnsDerivs(xi []float64) (dN *mat.Dense, err error) {
	if err = s.checkXi(xi); err != nil {
		return
	}
	si := s.info()
	if si.derivs == nil || si.dim == 0 {
		return nil, fmt.Errorf("%w: derivatives of %s", ErrNotImplemented, s)
	}
	rows := si.derivs(xi)
	dN = mat.NewDense(si.dim, si.numNodes, nil)
	for i, row := range rows {
		dN.SetRow(i, row)
	}
	return
}

// IsInRef tests whether xi lies in the reference domain. Only tets and hexes support it.
func (s Shape) IsInRef(xi []float64, includeBoundary bool) (bool, error) {
	if err := s.checkXi(xi); err != nil {
		return false, err
	}
	si := s.info()
	if si.inRef == nil {
		return false, fmt.Errorf("%w: reference containment for %s", ErrNotImplemented, s)
	}
	return si.inRef(xi, includeBoundary), nil
}
