package element

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/datmesh/node"
	"github.com/notargets/datmesh/types"
)

// numberedNodes returns nodes whose ids equal base+index.
func numberedNodes(num, base int) (nodes []*node.Node) {
	for i := 0; i < num; i++ {
		n := node.NewNode(r3.Vec{X: float64(i)})
		n.ID.Set(base + i)
		nodes = append(nodes, n)
	}
	return
}

func subIDs(t *testing.T, subs []*Element) (ids [][]int) {
	t.Helper()
	for _, s := range subs {
		nid, err := s.NodeIDs()
		require.NoError(t, err)
		ids = append(ids, nid)
	}
	return
}

func TestFaceAndEdgeTables(t *testing.T) {
	tests := []struct {
		shape     Shape
		faces     [][]int
		faceShape Shape
		edges     [][]int
		edgeShape Shape
	}{
		{
			shape:     Hex8,
			faces:     [][]int{{0, 1, 2, 3}, {0, 1, 5, 4}, {1, 2, 6, 5}, {2, 3, 7, 6}, {3, 0, 4, 7}, {4, 5, 6, 7}},
			faceShape: Quad4,
			edges: [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {0, 4}, {1, 5}, {2, 6}, {3, 7},
				{4, 5}, {5, 6}, {6, 7}, {7, 4}},
			edgeShape: Line2,
		},
		{
			shape: Hex20,
			faces: [][]int{
				{0, 1, 2, 3, 8, 9, 10, 11},
				{0, 1, 5, 4, 8, 13, 16, 12},
				{1, 2, 6, 5, 9, 14, 17, 13},
				{2, 3, 7, 6, 10, 15, 18, 14},
				{3, 0, 4, 7, 11, 12, 19, 15},
				{4, 5, 6, 7, 15, 17, 18, 19},
			},
			faceShape: Quad8,
			edges: [][]int{{0, 1, 8}, {1, 2, 9}, {2, 3, 10}, {3, 0, 11}, {0, 4, 12}, {1, 5, 13},
				{2, 6, 14}, {3, 7, 15}, {4, 5, 16}, {5, 6, 17}, {6, 7, 18}, {7, 4, 19}},
			edgeShape: Line3,
		},
		{
			shape: Hex27,
			faces: [][]int{
				{0, 1, 2, 3, 8, 9, 10, 11, 20},
				{0, 1, 5, 4, 8, 13, 16, 12, 21},
				{1, 2, 6, 5, 9, 14, 17, 13, 22},
				{2, 3, 7, 6, 10, 15, 18, 14, 23},
				{3, 0, 4, 7, 11, 12, 19, 15, 24},
				{4, 5, 6, 7, 15, 17, 18, 19, 25},
			},
			faceShape: Quad9,
			edges: [][]int{{0, 1, 8}, {1, 2, 9}, {2, 3, 10}, {3, 0, 11}, {0, 4, 12}, {1, 5, 13},
				{2, 6, 14}, {3, 7, 15}, {4, 5, 16}, {5, 6, 17}, {6, 7, 18}, {7, 4, 19}},
			edgeShape: Line3,
		},
		{
			shape:     Tet4,
			faces:     [][]int{{0, 1, 3}, {1, 2, 3}, {2, 0, 3}, {0, 2, 1}},
			faceShape: Tri3,
			edges:     [][]int{{0, 1}, {1, 2}, {2, 0}, {0, 3}, {1, 3}, {2, 3}},
			edgeShape: Line2,
		},
		{
			shape:     Tet10,
			faces:     [][]int{{0, 1, 3, 4, 8, 7}, {1, 2, 3, 5, 9, 8}, {2, 0, 3, 6, 7, 9}, {0, 2, 1, 6, 5, 4}},
			faceShape: Tri6,
			edges:     [][]int{{0, 1, 4}, {1, 2, 5}, {2, 0, 6}, {0, 3, 7}, {1, 3, 8}, {2, 3, 9}},
			edgeShape: Line3,
		},
		{
			shape:     Quad4,
			faces:     [][]int{{0, 1, 2, 3}},
			faceShape: Quad4,
			edges:     [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
			edgeShape: Line2,
		},
		{
			shape:     Quad8,
			faces:     [][]int{{0, 1, 2, 3, 4, 5, 6, 7}},
			faceShape: Quad8,
			edges:     [][]int{{0, 1, 4}, {1, 2, 5}, {2, 3, 6}, {3, 0, 7}},
			edgeShape: Line3,
		},
		{
			shape:     Quad9,
			faces:     [][]int{{0, 1, 2, 3, 4, 5, 6, 7, 8}},
			faceShape: Quad9,
			edges:     [][]int{{0, 1, 4}, {1, 2, 5}, {2, 3, 6}, {3, 0, 7}},
			edgeShape: Line3,
		},
		{
			shape:     Tri3,
			faces:     [][]int{{0, 1, 2}},
			faceShape: Tri3,
			edges:     [][]int{{0, 1}, {1, 2}, {2, 0}},
			edgeShape: Line2,
		},
		{
			shape:     Tri6,
			faces:     [][]int{{0, 1, 2, 3, 4, 5}},
			faceShape: Tri6,
			edges:     [][]int{{0, 1, 3}, {1, 2, 4}, {2, 0, 5}},
			edgeShape: Line3,
		},
		{shape: Line2, edges: [][]int{{0, 1}}, edgeShape: Line2},
		{shape: Line3, edges: [][]int{{0, 1, 2}}, edgeShape: Line3},
		{shape: Vertex1},
	}
	for _, tc := range tests {
		t.Run(tc.shape.String(), func(t *testing.T) {
			e, err := New("", tc.shape, numberedNodes(tc.shape.NumNodes(), 0))
			require.NoError(t, err)

			faces, err := e.Faces()
			require.NoError(t, err)
			assert.Equal(t, tc.faces, subIDs(t, faces))
			for _, f := range faces {
				assert.Equal(t, tc.faceShape, f.Shape)
			}

			edges, err := e.Edges()
			require.NoError(t, err)
			assert.Equal(t, tc.edges, subIDs(t, edges))
			for _, ed := range edges {
				assert.Equal(t, tc.edgeShape, ed.Shape)
			}
		})
	}
}

func TestTet4FacesOnOneBasedNodes(t *testing.T) {
	e, err := New("SOLIDT4", Tet4, numberedNodes(4, 1))
	require.NoError(t, err)
	faces, err := e.Faces()
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2, 4}, {2, 3, 4}, {3, 1, 4}, {1, 3, 2}}, subIDs(t, faces))
	// faces reference the parent's nodes, not copies
	assert.Same(t, e.Nodes[3], faces[0].Nodes[2])
}

func TestMixedFaceShapes(t *testing.T) {
	e, err := New("", Wedge6, numberedNodes(6, 0))
	require.NoError(t, err)
	faces, err := e.Faces()
	require.NoError(t, err)
	shapes := make([]Shape, len(faces))
	for i, f := range faces {
		shapes[i] = f.Shape
	}
	assert.Equal(t, []Shape{Quad4, Quad4, Quad4, Tri3, Tri3}, shapes)

	e, err = New("", Pyramid5, numberedNodes(5, 0))
	require.NoError(t, err)
	faces, err = e.Faces()
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1, 2, 3}, {0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4}}, subIDs(t, faces))
}

func TestNewAndCreate(t *testing.T) {
	_, err := New("SOLIDH8", Hex8, numberedNodes(7, 1))
	assert.Error(t, err)

	e, err := Create("SOLIDH8", "HEX8", numberedNodes(8, 1), true)
	require.NoError(t, err)
	assert.Equal(t, Hex8, e.Shape)
	assert.Equal(t, "HEX8", e.ShapeName())

	_, err = Create("X", "NURBS27", numberedNodes(27, 1), true)
	assert.True(t, errors.Is(err, ErrUnknownShape))

	g, err := Create("X", "NURBS27", numberedNodes(27, 1), false)
	require.NoError(t, err)
	assert.Equal(t, Generic, g.Shape)
	assert.Equal(t, "NURBS27", g.ShapeName())
	_, err = g.Faces()
	assert.True(t, errors.Is(err, ErrNotImplemented))
	_, err = g.Edges()
	assert.True(t, errors.Is(err, ErrNotImplemented))
	_, err = g.ShapeFcns([]float64{0})
	assert.True(t, errors.Is(err, ErrNotImplemented))
}

func TestParseAndLine(t *testing.T) {
	nodes := numberedNodes(8, 1)
	line := "   3 SOLIDH8 HEX8 1 2 3 4 5 6 7 8 MAT 1 KINEM nonlinear FIBER1 1 0 0 EAS none // trailing"
	e, id, err := Parse(line, nodes, true)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, 3, id)
	assert.False(t, e.ID.IsSet())
	assert.Equal(t, "SOLIDH8", e.Type)
	assert.Equal(t, Hex8, e.Shape)
	assert.Equal(t, nodes, e.Nodes)
	assert.Equal(t, []string{"MAT", "KINEM", "EAS"}, e.Options.Keys())
	assert.Equal(t, r3.Vec{X: 1}, e.Fibers[types.Fiber1])

	_, err = e.Line()
	assert.True(t, errors.Is(err, node.ErrIDsNotComputed))
	e.ID.Set(3)
	out, err := e.Line()
	require.NoError(t, err)
	assert.Equal(t, "3 SOLIDH8 HEX8 1 2 3 4 5 6 7 8 MAT 1 KINEM nonlinear EAS none FIBER1 1 0 0", out)

	again, _, err := Parse(out, nodes, true)
	require.NoError(t, err)
	assert.Equal(t, e.Options, again.Options)
	assert.Equal(t, e.Fibers, again.Fibers)
}

func TestParseEdgeCases(t *testing.T) {
	nodes := numberedNodes(4, 1)

	e, _, err := Parse("// just a comment", nodes, true)
	assert.NoError(t, err)
	assert.Nil(t, e)
	e, _, err = Parse("", nodes, true)
	assert.NoError(t, err)
	assert.Nil(t, e)

	// type that looks like a shape
	e, _, err = Parse("1 TET4 TET4 1 2 3 4 MAT 2", nodes, true)
	require.NoError(t, err)
	assert.Equal(t, "TET4", e.Type)
	v, _ := e.Options.Value("MAT")
	assert.Equal(t, "2", v)

	_, _, err = Parse("1 SOLIDT4 TET4 1 2 3", nodes, true)
	assert.Error(t, err)
	_, _, err = Parse("1 SOLIDT4 TET4 1 2 3 9", nodes, true)
	assert.Error(t, err)
	_, _, err = Parse("1 SOLIDT4 TET4 1 2 3 4 FIBER1 1 0", nodes, true)
	assert.Error(t, err)

	_, _, err = Parse("1 X POLY3 1 2 3 MAT 1", nodes, true)
	assert.True(t, errors.Is(err, ErrUnknownShape))
	g, _, err := Parse("1 X POLY3 1 2 3 MAT 1", nodes, false)
	require.NoError(t, err)
	assert.Equal(t, "POLY3", g.ShapeName())
	assert.Equal(t, 3, len(g.Nodes))
	assert.Equal(t, []string{"MAT"}, g.Options.Keys())
}

func unitTet() *Element {
	nodes := []*node.Node{
		node.NewNode(r3.Vec{}),
		node.NewNode(r3.Vec{X: 1}),
		node.NewNode(r3.Vec{Y: 1}),
		node.NewNode(r3.Vec{Z: 1}),
	}
	e, _ := New("SOLIDT4", Tet4, nodes)
	return e
}

func TestGetXiAndProjection(t *testing.T) {
	e := unitTet()
	// stretch and shift so the map is not the identity
	for _, n := range e.Nodes {
		n.Coords = r3.Add(r3.Scale(2, n.Coords), r3.Vec{X: 1, Y: -1, Z: 0.5})
	}
	xi, err := e.GetXi(r3.Vec{X: 1.2, Y: -0.6, Z: 1.1})
	require.NoError(t, err)
	assert.InDelta(t, 0.1, xi[0], tol)
	assert.InDelta(t, 0.2, xi[1], tol)
	assert.InDelta(t, 0.3, xi[2], tol)

	x, err := e.Position(xi)
	require.NoError(t, err)
	assert.InDelta(t, 1.2, x.X, tol)

	values := mat.NewDense(4, 2, []float64{
		0, 10,
		1, 10,
		2, 10,
		3, 10,
	})
	q, err := e.ProjectQuantity(r3.Vec{X: 1.2, Y: -0.6, Z: 1.1}, values)
	require.NoError(t, err)
	assert.InDelta(t, 0.1*1+0.2*2+0.3*3, q[0], tol)
	assert.InDelta(t, 10, q[1], tol)

	_, err = e.ProjectQuantityXi(xi, mat.NewDense(3, 1, nil))
	assert.Error(t, err)

	hex, _ := New("SOLIDH8", Hex8, numberedNodes(8, 1))
	_, err = hex.GetXi(r3.Vec{})
	assert.True(t, errors.Is(err, ErrNotImplemented))
}

func TestIntegrate(t *testing.T) {
	one := func([]float64) []float64 { return []float64{1} }

	tri, _ := New("", Tri3, []*node.Node{
		node.NewNode(r3.Vec{}), node.NewNode(r3.Vec{X: 2}), node.NewNode(r3.Vec{Y: 3}),
	})
	for _, num := range []int{1, 3} {
		area, err := tri.IntegrateXi(one, num)
		require.NoError(t, err)
		assert.InDelta(t, 3., area[0], tol)
	}

	// tilted unit square, area stays 1
	c, s := math.Cos(0.3), math.Sin(0.3)
	quad, _ := New("", Quad4, []*node.Node{
		node.NewNode(r3.Vec{}), node.NewNode(r3.Vec{X: c, Z: s}),
		node.NewNode(r3.Vec{X: c, Y: 1, Z: s}), node.NewNode(r3.Vec{Y: 1}),
	})
	area, err := quad.IntegrateXi(one, 4)
	require.NoError(t, err)
	assert.InDelta(t, 1., area[0], tol)

	// integral of x over the square is c/2
	moment, err := quad.Integrate(func(x r3.Vec) []float64 { return []float64{x.X} }, 4)
	require.NoError(t, err)
	assert.InDelta(t, c/2, moment[0], tol)

	vol, err := unitTet().IntegrateXi(one, 4)
	require.NoError(t, err)
	assert.InDelta(t, 1./6, vol[0], tol)

	hexNodes := make([]*node.Node, 8)
	for i, r := range Hex8.RefCoords() {
		hexNodes[i] = node.NewNode(r3.Vec{X: r[0], Y: r[1], Z: r[2]})
	}
	hex, _ := New("", Hex8, hexNodes)
	vol, err = hex.IntegrateXi(one, 8)
	require.NoError(t, err)
	assert.InDelta(t, 8., vol[0], tol)

	_, err = tri.IntegrateXi(one, 2)
	assert.True(t, errors.Is(err, ErrNotImplemented))
}

func TestNormal(t *testing.T) {
	tri, _ := New("", Tri3, []*node.Node{
		node.NewNode(r3.Vec{}), node.NewNode(r3.Vec{X: 1}), node.NewNode(r3.Vec{Y: 1}),
	})
	n, err := tri.Normal([]float64{0.2, 0.2})
	require.NoError(t, err)
	assert.InDelta(t, 1., n.Z, tol)

	quad, _ := New("", Quad4, []*node.Node{
		node.NewNode(r3.Vec{}), node.NewNode(r3.Vec{Y: 2}),
		node.NewNode(r3.Vec{Y: 2, Z: 2}), node.NewNode(r3.Vec{Z: 2}),
	})
	n, err = quad.Normal([]float64{0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1., n.X, tol)

	_, err = unitTet().Normal([]float64{0, 0, 0})
	assert.True(t, errors.Is(err, ErrNotImplemented))
}

func TestSharedNodesets(t *testing.T) {
	e := unitTet()
	a := node.NewNodeset(types.DSurf)
	b := node.NewNodeset(types.DSurf)
	for _, n := range e.Nodes {
		a.Add(n)
	}
	b.Add(e.Nodes[0])
	a.Link()
	b.Link()
	assert.Equal(t, []*node.Nodeset{a}, e.SharedNodesets(types.DSurf))
	assert.Empty(t, e.SharedNodesets(types.DLine))
}
