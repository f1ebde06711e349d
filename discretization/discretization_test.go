package discretization

import (
	"bytes"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/datmesh/datfile"
	"github.com/notargets/datmesh/element"
	"github.com/notargets/datmesh/node"
	"github.com/notargets/datmesh/types"
)

// twoTets shares the face 1 2 3 between two tetrahedra.
const twoTets = `-----------------------------------------------------------DSURF-NODE TOPOLOGY
NODE 1 DSURFACE 1
NODE 2 DSURFACE 1
NODE 3 DSURFACE 1
------------------------------------------------------------DVOL-NODE TOPOLOGY
NODE 1 DVOLUME 1
NODE 2 DVOLUME 1
NODE 3 DVOLUME 1
NODE 4 DVOLUME 1
-------------------------------------------------------------------NODE COORDS
NODE 1 COORD 0 0 0
NODE 2 COORD 1 0 0
NODE 3 COORD 0 1 0
NODE 4 COORD 0 0 1
NODE 5 COORD 0.25 0.25 -1
------------------------------------------------------------STRUCTURE ELEMENTS
1 SOLIDT4 TET4 1 2 3 4 MAT 1 KINEM nonlinear
2 SOLIDT4 TET4 1 3 2 5 MAT 2 KINEM nonlinear
`

func readString(t *testing.T, text string) *Discretization {
	t.Helper()
	d, err := ReadFrom(strings.NewReader(text), ReadOptions{Strict: true})
	require.NoError(t, err)
	return d
}

func TestElementContainerAbsentVsEmpty(t *testing.T) {
	c := &ElementContainer{}
	c.Set(types.Fluid, []*element.Element{})
	assert.True(t, c.Has(types.Fluid))
	assert.Equal(t, 0, c.Num(types.Fluid))
	eles, err := c.Get(types.Fluid)
	assert.NoError(t, err)
	assert.Empty(t, eles)

	assert.False(t, c.Has(types.Structure))
	_, err = c.Get(types.Structure)
	assert.True(t, errors.Is(err, ErrRoleAbsent))
	assert.Equal(t, []types.FieldRole{types.Fluid}, c.Roles())

	// only present roles produce sections, even when empty
	s, err := c.Sections(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"FLUID ELEMENTS"}, s.Titles())

	c.Unset(types.Fluid)
	assert.False(t, c.Has(types.Fluid))
}

func TestElementContainerCounts(t *testing.T) {
	nodes := []*node.Node{node.NewNode(r3.Vec{}), node.NewNode(r3.Vec{X: 1})}
	line, err := element.New("BEAM", element.Line2, nodes)
	require.NoError(t, err)

	c := &ElementContainer{}
	c.Append(types.Thermo, line)
	c.Append(types.Structure, line, line)
	assert.Equal(t, 3, c.NumTotal())
	assert.Equal(t, []types.FieldRole{types.Structure, types.Thermo}, c.Roles())
	assert.Len(t, c.All(), 3)
}

func TestIDGap(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "nodes",
			text: "-----NODE COORDS\nNODE 1 COORD 0 0 0\nNODE 2 COORD 1 0 0\nNODE 4 COORD 0 1 0\n",
		},
		{
			name: "elements",
			text: "-----NODE COORDS\nNODE 1 COORD 0 0 0\nNODE 2 COORD 1 0 0\n" +
				"-----STRUCTURE ELEMENTS\n1 BEAM LINE2 1 2\n2 BEAM LINE2 2 1\n4 BEAM LINE2 1 2\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadFrom(strings.NewReader(tc.text), ReadOptions{})
			assert.True(t, errors.Is(err, ErrIDGap), "%v", err)
		})
	}
}

func TestElementIDsStartAtFirstDeclared(t *testing.T) {
	text := "-----NODE COORDS\nNODE 1 COORD 0 0 0\nNODE 2 COORD 1 0 0\n" +
		"-----STRUCTURE ELEMENTS\n1 BEAM LINE2 1 2\n" +
		"-----FLUID ELEMENTS\n2 FLUID LINE2 1 2\n3 FLUID LINE2 2 1\n"
	d := readString(t, text)
	assert.Equal(t, 1, d.Elements.Num(types.Structure))
	assert.Equal(t, 2, d.Elements.Num(types.Fluid))
}

func TestReadMissingNodeCoords(t *testing.T) {
	_, err := ReadFrom(strings.NewReader("-----TITLE\nnothing\n"), ReadOptions{})
	assert.Error(t, err)
}

func TestReadStrictShape(t *testing.T) {
	text := "-----NODE COORDS\nNODE 1 COORD 0 0 0\nNODE 2 COORD 1 0 0\n" +
		"-----STRUCTURE ELEMENTS\n1 X NURBS2 1 2 MAT 1\n"
	_, err := ReadFrom(strings.NewReader(text), ReadOptions{Strict: true})
	assert.True(t, errors.Is(err, element.ErrUnknownShape))

	d, err := ReadFrom(strings.NewReader(text), ReadOptions{})
	require.NoError(t, err)
	eles, _ := d.Elements.Get(types.Structure)
	assert.Equal(t, element.Generic, eles[0].Shape)
}

// sortedSections maps title to sorted lines so write order within a section
// does not matter.
func sortedSections(t *testing.T, text string) map[string][]string {
	t.Helper()
	s, err := datfile.ReadSections(strings.NewReader(text))
	require.NoError(t, err)
	out := make(map[string][]string)
	for _, title := range s.Titles() {
		lines, _ := s.Lines(title)
		lines = append([]string(nil), lines...)
		sort.Strings(lines)
		out[title] = lines
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	d := readString(t, twoTets)

	var buf bytes.Buffer
	require.NoError(t, d.Write(&buf, nil))
	in, out := sortedSections(t, twoTets), sortedSections(t, buf.String())
	for title, lines := range in {
		if title == datfile.Preamble {
			continue
		}
		assert.Equal(t, lines, out[title], title)
	}
	assert.Equal(t, []string{
		datfile.LineOption("DIM", "3"),
		datfile.LineOption("ELEMENTS", "2"),
		datfile.LineOption("MATERIALS", "9999"),
		datfile.LineOption("NODES", "5"),
	}, out[SectionProblemSize])

	again := readString(t, buf.String())
	var buf2 bytes.Buffer
	require.NoError(t, again.Write(&buf2, nil))
	assert.Equal(t, buf.String(), buf2.String())
}

func TestEndToEndTet4(t *testing.T) {
	d := New()
	for _, x := range []r3.Vec{{}, {X: 1}, {Y: 1}, {X: 0.1, Y: 0.2, Z: 1.3}} {
		n := node.NewNode(x)
		n.Fibers[types.Fiber1] = r3.Vec{X: 1}
		n.Fibers[types.Fiber2] = r3.Vec{Y: 0.5, Z: -0.5}
		d.Nodes = append(d.Nodes, n)
	}
	for kind := types.DPoint; kind < types.NumNodesetKinds; kind++ {
		ns := node.NewNodeset(kind)
		for _, n := range d.Nodes[:kind.Dim()+1] {
			ns.Add(n)
		}
		d.Nodesets[kind] = []*node.Nodeset{ns}
	}
	d.Finalize()

	tet, err := element.New("SOLIDT4", element.Tet4, d.Nodes)
	require.NoError(t, err)
	tet.Options.Set("MAT", "1")
	tet.Options.Set("KINEM", "nonlinear")
	tet.Options.Set("TYPE", "Std")
	d.Elements.Append(types.Structure, tet)
	require.NoError(t, d.Validate())

	var buf bytes.Buffer
	require.NoError(t, d.Write(&buf, nil))
	got := readString(t, buf.String())

	require.Len(t, got.Nodes, 4)
	for i, n := range got.Nodes {
		assert.Equal(t, d.Nodes[i].Coords, n.Coords)
		assert.Equal(t, d.Nodes[i].Fibers, n.Fibers)
	}
	eles, err := got.Elements.Get(types.Structure)
	require.NoError(t, err)
	require.Len(t, eles, 1)
	assert.Equal(t, tet.Options, eles[0].Options)
	assert.Equal(t, element.Tet4, eles[0].Shape)

	got.ComputeIDs(true)
	expected := [][]int{{0}, {0, 1}, {0, 1, 2}, {0, 1, 2, 3}}
	for kind := types.DPoint; kind < types.NumNodesetKinds; kind++ {
		require.Len(t, got.Nodesets[kind], 1, kind.String())
		var ids []int
		for _, n := range got.Nodesets[kind][0].Nodes() {
			id, err := n.GetID()
			require.NoError(t, err)
			ids = append(ids, id)
		}
		assert.Equal(t, expected[kind], ids, kind.String())
	}
	assert.Len(t, eles[0].DVols(), 1)
	assert.Empty(t, eles[0].DPoints())
	require.NoError(t, got.Validate())
}

func TestComputeIDsAndReset(t *testing.T) {
	d := readString(t, twoTets)
	d.Reset()
	_, err := d.Nodes[0].Line()
	assert.True(t, errors.Is(err, node.ErrIDsNotComputed))

	d.ComputeIDs(true)
	id, _ := d.Nodes[4].GetID()
	assert.Equal(t, 4, id)
	id, _ = d.Elements.All()[1].ID.Get()
	assert.Equal(t, 1, id)
	id, _ = d.Nodesets[types.DSurf][0].ID.Get()
	assert.Equal(t, 0, id)

	d.ComputeIDs(false)
	id, _ = d.Nodesets[types.DVol][0].ID.Get()
	assert.Equal(t, 1, id)
}

func TestTopologyQueries(t *testing.T) {
	d := readString(t, twoTets)

	faces, err := d.DSurfElements(0)
	require.NoError(t, err)
	// the shared face is found once, from the first tet
	require.Len(t, faces, 1)
	ids, _ := faces[0].NodeIDs()
	assert.Equal(t, []int{0, 2, 1}, ids)
	assert.Equal(t, element.Tri3, faces[0].Shape)

	vols, err := d.DVolElements(0)
	require.NoError(t, err)
	require.Len(t, vols, 1)
	assert.Same(t, d.Elements.All()[0], vols[0])

	// line nodeset over the edge 1-2 plus node 5
	ns := node.NewNodeset(types.DLine)
	ns.Add(d.Nodes[0])
	ns.Add(d.Nodes[1])
	ns.Add(d.Nodes[4])
	d.Nodesets[types.DLine] = []*node.Nodeset{ns}
	d.Finalize()
	edges, err := d.DLineElements(0)
	require.NoError(t, err)
	var keys []string
	for _, e := range edges {
		k, err := sortedKey(e)
		require.NoError(t, err)
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"0/1", "0/4", "1/4"}, keys)

	_, err = d.DSurfElements(1)
	assert.Error(t, err)
}

func TestNodesIn(t *testing.T) {
	d := readString(t, twoTets)
	nodes, err := d.NodesIn(types.DSurf, 0)
	require.NoError(t, err)
	assert.Equal(t, d.Nodes[:3], nodes)
	_, err = d.NodesIn(types.DPoint, 0)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	d := readString(t, twoTets)
	require.NoError(t, d.Validate())

	// a nodeset replaced without Finalize leaves stale back-references
	ns := node.NewNodeset(types.DSurf)
	ns.Add(d.Nodes[4])
	d.Nodesets[types.DSurf] = []*node.Nodeset{ns}
	assert.Error(t, d.Validate())
	d.Finalize()
	assert.NoError(t, d.Validate())

	stranger := node.NewNode(r3.Vec{X: 9})
	d.Elements.All()[0].Nodes[0] = stranger
	assert.Error(t, d.Validate())
}

func TestNodeCoords(t *testing.T) {
	d := readString(t, twoTets)
	X := d.NodeCoords()
	r, c := X.Dims()
	assert.Equal(t, 5, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, -1., X.At(4, 2))
	assert.Contains(t, d.String(), "2 structure elements")
}
