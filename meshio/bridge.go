package meshio

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/datmesh/discretization"
	"github.com/notargets/datmesh/element"
	"github.com/notargets/datmesh/node"
	"github.com/notargets/datmesh/types"
)

// Conventional cell data channel names.
const (
	MeditRef        = "medit:ref"
	GmshGeometrical = "gmsh:geometrical"
	GmshPhysical    = "gmsh:physical"
	Material        = "material"
)

// idChannels carry the material id of top-dimension cells and the nodeset id
// of lower-dimension cells, in priority order. MAT additionally reads the
// material channel last, which is where FromDiscretization writes it; nodeset
// ids never do.
var (
	idChannels       = []string{MeditRef, GmshGeometrical}
	materialChannels = []string{MeditRef, GmshGeometrical, Material}
)

const defaultMaterial = 1

type Options struct {
	// ElementTypes overrides the solver element type per generic cell type.
	ElementTypes map[string]string
	// Role receives the elements, Structure by default.
	Role     types.FieldRole
	Progress types.ProgressFunc
}

// cellID reads an integer id for a cell from the first channel present.
func (m *Mesh) cellID(channels []string, block, cell int) (id int, ok bool) {
	for _, name := range channels {
		blocks, found := m.CellData[name]
		if !found {
			continue
		}
		if block >= len(blocks) || cell >= len(blocks[block]) || len(blocks[block][cell]) == 0 {
			return 0, false
		}
		return int(blocks[block][cell][0]), true
	}
	return 0, false
}

// ToDiscretization converts a generic mesh. Cells of the highest dimension
// become elements; lower-dimension cells add their nodes to the nodeset of
// their dimension, with the id read from the id channels. Point sets become
// nodesets classified by name.
func ToDiscretization(m *Mesh, opts Options) (d *discretization.Discretization, err error) {
	if err = m.Check(); err != nil {
		return nil, err
	}
	d = discretization.New()

	numPoints := m.NumPoints()
	d.Nodes = make([]*node.Node, numPoints)
	for i := 0; i < numPoints; i++ {
		row := m.Points.RawRowView(i)
		n := node.NewNode(r3.Vec{X: row[0], Y: row[1], Z: row[2]})
		for key, values := range m.PointData {
			n.Data[key] = append([]float64(nil), values[i]...)
		}
		d.Nodes[i] = n
		opts.Progress.Report("Create nodes", i+1, numPoints)
	}

	var maxDim int
	if maxDim, err = m.MaxDim(); err != nil {
		return nil, err
	}
	var builders [types.NumNodesetKinds]*node.NodesetBuilder
	for k := range builders {
		builders[k] = node.NewNodesetBuilder(types.NodesetKind(k))
	}

	eles := []*element.Element{}
	for b, block := range m.Cells {
		ci, _ := CellType(block.Type)
		elType := ci.ElementType
		if override, ok := opts.ElementTypes[block.Type]; ok {
			elType = override
		}
		label := fmt.Sprintf("Create %s elements", block.Type)
		for c, cell := range block.Data {
			opts.Progress.Report(label, c+1, len(block.Data))
			nodes := make([]*node.Node, len(cell))
			for i, p := range cell {
				nodes[i] = d.Nodes[p]
			}
			if ci.Dim != maxDim {
				if nsid, ok := m.cellID(idChannels, b, c); ok {
					for _, n := range nodes {
						builders[ci.Dim].Add(n, nsid)
					}
				}
				continue
			}

			datNodes := make([]*node.Node, len(cell))
			for i, p := range ci.ToDat(cell) {
				datNodes[i] = d.Nodes[p]
			}
			var e *element.Element
			if e, err = element.New(elType, ci.Shape, datNodes); err != nil {
				return nil, err
			}
			matID, ok := m.cellID(materialChannels, b, c)
			if !ok {
				matID = defaultMaterial
			}
			e.Options.Set("MAT", strconv.Itoa(matID))
			for key, blocks := range m.CellData {
				e.Data[key] = append([]float64(nil), blocks[b][c]...)
			}
			eles = append(eles, e)

			// a surface mesh also defines surface nodesets through its cells
			if maxDim == 2 && len(m.CellData) > 0 {
				if nsid, ok := m.cellID(idChannels, b, c); ok {
					for _, n := range nodes {
						builders[types.DSurf].Add(n, nsid)
					}
				}
			}
		}
	}
	d.Elements.Set(opts.Role, eles)

	for _, name := range sortedSetNames(m.PointSets) {
		kind, ok := pointSetKind(name)
		if !ok {
			continue
		}
		nb := builders[kind]
		nsid := nb.UnusedID()
		for _, p := range m.PointSets[name] {
			nb.Add(d.Nodes[p], nsid)
		}
		nb.SetName(nsid, name)
	}
	for name, group := range m.FieldData {
		if kind, kerr := types.NodesetKindForDim(group.Dim); kerr == nil && group.Dim < maxDim {
			builders[kind].Rename(group.Tag, name)
		}
	}

	for k, nb := range builders {
		d.Nodesets[k] = nb.Finalize()
	}
	d.Finalize()
	return
}

// pointSetKind classifies a point set by the first of volume, surface, line
// or point found in its name.
func pointSetKind(name string) (types.NodesetKind, bool) {
	switch {
	case strings.Contains(name, "volume"):
		return types.DVol, true
	case strings.Contains(name, "surface"):
		return types.DSurf, true
	case strings.Contains(name, "line"):
		return types.DLine, true
	case strings.Contains(name, "point"):
		return types.DPoint, true
	}
	return 0, false
}

var numberSuffix = regexp.MustCompile(`^(.*?)(\d+)$`)

// sortedSetNames orders names by prefix, then by numeric suffix.
func sortedSetNames(sets map[string][]int) []string {
	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	split := func(s string) (string, int) {
		if m := numberSuffix.FindStringSubmatch(s); m != nil {
			n, _ := strconv.Atoi(m[2])
			return m[1], n
		}
		return s, -1
	}
	sort.Slice(names, func(i, j int) bool {
		pi, ni := split(names[i])
		pj, nj := split(names[j])
		if pi != pj {
			return pi < pj
		}
		if ni != nj {
			return ni < nj
		}
		return names[i] < names[j]
	})
	return names
}

var pointSetPrefix = [...]string{"dpoint", "dline", "dsurface", "dvolume"}

// PointSetName is the point set a nodeset is exported as, e.g. dsurface1.
func PointSetName(kind types.NodesetKind, index int) string {
	return fmt.Sprintf("%s%d", pointSetPrefix[kind], index+1)
}

// FromDiscretization converts to a generic mesh. Elements are grouped into
// contiguous runs of one cell type. MAT becomes the material channel, every
// element data entry its own channel, zero where an element lacks it.
// Nodesets are exported as point sets. Ids are reset afterwards.
func FromDiscretization(d *discretization.Discretization) (m *Mesh, err error) {
	d.ComputeIDs(true)
	defer d.Reset()

	m = NewMesh(d.NodeCoords())
	if m.PointData, err = pointData(d.Nodes); err != nil {
		return nil, err
	}

	type loc struct{ block, cell int }
	all := d.Elements.All()
	where := make([]loc, len(all))
	for i, e := range all {
		var ci *CellInfo
		if ci, err = CellForShape(e.Shape); err != nil {
			return nil, err
		}
		if len(m.Cells) == 0 || m.Cells[len(m.Cells)-1].Type != ci.Type {
			m.Cells = append(m.Cells, CellBlock{Type: ci.Type})
		}
		var ids []int
		if ids, err = e.NodeIDs(); err != nil {
			return nil, err
		}
		last := &m.Cells[len(m.Cells)-1]
		last.Data = append(last.Data, ci.FromDat(ids))
		where[i] = loc{block: len(m.Cells) - 1, cell: len(last.Data) - 1}
	}

	for i, e := range all {
		l := where[i]
		if v, ok := e.Options.Value("MAT"); ok {
			var matID int
			if matID, err = strconv.Atoi(v); err != nil {
				return nil, fmt.Errorf("element %d: MAT %q: %w", i, v, err)
			}
			if err = m.ensureCellChannel(Material, 1); err != nil {
				return nil, err
			}
			m.CellData[Material][l.block][l.cell][0] = float64(matID)
		}
		for key, value := range e.Data {
			if key == Material {
				continue
			}
			if err = m.ensureCellChannel(key, len(value)); err != nil {
				return nil, err
			}
			row := m.CellData[key][l.block][l.cell]
			if len(row) != len(value) {
				return nil, fmt.Errorf("element %d: cell data %q has %d values, channel has %d", i, key, len(value), len(row))
			}
			copy(row, value)
		}
	}

	for _, kind := range []types.NodesetKind{types.DPoint, types.DLine, types.DSurf, types.DVol} {
		for i, ns := range d.Nodesets[kind] {
			points := make([]int, 0, ns.Len())
			for _, n := range ns.Nodes() {
				var id int
				if id, err = n.GetID(); err != nil {
					return nil, err
				}
				points = append(points, id)
			}
			m.PointSets[PointSetName(kind, i)] = points
		}
	}
	return
}

// ensureCellChannel allocates a zero channel of the given width on first use.
func (m *Mesh) ensureCellChannel(name string, width int) error {
	if _, ok := m.CellData[name]; ok {
		return nil
	}
	if width < 1 {
		return fmt.Errorf("cell data %q is empty", name)
	}
	blocks := make([]CellValues, len(m.Cells))
	for b, block := range m.Cells {
		blocks[b] = make(CellValues, len(block.Data))
		for c := range blocks[b] {
			blocks[b][c] = make([]float64, width)
		}
	}
	m.CellData[name] = blocks
	return nil
}

// pointData collects node data channels, zero where a node lacks one.
func pointData(nodes []*node.Node) (data map[string][][]float64, err error) {
	data = make(map[string][][]float64)
	for i, n := range nodes {
		for key, value := range n.Data {
			rows, ok := data[key]
			if !ok {
				rows = make([][]float64, len(nodes))
				for j := range rows {
					rows[j] = make([]float64, len(value))
				}
				data[key] = rows
			}
			if len(rows[i]) != len(value) {
				return nil, fmt.Errorf("node %d: point data %q has %d values, channel has %d", i, key, len(value), len(rows[i]))
			}
			copy(rows[i], value)
		}
	}
	return
}

// Coords is the point matrix as r3 vectors.
func Coords(points mat.Matrix) (coords []r3.Vec) {
	r, _ := points.Dims()
	coords = make([]r3.Vec, r)
	for i := range coords {
		coords[i] = r3.Vec{X: points.At(i, 0), Y: points.At(i, 1), Z: points.At(i, 2)}
	}
	return
}
