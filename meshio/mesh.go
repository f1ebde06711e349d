package meshio

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// CellBlock is a run of cells of one type. Data holds 0-based point indices,
// one row per cell.
type CellBlock struct {
	Type string
	Data [][]int
}

// CellValues holds one row of values per cell of a block.
type CellValues [][]float64

// PhysicalGroup is a named tag with its topological dimension.
type PhysicalGroup struct {
	Tag int
	Dim int
}

// Mesh is the generic interchange representation: points, typed cell blocks
// and named data arrays aligned with them.
type Mesh struct {
	Points    *mat.Dense // N x 3
	Cells     []CellBlock
	PointData map[string][][]float64  // per point
	CellData  map[string][]CellValues // per block, then per cell
	PointSets map[string][]int
	FieldData map[string]PhysicalGroup
}

func NewMesh(points *mat.Dense) *Mesh {
	return &Mesh{
		Points:    points,
		PointData: make(map[string][][]float64),
		CellData:  make(map[string][]CellValues),
		PointSets: make(map[string][]int),
		FieldData: make(map[string]PhysicalGroup),
	}
}

func (m *Mesh) NumPoints() int {
	if m.Points == nil || m.Points.IsEmpty() {
		return 0
	}
	r, _ := m.Points.Dims()
	return r
}

func (m *Mesh) NumCells() (num int) {
	for _, b := range m.Cells {
		num += len(b.Data)
	}
	return
}

// MaxDim is the highest cell dimension, which is taken as the mesh dimension.
func (m *Mesh) MaxDim() (maxDim int, err error) {
	maxDim = -1
	for _, b := range m.Cells {
		var ci *CellInfo
		if ci, err = CellType(b.Type); err != nil {
			return
		}
		if ci.Dim > maxDim {
			maxDim = ci.Dim
		}
	}
	return
}

// Check verifies that every array is aligned with points and cell blocks.
func (m *Mesh) Check() error {
	numPoints := m.NumPoints()
	if m.Points != nil && !m.Points.IsEmpty() {
		if _, c := m.Points.Dims(); c != 3 {
			return fmt.Errorf("points have %d columns, need 3", c)
		}
	}
	for i, b := range m.Cells {
		ci, err := CellType(b.Type)
		if err != nil {
			return err
		}
		for j, cell := range b.Data {
			if len(cell) != ci.NumNodes {
				return fmt.Errorf("block %d (%s) cell %d: %d nodes, need %d", i, b.Type, j, len(cell), ci.NumNodes)
			}
			for _, p := range cell {
				if p < 0 || p >= numPoints {
					return fmt.Errorf("block %d (%s) cell %d: point %d out of range [0,%d)", i, b.Type, j, p, numPoints)
				}
			}
		}
	}
	for name, values := range m.PointData {
		if len(values) != numPoints {
			return fmt.Errorf("point data %q has %d rows for %d points", name, len(values), numPoints)
		}
	}
	for name, blocks := range m.CellData {
		if len(blocks) != len(m.Cells) {
			return fmt.Errorf("cell data %q has %d blocks for %d cell blocks", name, len(blocks), len(m.Cells))
		}
		for i, values := range blocks {
			if len(values) != len(m.Cells[i].Data) {
				return fmt.Errorf("cell data %q block %d has %d rows for %d cells", name, i, len(values), len(m.Cells[i].Data))
			}
		}
	}
	for name, points := range m.PointSets {
		for _, p := range points {
			if p < 0 || p >= numPoints {
				return fmt.Errorf("point set %q: point %d out of range [0,%d)", name, p, numPoints)
			}
		}
	}
	return nil
}
