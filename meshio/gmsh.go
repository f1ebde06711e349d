package meshio

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Gmsh 2.2 element type numbers.
var gmshElementType22 = map[int]string{
	1:  "line",
	2:  "triangle",
	3:  "quad",
	4:  "tetra",
	5:  "hexahedron",
	6:  "wedge",
	7:  "pyramid",
	8:  "line3",
	9:  "triangle6",
	10: "quad9",
	11: "tetra10",
	12: "hexahedron27",
	15: "vertex",
	16: "quad8",
	17: "hexahedron20",
}

var gmshTypeNumber = func() map[string]int {
	m := make(map[string]int, len(gmshElementType22))
	for num, name := range gmshElementType22 {
		m[name] = num
	}
	return m
}()

var gmshHex20 = []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 11, 13, 9, 16, 18, 19, 17, 10, 12, 14, 15}

// gmshOrder maps generic node positions to gmsh node positions: generic node
// i is gmsh node gmshOrder[type][i]. Missing types use the identity.
var gmshOrder = map[string][]int{
	"tetra10":      {0, 1, 2, 3, 4, 5, 6, 7, 9, 8},
	"hexahedron20": gmshHex20,
	"hexahedron27": append(append([]int{}, gmshHex20...), 22, 23, 21, 24, 20, 25, 26),
}

const gmshVersion = "2.2"

// ReadGmsh reads an ASCII Gmsh 2.2 file. The physical and geometrical tags
// become the gmsh:physical and gmsh:geometrical cell data, physical names the
// field data. Element types without a generic counterpart are skipped.
func ReadGmsh(r io.Reader) (m *Mesh, err error) {
	var (
		scanner = bufio.NewScanner(r)
		coords  []float64
		index   = make(map[int]int)
		groups  = make(map[string]PhysicalGroup)
		blocks  []CellBlock
		phys    []CellValues
		geom    []CellValues
	)
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch line {
		case "$MeshFormat":
			if err = readGmshFormat(scanner); err != nil {
				return nil, err
			}
		case "$PhysicalNames":
			if err = readGmshPhysicalNames(scanner, groups); err != nil {
				return nil, err
			}
		case "$Nodes":
			if coords, err = readGmshNodes(scanner, index); err != nil {
				return nil, err
			}
		case "$Elements":
			if blocks, phys, geom, err = readGmshElements(scanner, index); err != nil {
				return nil, err
			}
		default:
			if strings.HasPrefix(line, "$") {
				skipTo(scanner, "$End"+line[1:])
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}
	var points *mat.Dense
	if len(coords) > 0 {
		points = mat.NewDense(len(coords)/3, 3, coords)
	}
	m = NewMesh(points)
	m.Cells = blocks
	if len(blocks) > 0 {
		m.CellData[GmshPhysical] = phys
		m.CellData[GmshGeometrical] = geom
	}
	m.FieldData = groups
	return m, m.Check()
}

func skipTo(scanner *bufio.Scanner, marker string) {
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == marker {
			return
		}
	}
}

func scanCount(scanner *bufio.Scanner, section string) (int, error) {
	if !scanner.Scan() {
		return 0, fmt.Errorf("unexpected EOF in %s", section)
	}
	num, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return 0, fmt.Errorf("%s count: %w", section, err)
	}
	return num, nil
}

func readGmshFormat(scanner *bufio.Scanner) error {
	if !scanner.Scan() {
		return fmt.Errorf("unexpected EOF in MeshFormat")
	}
	parts := strings.Fields(scanner.Text())
	if len(parts) < 3 {
		return fmt.Errorf("invalid MeshFormat line")
	}
	if !strings.HasPrefix(parts[0], "2") {
		return fmt.Errorf("unsupported gmsh version %s, need %s", parts[0], gmshVersion)
	}
	if parts[1] != "0" {
		return fmt.Errorf("binary gmsh files are not supported")
	}
	skipTo(scanner, "$EndMeshFormat")
	return nil
}

func readGmshPhysicalNames(scanner *bufio.Scanner, groups map[string]PhysicalGroup) error {
	num, err := scanCount(scanner, "PhysicalNames")
	if err != nil {
		return err
	}
	for i := 0; i < num; i++ {
		if !scanner.Scan() {
			return fmt.Errorf("unexpected EOF reading physical names")
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) < 3 {
			return fmt.Errorf("invalid physical name line: %s", scanner.Text())
		}
		var g PhysicalGroup
		if g.Dim, err = strconv.Atoi(parts[0]); err != nil {
			return err
		}
		if g.Tag, err = strconv.Atoi(parts[1]); err != nil {
			return err
		}
		name := strings.Trim(strings.Join(parts[2:], " "), "\"")
		groups[name] = g
	}
	skipTo(scanner, "$EndPhysicalNames")
	return nil
}

func readGmshNodes(scanner *bufio.Scanner, index map[int]int) (coords []float64, err error) {
	var num int
	if num, err = scanCount(scanner, "Nodes"); err != nil {
		return
	}
	coords = make([]float64, 0, 3*num)
	for i := 0; i < num; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("unexpected EOF reading nodes")
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) < 4 {
			return nil, fmt.Errorf("invalid node line: %s", scanner.Text())
		}
		var id int
		if id, err = strconv.Atoi(parts[0]); err != nil {
			return nil, fmt.Errorf("node id: %w", err)
		}
		for _, p := range parts[1:4] {
			var x float64
			if x, err = strconv.ParseFloat(p, 64); err != nil {
				return nil, fmt.Errorf("node %d: %w", id, err)
			}
			coords = append(coords, x)
		}
		index[id] = i
	}
	skipTo(scanner, "$EndNodes")
	return
}

func readGmshElements(scanner *bufio.Scanner, index map[int]int) (blocks []CellBlock, phys, geom []CellValues, err error) {
	var num int
	if num, err = scanCount(scanner, "Elements"); err != nil {
		return
	}
	for i := 0; i < num; i++ {
		if !scanner.Scan() {
			return nil, nil, nil, fmt.Errorf("unexpected EOF reading elements")
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) < 3 {
			return nil, nil, nil, fmt.Errorf("invalid element line: %s", scanner.Text())
		}
		ints := make([]int, len(parts))
		for j, p := range parts {
			if ints[j], err = strconv.Atoi(p); err != nil {
				return nil, nil, nil, fmt.Errorf("element line %q: %w", scanner.Text(), err)
			}
		}
		cellType, ok := gmshElementType22[ints[1]]
		if !ok {
			continue
		}
		numTags := ints[2]
		if len(ints) < 3+numTags {
			return nil, nil, nil, fmt.Errorf("element %d: missing tags", ints[0])
		}
		tags := ints[3 : 3+numTags]
		gmshNodes := ints[3+numTags:]
		ci, _ := CellType(cellType)
		if len(gmshNodes) != ci.NumNodes {
			return nil, nil, nil, fmt.Errorf("element %d: %s has %d nodes, need %d",
				ints[0], cellType, len(gmshNodes), ci.NumNodes)
		}
		cell := make([]int, ci.NumNodes)
		order := gmshOrder[cellType]
		for j := range cell {
			g := j
			if order != nil {
				g = order[j]
			}
			p, found := index[gmshNodes[g]]
			if !found {
				return nil, nil, nil, fmt.Errorf("element %d: unknown node %d", ints[0], gmshNodes[g])
			}
			cell[j] = p
		}
		var physTag, geomTag float64
		if len(tags) > 0 {
			physTag = float64(tags[0])
		}
		if len(tags) > 1 {
			geomTag = float64(tags[1])
		}
		if len(blocks) == 0 || blocks[len(blocks)-1].Type != cellType {
			blocks = append(blocks, CellBlock{Type: cellType})
			phys = append(phys, CellValues{})
			geom = append(geom, CellValues{})
		}
		last := len(blocks) - 1
		blocks[last].Data = append(blocks[last].Data, cell)
		phys[last] = append(phys[last], []float64{physTag})
		geom[last] = append(geom[last], []float64{geomTag})
	}
	skipTo(scanner, "$EndElements")
	return
}

// WriteGmsh writes an ASCII Gmsh 2.2 file. Tags come from the gmsh channels,
// falling back to the material channel, then 0. Point sets are not written.
func WriteGmsh(w io.Writer, m *Mesh) (err error) {
	if err = m.Check(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "$MeshFormat\n%s 0 8\n$EndMeshFormat\n", gmshVersion)

	if len(m.FieldData) > 0 {
		names := make([]string, 0, len(m.FieldData))
		for name := range m.FieldData {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(bw, "$PhysicalNames\n%d\n", len(names))
		for _, name := range names {
			g := m.FieldData[name]
			fmt.Fprintf(bw, "%d %d \"%s\"\n", g.Dim, g.Tag, name)
		}
		fmt.Fprintf(bw, "$EndPhysicalNames\n")
	}

	fmt.Fprintf(bw, "$Nodes\n%d\n", m.NumPoints())
	if m.NumPoints() > 0 {
		for i, x := range Coords(m.Points) {
			fmt.Fprintf(bw, "%d %s %s %s\n", i+1, formatFloat(x.X), formatFloat(x.Y), formatFloat(x.Z))
		}
	}
	fmt.Fprintf(bw, "$EndNodes\n")

	fmt.Fprintf(bw, "$Elements\n%d\n", m.NumCells())
	id := 0
	for b, block := range m.Cells {
		typeNum, ok := gmshTypeNumber[block.Type]
		if !ok {
			return fmt.Errorf("cell type %s has no gmsh element type", block.Type)
		}
		order := gmshOrder[block.Type]
		for c, cell := range block.Data {
			id++
			physTag, _ := m.cellID([]string{GmshPhysical, Material}, b, c)
			geomTag, _ := m.cellID([]string{GmshGeometrical, Material}, b, c)
			gmshNodes := make([]int, len(cell))
			for j, p := range cell {
				g := j
				if order != nil {
					g = order[j]
				}
				gmshNodes[g] = p + 1
			}
			var sb strings.Builder
			fmt.Fprintf(&sb, "%d %d 2 %d %d", id, typeNum, physTag, geomTag)
			for _, n := range gmshNodes {
				sb.WriteString(" " + strconv.Itoa(n))
			}
			fmt.Fprintln(bw, sb.String())
		}
	}
	fmt.Fprintf(bw, "$EndElements\n")
	return bw.Flush()
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
