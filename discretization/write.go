package discretization

import (
	"fmt"
	"io"
	"strconv"

	"github.com/notargets/datmesh/datfile"
	"github.com/notargets/datmesh/node"
	"github.com/notargets/datmesh/types"
)

// ProblemSizeLines renders PROBLEM SIZE. DIM and MATERIALS are fixed values.
func (d *Discretization) ProblemSizeLines() []string {
	return []string{
		datfile.LineOption("ELEMENTS", strconv.Itoa(d.Elements.NumTotal())),
		datfile.LineOption("NODES", strconv.Itoa(len(d.Nodes))),
		datfile.LineOption("DIM", "3"),
		datfile.LineOption("MATERIALS", "9999"),
	}
}

// Sections computes 1-based ids and renders PROBLEM SIZE, the non-empty
// topology sections, NODE COORDS and one section per present field role.
func (d *Discretization) Sections(progress types.ProgressFunc) (s *datfile.Sections, err error) {
	d.ComputeIDs(false)
	s = datfile.NewSections()
	s.Set(SectionProblemSize, d.ProblemSizeLines())

	for _, kind := range allKinds() {
		sets := d.Nodesets[kind]
		if len(sets) == 0 {
			continue
		}
		var lines []string
		if lines, err = node.SectionLines(sets); err != nil {
			return nil, err
		}
		progress.Report("Write "+kind.SectionName(), 1, 1)
		s.Set(kind.SectionName(), lines)
	}

	lines := make([]string, len(d.Nodes))
	for i, n := range d.Nodes {
		if lines[i], err = n.Line(); err != nil {
			return nil, err
		}
		progress.Report("Write "+SectionNodeCoords, i+1, len(d.Nodes))
	}
	s.Set(SectionNodeCoords, lines)

	var eles *datfile.Sections
	if eles, err = d.Elements.Sections(progress); err != nil {
		return nil, err
	}
	if err = s.Merge(eles); err != nil {
		return nil, err
	}
	return
}

// Write renders the discretization sections to w in canonical order.
func (d *Discretization) Write(w io.Writer, progress types.ProgressFunc) error {
	s, err := d.Sections(progress)
	if err != nil {
		return fmt.Errorf("discretization: %w", err)
	}
	s.Sort()
	return s.Write(w)
}
