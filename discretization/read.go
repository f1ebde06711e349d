package discretization

import (
	"fmt"
	"io"

	"github.com/notargets/datmesh/datfile"
	"github.com/notargets/datmesh/node"
	"github.com/notargets/datmesh/types"
)

const (
	SectionNodeCoords  = "NODE COORDS"
	SectionProblemSize = "PROBLEM SIZE"
)

type ReadOptions struct {
	Strict   bool // unknown element shapes are an error instead of a generic element
	Progress types.ProgressFunc
}

// Read builds a discretization from dat sections: nodes, then the topology
// sections, then the element sections. Back-references are finalized.
func Read(sections *datfile.Sections, opts ReadOptions) (d *Discretization, err error) {
	lines, ok := sections.Lines(SectionNodeCoords)
	if !ok {
		return nil, fmt.Errorf("missing section %q", SectionNodeCoords)
	}
	d = New()
	if d.Nodes, err = readNodes(lines, opts.Progress); err != nil {
		return nil, err
	}
	for _, kind := range allKinds() {
		if lines, ok = sections.Lines(kind.SectionName()); !ok {
			continue
		}
		opts.Progress.Report(kind.SectionName(), 1, 1)
		if d.Nodesets[kind], err = node.ReadNodesets(lines, d.Nodes, kind); err != nil {
			return nil, err
		}
	}
	if d.Elements, err = ReadElementSections(sections, d.Nodes, opts.Strict, opts.Progress); err != nil {
		return nil, err
	}
	d.Finalize()
	return
}

// ReadFrom splits r into sections and reads the discretization part.
func ReadFrom(r io.Reader, opts ReadOptions) (*Discretization, error) {
	sections, err := datfile.ReadSections(r)
	if err != nil {
		return nil, err
	}
	return Read(sections, opts)
}

// readNodes parses NODE COORDS. The declared ids must count up from 1.
func readNodes(lines []string, progress types.ProgressFunc) (nodes []*node.Node, err error) {
	for i, line := range lines {
		progress.Report(SectionNodeCoords, i+1, len(lines))
		if datfile.IsBlank(line) {
			continue
		}
		n, id, err := node.ParseNode(line)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", SectionNodeCoords, err)
		}
		nodes = append(nodes, n)
		if id != len(nodes) {
			return nil, fmt.Errorf("%s: %w: node %d found where %d was expected",
				SectionNodeCoords, ErrIDGap, id, len(nodes))
		}
	}
	return
}
