package node

import (
	"fmt"
	"strings"

	"github.com/notargets/datmesh/datfile"
	"github.com/notargets/datmesh/types"
)

// Nodeset is an insertion-ordered set of nodes of one topological kind.
type Nodeset struct {
	ID   types.ID
	Kind types.NodesetKind
	Name string

	nodes   []*Node
	members map[*Node]struct{}
}

func NewNodeset(kind types.NodesetKind) *Nodeset {
	return &Nodeset{
		Kind:    kind,
		members: make(map[*Node]struct{}),
	}
}

// Add inserts n and reports whether it was new.
func (ns *Nodeset) Add(n *Node) bool {
	if _, ok := ns.members[n]; ok {
		return false
	}
	ns.members[n] = struct{}{}
	ns.nodes = append(ns.nodes, n)
	return true
}

func (ns *Nodeset) Contains(n *Node) bool {
	_, ok := ns.members[n]
	return ok
}

func (ns *Nodeset) Nodes() []*Node { return ns.nodes }

func (ns *Nodeset) Len() int { return len(ns.nodes) }

// Link registers ns in the back-references of each member.
func (ns *Nodeset) Link() {
	for _, n := range ns.nodes {
		n.addNodeset(ns)
	}
}

// Lines renders one "NODE <nid> D<KIND> <nsid>" record per member.
func (ns *Nodeset) Lines() (lines []string, err error) {
	nsid, ok := ns.ID.Get()
	if !ok {
		return nil, fmt.Errorf("%s nodeset: %w", ns.Kind, ErrIDsNotComputed)
	}
	lines = make([]string, 0, len(ns.nodes))
	for _, n := range ns.nodes {
		var nid int
		if nid, err = n.GetID(); err != nil {
			return nil, err
		}
		lines = append(lines, fmt.Sprintf("%s %d %s %d", KeyNode, nid, ns.Kind.RecordKey(), nsid))
	}
	return
}

// SectionLines renders a whole topology section.
func SectionLines(sets []*Nodeset) (lines []string, err error) {
	for _, ns := range sets {
		var l []string
		if l, err = ns.Lines(); err != nil {
			return nil, err
		}
		lines = append(lines, l...)
	}
	return
}

// ReadNodesets parses a topology section. Node ids are 1-based indices into
// nodes. Nodesets are created in the order their ids are first seen.
func ReadNodesets(lines []string, nodes []*Node, kind types.NodesetKind) (sets []*Nodeset, err error) {
	byID := make(map[int]*Nodeset)
	for _, line := range lines {
		if datfile.IsBlank(line) {
			continue
		}
		var nid, nsid int
		if nid, err = datfile.ReadInt(line, KeyNode); err != nil {
			return nil, fmt.Errorf("%s: %w", kind.SectionName(), err)
		}
		if nsid, err = datfile.ReadInt(line, kind.RecordKey()); err != nil {
			return nil, fmt.Errorf("%s: %w", kind.SectionName(), err)
		}
		if nid < 1 || nid > len(nodes) {
			return nil, fmt.Errorf("%s: node %d out of range [1,%d] in line %q",
				kind.SectionName(), nid, len(nodes), strings.TrimSpace(line))
		}
		ns, ok := byID[nsid]
		if !ok {
			ns = NewNodeset(kind)
			byID[nsid] = ns
			sets = append(sets, ns)
		}
		ns.Add(nodes[nid-1])
	}
	return
}
