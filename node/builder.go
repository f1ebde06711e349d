package node

import (
	"sort"

	"github.com/notargets/datmesh/types"
)

// NodesetBuilder collects (node, external id) pairs. Finalize emits the
// nodesets sorted by external id.
type NodesetBuilder struct {
	Kind types.NodesetKind
	sets map[int]*Nodeset
}

func NewNodesetBuilder(kind types.NodesetKind) *NodesetBuilder {
	return &NodesetBuilder{
		Kind: kind,
		sets: make(map[int]*Nodeset),
	}
}

func (b *NodesetBuilder) get(id int) *Nodeset {
	ns, ok := b.sets[id]
	if !ok {
		ns = NewNodeset(b.Kind)
		b.sets[id] = ns
	}
	return ns
}

func (b *NodesetBuilder) Add(n *Node, id int) {
	b.get(id).Add(n)
}

// SetName labels the nodeset with the given external id, creating it if needed.
func (b *NodesetBuilder) SetName(id int, name string) {
	b.get(id).Name = name
}

// Rename labels an existing nodeset and reports whether it was found.
func (b *NodesetBuilder) Rename(id int, name string) bool {
	ns, ok := b.sets[id]
	if ok {
		ns.Name = name
	}
	return ok
}

// UnusedID is the smallest positive id not yet in use.
func (b *NodesetBuilder) UnusedID() int {
	id := 1
	for {
		if _, ok := b.sets[id]; !ok {
			return id
		}
		id++
	}
}

func (b *NodesetBuilder) Len() int { return len(b.sets) }

func (b *NodesetBuilder) Finalize() (sets []*Nodeset) {
	ids := make([]int, 0, len(b.sets))
	for id := range b.sets {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	sets = make([]*Nodeset, len(ids))
	for i, id := range ids {
		sets[i] = b.sets[id]
	}
	return
}
