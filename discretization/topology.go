package discretization

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/notargets/datmesh/element"
	"github.com/notargets/datmesh/node"
	"github.com/notargets/datmesh/types"
)

// DLineElements returns the structure element edges whose nodes all lie in
// the line nodeset at index. Shared edges are reported once.
func (d *Discretization) DLineElements(index int) ([]*element.Element, error) {
	return d.collect(types.DLine, index, d.elementsOf(types.Structure), (*element.Element).Edges)
}

// DSurfElements returns the element faces, across all field roles, whose
// nodes all lie in the surface nodeset at index.
func (d *Discretization) DSurfElements(index int) ([]*element.Element, error) {
	return d.collect(types.DSurf, index, d.Elements.All(), (*element.Element).Faces)
}

// DVolElements returns the volume elements whose nodes all lie in the volume
// nodeset at index.
func (d *Discretization) DVolElements(index int) ([]*element.Element, error) {
	self := func(e *element.Element) ([]*element.Element, error) {
		if e.Dim() != 3 {
			return nil, nil
		}
		return []*element.Element{e}, nil
	}
	return d.collect(types.DVol, index, d.Elements.All(), self)
}

// collect computes 0-based ids and scans the decomposition of every element.
// Generic elements have no decomposition and are skipped.
func (d *Discretization) collect(kind types.NodesetKind, index int, eles []*element.Element,
	decompose func(*element.Element) ([]*element.Element, error)) (found []*element.Element, err error) {
	if index < 0 || index >= len(d.Nodesets[kind]) {
		return nil, fmt.Errorf("%s nodeset index %d out of range [0,%d)", kind, index, len(d.Nodesets[kind]))
	}
	d.ComputeIDs(true)
	ns := d.Nodesets[kind][index]

	seen := make(map[string]struct{})
	for _, e := range eles {
		var subs []*element.Element
		if subs, err = decompose(e); err != nil {
			if errors.Is(err, element.ErrNotImplemented) {
				err = nil
				continue
			}
			return nil, err
		}
		for _, sub := range subs {
			if !containsAll(ns, sub) {
				continue
			}
			var key string
			if key, err = sortedKey(sub); err != nil {
				return nil, err
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			found = append(found, sub)
		}
	}
	return
}

func containsAll(ns *node.Nodeset, e *element.Element) bool {
	for _, n := range e.Nodes {
		if !ns.Contains(n) {
			return false
		}
	}
	return true
}

// sortedKey identifies a sub-element by its sorted node ids.
func sortedKey(e *element.Element) (string, error) {
	ids, err := e.NodeIDs()
	if err != nil {
		return "", err
	}
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, "/"), nil
}
