package discretization

import (
	"errors"
	"fmt"

	"github.com/notargets/datmesh/datfile"
	"github.com/notargets/datmesh/element"
	"github.com/notargets/datmesh/node"
	"github.com/notargets/datmesh/types"
)

var (
	ErrRoleAbsent = errors.New("field role absent")
	ErrIDGap      = errors.New("id sequence has a gap")
)

// ElementContainer groups elements by field role. A role is absent until it
// is set; an absent role and a role holding an empty list are different
// states, and only present roles produce an output section.
type ElementContainer struct {
	lists   [types.NumFieldRoles][]*element.Element
	present [types.NumFieldRoles]bool
}

// Set makes role present with the given elements, which may be empty.
func (c *ElementContainer) Set(role types.FieldRole, eles []*element.Element) {
	if eles == nil {
		eles = []*element.Element{}
	}
	c.lists[role], c.present[role] = eles, true
}

// Append adds elements to role, making it present.
func (c *ElementContainer) Append(role types.FieldRole, eles ...*element.Element) {
	c.lists[role] = append(c.lists[role], eles...)
	c.present[role] = true
}

// Unset makes role absent again.
func (c *ElementContainer) Unset(role types.FieldRole) {
	c.lists[role], c.present[role] = nil, false
}

func (c *ElementContainer) Has(role types.FieldRole) bool { return c.present[role] }

// Get returns the elements of a present role, ErrRoleAbsent otherwise.
func (c *ElementContainer) Get(role types.FieldRole) ([]*element.Element, error) {
	if !c.present[role] {
		return nil, fmt.Errorf("%w: %s", ErrRoleAbsent, role)
	}
	return c.lists[role], nil
}

// Num is the element count of role, 0 when absent.
func (c *ElementContainer) Num(role types.FieldRole) int { return len(c.lists[role]) }

func (c *ElementContainer) NumTotal() (num int) {
	for _, l := range c.lists {
		num += len(l)
	}
	return
}

// Roles lists the present roles in fixed order.
func (c *ElementContainer) Roles() (roles []types.FieldRole) {
	for _, r := range types.AllFieldRoles() {
		if c.present[r] {
			roles = append(roles, r)
		}
	}
	return
}

// All returns every element, role by role in fixed order. This is the order
// element ids are assigned in.
func (c *ElementContainer) All() (eles []*element.Element) {
	eles = make([]*element.Element, 0, c.NumTotal())
	for _, r := range c.Roles() {
		eles = append(eles, c.lists[r]...)
	}
	return
}

// Sections renders one "<ROLE> ELEMENTS" section per present role.
// Ids must have been computed.
func (c *ElementContainer) Sections(progress types.ProgressFunc) (s *datfile.Sections, err error) {
	s = datfile.NewSections()
	for _, r := range c.Roles() {
		eles := c.lists[r]
		lines := make([]string, len(eles))
		for i, e := range eles {
			if lines[i], err = e.Line(); err != nil {
				return nil, fmt.Errorf("%s: %w", r.SectionName(), err)
			}
			progress.Report("Write "+r.SectionName(), i+1, len(eles))
		}
		s.Set(r.SectionName(), lines)
	}
	return
}

// ReadElementSections reads every "<ROLE> ELEMENTS" section found in sections.
// Roles without a section stay absent.
func ReadElementSections(sections *datfile.Sections, nodes []*node.Node, strict bool,
	progress types.ProgressFunc) (c *ElementContainer, err error) {
	c = &ElementContainer{}
	for _, r := range types.AllFieldRoles() {
		lines, ok := sections.Lines(r.SectionName())
		if !ok {
			continue
		}
		var eles []*element.Element
		if eles, err = readElements(r.SectionName(), lines, nodes, strict, progress); err != nil {
			return nil, err
		}
		c.Set(r, eles)
	}
	return
}

// readElements parses an element section. Declared ids must run contiguously
// from the first element's own id.
func readElements(title string, lines []string, nodes []*node.Node, strict bool,
	progress types.ProgressFunc) (eles []*element.Element, err error) {
	var first int
	for i, line := range lines {
		progress.Report(title, i+1, len(lines))
		e, id, err := element.Parse(line, nodes, strict)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", title, err)
		}
		if e == nil {
			continue
		}
		if len(eles) == 0 {
			first = id
		}
		if expected := first + len(eles); id != expected {
			return nil, fmt.Errorf("%s: %w: element %d found where %d was expected",
				title, ErrIDGap, id, expected)
		}
		eles = append(eles, e)
	}
	if eles == nil {
		eles = []*element.Element{}
	}
	return
}
