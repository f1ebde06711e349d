package types

import (
	"fmt"
	"strings"
)

// FieldRole is the physics an element belongs to. The set is closed.
type FieldRole uint8

const (
	Structure FieldRole = iota
	Fluid
	ALE
	Transport
	Thermo
	NumFieldRoles
)

func (r FieldRole) String() string {
	return [...]string{"structure", "fluid", "ale", "transport", "thermo"}[r]
}

// SectionName is the dat section holding elements of this role, e.g. "STRUCTURE ELEMENTS".
func (r FieldRole) SectionName() string {
	return strings.ToUpper(r.String()) + " ELEMENTS"
}

var FieldRoleNameMap = map[string]FieldRole{
	"structure": Structure,
	"fluid":     Fluid,
	"ale":       ALE,
	"transport": Transport,
	"thermo":    Thermo,
}

func NewFieldRole(label string) (r FieldRole, err error) {
	var ok bool
	if r, ok = FieldRoleNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown field role %q", label)
	}
	return
}

// AllFieldRoles lists the roles in their fixed iteration order.
func AllFieldRoles() (roles []FieldRole) {
	roles = make([]FieldRole, NumFieldRoles)
	for i := range roles {
		roles[i] = FieldRole(i)
	}
	return
}

// NodesetKind classifies a nodeset by topological dimension.
type NodesetKind uint8

const (
	DPoint NodesetKind = iota
	DLine
	DSurf
	DVol
	NumNodesetKinds
)

func (k NodesetKind) String() string {
	return [...]string{"dpoint", "dline", "dsurf", "dvol"}[k]
}

// Dim is the topological dimension, 0 for points up to 3 for volumes.
func (k NodesetKind) Dim() int { return int(k) }

// SectionName is the dat topology section, e.g. "DSURF-NODE TOPOLOGY".
func (k NodesetKind) SectionName() string {
	return [...]string{
		"DNODE-NODE TOPOLOGY",
		"DLINE-NODE TOPOLOGY",
		"DSURF-NODE TOPOLOGY",
		"DVOL-NODE TOPOLOGY",
	}[k]
}

// RecordKey is the token preceding the nodeset id in a topology record.
func (k NodesetKind) RecordKey() string {
	return [...]string{"DNODE", "DLINE", "DSURFACE", "DVOLUME"}[k]
}

func NodesetKindForDim(dim int) (k NodesetKind, err error) {
	if dim < 0 || dim >= int(NumNodesetKinds) {
		err = fmt.Errorf("no nodeset kind for dimension %d", dim)
		return
	}
	k = NodesetKind(dim)
	return
}
