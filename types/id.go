package types

// ID is a transient integer id that is either unassigned or assigned.
// The zero value is unassigned.
type ID struct {
	value    int
	assigned bool
}

func (id *ID) Set(v int) {
	id.value, id.assigned = v, true
}

func (id *ID) Clear() {
	id.value, id.assigned = 0, false
}

// Get returns the id and whether it has been assigned.
func (id ID) Get() (int, bool) { return id.value, id.assigned }

func (id ID) IsSet() bool { return id.assigned }
