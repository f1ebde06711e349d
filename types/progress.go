package types

// ProgressFunc observes long loops. done runs from 1 to total.
type ProgressFunc func(label string, done, total int)

// Report calls p if it is set.
func (p ProgressFunc) Report(label string, done, total int) {
	if p != nil {
		p(label, done, total)
	}
}
