package dat

import (
	"fmt"
	"io"

	"github.com/notargets/datmesh/datfile"
	"github.com/notargets/datmesh/discretization"
	"github.com/notargets/datmesh/types"
)

const SectionEnd = "END"

// Dat is a whole input file: the head sections plus the discretization.
// Discretization is nil for files without NODE COORDS.
type Dat struct {
	Head           *Head
	Discretization *discretization.Discretization
}

func New(dis *discretization.Discretization) *Dat {
	return &Dat{Head: NewHead(), Discretization: dis}
}

// Read parses a dat stream.
func Read(r io.Reader, opts discretization.ReadOptions) (*Dat, error) {
	sections, err := datfile.ReadSections(r)
	if err != nil {
		return nil, err
	}
	return FromSections(sections, opts)
}

func FromSections(sections *datfile.Sections, opts discretization.ReadOptions) (d *Dat, err error) {
	d = &Dat{}
	if d.Head, err = ReadHead(sections); err != nil {
		return nil, err
	}
	if sections.Has(discretization.SectionNodeCoords) {
		if d.Discretization, err = discretization.Read(sections, opts); err != nil {
			return nil, err
		}
	}
	return
}

// Sections merges head and discretization in canonical order, closed by END.
// Ids of the discretization are left 1-based.
func (d *Dat) Sections(progress types.ProgressFunc) (s *datfile.Sections, err error) {
	if d.Head != nil {
		s = d.Head.Sections()
	} else {
		s = datfile.NewSections()
	}
	if d.Discretization != nil {
		var dis *datfile.Sections
		if dis, err = d.Discretization.Sections(progress); err != nil {
			return nil, err
		}
		if err = s.Merge(dis); err != nil {
			return nil, fmt.Errorf("head and discretization overlap: %w", err)
		}
	}
	s.Set(SectionEnd, nil)
	s.Sort()
	return
}

func (d *Dat) Write(w io.Writer, progress types.ProgressFunc) error {
	s, err := d.Sections(progress)
	if err != nil {
		return err
	}
	return s.Write(w)
}
