package meshfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/notargets/datmesh/dat"
	"github.com/notargets/datmesh/discretization"
	"github.com/notargets/datmesh/meshio"
	"github.com/notargets/datmesh/types"
)

var ErrFileExists = errors.New("file exists")

type Format uint8

const (
	Native Format = iota // .dat, .dis
	Gmsh                 // .msh
)

func (f Format) String() string {
	return [...]string{"dat", "gmsh"}[f]
}

// FormatFor selects the format by file extension.
func FormatFor(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".dat", ".dis":
		return Native, nil
	case ".msh":
		return Gmsh, nil
	default:
		return 0, fmt.Errorf("unsupported mesh format: %q", ext)
	}
}

type Options struct {
	Strict bool
	// Mesh configures the conversion of external formats.
	Mesh     meshio.Options
	Progress types.ProgressFunc
}

// Read loads a file in the format given by its extension. External formats
// yield a Dat with an empty head.
func Read(filename string, opts Options) (d *dat.Dat, err error) {
	var format Format
	if format, err = FormatFor(filename); err != nil {
		return nil, err
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	switch format {
	case Native:
		d, err = dat.Read(file, discretization.ReadOptions{Strict: opts.Strict, Progress: opts.Progress})
	case Gmsh:
		d, err = readGmsh(file, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return
}

func readGmsh(r io.Reader, opts Options) (*dat.Dat, error) {
	m, err := meshio.ReadGmsh(r)
	if err != nil {
		return nil, err
	}
	mopts := opts.Mesh
	if mopts.Progress == nil {
		mopts.Progress = opts.Progress
	}
	dis, err := meshio.ToDiscretization(m, mopts)
	if err != nil {
		return nil, err
	}
	return dat.New(dis), nil
}

// Write stores d in the format given by the extension. An existing file is
// only replaced when override is set. External formats carry no head.
func Write(filename string, d *dat.Dat, override bool, progress types.ProgressFunc) (err error) {
	var format Format
	if format, err = FormatFor(filename); err != nil {
		return err
	}
	if format == Gmsh && d.Discretization == nil {
		return fmt.Errorf("%s: nothing to write, no discretization", filename)
	}
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !override {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(filename, flags, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w, use override to replace it", filename, ErrFileExists)
		}
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	switch format {
	case Native:
		err = d.Write(file, progress)
	case Gmsh:
		var m *meshio.Mesh
		if m, err = meshio.FromDiscretization(d.Discretization); err != nil {
			return err
		}
		err = meshio.WriteGmsh(file, m)
	}
	return
}
