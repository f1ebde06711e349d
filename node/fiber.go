package node

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/datmesh/datfile"
	"github.com/notargets/datmesh/types"
)

// Fibers maps a fiber type to its direction.
type Fibers map[types.FiberType]r3.Vec

// Options renders the fibers in fiber-type order.
func (f Fibers) Options() (opts datfile.Options) {
	for ft := types.FiberType(0); ft < types.NumFiberTypes; ft++ {
		if v, ok := f[ft]; ok {
			opts = append(opts, datfile.Option{
				Key:    ft.Key(),
				Values: datfile.FormatFloats(v.X, v.Y, v.Z),
			})
		}
	}
	return
}

func (f Fibers) Clone() Fibers {
	c := make(Fibers, len(f))
	for k, v := range f {
		c[k] = v
	}
	return c
}

// ParseFibers picks every fiber key out of a record line. A fiber key must be
// followed by three numbers.
func ParseFibers(line string) (f Fibers, err error) {
	f = make(Fibers)
	fields := strings.Fields(datfile.StripComment(line))
	for i, tok := range fields {
		ft, ok := types.ParseFiberType(tok)
		if !ok {
			continue
		}
		if i+3 >= len(fields) {
			return nil, fmt.Errorf("fiber %s: key %q expects 3 value(s), found %d", ft, tok, len(fields)-i-1)
		}
		var v []float64
		if v, err = datfile.ParseFloats(fields[i+1 : i+4]); err != nil {
			return nil, fmt.Errorf("fiber %s: %w", ft, err)
		}
		f[ft] = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	}
	return
}

// FiberValueCount is the arity function for datfile.ReadKeyValues:
// fiber keys carry three values, everything else one.
func FiberValueCount(key string) int {
	if _, ok := types.ParseFiberType(key); ok {
		return 3
	}
	return 1
}
