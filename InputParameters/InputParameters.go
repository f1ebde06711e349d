package InputParameters

import (
	"fmt"
	"io"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/datmesh/meshio"
	"github.com/notargets/datmesh/types"
)

// Parameters obtained from the YAML conversion file
type ConvertParameters struct {
	Title        string            `json:"Title"`
	ElementTypes map[string]string `json:"ElementTypes"` // generic cell type -> solver element type
	Role         string            `json:"Role"`         // field role receiving the elements
	Strict       bool              `json:"Strict"`
	Override     bool              `json:"Override"`
}

func (ip *ConvertParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// MeshOptions converts the parameters for the generic mesh bridge.
func (ip *ConvertParameters) MeshOptions() (opts meshio.Options, err error) {
	opts.ElementTypes = ip.ElementTypes
	if len(ip.Role) != 0 {
		if opts.Role, err = types.NewFieldRole(ip.Role); err != nil {
			return
		}
	}
	return
}

func (ip *ConvertParameters) Print(w io.Writer) {
	role := ip.Role
	if len(role) == 0 {
		role = types.Structure.String()
	}
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "[%s]\t\t= Role\n", role)
	fmt.Fprintf(w, "[%v]\t\t= Strict\n", ip.Strict)
	fmt.Fprintf(w, "[%v]\t\t= Override\n", ip.Override)
	keys := make([]string, len(ip.ElementTypes))
	i := 0
	for k := range ip.ElementTypes {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "ElementTypes[%s] = %s\n", key, ip.ElementTypes[key])
	}
}
