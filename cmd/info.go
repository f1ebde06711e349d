/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"

	"github.com/notargets/datmesh/meshfile"
	"github.com/notargets/datmesh/types"
)

// Info summarizes a mesh file.
type Info struct {
	File     string         `json:"File"`
	Format   string         `json:"Format"`
	Sections []string       `json:"Sections,omitempty"` // head sections passed through
	Nodes    int            `json:"Nodes"`
	Elements map[string]int `json:"Elements,omitempty"`
	Nodesets map[string]int `json:"Nodesets,omitempty"`
}

// InfoCmd represents the info command
var InfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Reports the sections, nodes, elements and nodesets of a mesh file",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		asYAML, _ := cmd.Flags().GetBool("yaml")
		strict, _ := cmd.Flags().GetBool("strict")
		info, err := Summarize(file, strict)
		if err != nil {
			return err
		}
		return info.Print(cmd.OutOrStdout(), asYAML)
	},
}

func init() {
	rootCmd.AddCommand(InfoCmd)
	InfoCmd.Flags().StringP("file", "F", "", "mesh file to read (.dat, .dis, .msh)")
	InfoCmd.Flags().Bool("yaml", false, "print the summary as YAML")
	InfoCmd.Flags().Bool("strict", false, "fail on element shapes that are not implemented")
}

func Summarize(filename string, strict bool) (info *Info, err error) {
	var format meshfile.Format
	if format, err = meshfile.FormatFor(filename); err != nil {
		return
	}
	d, err := meshfile.Read(filename, meshfile.Options{Strict: strict})
	if err != nil {
		return
	}
	info = &Info{
		File:     filename,
		Format:   format.String(),
		Sections: d.Head.Titles(),
	}
	dis := d.Discretization
	if dis == nil {
		return
	}
	info.Nodes = len(dis.Nodes)
	info.Elements = make(map[string]int)
	for _, r := range dis.Elements.Roles() {
		info.Elements[r.String()] = dis.Elements.Num(r)
	}
	info.Nodesets = make(map[string]int)
	for k, sets := range dis.Nodesets {
		if len(sets) > 0 {
			info.Nodesets[types.NodesetKind(k).String()] = len(sets)
		}
	}
	return
}

func (info *Info) Print(w io.Writer, asYAML bool) error {
	if asYAML {
		data, err := yaml.Marshal(info)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	fmt.Fprintf(w, "%s (%s)\n", info.File, info.Format)
	for _, title := range info.Sections {
		fmt.Fprintf(w, "  section %s\n", title)
	}
	fmt.Fprintf(w, "%10d nodes\n", info.Nodes)
	for _, r := range types.AllFieldRoles() {
		if num, ok := info.Elements[r.String()]; ok {
			fmt.Fprintf(w, "%10d %s elements\n", num, r)
		}
	}
	for k := types.NodesetKind(0); k < types.NumNodesetKinds; k++ {
		if num, ok := info.Nodesets[k.String()]; ok {
			fmt.Fprintf(w, "%10d %s nodesets\n", num, k)
		}
	}
	return nil
}
