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
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/datmesh/InputParameters"
	"github.com/notargets/datmesh/meshfile"
	"github.com/notargets/datmesh/types"
	"github.com/notargets/datmesh/utils"
)

type ConvertJob struct {
	InFile, OutFile string
	ParamFile       string
	Override        bool
	Verbose         bool
}

// ConvertCmd represents the convert command
var ConvertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Converts a mesh between the dat and Gmsh formats",
	Long: `
Reads the input file and writes it in the format of the output file, both
chosen by extension: .dat and .dis for the dat format, .msh for Gmsh 2.2.

datmesh convert -F mesh.msh -O mesh.dat -I params.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		job := &ConvertJob{}
		job.InFile, _ = cmd.Flags().GetString("file")
		job.OutFile, _ = cmd.Flags().GetString("output")
		job.ParamFile, _ = cmd.Flags().GetString("inputParametersFile")
		job.Override = viper.GetBool("override")
		job.Verbose = viper.GetBool("verbose")
		switch prof, _ := cmd.Flags().GetString("profile"); prof {
		case "":
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
		default:
			return fmt.Errorf("unknown profile %q, need cpu or mem", prof)
		}
		return RunConvert(job)
	},
}

func init() {
	rootCmd.AddCommand(ConvertCmd)
	ConvertCmd.Flags().StringP("file", "F", "", "mesh file to read (.dat, .dis, .msh)")
	ConvertCmd.Flags().StringP("output", "O", "", "mesh file to write (.dat, .dis, .msh)")
	ConvertCmd.Flags().StringP("inputParametersFile", "I", "", "YAML file for conversion parameters like:\n\t- ElementTypes\n\t- Role")
	ConvertCmd.Flags().Bool("override", false, "replace the output file if it exists")
	ConvertCmd.Flags().String("profile", "", "write a cpu or mem profile to the current directory")
	_ = viper.BindPFlag("override", ConvertCmd.Flags().Lookup("override"))
}

func RunConvert(job *ConvertJob) (err error) {
	if len(job.InFile) == 0 || len(job.OutFile) == 0 {
		return fmt.Errorf("must supply an input (-F, --file) and an output file (-O, --output)")
	}
	ip := &InputParameters.ConvertParameters{}
	if len(job.ParamFile) != 0 {
		var data []byte
		if data, err = os.ReadFile(job.ParamFile); err != nil {
			return err
		}
		if err = ip.Parse(data); err != nil {
			return fmt.Errorf("%s: %w", job.ParamFile, err)
		}
	}
	opts := meshfile.Options{Strict: ip.Strict}
	if opts.Mesh, err = ip.MeshOptions(); err != nil {
		return err
	}
	var progress types.ProgressFunc
	if job.Verbose {
		ip.Print(os.Stderr)
		progress = utils.ProgressPrinter(os.Stderr)
		opts.Progress = progress
	}

	d, err := meshfile.Read(job.InFile, opts)
	if err != nil {
		return err
	}
	if job.Verbose && d.Discretization != nil {
		fmt.Fprint(os.Stderr, d.Discretization)
	}
	if err = meshfile.Write(job.OutFile, d, job.Override || ip.Override, progress); err != nil {
		return err
	}
	if job.Verbose {
		fmt.Fprintln(os.Stderr, utils.GetMemUsage())
	}
	return
}
