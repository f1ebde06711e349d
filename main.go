package main

import "github.com/notargets/datmesh/cmd"

func main() {
	cmd.Execute()
}
