package utils

import (
	"fmt"
	"io"
	"runtime"

	"github.com/notargets/datmesh/types"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

// ProgressPrinter writes one line to w each time a labelled step completes.
func ProgressPrinter(w io.Writer) types.ProgressFunc {
	return func(label string, done, total int) {
		if done == total {
			fmt.Fprintf(w, "%-40s %10d\n", label, total)
		}
	}
}
