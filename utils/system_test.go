package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := ProgressPrinter(&buf)
	p.Report("Read nodes", 1, 3)
	p.Report("Read nodes", 3, 3)
	assert.Equal(t, "Read nodes                                        3\n", buf.String())
	assert.Contains(t, GetMemUsage(), "NumGC")
}
