package datfile

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDat = `==================================================================
                        General Data File
==================================================================
-------------------------------------------------------------TITLE
created by hand
------------------------------------------------------PROBLEM SIZE // counts
ELEMENTS 1
// comment line

-----------------------------------------------------NODE COORDS
NODE 1 COORD 0 0 0
`

func TestReadSections(t *testing.T) {
	s, err := ReadSections(strings.NewReader(sampleDat))
	require.NoError(t, err)
	assert.Equal(t, []string{Preamble, "TITLE", "PROBLEM SIZE", "NODE COORDS"}, s.Titles())

	pre, ok := s.Lines(Preamble)
	require.True(t, ok)
	assert.Equal(t, 3, len(pre))

	lines, _ := s.Lines("PROBLEM SIZE")
	assert.Equal(t, []string{"ELEMENTS 1", "// comment line", ""}, lines)

	lines, _ = s.Lines("NODE COORDS")
	assert.Equal(t, []string{"NODE 1 COORD 0 0 0"}, lines)
}

func TestReadSectionsDuplicate(t *testing.T) {
	in := "---A\nx\n---B\n---A\ny\n"
	_, err := ReadSections(strings.NewReader(in))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateSection))
	assert.Contains(t, err.Error(), "line 4")
}

func TestSectionsWrite(t *testing.T) {
	s := NewSections()
	s.Append(Preamble, "head")
	s.Append("TITLE", "t")
	s.Append("END")
	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))
	assert.Equal(t, "head\n"+LineTitle("TITLE")+"\nt\n"+LineTitle("END")+"\n", buf.String())

	again, err := ReadSections(&buf)
	require.NoError(t, err)
	assert.Equal(t, s.Titles(), again.Titles())
}

func TestSectionsEditing(t *testing.T) {
	s := NewSections()
	s.Set("A", []string{"1"})
	s.Set("B", nil)
	s.Set("A", []string{"2"})
	assert.Equal(t, []string{"A", "B"}, s.Titles())
	lines, _ := s.Lines("A")
	assert.Equal(t, []string{"2"}, lines)
	s.Delete("A")
	assert.False(t, s.Has("A"))
	assert.Equal(t, 1, s.Len())

	o := NewSections()
	o.Set("C", []string{"c"})
	require.NoError(t, s.Merge(o))
	assert.Error(t, s.Merge(o))
}

func TestSortTitles(t *testing.T) {
	in := []string{
		"END",
		"STRUCTURE ELEMENTS",
		"FUNCT10",
		"NODE COORDS",
		"DSURF-NODE TOPOLOGY",
		"IO",
		"DNODE-NODE TOPOLOGY",
		"DESIGN SURF DIRICH CONDITIONS",
		"FUNCT2",
		"ALE ELEMENTS",
		"DESIGN DESCRIPTION",
		"MATERIALS",
		"DESIGN POINT NEUMANN CONDITIONS",
		"RESULT DESCRIPTION",
		"PROBLEM TYP",
		"DVOL-NODE TOPOLOGY",
		"DISCRETISATION",
		"TITLE",
		"PROBLEM SIZE",
		Preamble,
		"DLINE-NODE TOPOLOGY",
	}
	expected := []string{
		Preamble,
		"TITLE",
		"PROBLEM SIZE",
		"PROBLEM TYP",
		"DISCRETISATION",
		"IO",
		"MATERIALS",
		"FUNCT2",
		"FUNCT10",
		"RESULT DESCRIPTION",
		"DESIGN POINT NEUMANN CONDITIONS",
		"DESIGN SURF DIRICH CONDITIONS",
		"DESIGN DESCRIPTION",
		"DNODE-NODE TOPOLOGY",
		"DLINE-NODE TOPOLOGY",
		"DSURF-NODE TOPOLOGY",
		"DVOL-NODE TOPOLOGY",
		"NODE COORDS",
		"ALE ELEMENTS",
		"STRUCTURE ELEMENTS",
		"END",
	}
	assert.Equal(t, expected, SortTitles(in))
}
