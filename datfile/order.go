package datfile

import (
	"regexp"
	"sort"
	"strconv"
)

var (
	functRegex     = regexp.MustCompile(`^FUNCT(\d+)$`)
	conditionRegex = regexp.MustCompile(`^.* CONDITIONS$`)
	topologyRegex  = regexp.MustCompile(`^D(NODE|LINE|SURF|VOL)-NODE TOPOLOGY$`)
	elementsRegex  = regexp.MustCompile(`^[A-Z]+ ELEMENTS$`)
)

var topologyRank = map[string]int{"NODE": 0, "LINE": 1, "SURF": 2, "VOL": 3}

// sectionRank orders titles by group first, then by a key within the group.
type sectionRank struct {
	group int
	num   int
	name  string
}

func rankOf(title string) sectionRank {
	switch title {
	case Preamble:
		return sectionRank{group: 0}
	case "TITLE":
		return sectionRank{group: 1}
	case "PROBLEM SIZE":
		return sectionRank{group: 2}
	case "PROBLEM TYP":
		return sectionRank{group: 3}
	case "MATERIALS":
		return sectionRank{group: 5}
	case "RESULT DESCRIPTION":
		return sectionRank{group: 7}
	case "DESIGN DESCRIPTION":
		return sectionRank{group: 9}
	case "NODE COORDS":
		return sectionRank{group: 11}
	case "END":
		return sectionRank{group: 13}
	}
	if m := functRegex.FindStringSubmatch(title); m != nil {
		n, _ := strconv.Atoi(m[1])
		return sectionRank{group: 6, num: n, name: title}
	}
	if conditionRegex.MatchString(title) {
		return sectionRank{group: 8, name: title}
	}
	if m := topologyRegex.FindStringSubmatch(title); m != nil {
		return sectionRank{group: 10, num: topologyRank[m[1]]}
	}
	if elementsRegex.MatchString(title) {
		return sectionRank{group: 12, name: title}
	}
	return sectionRank{group: 4, name: title}
}

func (a sectionRank) less(b sectionRank) bool {
	if a.group != b.group {
		return a.group < b.group
	}
	if a.num != b.num {
		return a.num < b.num
	}
	return a.name < b.name
}

// SortTitles returns titles in canonical dat output order:
// preamble, TITLE, PROBLEM SIZE, PROBLEM TYP, unrecognized sections,
// MATERIALS, FUNCT<n>, RESULT DESCRIPTION, conditions, DESIGN DESCRIPTION,
// topology, NODE COORDS, element sections, END.
func SortTitles(titles []string) []string {
	sorted := append([]string(nil), titles...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rankOf(sorted[i]).less(rankOf(sorted[j]))
	})
	return sorted
}

// Sort reorders the sections in place into canonical output order.
func (s *Sections) Sort() {
	s.titles = SortTitles(s.titles)
}
