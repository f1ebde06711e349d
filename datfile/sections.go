package datfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	ErrDuplicateSection = errors.New("duplicate section")
	titleRegex          = regexp.MustCompile(`^-{3,}(.*)`)
)

// Preamble is the title of the content before the first title line.
const Preamble = ""

// Sections is an ordered map from section title to raw lines.
type Sections struct {
	titles []string
	lines  map[string][]string
}

func NewSections() *Sections {
	return &Sections{lines: make(map[string][]string)}
}

func (s *Sections) Titles() []string { return append([]string(nil), s.titles...) }

func (s *Sections) Len() int { return len(s.titles) }

func (s *Sections) Has(title string) bool {
	_, ok := s.lines[title]
	return ok
}

func (s *Sections) Lines(title string) (lines []string, ok bool) {
	lines, ok = s.lines[title]
	return
}

// Set replaces a section's lines, appending the title if it is new.
func (s *Sections) Set(title string, lines []string) {
	if !s.Has(title) {
		s.titles = append(s.titles, title)
	}
	s.lines[title] = lines
}

// Append adds lines to a section, creating it if needed.
func (s *Sections) Append(title string, lines ...string) {
	if !s.Has(title) {
		s.titles = append(s.titles, title)
		s.lines[title] = []string{}
	}
	s.lines[title] = append(s.lines[title], lines...)
}

func (s *Sections) Delete(title string) {
	if !s.Has(title) {
		return
	}
	delete(s.lines, title)
	for i, t := range s.titles {
		if t == title {
			s.titles = append(s.titles[:i], s.titles[i+1:]...)
			break
		}
	}
}

// Merge appends every section of other. A title present in both is an error.
func (s *Sections) Merge(other *Sections) error {
	for _, title := range other.titles {
		if s.Has(title) {
			return fmt.Errorf("%w: %q", ErrDuplicateSection, title)
		}
		s.Set(title, other.lines[title])
	}
	return nil
}

// ReadSections splits r on lines matching ^-{3,}(.*) after comment removal.
// Lines between titles are kept verbatim. The preamble is always present.
func ReadSections(r io.Reader) (s *Sections, err error) {
	s = NewSections()
	current := Preamble
	s.Set(current, []string{})

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if m := titleRegex.FindStringSubmatch(strings.TrimSpace(StripComment(line))); m != nil {
			current = m[1]
			if s.Has(current) {
				return nil, fmt.Errorf("line %d: %w: %q", lineNo, ErrDuplicateSection, current)
			}
			s.Set(current, []string{})
			continue
		}
		s.lines[current] = append(s.lines[current], line)
	}
	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %v", err)
	}
	return
}

// Write emits every section in its current order. The preamble has no title line.
func (s *Sections) Write(w io.Writer) (err error) {
	bw := bufio.NewWriter(w)
	for _, title := range s.titles {
		if title != Preamble {
			if _, err = fmt.Fprintln(bw, LineTitle(title)); err != nil {
				return
			}
		}
		for _, line := range s.lines[title] {
			if _, err = fmt.Fprintln(bw, line); err != nil {
				return
			}
		}
	}
	return bw.Flush()
}
