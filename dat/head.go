package dat

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/notargets/datmesh/datfile"
)

// SectionKind is how the head treats a section title.
type SectionKind uint8

const (
	Generated      SectionKind = iota // rebuilt from the discretization on write
	Raw                               // passed through untouched
	SingleOption                      // one "KEY value" per line
	MultipleOption                    // "KEY value KEY value ..." per line
	Text                              // free text, lines trimmed
)

func (k SectionKind) String() string {
	return [...]string{"generated", "raw", "single option", "multiple option", "text"}[k]
}

var (
	generatedSections = []*regexp.Regexp{
		regexp.MustCompile(`^END$`),
		regexp.MustCompile(`^PROBLEM SIZE$`),
		regexp.MustCompile(`^NODE COORDS$`),
		regexp.MustCompile(`^[A-Z]+ ELEMENTS$`),
		regexp.MustCompile(`^[A-Z]+-NODE TOPOLOGY$`),
	}
	rawSections = []*regexp.Regexp{
		regexp.MustCompile(`^FUNCT\d+$`),
		regexp.MustCompile(`^.* CONDITIONS$`),
		regexp.MustCompile(`^DESIGN DESCRIPTION$`),
		regexp.MustCompile(`^RESULT DESCRIPTION$`),
	}
	singleOptionSections = []*regexp.Regexp{
		regexp.MustCompile(`^PROBLEM TYP$`),
		regexp.MustCompile(`^IO$`),
		regexp.MustCompile(`^STRUCTURAL DYNAMIC$`),
		regexp.MustCompile(`^STRUCTURAL DYNAMIC/ONESTEPTHETA$`),
		regexp.MustCompile(`^SOLVER \d\s*$`),
	}
	multipleOptionSections = []*regexp.Regexp{
		regexp.MustCompile(`^MATERIALS$`),
	}
)

func matchAny(res []*regexp.Regexp, title string) bool {
	for _, re := range res {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}

// Classify decides how a section title is handled. Unknown titles are text.
func Classify(title string) SectionKind {
	switch {
	case matchAny(generatedSections, title):
		return Generated
	case matchAny(rawSections, title):
		return Raw
	case matchAny(singleOptionSections, title):
		return SingleOption
	case matchAny(multipleOptionSections, title):
		return MultipleOption
	default:
		return Text
	}
}

// commentOwnLine is the length above which a comment is written on its own line.
const commentOwnLine = 50

// Section is one head section.
type Section interface {
	Title() string
	Kind() SectionKind
	Lines() []string
}

type TextSection struct {
	Name string
	Text []string
}

func (s *TextSection) Title() string     { return s.Name }
func (s *TextSection) Kind() SectionKind { return Text }
func (s *TextSection) Lines() []string   { return s.Text }

// RawSection keeps lines exactly as read.
type RawSection struct {
	Name string
	Raw  []string
}

func (s *RawSection) Title() string     { return s.Name }
func (s *RawSection) Kind() SectionKind { return Raw }
func (s *RawSection) Lines() []string   { return s.Raw }

// OptionLine is a line of options with an optional trailing comment.
// A line without options is a comment line. Raw holds a line of a multiple
// option section that does not split into key value pairs; it is written back
// unchanged.
type OptionLine struct {
	Options    datfile.Options
	Comment    string
	HasComment bool
	Raw        string
}

func (l OptionLine) lines() []string {
	if l.Raw != "" {
		return []string{l.Raw}
	}
	if len(l.Options) == 0 {
		return []string{datfile.LineComment(l.Comment)}
	}
	var text string
	if len(l.Options) == 1 && len(l.Options[0].Values) == 1 {
		text = datfile.LineOption(l.Options[0].Key, l.Options[0].Values[0])
	} else {
		text = datfile.LineOptionList(l.Options)
	}
	switch {
	case !l.HasComment:
		return []string{text}
	case len(l.Comment) > commentOwnLine:
		return []string{datfile.LineComment(l.Comment), text}
	default:
		return []string{text + " " + datfile.LineComment(l.Comment)}
	}
}

// OptionSection holds SingleOption or MultipleOption lines.
type OptionSection struct {
	Name     string
	Multiple bool
	Entries  []OptionLine
}

func (s *OptionSection) Title() string { return s.Name }

func (s *OptionSection) Kind() SectionKind {
	if s.Multiple {
		return MultipleOption
	}
	return SingleOption
}

func (s *OptionSection) Lines() (lines []string) {
	for _, l := range s.Entries {
		lines = append(lines, l.lines()...)
	}
	return
}

// Get returns the value of the first line carrying key.
func (s *OptionSection) Get(key string) (value string, ok bool) {
	for _, l := range s.Entries {
		if v, found := l.Options.Value(key); found {
			return v, true
		}
	}
	return
}

// Set replaces the value of key, appending a new line when it is missing.
func (s *OptionSection) Set(key, value string) {
	for i := range s.Entries {
		if s.Entries[i].Options.Index(key) >= 0 {
			s.Entries[i].Options.Set(key, value)
			return
		}
	}
	s.Entries = append(s.Entries, OptionLine{Options: datfile.Options{{Key: key, Values: []string{value}}}})
}

func parseOptionSection(title string, lines []string, multiple bool) (s *OptionSection, err error) {
	s = &OptionSection{Name: title, Multiple: multiple}
	for i, line := range lines {
		content, comment, hasComment := datfile.SplitComment(line)
		content = strings.TrimSpace(content)
		comment = strings.TrimSpace(comment)
		if content == "" {
			if hasComment {
				s.Entries = append(s.Entries, OptionLine{Comment: comment, HasComment: true})
			}
			continue
		}
		opts, perr := datfile.ReadKeyValues(content, nil)
		if multiple && (perr != nil || 2*len(opts) != len(strings.Fields(content))) {
			s.Entries = append(s.Entries, OptionLine{Raw: strings.TrimRight(line, " \t")})
			continue
		}
		if perr != nil {
			return nil, fmt.Errorf("section %q line %d: %w", title, i+1, perr)
		}
		if !multiple && len(opts) != 1 {
			return nil, fmt.Errorf("section %q line %d: not a single option line: %q", title, i+1, line)
		}
		s.Entries = append(s.Entries, OptionLine{Options: opts, Comment: comment, HasComment: hasComment})
	}
	return
}

// Head holds every section that is not rebuilt from the discretization,
// in the order read.
type Head struct {
	sections []Section
	byTitle  map[string]int
}

func NewHead() *Head {
	return &Head{byTitle: make(map[string]int)}
}

func (h *Head) Len() int { return len(h.sections) }

// Get returns the section with title or nil.
func (h *Head) Get(title string) Section {
	if i, ok := h.byTitle[title]; ok {
		return h.sections[i]
	}
	return nil
}

// Option looks up key in the option section title.
func (h *Head) Option(title, key string) (value string, ok bool) {
	if s, isOpt := h.Get(title).(*OptionSection); isOpt {
		return s.Get(key)
	}
	return
}

// Put adds s, replacing a section with the same title.
func (h *Head) Put(s Section) {
	if i, ok := h.byTitle[s.Title()]; ok {
		h.sections[i] = s
		return
	}
	h.byTitle[s.Title()] = len(h.sections)
	h.sections = append(h.sections, s)
}

func (h *Head) Titles() (titles []string) {
	for _, s := range h.sections {
		titles = append(titles, s.Title())
	}
	return
}

// Sections renders the head for writing.
func (h *Head) Sections() *datfile.Sections {
	out := datfile.NewSections()
	for _, s := range h.sections {
		out.Set(s.Title(), s.Lines())
	}
	return out
}

// ReadHead classifies every section and keeps all but the generated ones.
func ReadHead(sections *datfile.Sections) (h *Head, err error) {
	h = NewHead()
	for _, title := range sections.Titles() {
		lines, _ := sections.Lines(title)
		switch Classify(title) {
		case Generated:
			continue
		case Raw:
			h.Put(&RawSection{Name: title, Raw: lines})
		case SingleOption, MultipleOption:
			var s *OptionSection
			if s, err = parseOptionSection(title, lines, Classify(title) == MultipleOption); err != nil {
				return nil, err
			}
			h.Put(s)
		default:
			if title == datfile.Preamble && allBlank(lines) {
				continue
			}
			text := make([]string, len(lines))
			for i, l := range lines {
				text[i] = strings.TrimSpace(l)
			}
			h.Put(&TextSection{Name: title, Text: text})
		}
	}
	return
}

func allBlank(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}
