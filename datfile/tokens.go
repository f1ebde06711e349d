package datfile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	ErrKeyNotFound = errors.New("key not found")
)

const commentMarker = "//"

// StripComment drops everything from the first "//" on.
func StripComment(line string) string {
	if i := strings.Index(line, commentMarker); i >= 0 {
		return line[:i]
	}
	return line
}

// SplitComment returns the content and the trimmed comment, if any.
func SplitComment(line string) (content, comment string, hasComment bool) {
	i := strings.Index(line, commentMarker)
	if i < 0 {
		return line, "", false
	}
	return line[:i], strings.TrimSpace(line[i+len(commentMarker):]), true
}

// IsBlank is true for empty and comment-only lines.
func IsBlank(line string) bool {
	return strings.TrimSpace(StripComment(line)) == ""
}

type token struct {
	text       string
	start, end int
}

func tokenize(line string) (toks []token) {
	start := -1
	for i, r := range line {
		if unicode.IsSpace(r) {
			if start >= 0 {
				toks = append(toks, token{line[start:i], start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		toks = append(toks, token{line[start:], start, len(line)})
	}
	return
}

// ReadOptionItem finds the first whitespace-delimited occurrence of key that
// is followed by at least num value tokens. It returns the values and the
// [start,end) span of key plus values within the comment-stripped line.
func ReadOptionItem(line, key string, num int) (values []string, span [2]int, err error) {
	toks := tokenize(StripComment(line))
	for i, tok := range toks {
		if tok.text != key || i+num >= len(toks) {
			continue
		}
		values = make([]string, num)
		for j := 0; j < num; j++ {
			values[j] = toks[i+1+j].text
		}
		span = [2]int{tok.start, toks[i+num].end}
		return
	}
	err = fmt.Errorf("%w: %q with %d value(s) in line %q", ErrKeyNotFound, key, num, strings.TrimSpace(line))
	return
}

// ReadOptionValue is ReadOptionItem for a single value.
func ReadOptionValue(line, key string) (value string, err error) {
	var values []string
	if values, _, err = ReadOptionItem(line, key, 1); err != nil {
		return
	}
	value = values[0]
	return
}

func ReadInt(line, key string) (i int, err error) {
	var value string
	if value, err = ReadOptionValue(line, key); err != nil {
		return
	}
	if i, err = strconv.Atoi(value); err != nil {
		err = fmt.Errorf("key %q: %w", key, err)
	}
	return
}

func ReadFloat(line, key string) (f float64, err error) {
	var value string
	if value, err = ReadOptionValue(line, key); err != nil {
		return
	}
	if f, err = strconv.ParseFloat(value, 64); err != nil {
		err = fmt.Errorf("key %q: %w", key, err)
	}
	return
}

func ReadInts(line, key string, num int) (ints []int, err error) {
	var values []string
	if values, _, err = ReadOptionItem(line, key, num); err != nil {
		return
	}
	return ParseInts(values)
}

func ReadFloats(line, key string, num int) (floats []float64, err error) {
	var values []string
	if values, _, err = ReadOptionItem(line, key, num); err != nil {
		return
	}
	return ParseFloats(values)
}

func ParseInts(values []string) (ints []int, err error) {
	ints = make([]int, len(values))
	for i, v := range values {
		if ints[i], err = strconv.Atoi(v); err != nil {
			return nil, err
		}
	}
	return
}

func ParseFloats(values []string) (floats []float64, err error) {
	floats = make([]float64, len(values))
	for i, v := range values {
		if floats[i], err = strconv.ParseFloat(v, 64); err != nil {
			return nil, err
		}
	}
	return
}

// KeyValueScanner walks a record line left to right yielding a key and the
// number of values numValues reports for it, in the manner of bufio.Scanner.
type KeyValueScanner struct {
	toks      []token
	pos       int
	numValues func(key string) int
	key       string
	values    []string
	err       error
}

func NewKeyValueScanner(line string, numValues func(key string) int) *KeyValueScanner {
	return &KeyValueScanner{
		toks:      tokenize(StripComment(line)),
		numValues: numValues,
	}
}

func (s *KeyValueScanner) Scan() bool {
	if s.err != nil || s.pos >= len(s.toks) {
		return false
	}
	s.key = s.toks[s.pos].text
	num := 1
	if s.numValues != nil {
		num = s.numValues(s.key)
	}
	if s.pos+num >= len(s.toks) && num > 0 {
		s.err = fmt.Errorf("key %q expects %d value(s), found %d", s.key, num, len(s.toks)-s.pos-1)
		return false
	}
	s.values = make([]string, num)
	for j := 0; j < num; j++ {
		s.values[j] = s.toks[s.pos+1+j].text
	}
	s.pos += num + 1
	return true
}

func (s *KeyValueScanner) Key() string { return s.key }

func (s *KeyValueScanner) Values() []string { return s.values }

func (s *KeyValueScanner) Err() error { return s.err }

// ReadKeyValues collects every pair a KeyValueScanner yields.
func ReadKeyValues(line string, numValues func(key string) int) (opts Options, err error) {
	s := NewKeyValueScanner(line, numValues)
	for s.Scan() {
		opts.Set(s.Key(), s.Values()...)
	}
	err = s.Err()
	return
}
