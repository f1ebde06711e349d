package datfile

import "strings"

// Option is one "KEY v1 v2 ..." entry of a record line.
type Option struct {
	Key    string
	Values []string
}

// Options keeps entries in insertion order. Keys are unique.
type Options []Option

func (o Options) Index(key string) int {
	for i, opt := range o {
		if opt.Key == key {
			return i
		}
	}
	return -1
}

func (o Options) Get(key string) (values []string, ok bool) {
	if i := o.Index(key); i >= 0 {
		return o[i].Values, true
	}
	return nil, false
}

// Value returns the first value stored under key.
func (o Options) Value(key string) (value string, ok bool) {
	var values []string
	if values, ok = o.Get(key); !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Set replaces the values of an existing key in place or appends a new entry.
func (o *Options) Set(key string, values ...string) {
	if i := o.Index(key); i >= 0 {
		(*o)[i].Values = values
		return
	}
	*o = append(*o, Option{Key: key, Values: values})
}

func (o *Options) Delete(key string) {
	if i := o.Index(key); i >= 0 {
		*o = append((*o)[:i], (*o)[i+1:]...)
	}
}

func (o Options) Keys() (keys []string) {
	keys = make([]string, len(o))
	for i, opt := range o {
		keys[i] = opt.Key
	}
	return
}

func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	c := make(Options, len(o))
	for i, opt := range o {
		c[i] = Option{Key: opt.Key, Values: append([]string(nil), opt.Values...)}
	}
	return c
}

func (opt Option) String() string {
	if len(opt.Values) == 0 {
		return opt.Key
	}
	return opt.Key + " " + strings.Join(opt.Values, " ")
}
