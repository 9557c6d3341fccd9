package input

import "sort"

// Filter is allow-list of event identifiers.
// nil Filter accepts everything, empty non-nil Filter accepts nothing.
type Filter map[string]struct{}

// Only returns non-nil Filter, so Only() accepts nothing.
func Only(ids ...string) Filter {
	f := make(Filter, len(ids))
	for _, id := range ids {
		f[id] = struct{}{}
	}
	return f
}

func (f Filter) Allows(id string) bool {
	if f == nil {
		return true
	}
	_, ok := f[id]
	return ok
}

// IsEmpty is true only for explicit accept-none filter.
func (f Filter) IsEmpty() bool { return f != nil && len(f) == 0 }

// With returns new Filter extended by ids. nil stays nil: it accepts everything already.
func (f Filter) With(ids ...string) Filter {
	if f == nil {
		return nil
	}
	out := make(Filter, len(f)+len(ids))
	for id := range f {
		out[id] = struct{}{}
	}
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

// Match returns ids accepted by f, preserving order and duplicates.
func (f Filter) Match(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if f.Allows(id) {
			out = append(out, id)
		}
	}
	return out
}

func (f Filter) Sorted() []string {
	ss := make([]string, 0, len(f))
	for id := range f {
		ss = append(ss, id)
	}
	sort.Strings(ss)
	return ss
}
