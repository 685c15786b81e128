package schema

import "strings"

// Registry is the immutable ordered department set for one process. The
// order of construction is the canonical order used everywhere routing
// output must be deterministic.
type Registry struct {
	ordered []DepartmentInfo
	byName  map[string]DepartmentInfo
}

// NewRegistry builds a registry from an ordered department list. Entries
// with duplicate names (case-insensitive) keep the first occurrence.
func NewRegistry(departments []DepartmentInfo) *Registry {
	r := &Registry{
		ordered: make([]DepartmentInfo, 0, len(departments)),
		byName:  make(map[string]DepartmentInfo, len(departments)),
	}
	for _, d := range departments {
		key := normalizeName(string(d.Name))
		if key == "" {
			continue
		}
		if _, ok := r.byName[key]; ok {
			continue
		}
		r.byName[key] = d
		r.ordered = append(r.ordered, d)
	}
	return r
}

// Normalize resolves an arbitrary label (any casing, surrounding space)
// to a registered department. The second return is false for unknown labels.
func (r *Registry) Normalize(name string) (Department, bool) {
	d, ok := r.byName[normalizeName(name)]
	if !ok {
		return "", false
	}
	return d.Name, true
}

// Info returns the descriptor for a registered department.
func (r *Registry) Info(d Department) (DepartmentInfo, bool) {
	info, ok := r.byName[normalizeName(string(d))]
	return info, ok
}

// All returns every department in canonical order.
func (r *Registry) All() []Department {
	out := make([]Department, len(r.ordered))
	for i, d := range r.ordered {
		out[i] = d.Name
	}
	return out
}

// Len returns the number of registered departments.
func (r *Registry) Len() int { return len(r.ordered) }

// Canonicalize deduplicates a department set and reorders it to canonical
// registry order. Unregistered values are dropped.
func (r *Registry) Canonicalize(set []Department) []Department {
	present := make(map[Department]struct{}, len(set))
	for _, d := range set {
		if name, ok := r.Normalize(string(d)); ok {
			present[name] = struct{}{}
		}
	}
	out := make([]Department, 0, len(present))
	for _, d := range r.ordered {
		if _, ok := present[d.Name]; ok {
			out = append(out, d.Name)
		}
	}
	return out
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
