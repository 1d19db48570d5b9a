package vdom

import (
	"maps"
	"slices"
)

// updateAttrs applies the difference between two attribute sets.
// A nil set and an empty set are equivalent.
func updateAttrs(h Host, ref Ref, a, b map[string]string) {
	diffMap(a, b,
		func(name, value string) { h.SetAttribute(ref, name, value) },
		func(name string) { h.RemoveAttribute(ref, name) },
	)
}

// updateStyle applies the difference between two style sets. Removed
// properties are cleared with an empty value.
func updateStyle(h Host, ref Ref, a, b map[string]string) {
	diffMap(a, b,
		func(prop, value string) { h.SetStyle(ref, prop, value) },
		func(prop string) { h.SetStyle(ref, prop, "") },
	)
}

// updateClasses adds the classes of b missing from a and removes the classes
// of a missing from b.
func updateClasses(h Host, ref Ref, a, b []string) {
	for _, name := range b {
		if name != "" && !slices.Contains(a, name) {
			h.AddClass(ref, name)
		}
	}

	for _, name := range a {
		if name != "" && !slices.Contains(b, name) {
			h.RemoveClass(ref, name)
		}
	}
}

// diffMap walks keys in sorted order so host operations are deterministic.
func diffMap(a, b map[string]string, set func(k, v string), remove func(k string)) {
	if len(a) == 0 && len(b) == 0 {
		return
	}

	for _, k := range slices.Sorted(maps.Keys(b)) {
		v := b[k]
		if prev, ok := a[k]; !ok || prev != v {
			set(k, v)
		}
	}

	for _, k := range slices.Sorted(maps.Keys(a)) {
		if _, ok := b[k]; !ok {
			remove(k)
		}
	}
}
