// Package registry tracks the named entities defined for one asset category
// and whether each was referenced during a validation run.
package registry

import (
	"fmt"
	"io"
	"sort"
)

// Category names one of the four asset registries.
type Category string

const (
	Fleet   Category = "fleet"
	Ship    Category = "ship"
	Outfit  Category = "outfit"
	Unidiff Category = "unidiff"
)

// TechFilter reports whether a ship or outfit name is reachable under the
// technology-gating rules. It is supplied by the data layer; registries only
// consult it at construction time.
type TechFilter interface {
	Available(name string) bool
}

// entry is one defined entity. usage only ever increases within a run.
type entry struct {
	usage         int
	techAvailable bool
}

// Registry holds the defined names for one category. Not safe for concurrent
// use; the validator drives it from a single goroutine.
type Registry struct {
	category Category
	entries  map[string]*entry
	tech     bool // whether techAvailable is meaningful for this category
}

// New builds a registry over names. Duplicate names collapse to one entry.
// tech may be nil for categories without technology gating (fleet, unidiff).
func New(category Category, names []string, tech TechFilter) *Registry {
	r := &Registry{
		category: category,
		entries:  make(map[string]*entry, len(names)),
		tech:     tech != nil,
	}
	for _, name := range names {
		if _, ok := r.entries[name]; ok {
			continue
		}
		e := &entry{}
		if tech != nil {
			e.techAvailable = tech.Available(name)
		}
		r.entries[name] = e
	}
	return r
}

// Category returns the registry's category name.
func (r *Registry) Category() Category {
	return r.category
}

// Len returns the number of defined entities.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Find reports whether name is defined in this category and, when it is,
// counts the lookup as a usage. Unknown names have no side effect.
func (r *Registry) Find(name string) bool {
	e, ok := r.entries[name]
	if !ok {
		return false
	}
	e.usage++
	return true
}

// SetUnknown marks name as used without it ever going through Find, removing
// it from future Unused results. No-op for names not in this category.
func (r *Registry) SetUnknown(name string) {
	if e, ok := r.entries[name]; ok && e.usage == 0 {
		e.usage++
	}
}

// Unused returns the names whose usage count is still zero, sorted.
func (r *Registry) Unused() []string {
	var names []string
	for name, e := range r.entries {
		if e.usage == 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// MissingTech returns the names with no tech availability, sorted. Empty for
// categories constructed without a TechFilter.
func (r *Registry) MissingTech() []string {
	if !r.tech {
		return nil
	}
	var names []string
	for name, e := range r.entries {
		if !e.techAvailable {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ShowMissingTech writes one notice per entity lacking tech availability.
func (r *Registry) ShowMissingTech(w io.Writer) {
	for _, name := range r.MissingTech() {
		fmt.Fprintf(w, "%s '%s' is not available in any tech group\n", r.category, name)
	}
}

// ShowUnused writes one notice per unused entity.
func (r *Registry) ShowUnused(w io.Writer) {
	for _, name := range r.Unused() {
		fmt.Fprintf(w, "%s '%s' is never used\n", r.category, name)
	}
}
