// Package notemap converts Trilium notes into caller-defined struct types
// via a declarative per-field configuration.
//
// A [Config] is an ordered list of fields. Each field names a key in the
// output and describes where its value comes from: a label, a relation, a
// dotted path into the note's own properties, or an arbitrary extractor
// function. Values can be transformed, defaulted, and marked required.
//
//	type Post struct {
//		Slug      string `json:"slug"`
//		WordCount int    `json:"wordCount"`
//		ReadTime  int    `json:"readTime"`
//	}
//
//	cfg := notemap.Config{
//		{Name: "slug", From: notemap.Label("slug"), Required: true},
//		{Name: "wordCount", From: notemap.Label("wordCount"), Transform: notemap.ToInt, Default: 0},
//		{Name: "readTime", Computed: func(p notemap.Partial, _ *trilium.Note) any {
//			return int(math.Ceil(p.Float("wordCount") / 200))
//		}},
//	}
//
//	mapper := notemap.New[Post](cfg)
//	post, err := mapper.Map(note)
//
// Mapping runs in two passes. Pass one resolves every direct field in
// declared order. Pass two runs every computed field in declared order,
// handing each the same read-only [Partial] snapshot of the pass-one
// results. A computed field therefore sees every directly-mapped value but
// never another computed field's value: reading one yields the zero value.
// There is no dependency graph between computed fields.
//
// Field names are matched to the output type through its JSON keys; the
// accumulated values are decoded into T with a JSON round trip.
package notemap

import (
	"strconv"
	"strings"

	trilium "github.com/trilium-community/trilium.go"
)

// Transform converts a resolved raw value. It runs even when the source
// resolved to nothing, so value may be nil. By convention a transform
// returns nil on invalid input rather than panicking; nil then falls
// through to the field's default.
type Transform func(value any, note *trilium.Note) any

// ComputedFunc derives a value from the directly-mapped fields and the
// original note.
type ComputedFunc func(partial Partial, note *trilium.Note) any

// Extractor pulls a raw value straight off a note.
type Extractor func(note *trilium.Note) any

type sourceKind int

const (
	sourceNone sourceKind = iota
	sourceLabel
	sourceRelation
	sourceProperty
	sourceExtractor
)

// Source tells a field where its raw value comes from. The zero value
// yields nothing.
type Source struct {
	kind    sourceKind
	name    string
	path    []string
	extract Extractor
}

// Label reads the value of the first label attribute with the given name,
// in attribute list order.
func Label(name string) Source {
	return Source{kind: sourceLabel, name: name}
}

// Relation reads the target note ID of the first relation attribute with
// the given name, in attribute list order.
func Relation(name string) Source {
	return Source{kind: sourceRelation, name: name}
}

// Property walks a dotted path through the note's own properties, e.g.
// "title" or "attributes.0.name". Missing intermediate steps yield nil,
// never an error.
func Property(path string) Source {
	return Source{kind: sourceProperty, path: strings.Split(path, ".")}
}

// Extract resolves the value with an arbitrary function.
func Extract(fn Extractor) Source {
	return Source{kind: sourceExtractor, extract: fn}
}

// ParseSource interprets the shorthand source strings: "#name" is a label,
// "~name" a relation, "note.path.to.field" a property path. Anything else
// yields a source that always resolves to nil.
func ParseSource(s string) Source {
	switch {
	case strings.HasPrefix(s, "#"):
		return Label(s[1:])
	case strings.HasPrefix(s, "~"):
		return Relation(s[1:])
	case strings.HasPrefix(s, "note."):
		return Property(strings.TrimPrefix(s, "note."))
	default:
		return Source{}
	}
}

// resolve reads the raw value off a note. view is the note's JSON form,
// used for property walks.
func (s Source) resolve(note *trilium.Note, view map[string]any) any {
	switch s.kind {
	case sourceLabel:
		if value, ok := note.Label(s.name); ok {
			return value
		}
		return nil
	case sourceRelation:
		if value, ok := note.Relation(s.name); ok {
			return value
		}
		return nil
	case sourceProperty:
		return walkPath(view, s.path)
	case sourceExtractor:
		return s.extract(note)
	default:
		return nil
	}
}

// walkPath descends through maps by key and slices by numeric index.
func walkPath(root any, path []string) any {
	current := root

	for _, seg := range path {
		switch node := current.(type) {
		case map[string]any:
			current = node[seg]
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			current = node[i]
		default:
			return nil
		}
	}

	return current
}

// Field configures one output field.
type Field struct {
	// Name is the output key, matched against the target type's JSON tags.
	Name string
	// From locates the raw value. Ignored when Computed is set.
	From Source
	// Transform converts the raw value before defaulting.
	Transform Transform
	// Default substitutes for a nil value after transformation.
	Default any
	// Required aborts the whole mapping when the value is still nil after
	// defaulting. It has no effect on computed fields.
	Required bool
	// Computed derives the value from the pass-one results instead of
	// resolving From. Computed fields always run after all direct fields.
	Computed ComputedFunc
}

// Config is an ordered field list; declaration order is resolution order
// within each pass.
type Config []Field

// Merge combines configs key-wise: for a name configured more than once
// the last one wins wholesale, and the result keeps first-seen name order.
func Merge(configs ...Config) Config {
	merged := make(Config, 0)
	index := make(map[string]int)

	for _, cfg := range configs {
		for _, f := range cfg {
			if i, ok := index[f.Name]; ok {
				merged[i] = f
				continue
			}
			index[f.Name] = len(merged)
			merged = append(merged, f)
		}
	}

	return merged
}
