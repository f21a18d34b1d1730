package notemap

import (
	"fmt"
	"maps"

	"github.com/spf13/cast"

	trilium "github.com/trilium-community/trilium.go"
	"github.com/trilium-community/trilium.go/internal/codec"
)

// RequiredFieldError aborts a mapping when a required field resolved to
// nothing and had no default.
type RequiredFieldError struct {
	Field     string
	NoteID    string
	NoteTitle string
}

func (e *RequiredFieldError) Error() string {
	return fmt.Sprintf("Required field '%s' missing from note %s (%s)", e.Field, e.NoteID, e.NoteTitle)
}

// Partial is the read-only snapshot of the pass-one results handed to
// computed fields. Names of computed fields are never present in it.
type Partial struct {
	values map[string]any
}

// Get returns the value mapped for a direct field and whether it was set.
func (p Partial) Get(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Int reads a direct field as an int. Missing or unconvertible values
// yield 0.
func (p Partial) Int(name string) int {
	return cast.ToInt(p.values[name])
}

// Float reads a direct field as a float64. Missing or unconvertible
// values yield 0.
func (p Partial) Float(name string) float64 {
	return cast.ToFloat64(p.values[name])
}

// String reads a direct field as a string. Missing values yield "".
func (p Partial) String(name string) string {
	return cast.ToString(p.values[name])
}

// Bool reads a direct field as a bool. Missing or unconvertible values
// yield false.
func (p Partial) Bool(name string) bool {
	return cast.ToBool(p.values[name])
}

// Mapper converts notes into values of type T according to a [Config]
// fixed at construction. A Mapper is immutable and safe for concurrent
// use.
type Mapper[T any] struct {
	direct      []Field
	computed    []Field
	needsView   bool
	marshaler   codec.Marshaler
	unmarshaler codec.Unmarshaler
}

// New builds a Mapper for the output type T. Fields keep their declared
// order within each pass: fields with a Computed function run in the
// second pass, everything else in the first.
func New[T any](cfg Config) *Mapper[T] {
	m := &Mapper[T]{
		marshaler:   codec.JSON{},
		unmarshaler: codec.JSON{},
	}

	for _, f := range cfg {
		if f.Computed != nil {
			m.computed = append(m.computed, f)
			continue
		}
		if f.From.kind == sourceProperty {
			m.needsView = true
		}
		m.direct = append(m.direct, f)
	}

	return m
}

// Map converts a single note into a T.
//
// Direct fields resolve first, in declared order: source value, then
// Transform, then Default for a nil result. A field that is still nil
// is skipped unless Required, in which case the whole call fails with a
// [*RequiredFieldError]. Computed fields run second against a snapshot
// of the direct results, so a computed field never observes another
// computed field's output.
func (m *Mapper[T]) Map(note *trilium.Note) (T, error) {
	var zero T

	var view map[string]any
	if m.needsView {
		v, err := m.noteView(note)
		if err != nil {
			return zero, err
		}
		view = v
	}

	values := make(map[string]any, len(m.direct)+len(m.computed))
	for _, f := range m.direct {
		v := f.From.resolve(note, view)
		if f.Transform != nil {
			v = f.Transform(v, note)
		}
		if v == nil {
			v = f.Default
		}
		if v == nil {
			if f.Required {
				return zero, &RequiredFieldError{Field: f.Name, NoteID: note.NoteID, NoteTitle: note.Title}
			}
			continue
		}
		values[f.Name] = v
	}

	partial := Partial{values: maps.Clone(values)}
	for _, f := range m.computed {
		v := f.Computed(partial, note)
		if v == nil {
			v = f.Default
		}
		if v == nil {
			continue
		}
		values[f.Name] = v
	}

	return m.decode(values)
}

// MapAll converts a batch of notes, preserving order. The first failing
// note aborts the batch; callers that want per-note failures instead
// should use [SearchAndMap] or catch the error themselves.
func (m *Mapper[T]) MapAll(notes []trilium.Note) ([]T, error) {
	out := make([]T, 0, len(notes))
	for i := range notes {
		v, err := m.Map(&notes[i])
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// noteView renders the note as a generic JSON object for property walks.
func (m *Mapper[T]) noteView(note *trilium.Note) (map[string]any, error) {
	data, err := m.marshaler.Marshal(note)
	if err != nil {
		return nil, fmt.Errorf("notemap: encode note %s: %w", note.NoteID, err)
	}

	var view map[string]any
	if err := m.unmarshaler.Unmarshal(data, &view); err != nil {
		return nil, fmt.Errorf("notemap: decode note %s: %w", note.NoteID, err)
	}
	return view, nil
}

// decode loads the accumulated field values into the output type via
// their JSON keys.
func (m *Mapper[T]) decode(values map[string]any) (T, error) {
	var out T

	data, err := m.marshaler.Marshal(values)
	if err != nil {
		return out, fmt.Errorf("notemap: encode mapped values: %w", err)
	}
	if err := m.unmarshaler.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("notemap: decode mapped values into %T: %w", out, err)
	}
	return out, nil
}
