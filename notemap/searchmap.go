package notemap

import (
	"context"
	"fmt"
	"reflect"

	trilium "github.com/trilium-community/trilium.go"
)

// Searcher is the one client capability [SearchAndMap] needs.
// [*trilium.Client] satisfies it.
type Searcher interface {
	SearchNotes(ctx context.Context, query string, opts *trilium.SearchOptions) ([]trilium.Note, error)
}

// Failure records a note that matched the search but could not be
// mapped.
type Failure struct {
	NoteID string
	Title  string
	Reason string
	Note   trilium.Note
}

// MapResult splits a batch mapping into successes and failures. Both
// lists keep the search result order.
type MapResult[T any] struct {
	Values   []T
	Failures []Failure
}

// SearchAndMap runs a search and maps every hit independently. A search
// transport error fails the whole call; a single note that cannot be
// mapped becomes a [Failure] entry instead of aborting the batch.
func SearchAndMap[T any](ctx context.Context, s Searcher, m *Mapper[T], query string, opts *trilium.SearchOptions) (*MapResult[T], error) {
	notes, err := s.SearchNotes(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("notemap: search: %w", err)
	}

	result := &MapResult[T]{}
	for i := range notes {
		note := &notes[i]

		v, err := m.Map(note)
		if err != nil {
			result.Failures = append(result.Failures, Failure{
				NoteID: note.NoteID,
				Title:  note.Title,
				Reason: err.Error(),
				Note:   *note,
			})
			continue
		}
		if isNil(v) {
			result.Failures = append(result.Failures, Failure{
				NoteID: note.NoteID,
				Title:  note.Title,
				Reason: "Mapping returned undefined",
				Note:   *note,
			})
			continue
		}

		result.Values = append(result.Values, v)
	}

	return result, nil
}

// isNil reports whether a mapped value of a nilable kind is nil.
func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
