package notemap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trilium "github.com/trilium-community/trilium.go"
)

func testNote(id, title string, attrs ...trilium.Attribute) *trilium.Note {
	return &trilium.Note{
		NoteID:     id,
		Title:      title,
		Type:       trilium.NoteTypeText,
		Attributes: attrs,
	}
}

func label(name, value string) trilium.Attribute {
	return trilium.Attribute{Type: trilium.AttributeLabel, Name: name, Value: value}
}

func relation(name, target string) trilium.Attribute {
	return trilium.Attribute{Type: trilium.AttributeRelation, Name: name, Value: target}
}

func TestMapDirectFields(t *testing.T) {
	type page struct {
		Slug   string `json:"slug"`
		Author string `json:"author"`
		Title  string `json:"title"`
		Length int    `json:"length"`
	}

	cfg := Config{
		{Name: "slug", From: Label("slug")},
		{Name: "author", From: Relation("author")},
		{Name: "title", From: Property("title")},
		{Name: "length", From: Extract(func(n *trilium.Note) any { return len(n.Attributes) })},
	}
	note := testNote("abc123def456", "Home", label("slug", "home"), relation("author", "usr123456789"))

	got, err := New[page](cfg).Map(note)
	require.NoError(t, err)

	assert.Equal(t, page{Slug: "home", Author: "usr123456789", Title: "Home", Length: 2}, got)
}

func TestMapFirstAttributeWins(t *testing.T) {
	type doc struct {
		Category string `json:"category"`
	}

	cfg := Config{{Name: "category", From: Label("category")}}
	note := testNote("abc123def456", "Post", label("category", "tech"), label("category", "news"))

	got, err := New[doc](cfg).Map(note)
	require.NoError(t, err)
	assert.Equal(t, "tech", got.Category)
}

func TestMapTransformAndDefault(t *testing.T) {
	type stats struct {
		WordCount int `json:"wordCount"`
		Likes     int `json:"likes"`
	}

	cfg := Config{
		{Name: "wordCount", From: Label("wordCount"), Transform: ToInt, Default: 0},
		{Name: "likes", From: Label("likes"), Transform: ToInt, Default: 10},
	}

	// likes is absent, so its transform sees nil and the default applies.
	note := testNote("abc123def456", "Post", label("wordCount", "1000"))

	got, err := New[stats](cfg).Map(note)
	require.NoError(t, err)

	assert.Equal(t, 1000, got.WordCount)
	assert.Equal(t, 10, got.Likes)
}

func TestMapDefaultOnInvalidTransformInput(t *testing.T) {
	type stats struct {
		WordCount int `json:"wordCount"`
	}

	cfg := Config{{Name: "wordCount", From: Label("wordCount"), Transform: ToInt, Default: -1}}
	note := testNote("abc123def456", "Post", label("wordCount", "not a number"))

	got, err := New[stats](cfg).Map(note)
	require.NoError(t, err)
	assert.Equal(t, -1, got.WordCount)
}

func TestMapRequiredField(t *testing.T) {
	type page struct {
		Slug string `json:"slug"`
	}

	cfg := Config{{Name: "slug", From: Label("slug"), Required: true}}
	note := testNote("abc123def456", "My Post")

	_, err := New[page](cfg).Map(note)
	require.Error(t, err)
	assert.EqualError(t, err, "Required field 'slug' missing from note abc123def456 (My Post)")

	var reqErr *RequiredFieldError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "slug", reqErr.Field)
	assert.Equal(t, "abc123def456", reqErr.NoteID)
	assert.Equal(t, "My Post", reqErr.NoteTitle)
}

func TestMapRequiredSatisfiedByDefault(t *testing.T) {
	type page struct {
		Slug string `json:"slug"`
	}

	cfg := Config{{Name: "slug", From: Label("slug"), Default: "untitled", Required: true}}

	got, err := New[page](cfg).Map(testNote("abc123def456", "My Post"))
	require.NoError(t, err)
	assert.Equal(t, "untitled", got.Slug)
}

func TestMapComputedRunsAfterDirect(t *testing.T) {
	type post struct {
		WordCount int `json:"wordCount"`
		ReadTime  int `json:"readTime"`
	}

	// The computed field is declared first but still sees the direct
	// field's final value.
	cfg := Config{
		{Name: "readTime", Computed: func(p Partial, _ *trilium.Note) any {
			return int(math.Ceil(p.Float("wordCount") / 200))
		}},
		{Name: "wordCount", From: Label("wordCount"), Transform: ToInt, Default: 0},
	}
	note := testNote("abc123def456", "Post", label("wordCount", "1000"))

	got, err := New[post](cfg).Map(note)
	require.NoError(t, err)

	assert.Equal(t, 1000, got.WordCount)
	assert.Equal(t, 5, got.ReadTime)
}

func TestMapComputedNeverSeesComputed(t *testing.T) {
	type out struct {
		A int `json:"a"`
		B int `json:"b"`
	}

	cfg := Config{
		{Name: "a", Computed: func(Partial, *trilium.Note) any { return 7 }},
		{Name: "b", Computed: func(p Partial, _ *trilium.Note) any {
			_, ok := p.Get("a")
			assert.False(t, ok)
			return p.Int("a") + 1
		}},
	}

	got, err := New[out](cfg).Map(testNote("abc123def456", "Post"))
	require.NoError(t, err)

	assert.Equal(t, 7, got.A)
	assert.Equal(t, 1, got.B)
}

func TestMapComputedDefault(t *testing.T) {
	type out struct {
		Rating string `json:"rating"`
	}

	cfg := Config{
		{Name: "rating", Default: "unrated", Computed: func(Partial, *trilium.Note) any { return nil }},
	}

	got, err := New[out](cfg).Map(testNote("abc123def456", "Post"))
	require.NoError(t, err)
	assert.Equal(t, "unrated", got.Rating)
}

func TestMapSkipsUnresolvedOptionalFields(t *testing.T) {
	type page struct {
		Slug string `json:"slug"`
	}

	got, err := New[page](Config{{Name: "slug", From: Label("slug")}}).Map(testNote("abc123def456", "Post"))
	require.NoError(t, err)
	assert.Equal(t, "", got.Slug)
}

func TestMapAll(t *testing.T) {
	type page struct {
		Slug string `json:"slug"`
	}

	mapper := New[page](Config{{Name: "slug", From: Label("slug")}})
	notes := []trilium.Note{
		*testNote("note000000001", "One", label("slug", "one")),
		*testNote("note000000002", "Two", label("slug", "two")),
		*testNote("note000000003", "Three", label("slug", "three")),
	}

	got, err := mapper.MapAll(notes)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []page{{Slug: "one"}, {Slug: "two"}, {Slug: "three"}}, got)
}

func TestMapAllAbortsOnFirstError(t *testing.T) {
	type page struct {
		Slug string `json:"slug"`
	}

	mapper := New[page](Config{{Name: "slug", From: Label("slug"), Required: true}})
	notes := []trilium.Note{
		*testNote("note000000001", "One", label("slug", "one")),
		*testNote("note000000002", "Two"),
		*testNote("note000000003", "Three", label("slug", "three")),
	}

	got, err := mapper.MapAll(notes)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.EqualError(t, err, "Required field 'slug' missing from note note000000002 (Two)")
}

func TestMergeLastWriterWins(t *testing.T) {
	base := Config{
		{Name: "slug", From: Label("slug"), Required: true},
		{Name: "title", From: Property("title")},
	}
	override := Config{
		{Name: "slug", From: Label("slug"), Default: "fallback"},
		{Name: "extra", From: Label("extra")},
	}

	merged := Merge(base, override)
	require.Len(t, merged, 3)

	// First-seen order is kept, later configs replace wholesale.
	assert.Equal(t, "slug", merged[0].Name)
	assert.False(t, merged[0].Required)
	assert.Equal(t, "fallback", merged[0].Default)
	assert.Equal(t, "title", merged[1].Name)
	assert.Equal(t, "extra", merged[2].Name)
}

func TestMergeWithStandardFields(t *testing.T) {
	type page struct {
		NoteID string `json:"noteId"`
		Title  string `json:"title"`
		Slug   string `json:"slug"`
	}

	cfg := Merge(StandardFields(), Config{{Name: "slug", From: Label("slug")}})
	note := testNote("abc123def456", "Home", label("slug", "home"))

	got, err := New[page](cfg).Map(note)
	require.NoError(t, err)

	assert.Equal(t, page{NoteID: "abc123def456", Title: "Home", Slug: "home"}, got)
}

func TestParseSource(t *testing.T) {
	note := testNote("abc123def456", "Home", label("slug", "home"), relation("author", "usr123456789"))

	tests := []struct {
		name   string
		source string
		want   any
	}{
		{"label", "#slug", "home"},
		{"relation", "~author", "usr123456789"},
		{"property", "note.title", "Home"},
		{"property path", "note.attributes.0.name", "slug"},
		{"unknown shape", "slug", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			type out struct {
				Value any `json:"value"`
			}

			cfg := Config{{Name: "value", From: ParseSource(tt.source)}}
			got, err := New[out](cfg).Map(note)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Value)
		})
	}
}

func TestPartialGetters(t *testing.T) {
	p := Partial{values: map[string]any{
		"count": 42,
		"ratio": 0.5,
		"name":  "home",
		"live":  true,
	}}

	assert.Equal(t, 42, p.Int("count"))
	assert.Equal(t, 0.5, p.Float("ratio"))
	assert.Equal(t, "home", p.String("name"))
	assert.True(t, p.Bool("live"))

	v, ok := p.Get("count")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = p.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, p.Int("missing"))
	assert.Equal(t, "", p.String("missing"))
}
