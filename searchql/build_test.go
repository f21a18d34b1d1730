package searchql

import (
	"testing"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
		want string
	}{
		{
			name: "label presence",
			cond: Cond("#blog", true),
			want: "#blog",
		},
		{
			name: "label absence",
			cond: Cond("#draft", false),
			want: "#!draft",
		},
		{
			name: "label string value",
			cond: Cond("#category", "tech"),
			want: "#category = 'tech'",
		},
		{
			name: "label numeric value",
			cond: Cond("#wordCount", 1000),
			want: "#wordCount = 1000",
		},
		{
			name: "label explicit operator",
			cond: Cond("#wordCount", Op(OpGreater, 500)),
			want: "#wordCount > 500",
		},
		{
			name: "label operator defaults to equals",
			cond: Cond("#category", Op("", "tech")),
			want: "#category = 'tech'",
		},
		{
			name: "dotted label name used verbatim",
			cond: Cond("#template.title", "Board"),
			want: "#template.title = 'Board'",
		},
		{
			name: "relation defaults to contains",
			cond: Cond("~author", "John"),
			want: "~author *=* 'John'",
		},
		{
			name: "relation explicit operator",
			cond: Cond("~author", Op(OpEqual, "abc123def456")),
			want: "~author = 'abc123def456'",
		},
		{
			name: "dotted relation name used verbatim",
			cond: Cond("~author.title", Op(OpStartsWith, "Jo")),
			want: "~author.title =* 'Jo'",
		},
		{
			name: "note property gains prefix",
			cond: Cond("type", "text"),
			want: "note.type = 'text'",
		},
		{
			name: "note property keeps existing prefix",
			cond: Cond("note.title", "inbox"),
			want: "note.title = 'inbox'",
		},
		{
			name: "note property boolean renders bare",
			cond: Cond("isArchived", true),
			want: "note.isArchived = true",
		},
		{
			name: "note property numeric comparison",
			cond: Cond("contentSize", Op(OpLessOrEqual, 4096)),
			want: "note.contentSize <= 4096",
		},
		{
			name: "leaf clauses join with AND in declared order",
			cond: Where(
				C("#blog", true),
				C("note.type", "text"),
				C("~author", "John"),
			),
			want: "#blog AND note.type = 'text' AND ~author *=* 'John'",
		},
		{
			name: "nil clause values are dropped",
			cond: Where(
				C("#skipped", nil),
				C("#kept", true),
				C("#alsoSkipped", Op(OpEqual, nil)),
			),
			want: "#kept",
		},
		{
			name: "empty leaf",
			cond: Where(),
			want: "",
		},
		{
			name: "zero condition",
			cond: Condition{},
			want: "",
		},
		{
			name: "and of leaves",
			cond: And(Cond("#a", true), Cond("#b", true)),
			want: "#a AND #b",
		},
		{
			name: "and parenthesizes or children",
			cond: And(
				Cond("#blog", true),
				Or(Cond("#category", "tech"), Cond("#category", "programming")),
			),
			want: "#blog AND (#category = 'tech' OR #category = 'programming')",
		},
		{
			name: "or parenthesizes and children",
			cond: Or(
				And(Cond("#a", true), Cond("#b", true)),
				Cond("#c", true),
			),
			want: "(#a AND #b) OR #c",
		},
		{
			name: "or parenthesizes nested or children",
			cond: Or(
				Or(Cond("#a", true), Cond("#b", true)),
				Cond("#c", true),
			),
			want: "(#a OR #b) OR #c",
		},
		{
			name: "multi-clause leaf parenthesized inside or",
			cond: Or(
				Where(C("#a", true), C("#b", true)),
				Cond("#c", true),
			),
			want: "(#a AND #b) OR #c",
		},
		{
			name: "not of leaf",
			cond: Not(Cond("#draft", true)),
			want: "not(#draft)",
		},
		{
			name: "not of combinator",
			cond: Not(And(Cond("#a", true), Cond("#b", true))),
			want: "not(#a AND #b)",
		},
		{
			name: "empty children are skipped in joins",
			cond: And(Where(), Cond("#a", true), Where(C("#nil", nil))),
			want: "#a",
		},
		{
			name: "end to end blog query",
			cond: And(
				Cond("#blog", true),
				Cond("note.type", "text"),
				Or(Cond("#category", "tech"), Cond("#category", "programming")),
				Not(Cond("#draft", true)),
			),
			want: "#blog AND note.type = 'text' AND (#category = 'tech' OR #category = 'programming') AND not(#draft)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.cond)

			if got != tt.want {
				t.Errorf("query mismatch\ngot:  %q\nwant: %q", got, tt.want)
			}
		})
	}
}

func TestConditionString(t *testing.T) {
	cond := And(Cond("#blog", true), Cond("#draft", false))

	if got, want := cond.String(), "#blog AND #!draft"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
