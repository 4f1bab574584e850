package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testSort = SortWhitelist{
	Columns: map[string]string{
		"title": "b.title",
		"id":    "b.id",
	},
	Default:  SortSpec{Key: "title", Expr: "b.title"},
	TieBreak: "b.id",
}

func TestSortWhitelist_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want SortSpec
	}{
		{"title", SortSpec{Key: "title", Expr: "b.title"}},
		{"-title", SortSpec{Key: "title", Expr: "b.title", Desc: true}},
		{" -id ", SortSpec{Key: "id", Expr: "b.id", Desc: true}},
		{"", testSort.Default},
		{"-", testSort.Default},
		{"title; DROP TABLE books", testSort.Default},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, testSort.Resolve(tt.in))
		})
	}
}

func TestSortWhitelist_OrderBy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, " ORDER BY b.title ASC NULLS LAST, b.id ASC", testSort.OrderBy(testSort.Resolve("title")))
	assert.Equal(t, " ORDER BY b.title DESC NULLS LAST, b.id DESC", testSort.OrderBy(testSort.Resolve("-title")))
	assert.Equal(t, " ORDER BY b.id DESC NULLS LAST", testSort.OrderBy(testSort.Resolve("-id")))
}

func TestWhereClause(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", WhereClause(nil))
	assert.Equal(t, " WHERE a = $1 AND b = $2", WhereClause([]string{"a = $1", "b = $2"}))
}

func TestPlaceholder(t *testing.T) {
	t.Parallel()

	ph := &Placeholder{}

	assert.Equal(t, "$1", ph.Add(10))
	assert.Equal(t, "$2", ph.Add("x"))
	assert.Equal(t, []any{10, "x"}, ph.Args)
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `50\% off\_now \\ later`, EscapeLike(`50% off_now \ later`))
}
