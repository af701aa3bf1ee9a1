package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringOrArray(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  []string
	}{
		{"json string", `["fiction", " drama "]`, []string{"fiction", "drama"}},
		{"comma separated", "fiction, drama,,poetry", []string{"fiction", "drama", "poetry"}},
		{"single value", "fiction", []string{"fiction"}},
		{"string slice", []string{"a", " ", "b"}, []string{"a", "b"}},
		{"decoded json array", []interface{}{"a", 2.0, nil}, []string{"a", "2"}},
		{"nil", nil, []string{}},
		{"empty string", "", []string{}},
		{"broken json falls back to commas", `[a, b`, []string{"[a", "b"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseStringOrArray(tc.input))
		})
	}
}

func TestWordCountAndReadingTime(t *testing.T) {
	html := "<p>Hello <b>brave</b> new</p><p>world&nbsp;again</p>"
	assert.Equal(t, 5, WordCount(html))

	assert.Equal(t, 0, ReadingTime(0))
	assert.Equal(t, 1, ReadingTime(1))
	assert.Equal(t, 1, ReadingTime(200))
	assert.Equal(t, 2, ReadingTime(201))
}

func TestWhere(t *testing.T) {
	var w Where
	assert.Equal(t, "", w.SQL())

	w.Add("status = ?", "PUBLISHED")
	w.Search("night", "title", "description")
	w.Add("created_at BETWEEN ? AND ?", 1, 2)

	assert.Equal(t, " WHERE status = $1 AND (title ILIKE $2 OR description ILIKE $2) AND created_at BETWEEN $3 AND $4", w.SQL())
	assert.Equal(t, []any{"PUBLISHED", "%night%", 1, 2}, w.Args())
	assert.Equal(t, 5, w.Next())
}

func TestParsePage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	parse := func(query string) Page {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
		return ParsePage(c, 0)
	}

	assert.Equal(t, Page{Page: 1, Limit: 10}, parse(""))
	assert.Equal(t, Page{Page: 3, Limit: 20}, parse("page=3&limit=20"))
	assert.Equal(t, Page{Page: 1, Limit: MaxLimit}, parse("page=-1&limit=1000"))
	assert.Equal(t, 40, parse("page=3&limit=20").Offset())
}

func TestParseUUIDs(t *testing.T) {
	ids, err := ParseUUIDs([]string{"3f2504e0-4f89-11d3-9a0c-0305e82c3301"})
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	_, err = ParseUUIDs([]string{"nope"})
	assert.Error(t, err)

	id, err := OptionalUUID(" ")
	require.NoError(t, err)
	assert.Nil(t, id)
}
