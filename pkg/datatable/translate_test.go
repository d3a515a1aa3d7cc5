package datatable

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type mapGetter map[string]Entity

func (m mapGetter) Get(id ID) (Entity, bool) {
	e, ok := m[id.String()]
	return e, ok
}

func TestTranslate(t *testing.T) {

	columns := Columns{NewColumn("name", nil), NewColumn("age", nil)}
	cache := mapGetter{
		"1": {"name": "A", "age": "9"},
		"2": {"name": "B", "age": "8"},
	}

	got := Translate([]ID{IntID(2), IntID(1), IntID(3)}, columns, cache)
	want := []Row{{"B", "8"}, {"A", "9"}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestTranslateMissingKeepsOrder(t *testing.T) {

	columns := Columns{NewColumn("name", nil)}
	cache := mapGetter{
		"5": {"name": "five"},
		"7": {"name": "seven"},
	}

	got := Translate([]ID{IntID(5), IntID(6), IntID(7)}, columns, cache)
	want := []Row{{"five"}, {"seven"}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestTranslateLength(t *testing.T) {

	columns := Columns{NewColumn("name", nil)}
	cache := mapGetter{"1": {"name": "x"}, "2": {"name": "y"}}

	ids := []ID{IntID(1), IntID(2)}
	if rows := Translate(ids, columns, cache); len(rows) != len(ids) {
		t.Error("all ids resolve, want full length", len(rows))
	}

	ids = append(ids, StringID("nope"))
	if rows := Translate(ids, columns, cache); len(rows) != 2 {
		t.Error("want 2", len(rows))
	}

	if rows := Translate(nil, columns, cache); rows == nil || len(rows) != 0 {
		t.Error("want empty non nil rows")
	}
}

func TestTranslateCells(t *testing.T) {

	columns := Columns{
		NewColumn("html", nil),
		NewColumn("missing", nil),
		NewColumn("float", nil),
		NewColumn("int", nil),
		NewColumn("bool", nil),
		NewColumn("nil", nil),
		NewColumn("list", nil),
	}

	cache := mapGetter{"1": {
		"html":  `<b class="x">Tom & 'Jerry'</b> a=b` + "`",
		"float": 1.5,
		"int":   42,
		"bool":  false,
		"nil":   nil,
		"list":  []string{"a"},
	}}

	got := Translate([]ID{StringID("1")}, columns, cache)
	want := []Row{{
		"&lt;b class&#x3D;&quot;x&quot;&gt;Tom &amp; &#x27;Jerry&#x27;&lt;/b&gt; a&#x3D;b&#x60;",
		"",
		"1.5",
		"42",
		"false",
		"",
		`[&quot;a&quot;]`,
	}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestEscapeExpressionPlain(t *testing.T) {

	if EscapeExpression("plain text") != "plain text" {
		t.Error("plain text changed")
	}
}
