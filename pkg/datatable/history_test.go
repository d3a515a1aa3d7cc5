package datatable

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOrderHistoryMerge(t *testing.T) {

	h := NewOrderHistory(Order{{1, Asc}, {2, Asc}, {3, Desc}})

	got := h.Merge(Order{{2, Desc}})
	want := Order{{2, Desc}, {1, Asc}, {3, Desc}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merge (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(want, h.Directives()); diff != "" {
		t.Errorf("stored (-want +got):\n%s", diff)
	}
}

func TestOrderHistorySequence(t *testing.T) {

	h := NewOrderHistory(nil)

	steps := []struct {
		in   Order
		want Order
	}{
		{Order{{0, Asc}}, Order{{0, Asc}}},
		{Order{{1, Desc}}, Order{{1, Desc}, {0, Asc}}},
		{Order{{2, Asc}}, Order{{2, Asc}, {1, Desc}, {0, Asc}}},
		{Order{{0, Desc}}, Order{{0, Desc}, {2, Asc}, {1, Desc}}},
		{Order{{1, Asc}, {2, Desc}}, Order{{1, Asc}, {2, Desc}, {0, Desc}}},
		{Order{}, Order{{1, Asc}, {2, Desc}, {0, Desc}}},
		{nil, Order{{1, Asc}, {2, Desc}, {0, Desc}}},
	}

	for k, step := range steps {
		got := h.Merge(step.in)
		if diff := cmp.Diff(step.want, got); diff != "" {
			t.Errorf("step %d (-want +got):\n%s", k, diff)
		}
	}
}

func TestOrderHistoryDuplicatesInRequest(t *testing.T) {

	h := NewOrderHistory(Order{{3, Asc}})

	got := h.Merge(Order{{1, Asc}, {1, Desc}})
	want := Order{{1, Asc}, {3, Asc}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestOrderHistoryReturnsCopy(t *testing.T) {

	h := NewOrderHistory(nil)

	got := h.Merge(Order{{0, Asc}})
	got[0].Dir = Desc

	if h.Directives()[0].Dir != Asc {
		t.Error("merge result aliases the history")
	}
}

func TestOrderHistoryRestore(t *testing.T) {

	h := NewOrderHistory(Order{{0, Asc}})
	h.Restore(Order{{2, Desc}, {1, Asc}, {2, Asc}})

	want := Order{{2, Desc}, {1, Asc}}
	if diff := cmp.Diff(want, h.Directives()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	if h.Len() != 2 {
		t.Error("len", h.Len())
	}
}

func TestColumnsValid(t *testing.T) {

	cols := Columns{NewColumn("name", nil), NewColumn("age", nil)}

	valid, dropped := cols.Valid(Order{{0, Asc}, {5, Desc}, {-1, Asc}, {1, Desc}})

	if diff := cmp.Diff(Order{{0, Asc}, {1, Desc}}, valid); diff != "" {
		t.Errorf("valid (-want +got):\n%s", diff)
	}
	if len(dropped) != 2 {
		t.Error("dropped", dropped)
	}
}
