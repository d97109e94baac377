package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(1000); got != MaxLimit {
		t.Fatalf("expected max limit, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 3, Limit: 10}).Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
	if got := (Params{Page: -1}).Offset(); got != 0 {
		t.Fatalf("expected offset 0 for invalid page, got %d", got)
	}
}

func TestNewPageHasNext(t *testing.T) {
	p := NewPage([]int{1, 2}, 5, Params{Page: 1, Limit: 2})
	if !p.HasNext || p.Count != 5 || p.PageSize != 2 {
		t.Fatalf("unexpected page %+v", p)
	}
	last := NewPage([]int{5}, 5, Params{Page: 3, Limit: 2})
	if last.HasNext {
		t.Fatalf("last page should not have next")
	}
	empty := NewPage[int](nil, 0, Params{})
	if empty.Results == nil {
		t.Fatalf("results should never be nil")
	}
}

func TestMap(t *testing.T) {
	p := Map(NewPage([]int{1, 2}, 2, Params{}), func(v int) string { return string(rune('a' + v)) })
	if len(p.Results) != 2 || p.Results[0] != "b" || p.Count != 2 {
		t.Fatalf("unexpected mapped page %+v", p)
	}
}
