package pagination

import "testing"

func TestNormalizeDefaults(t *testing.T) {
	p := Params{}.Normalize()
	if p.Page != 1 {
		t.Fatalf("expected page 1, got %d", p.Page)
	}
	if p.PageSize != DefaultPageSize {
		t.Fatalf("expected default page size, got %d", p.PageSize)
	}

	p = Params{Page: -3, PageSize: 1000}.Normalize()
	if p.Page != 1 || p.PageSize != MaxPageSize {
		t.Fatalf("expected clamped params, got %+v", p)
	}
}

func TestOffset(t *testing.T) {
	p := Params{Page: 2, PageSize: 12}
	if got := p.Offset(); got != 12 {
		t.Fatalf("expected offset 12, got %d", got)
	}
	if got := (Params{Page: 1, PageSize: 12}).Offset(); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
}

func TestTotalPages(t *testing.T) {
	p := Params{Page: 1, PageSize: 12}
	if got := p.TotalPages(14); got != 2 {
		t.Fatalf("expected 2 pages for 14 rows, got %d", got)
	}
	if got := p.TotalPages(12); got != 1 {
		t.Fatalf("expected 1 page for 12 rows, got %d", got)
	}
	if got := p.TotalPages(0); got != 0 {
		t.Fatalf("expected 0 pages for empty set, got %d", got)
	}
}
