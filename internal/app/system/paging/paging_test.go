package paging

import (
	"net/http/httptest"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/admin/users", nil)
	p := Parse(r)
	if p.Limit != PageSize {
		t.Errorf("Limit: got %d, want %d", p.Limit, PageSize)
	}
	if p.Offset != 0 {
		t.Errorf("Offset: got %d, want 0", p.Offset)
	}
}

func TestParse_Explicit(t *testing.T) {
	r := httptest.NewRequest("GET", "/admin/users?limit=5&offset=40", nil)
	p := Parse(r)
	if p.Limit != 5 || p.Offset != 40 {
		t.Errorf("got limit=%d offset=%d, want 5/40", p.Limit, p.Offset)
	}
}

func TestParse_ClampsAndRejectsGarbage(t *testing.T) {
	tests := []struct {
		url        string
		wantLimit  int64
		wantOffset int64
	}{
		{"/?limit=0&offset=-3", PageSize, 0},
		{"/?limit=-1", PageSize, 0},
		{"/?limit=9999", MaxPageSize, 0},
		{"/?limit=abc&offset=xyz", PageSize, 0},
	}
	for _, tt := range tests {
		p := Parse(httptest.NewRequest("GET", tt.url, nil))
		if p.Limit != tt.wantLimit || p.Offset != tt.wantOffset {
			t.Errorf("%s: got limit=%d offset=%d, want %d/%d",
				tt.url, p.Limit, p.Offset, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestComputeRange_Empty(t *testing.T) {
	r := ComputeRange(Page{Limit: 20, Offset: 0}, 0, 0)
	if r.Start != 0 || r.End != 0 || r.HasPrev || r.HasNext {
		t.Errorf("got %+v, want zero range", r)
	}
}

func TestComputeRange_MiddlePage(t *testing.T) {
	r := ComputeRange(Page{Limit: 20, Offset: 20}, 20, 55)
	if r.Start != 21 || r.End != 40 {
		t.Errorf("range: got %d-%d, want 21-40", r.Start, r.End)
	}
	if !r.HasPrev || !r.HasNext {
		t.Errorf("expected prev and next, got %+v", r)
	}
	if r.PrevOffset != 0 || r.NextOffset != 40 {
		t.Errorf("offsets: got prev=%d next=%d, want 0/40", r.PrevOffset, r.NextOffset)
	}
}

func TestComputeRange_LastPage(t *testing.T) {
	r := ComputeRange(Page{Limit: 20, Offset: 40}, 15, 55)
	if r.Start != 41 || r.End != 55 {
		t.Errorf("range: got %d-%d, want 41-55", r.Start, r.End)
	}
	if r.HasNext {
		t.Error("last page must not have next")
	}
}
