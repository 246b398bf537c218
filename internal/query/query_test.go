package query

import "testing"

func TestParsePageDefaults(t *testing.T) {
	page := ParsePage("", "", 20)
	if page.Size != 20 || page.Number != 1 {
		t.Fatalf("expected default page, got %+v", page)
	}
}

func TestParsePageExplicit(t *testing.T) {
	page := ParsePage("5", "2", 20)
	if page.Size != 5 || page.Number != 2 {
		t.Fatalf("expected size 5 page 2, got %+v", page)
	}
	if page.Offset() != 5 {
		t.Fatalf("expected offset 5, got %d", page.Offset())
	}
}

func TestParsePageRejectsGarbage(t *testing.T) {
	page := ParsePage("abc", "-3", 20)
	if page.Size != 20 || page.Number != 1 {
		t.Fatalf("malformed input should fall back to defaults, got %+v", page)
	}
}

func TestParsePageCapsSize(t *testing.T) {
	page := ParsePage("5000", "1", 20)
	if page.Size != MaxPageSize {
		t.Fatalf("expected size capped at %d, got %d", MaxPageSize, page.Size)
	}
}

func TestPageBounds(t *testing.T) {
	page := Page{Number: 2, Size: 5}
	lo, hi := page.Bounds(10)
	if lo != 5 || hi != 10 {
		t.Fatalf("expected [5,10), got [%d,%d)", lo, hi)
	}

	beyond := Page{Number: 4, Size: 5}
	lo, hi = beyond.Bounds(10)
	if lo != 10 || hi != 10 {
		t.Fatalf("page past the end should be empty, got [%d,%d)", lo, hi)
	}
}

func TestParseSort(t *testing.T) {
	if s := ParseSort(""); s.Field != "" || s.Desc {
		t.Fatalf("empty sort should be zero, got %+v", s)
	}
	if s := ParseSort("label"); s.Field != "label" || s.Desc {
		t.Fatalf("expected ascending label, got %+v", s)
	}
	if s := ParseSort("-label"); s.Field != "label" || !s.Desc {
		t.Fatalf("expected descending label, got %+v", s)
	}
}
