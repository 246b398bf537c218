// Package query parses listing parameters shared by all collection endpoints:
// page-number pagination and sort keys with a leading '-' for descending order.
package query

import "strconv"

// MaxPageSize caps the page size a client may request.
const MaxPageSize = 100

// Page describes a 1-indexed page-number pagination request.
type Page struct {
	Number int
	Size   int
}

// ParsePage builds a Page from raw query values, falling back to page 1 and
// the server default size on absent or malformed input.
func ParsePage(rawSize, rawNumber string, defaultSize int) Page {
	page := Page{Number: 1, Size: defaultSize}

	if rawSize != "" {
		if size, err := strconv.Atoi(rawSize); err == nil && size > 0 {
			page.Size = size
		}
	}
	if page.Size > MaxPageSize {
		page.Size = MaxPageSize
	}

	if rawNumber != "" {
		if number, err := strconv.Atoi(rawNumber); err == nil && number > 0 {
			page.Number = number
		}
	}

	return page
}

// Offset returns the number of records preceding this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Bounds clamps the page window against a total record count. A page past the
// end yields an empty window, not an error.
func (p Page) Bounds(total int) (lo, hi int) {
	lo = p.Offset()
	if lo > total {
		lo = total
	}
	hi = lo + p.Size
	if hi > total {
		hi = total
	}
	return lo, hi
}

// Sort is a single-key sort order.
type Sort struct {
	Field string
	Desc  bool
}

// ParseSort interprets a sort query value. A leading '-' marks descending
// order. Empty input yields the zero Sort, meaning default ordering.
func ParseSort(raw string) Sort {
	if raw == "" {
		return Sort{}
	}
	if raw[0] == '-' {
		return Sort{Field: raw[1:], Desc: true}
	}
	return Sort{Field: raw}
}
