// Package model defines the core domain models used throughout the application.
package model

import "fmt"

// PageText holds the extracted text of a single page in a batch file.
// Page indices are 0-based, unique, and ascending within one batch.
type PageText struct {
	Text string
	Page int
}

// PageRange identifies one logical document inside a batch file.
// Both bounds are 0-based and inclusive.
type PageRange struct {
	StartPage int
	EndPage   int
}

// Validate checks the StartPage <= EndPage invariant.
func (r PageRange) Validate() error {
	if r.StartPage < 0 {
		return fmt.Errorf("start page must be non-negative, got %d", r.StartPage)
	}
	if r.EndPage < r.StartPage {
		return fmt.Errorf("end page %d precedes start page %d", r.EndPage, r.StartPage)
	}
	return nil
}

// Contains reports whether the given page index falls inside the range.
func (r PageRange) Contains(page int) bool {
	return page >= r.StartPage && page <= r.EndPage
}

// PageCount returns the number of pages covered by the range.
func (r PageRange) PageCount() int {
	return r.EndPage - r.StartPage + 1
}

func (r PageRange) String() string {
	return fmt.Sprintf("%d-%d", r.StartPage, r.EndPage)
}

// PagesIn returns the subset of pages that fall inside the range,
// preserving order.
func (r PageRange) PagesIn(pages []PageText) []PageText {
	var out []PageText
	for _, pt := range pages {
		if r.Contains(pt.Page) {
			out = append(out, pt)
		}
	}
	return out
}
