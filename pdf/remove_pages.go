package pdf

import (
	"strings"
)

// RemovePages deletes the pages selected by expr and returns the remaining
// pages as a new document. Unlike split, an empty expression is an error:
// removing "all" could never produce a document.
func RemovePages(doc *Document, expr string) ([]byte, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, newValidationError("no pages specified")
	}

	// Validate page numbers against PDF page count before processing
	remove, err := ParseIndividual(expr, doc.PageCount())
	if err != nil {
		return nil, err
	}

	order := NewPageOrder(doc.PageCount())
	for i := len(remove) - 1; i >= 0; i-- {
		// order is still the identity, so slot == page
		if err := order.RemoveSlot(remove[i]); err != nil {
			return nil, err
		}
	}

	keep, err := order.Materialize()
	if err != nil {
		return nil, newValidationError("all %d pages would be removed, cannot save an empty PDF", doc.PageCount())
	}
	return assemble(doc, keep)
}
