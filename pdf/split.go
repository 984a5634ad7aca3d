package pdf

import (
	"fmt"
	"strings"
)

// SplitMode selects how a range expression becomes output documents.
type SplitMode string

const (
	// SplitIndividual extracts every selected page, ascending, into one document.
	SplitIndividual SplitMode = "individual"
	// SplitRanges produces one document per comma-separated token.
	SplitRanges SplitMode = "ranges"
)

// ParseSplitMode maps a form value to a SplitMode. Empty means individual.
func ParseSplitMode(s string) (SplitMode, error) {
	switch SplitMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SplitIndividual:
		return SplitIndividual, nil
	case SplitRanges:
		return SplitRanges, nil
	}
	return "", newValidationError("invalid split mode: %s (supported: individual, ranges)", s)
}

// SplitDocument extracts the pages selected by expr. Any failure aborts the
// whole split; no entries are returned.
func SplitDocument(doc *Document, baseName, expr string, mode SplitMode) ([]ArchiveEntry, error) {
	switch mode {
	case SplitIndividual:
		pages, err := ParseIndividual(expr, doc.PageCount())
		if err != nil {
			return nil, err
		}
		content, err := assemble(doc, pages)
		if err != nil {
			return nil, err
		}
		return []ArchiveEntry{{Name: baseName + "_split.pdf", Content: content}}, nil

	case SplitRanges:
		groups, err := ParseGroups(expr, doc.PageCount())
		if err != nil {
			return nil, err
		}
		entries := make([]ArchiveEntry, 0, len(groups))
		for _, group := range groups {
			content, err := assemble(doc, group)
			if err != nil {
				return nil, fmt.Errorf("failed to extract pages %s: %w", FormatPages(group), err)
			}
			entries = append(entries, ArchiveEntry{Name: OutputName(baseName, group), Content: content})
		}
		uniqueNames(entries)
		return entries, nil
	}

	return nil, newValidationError("invalid split mode: %s", mode)
}

// assemble copies pages out of doc into a new serialized document.
func assemble(doc *Document, pages []int) ([]byte, error) {
	out, err := doc.CopyPages(pages)
	if err != nil {
		return nil, err
	}
	return out.Save()
}
