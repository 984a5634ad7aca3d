package pdf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TokenKind distinguishes single pages from intervals in a range expression.
type TokenKind int

const (
	TokenSingle TokenKind = iota
	TokenInterval
)

// RangeToken is one validated comma-separated unit of a range expression.
// Start and End are 0-based and inclusive; for a single page they are equal.
type RangeToken struct {
	Kind  TokenKind
	Start int
	End   int
	Text  string
}

// Pages expands the token into its ascending page indices.
func (t RangeToken) Pages() RangeGroup {
	group := make(RangeGroup, 0, t.End-t.Start+1)
	for i := t.Start; i <= t.End; i++ {
		group = append(group, i)
	}
	return group
}

// RangeGroup is the ordered page indices produced by one token.
type RangeGroup []int

// First returns the first page index of the group.
func (g RangeGroup) First() int { return g[0] }

// Last returns the last page index of the group.
func (g RangeGroup) Last() int { return g[len(g)-1] }

// ParseTokens validates a page range expression against pageCount and returns
// its tokens in input order. An empty expression or "all" selects every page,
// one single-page token each.
// Supports formats: "1", "1,3", "1-5", "1,3-5,7", "all"
func ParseTokens(expr string, pageCount int) ([]RangeToken, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" || strings.EqualFold(trimmed, "all") {
		tokens := make([]RangeToken, 0, pageCount)
		for i := 0; i < pageCount; i++ {
			tokens = append(tokens, RangeToken{Kind: TokenSingle, Start: i, End: i, Text: strconv.Itoa(i + 1)})
		}
		if len(tokens) == 0 {
			return nil, noPagesError(expr, pageCount)
		}
		return tokens, nil
	}

	var tokens []RangeToken
	for _, part := range strings.Split(trimmed, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		token, err := parseToken(expr, part, pageCount)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}

	if len(tokens) == 0 {
		return nil, noPagesError(expr, pageCount)
	}
	return tokens, nil
}

func parseToken(expr, part string, pageCount int) (RangeToken, error) {
	if !strings.Contains(part, "-") {
		page, err := strconv.Atoi(part)
		if err != nil {
			return RangeToken{}, &ParseError{Expr: expr, Token: part, PageCount: pageCount, Reason: "invalid page number"}
		}
		if page < 1 || page > pageCount {
			return RangeToken{}, &ParseError{
				Expr: expr, Token: part, PageCount: pageCount,
				Reason: fmt.Sprintf("page out of bounds (document has %d pages)", pageCount),
			}
		}
		return RangeToken{Kind: TokenSingle, Start: page - 1, End: page - 1, Text: part}, nil
	}

	// Range like "1-5"
	rangeParts := strings.Split(part, "-")
	if len(rangeParts) != 2 {
		return RangeToken{}, &ParseError{Expr: expr, Token: part, PageCount: pageCount, Reason: "invalid range format"}
	}

	start, err := strconv.Atoi(strings.TrimSpace(rangeParts[0]))
	if err != nil {
		return RangeToken{}, &ParseError{Expr: expr, Token: part, PageCount: pageCount, Reason: "invalid range format"}
	}
	end, err := strconv.Atoi(strings.TrimSpace(rangeParts[1]))
	if err != nil {
		return RangeToken{}, &ParseError{Expr: expr, Token: part, PageCount: pageCount, Reason: "invalid range format"}
	}

	if start > end {
		return RangeToken{}, &ParseError{Expr: expr, Token: part, PageCount: pageCount, Reason: "invalid range, start must be <= end"}
	}
	if start < 1 || end > pageCount {
		return RangeToken{}, &ParseError{
			Expr: expr, Token: part, PageCount: pageCount,
			Reason: fmt.Sprintf("range out of bounds (document has %d pages)", pageCount),
		}
	}

	return RangeToken{Kind: TokenInterval, Start: start - 1, End: end - 1, Text: part}, nil
}

func noPagesError(expr string, pageCount int) error {
	return &ParseError{
		Expr:      expr,
		PageCount: pageCount,
		Reason:    fmt.Sprintf("no valid pages found in %q (document has %d pages)", expr, pageCount),
	}
}

// ParseIndividual returns the union of all pages selected by expr as
// deduplicated, ascending 0-based indices.
func ParseIndividual(expr string, pageCount int) ([]int, error) {
	tokens, err := ParseTokens(expr, pageCount)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	var pages []int
	for _, token := range tokens {
		for i := token.Start; i <= token.End; i++ {
			if !seen[i] {
				seen[i] = true
				pages = append(pages, i)
			}
		}
	}
	sort.Ints(pages)

	return pages, nil
}

// ParseGroups returns one group per token of expr in input order. Groups are
// not deduplicated against each other.
func ParseGroups(expr string, pageCount int) ([]RangeGroup, error) {
	tokens, err := ParseTokens(expr, pageCount)
	if err != nil {
		return nil, err
	}

	groups := make([]RangeGroup, 0, len(tokens))
	for _, token := range tokens {
		groups = append(groups, token.Pages())
	}
	return groups, nil
}

// FormatPages renders 0-based indices as a 1-based page specifier, collapsing
// consecutive runs: [0 1 2 5] -> "1-3,6".
func FormatPages(pages []int) string {
	var parts []string
	for i := 0; i < len(pages); {
		j := i
		for j+1 < len(pages) && pages[j+1] == pages[j]+1 {
			j++
		}
		if i == j {
			parts = append(parts, strconv.Itoa(pages[i]+1))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", pages[i]+1, pages[j]+1))
		}
		i = j + 1
	}
	return strings.Join(parts, ",")
}
