package pdf

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ExportPlan is a materialized page order with each output position's
// rotation resolved from its page's identity.
type ExportPlan struct {
	Pages     []int
	Rotations []int // Rotations[i] applies to Pages[i]
}

// Plan snapshots p for export. The plan shares no memory with p.
func (p *PageOrder) Plan() (*ExportPlan, error) {
	pages, err := p.Materialize()
	if err != nil {
		return nil, err
	}
	plan := &ExportPlan{Pages: pages, Rotations: make([]int, len(pages))}
	for slot, page := range pages {
		plan.Rotations[slot] = p.Rotation(page)
	}
	return plan, nil
}

// Reorganize assembles a new document from doc following order.
func Reorganize(doc *Document, order *PageOrder) ([]byte, error) {
	plan, err := order.Plan()
	if err != nil {
		return nil, err
	}
	return ExportOrder(doc, plan)
}

// ExportOrder copies plan's pages out of doc in plan order and applies the
// planned rotations to the output pages.
func ExportOrder(doc *Document, plan *ExportPlan) ([]byte, error) {
	content, err := assemble(doc, plan.Pages)
	if err != nil {
		return nil, err
	}

	// output page numbers grouped by angle, so each angle is one pass
	byAngle := make(map[int][]string)
	for slot, deg := range plan.Rotations {
		if deg != 0 {
			byAngle[deg] = append(byAngle[deg], strconv.Itoa(slot+1))
		}
	}
	angles := make([]int, 0, len(byAngle))
	for deg := range byAngle {
		angles = append(angles, deg)
	}
	sort.Ints(angles)

	for _, deg := range angles {
		var buf bytes.Buffer
		if err := api.Rotate(bytes.NewReader(content), &buf, deg, byAngle[deg], Configuration("")); err != nil {
			return nil, fmt.Errorf("failed to rotate pages by %d degrees: %w", deg, err)
		}
		content = buf.Bytes()
	}
	return content, nil
}
