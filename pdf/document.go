package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// Keep pdfcpu from creating a config directory under the user's home.
	api.DisableConfigDir()
}

// Document is a PDF loaded into memory. CopyPages may be called from
// several goroutines; copies are serialized.
type Document struct {
	mu  sync.Mutex
	ctx *model.Context
}

// Configuration returns the pdfcpu configuration used for every operation,
// carrying password as both user and owner password.
func Configuration(password string) *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password
	return conf
}

// LoadDocument parses and validates data. Encrypted documents opened with a
// missing or wrong password fail with a PasswordRequiredError.
func LoadDocument(data []byte, password string) (*Document, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), Configuration(password))
	if err != nil {
		return nil, classifyLoadError(err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, classifyLoadError(err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}
	return &Document{ctx: ctx}, nil
}

// classifyLoadError turns pdfcpu's password failures into PasswordRequiredError.
func classifyLoadError(err error) error {
	return wrapOpError("failed to read PDF", err)
}

// wrapOpError prefixes err with op, unless pdfcpu rejected the password.
func wrapOpError(op string, err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "password") || strings.Contains(msg, "encrypt") {
		return &PasswordRequiredError{Cause: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// CopyPages returns a new document holding the given 0-based pages in the
// given order.
func (d *Document) CopyPages(indices []int) (*Document, error) {
	if len(indices) == 0 {
		return nil, newValidationError("no pages selected")
	}
	pageNrs := make([]int, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= d.PageCount() {
			return nil, &IndexError{Op: "copy page", Index: idx, Len: d.PageCount()}
		}
		pageNrs[i] = idx + 1
	}

	d.mu.Lock()
	ctx, err := pdfcpu.ExtractPages(d.ctx, pageNrs, false)
	d.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to copy pages %s: %w", FormatPages(indices), err)
	}
	// ExtractPages leaves PageCount unset on the new context.
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to count copied pages: %w", err)
	}
	return &Document{ctx: ctx}, nil
}

// Save serializes the document.
func (d *Document) Save() ([]byte, error) {
	var buf bytes.Buffer
	if err := api.WriteContext(d.ctx, &buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// PageCountOf loads data just far enough to report its page count.
func PageCountOf(data []byte, password string) (int, error) {
	doc, err := LoadDocument(data, password)
	if err != nil {
		return 0, err
	}
	return doc.PageCount(), nil
}
