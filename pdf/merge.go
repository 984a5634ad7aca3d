package pdf

import (
	"bytes"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// MergeDocuments concatenates inputs in order into one document.
func MergeDocuments(inputs [][]byte) ([]byte, error) {
	if len(inputs) < 2 {
		return nil, newValidationError("please select at least 2 PDF files to merge, got %d", len(inputs))
	}

	readers := make([]io.ReadSeeker, len(inputs))
	for i, data := range inputs {
		readers[i] = bytes.NewReader(data)
	}

	var buf bytes.Buffer
	if err := api.MergeRaw(readers, &buf, false, Configuration("")); err != nil {
		return nil, wrapOpError("pdfcpu merge failed", err)
	}
	return buf.Bytes(), nil
}
