package pdf

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseName(t *testing.T) {
	tests := map[string]string{
		"report.pdf":       "report",
		"Report.PDF":       "Report",
		"/tmp/up/scan.pdf": "scan",
		"notes":            "notes",
		"archive.tar.gz":   "archive.tar.gz",
		".pdf":             "document",
		"":                 "document",
	}
	for in, want := range tests {
		assert.Equal(t, want, BaseName(in), "BaseName(%q)", in)
	}
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "doc_page_8.pdf", OutputName("doc", RangeGroup{7}))
	assert.Equal(t, "doc_pages_1-3.pdf", OutputName("doc", RangeGroup{0, 1, 2}))
}

func TestUniqueNames(t *testing.T) {
	entries := []ArchiveEntry{
		{Name: "doc_page_1.pdf"},
		{Name: "doc_pages_1-2.pdf"},
		{Name: "doc_page_1.pdf"},
		{Name: "doc_page_1.pdf"},
	}
	uniqueNames(entries)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"doc_page_1.pdf", "doc_pages_1-2.pdf", "doc_page_1_2.pdf", "doc_page_1_3.pdf"}, names)
}

func TestWriteArchive(t *testing.T) {
	entries := []ArchiveEntry{
		{Name: "a_page_1.pdf", Content: []byte("%PDF-first")},
		{Name: "a_pages_2-3.pdf", Content: []byte("%PDF-second")},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteArchive(&buf, entries))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	for i, f := range zr.File {
		assert.Equal(t, entries[i].Name, f.Name)
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		assert.Equal(t, entries[i].Content, content)
	}
}
