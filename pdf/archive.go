package pdf

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ArchiveEntry is one named output document.
type ArchiveEntry struct {
	Name    string
	Content []byte
}

// BaseName strips any directory and a trailing .pdf extension from filename.
func BaseName(filename string) string {
	base := filepath.Base(filename)
	if strings.HasSuffix(strings.ToLower(base), ".pdf") {
		base = base[:len(base)-4]
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "document"
	}
	return base
}

// OutputName names the document produced from group:
// <base>_page_<N>.pdf for one page, <base>_pages_<start>-<end>.pdf otherwise.
func OutputName(base string, group RangeGroup) string {
	if len(group) == 1 {
		return fmt.Sprintf("%s_page_%d.pdf", base, group.First()+1)
	}
	return fmt.Sprintf("%s_pages_%d-%d.pdf", base, group.First()+1, group.Last()+1)
}

// uniqueNames appends _2, _3, ... before the extension of repeated names.
func uniqueNames(entries []ArchiveEntry) {
	seen := make(map[string]int, len(entries))
	for i := range entries {
		name := entries[i].Name
		seen[name]++
		if n := seen[name]; n > 1 {
			ext := filepath.Ext(name)
			entries[i].Name = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n, ext)
		}
	}
}

// WriteArchive packages entries into a zip archive written to w.
func WriteArchive(w io.Writer, entries []ArchiveEntry) error {
	zw := zip.NewWriter(w)
	for _, entry := range entries {
		f, err := zw.Create(entry.Name)
		if err != nil {
			return fmt.Errorf("failed to create archive entry %s: %w", entry.Name, err)
		}
		if _, err := f.Write(entry.Content); err != nil {
			return fmt.Errorf("failed to write archive entry %s: %w", entry.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}
