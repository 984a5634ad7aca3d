package pdf

import (
	"bytes"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Metadata holds document info fields. Empty fields are left as they are.
// Producer is always rewritten by pdfcpu on save, so setting it is rejected.
type Metadata struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Subject  string `json:"subject"`
	Keywords string `json:"keywords"`
	Producer string `json:"producer"`
	Creator  string `json:"creator"`
}

// properties maps the non-empty fields to info dictionary keys.
func (m Metadata) properties() map[string]string {
	props := make(map[string]string)
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			props[key] = value
		}
	}
	set("Title", m.Title)
	set("Author", m.Author)
	set("Subject", m.Subject)
	set("Keywords", normalizeKeywords(m.Keywords))
	set("Creator", m.Creator)
	return props
}

// normalizeKeywords trims each comma-separated keyword and drops empty ones.
func normalizeKeywords(keywords string) string {
	var out []string
	for _, k := range strings.Split(keywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return strings.Join(out, ", ")
}

// EditMetadata writes md into the info dictionary of data.
func EditMetadata(data []byte, md Metadata, password string) ([]byte, error) {
	if strings.TrimSpace(md.Producer) != "" {
		return nil, newValidationError("the producer field cannot be changed, it is set by the PDF engine on save")
	}
	props := md.properties()
	if len(props) == 0 {
		return nil, newValidationError("no metadata fields specified")
	}

	var buf bytes.Buffer
	if err := api.AddProperties(bytes.NewReader(data), &buf, props, Configuration(password)); err != nil {
		return nil, wrapOpError("pdfcpu properties failed", err)
	}
	return buf.Bytes(), nil
}
