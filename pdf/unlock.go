package pdf

import (
	"bytes"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Unlock removes encryption from data using password. Documents that are
// not encrypted come back unchanged.
func Unlock(data []byte, password string) ([]byte, error) {
	var buf bytes.Buffer
	err := api.Decrypt(bytes.NewReader(data), &buf, Configuration(password))
	if err == nil {
		return buf.Bytes(), nil
	}
	if strings.Contains(strings.ToLower(err.Error()), "not encrypted") {
		return data, nil
	}
	return nil, wrapOpError("pdfcpu decrypt failed", err)
}
