package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// CompressResult is a compressed document and its size before and after.
type CompressResult struct {
	Content        []byte
	OriginalSize   int64
	CompressedSize int64
}

// Reduction is the size saved, in percent of the original.
func (r *CompressResult) Reduction() float64 {
	if r.OriginalSize == 0 {
		return 0
	}
	return float64(r.OriginalSize-r.CompressedSize) / float64(r.OriginalSize) * 100
}

// CompressionEstimate is the expected output size per level, in bytes.
type CompressionEstimate struct {
	OriginalSize int64 `json:"original_size"`
	Extreme      int64 `json:"extreme"`
	Recommended  int64 `json:"recommended"`
	Minimal      int64 `json:"minimal"`
}

// EstimateCompression predicts output sizes for a document of size bytes.
func EstimateCompression(size int64) CompressionEstimate {
	return CompressionEstimate{
		OriginalSize: size,
		Extreme:      int64(float64(size) * ExtremeSizeRatio),
		Recommended:  int64(float64(size) * RecommendedSizeRatio),
		Minimal:      int64(float64(size) * MinimalSizeRatio),
	}
}

// ParseCompressionLevel validates a level from user input.
func ParseCompressionLevel(level int) (CompressionLevel, error) {
	l := CompressionLevel(level)
	switch l {
	case CompressionExtreme, CompressionRecommended, CompressionMinimal:
		return l, nil
	}
	return 0, newValidationError("invalid compression level: %d (supported: 1 extreme, 2 recommended, 3 minimal)", level)
}

func (l CompressionLevel) String() string {
	switch l {
	case CompressionExtreme:
		return "extreme"
	case CompressionRecommended:
		return "recommended"
	case CompressionMinimal:
		return "minimal"
	}
	return fmt.Sprintf("level%d", int(l))
}

// Compress optimizes data with pdfcpu. Harder levels pack objects and the
// cross-reference table into compressed streams.
func Compress(data []byte, level CompressionLevel, password string) (*CompressResult, error) {
	conf := Configuration(password)
	switch level {
	case CompressionExtreme, CompressionRecommended:
		conf.WriteObjectStream = true
		conf.WriteXRefStream = true
	case CompressionMinimal:
		conf.WriteObjectStream = false
		conf.WriteXRefStream = false
	default:
		return nil, newValidationError("invalid compression level: %d", int(level))
	}

	var buf bytes.Buffer
	if err := api.Optimize(bytes.NewReader(data), &buf, conf); err != nil {
		return nil, wrapOpError("pdfcpu optimize failed", err)
	}

	return &CompressResult{
		Content:        buf.Bytes(),
		OriginalSize:   int64(len(data)),
		CompressedSize: int64(buf.Len()),
	}, nil
}
