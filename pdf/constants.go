package pdf

// CompressionLevel follows the quality scale of the compress form: lower
// numbers compress harder.
type CompressionLevel int

const (
	// CompressionExtreme trades quality for the smallest output
	CompressionExtreme CompressionLevel = 1

	// CompressionRecommended is good quality, good compression
	CompressionRecommended CompressionLevel = 2

	// CompressionMinimal keeps quality and compresses least
	CompressionMinimal CompressionLevel = 3
)

// Estimated output size as a fraction of the input, per compression level
const (
	ExtremeSizeRatio     = 0.3
	RecommendedSizeRatio = 0.6
	MinimalSizeRatio     = 0.85
)

const (
	// DefaultWatermarkFontSize is the watermark text size in points
	DefaultWatermarkFontSize = 48

	// DefaultWatermarkOpacity is the watermark opacity (0 transparent, 1 opaque)
	DefaultWatermarkOpacity = 0.3

	// DefaultWatermarkGray is the gray level used for each RGB channel
	DefaultWatermarkGray = 0.5

	// WatermarkFont is one of the PDF core fonts, so nothing is embedded
	WatermarkFont = "Helvetica-Bold"
)
