package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// WatermarkOptions describes a text watermark drawn on every page.
type WatermarkOptions struct {
	Text     string
	FontSize int
	Color    [3]float64 // RGB, each channel in [0, 1]
	Opacity  float64
}

// DefaultWatermarkOptions returns the options used when the form leaves them out.
func DefaultWatermarkOptions(text string) WatermarkOptions {
	return WatermarkOptions{
		Text:     text,
		FontSize: DefaultWatermarkFontSize,
		Color:    [3]float64{DefaultWatermarkGray, DefaultWatermarkGray, DefaultWatermarkGray},
		Opacity:  DefaultWatermarkOpacity,
	}
}

func (o WatermarkOptions) validate() error {
	if strings.TrimSpace(o.Text) == "" {
		return newValidationError("watermark text is required")
	}
	if o.FontSize <= 0 {
		return newValidationError("font size must be positive, got %d", o.FontSize)
	}
	if o.Opacity < 0 || o.Opacity > 1 {
		return newValidationError("opacity must be between 0 and 1, got %g", o.Opacity)
	}
	for _, c := range o.Color {
		if c < 0 || c > 1 {
			return newValidationError("color channels must be between 0 and 1, got %g", c)
		}
	}
	return nil
}

// description renders the options in pdfcpu's watermark description syntax.
func (o WatermarkOptions) description() string {
	return fmt.Sprintf("fontname:%s, points:%d, fillcolor:%.3f %.3f %.3f, opacity:%.2f, scalefactor:1 abs, rotation:0",
		WatermarkFont, o.FontSize, o.Color[0], o.Color[1], o.Color[2], o.Opacity)
}

// AddWatermark stamps opts.Text centered on every page of data.
func AddWatermark(data []byte, opts WatermarkOptions, password string) ([]byte, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	wm, err := api.TextWatermark(opts.Text, opts.description(), true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("invalid watermark: %w", err)
	}

	var buf bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(data), &buf, nil, wm, Configuration(password)); err != nil {
		return nil, wrapOpError("pdfcpu watermark failed", err)
	}
	return buf.Bytes(), nil
}
