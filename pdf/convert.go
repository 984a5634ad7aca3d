package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/png"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"golang.org/x/image/webp"
)

// ImageInput is one image to convert, one page each.
type ImageInput struct {
	Name string
	Data []byte
}

// ConvertImages builds a PDF with one page per image, in input order.
// JPEG and PNG are embedded as they are; GIF and WebP are re-encoded as PNG.
func ConvertImages(images []ImageInput) ([]byte, error) {
	if len(images) == 0 {
		return nil, newValidationError("please select at least one image to convert")
	}

	readers := make([]io.Reader, 0, len(images))
	for _, img := range images {
		data, err := normalizeImage(img)
		if err != nil {
			return nil, err
		}
		readers = append(readers, bytes.NewReader(data))
	}

	var buf bytes.Buffer
	if err := api.ImportImages(nil, &buf, readers, pdfcpu.DefaultImportConfig(), Configuration("")); err != nil {
		return nil, fmt.Errorf("pdfcpu import failed: %w", err)
	}
	return buf.Bytes(), nil
}

// normalizeImage returns data in a format pdfcpu can embed.
func normalizeImage(img ImageInput) ([]byte, error) {
	mtype := mimetype.Detect(img.Data)
	switch {
	case mtype.Is("image/jpeg"), mtype.Is("image/png"):
		return img.Data, nil
	case mtype.Is("image/gif"):
		return reencodePNG(img, gif.Decode)
	case mtype.Is("image/webp"):
		return reencodePNG(img, webp.Decode)
	}
	return nil, newValidationError("unsupported image type %s for %s, please use JPEG, PNG, GIF or WebP", mtype.String(), img.Name)
}

func reencodePNG(img ImageInput, decode func(io.Reader) (image.Image, error)) ([]byte, error) {
	decoded, err := decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, newValidationError("failed to decode %s: %v", img.Name, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, decoded); err != nil {
		return nil, fmt.Errorf("failed to re-encode %s: %w", img.Name, err)
	}
	return buf.Bytes(), nil
}
