package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	pdfPkg "pdf_toolkit/pdf"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"
)

func HandlePageCount(c *gin.Context, config *Config) {
	data, header, ok := readPDFUpload(c, config)
	if !ok {
		return
	}

	password := c.PostForm("password")
	count, err := runWithTimeout(c.Request.Context(), config.OperationTimeout, func() (int, error) {
		return pdfPkg.PageCountOf(data, password)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"filename": header.Filename, "page_count": count})
}

func HandleSplit(c *gin.Context, config *Config) {
	mode, err := pdfPkg.ParseSplitMode(c.PostForm("mode"))
	if err != nil {
		respondError(c, err)
		return
	}
	pagesParam := c.PostForm("pages")

	data, header, ok := readPDFUpload(c, config)
	if !ok {
		return
	}
	base := pdfPkg.BaseName(sanitizeFilename(header.Filename))
	password := c.PostForm("password")

	entries, err := runWithTimeout(c.Request.Context(), config.OperationTimeout, func() ([]pdfPkg.ArchiveEntry, error) {
		doc, err := pdfPkg.LoadDocument(data, password)
		if err != nil {
			return nil, err
		}
		return pdfPkg.SplitDocument(doc, base, pagesParam, mode)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if len(entries) == 1 {
		sendPDF(c, entries[0].Name, entries[0].Content)
		return
	}

	var buf bytes.Buffer
	if err := pdfPkg.WriteArchive(&buf, entries); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+"_split.zip"))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

func HandleRemovePages(c *gin.Context, config *Config) {
	pagesParam := c.PostForm("pages")
	if strings.TrimSpace(pagesParam) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No pages specified"})
		return
	}

	handlePDFFile(c, config, func(data []byte, password string) ([]byte, error) {
		doc, err := pdfPkg.LoadDocument(data, password)
		if err != nil {
			return nil, err
		}
		return pdfPkg.RemovePages(doc, pagesParam)
	}, "pages_removed")
}

func HandleMerge(c *gin.Context, config *Config) {
	inputs, _, ok := readUploads(c, config, "pdfs")
	if !ok {
		return
	}

	content, err := runWithTimeout(c.Request.Context(), config.OperationTimeout, func() ([]byte, error) {
		return pdfPkg.MergeDocuments(inputs)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	sendPDF(c, "merged.pdf", content)
}

func HandleCompress(c *gin.Context, config *Config) {
	level := int(pdfPkg.CompressionRecommended)
	if raw := c.PostForm("level"); raw != "" {
		var err error
		if level, err = strconv.Atoi(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid compression level: %s", raw)})
			return
		}
	}
	compression, err := pdfPkg.ParseCompressionLevel(level)
	if err != nil {
		respondError(c, err)
		return
	}

	data, header, ok := readPDFUpload(c, config)
	if !ok {
		return
	}

	password := c.PostForm("password")
	result, err := runWithTimeout(c.Request.Context(), config.OperationTimeout, func() (*pdfPkg.CompressResult, error) {
		return pdfPkg.Compress(data, compression, password)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	log.WithFields(log.Fields{
		"original_size":   result.OriginalSize,
		"compressed_size": result.CompressedSize,
		"level":           compression.String(),
	}).Info("Compressed PDF")

	c.Header("X-Original-Size", strconv.FormatInt(result.OriginalSize, 10))
	c.Header("X-Compressed-Size", strconv.FormatInt(result.CompressedSize, 10))
	c.Header("X-Size-Reduction", fmt.Sprintf("%.1f", result.Reduction()))
	sendPDF(c, outputFilename(header, "compressed_"+compression.String()), result.Content)
}

func HandleCompressEstimate(c *gin.Context, config *Config) {
	_, header, ok := readPDFUpload(c, config)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, pdfPkg.EstimateCompression(header.Size))
}

func HandleWatermark(c *gin.Context, config *Config) {
	opts := pdfPkg.DefaultWatermarkOptions(c.PostForm("text"))
	if raw := c.PostForm("font_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid font size: %s", raw)})
			return
		}
		opts.FontSize = size
	}
	if raw := c.PostForm("opacity"); raw != "" {
		opacity, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid opacity: %s", raw)})
			return
		}
		opts.Opacity = opacity
	}
	if raw := c.PostForm("color"); raw != "" {
		color, err := parseHexColor(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		opts.Color = color
	}

	handlePDFFile(c, config, func(data []byte, password string) ([]byte, error) {
		return pdfPkg.AddWatermark(data, opts, password)
	}, "watermarked")
}

func HandleMetadata(c *gin.Context, config *Config) {
	md := pdfPkg.Metadata{
		Title:    c.PostForm("title"),
		Author:   c.PostForm("author"),
		Subject:  c.PostForm("subject"),
		Keywords: c.PostForm("keywords"),
		Producer: c.PostForm("producer"),
		Creator:  c.PostForm("creator"),
	}

	handlePDFFile(c, config, func(data []byte, password string) ([]byte, error) {
		return pdfPkg.EditMetadata(data, md, password)
	}, "metadata")
}

func HandleUnlock(c *gin.Context, config *Config) {
	handlePDFFile(c, config, pdfPkg.Unlock, "unlocked")
}

func HandleConvert(c *gin.Context, config *Config) {
	contents, headers, ok := readUploads(c, config, "images")
	if !ok {
		return
	}

	images := make([]pdfPkg.ImageInput, len(contents))
	for i := range contents {
		images[i] = pdfPkg.ImageInput{Name: sanitizeFilename(headers[i].Filename), Data: contents[i]}
	}

	content, err := runWithTimeout(c.Request.Context(), config.OperationTimeout, func() ([]byte, error) {
		return pdfPkg.ConvertImages(images)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	name := "converted.pdf"
	if len(images) == 1 {
		name = strings.TrimSuffix(images[0].Name, filepath.Ext(images[0].Name)) + ".pdf"
	}
	sendPDF(c, name, content)
}

// handlePDFFile reads the uploaded PDF, runs operation on it and sends the
// result back as <name>_<suffix>.pdf.
func handlePDFFile(c *gin.Context, config *Config, operation func(data []byte, password string) ([]byte, error), suffix string) {
	data, header, ok := readPDFUpload(c, config)
	if !ok {
		return
	}

	password := c.PostForm("password")
	content, err := runWithTimeout(c.Request.Context(), config.OperationTimeout, func() ([]byte, error) {
		return operation(data, password)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	sendPDF(c, outputFilename(header, suffix), content)
}

// readPDFUpload reads and validates the "pdf" form file. On failure it has
// already written the error response.
func readPDFUpload(c *gin.Context, config *Config) ([]byte, *multipart.FileHeader, bool) {
	file, header, err := c.Request.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No PDF file provided"})
		return nil, nil, false
	}
	defer file.Close()

	// Validate PDF file
	if err := validatePDFFile(file, header, config.MaxFileSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		log.WithError(err).Error("Failed to read upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return nil, nil, false
	}
	return data, header, true
}

// readUploads reads every file of a multi-file form field concurrently,
// keeping form order.
func readUploads(c *gin.Context, config *Config, field string) ([][]byte, []*multipart.FileHeader, bool) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File[field]) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("No files provided in %q", field)})
		return nil, nil, false
	}
	headers := form.File[field]

	contents := make([][]byte, len(headers))
	var g errgroup.Group
	for i, header := range headers {
		g.Go(func() error {
			if header.Size > config.MaxFileSize {
				return &pdfPkg.ValidationError{Message: fmt.Sprintf("file %s size %d exceeds maximum allowed %d bytes", header.Filename, header.Size, config.MaxFileSize)}
			}
			f, err := header.Open()
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", header.Filename, err)
			}
			defer f.Close()
			contents[i], err = io.ReadAll(f)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	return contents, headers, true
}

func sendPDF(c *gin.Context, filename string, content []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sanitizeFilename(filename)))
	c.Data(http.StatusOK, "application/pdf", content)
}

// respondError maps an operation error to a status code. User errors are
// returned verbatim; anything else is logged and truncated.
func respondError(c *gin.Context, err error) {
	var pw *pdfPkg.PasswordRequiredError
	switch {
	case errors.As(err, &pw):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, errSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, errOperationTimeout):
		log.WithError(err).Warn("PDF operation timed out")
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": err.Error()})
	case pdfPkg.IsUserError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("PDF operation error")
		errorMsg := "PDF operation failed"
		if errStr := err.Error(); errStr != "" {
			// Truncate long error messages but include key info
			if len(errStr) > MaxErrorMessageLength {
				errorMsg = errStr[:MaxErrorMessageLength] + "..."
			} else {
				errorMsg = errStr
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": errorMsg})
	}
}

// outputFilename derives the download name from the uploaded file name.
func outputFilename(header *multipart.FileHeader, suffix string) string {
	if header == nil {
		return "document_" + suffix + ".pdf"
	}
	return pdfPkg.BaseName(sanitizeFilename(header.Filename)) + "_" + suffix + ".pdf"
}

// parseHexColor parses "#RRGGBB" into RGB channels in [0, 1].
func parseHexColor(s string) ([3]float64, error) {
	var color [3]float64
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color, fmt.Errorf("invalid color: %s (expected #RRGGBB)", s)
	}
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return color, fmt.Errorf("invalid color: %s (expected #RRGGBB)", s)
		}
		color[i] = float64(v) / 255
	}
	return color, nil
}

// sanitizeFilename removes path traversal attempts and dangerous characters
func sanitizeFilename(filename string) string {
	// Uploads from macOS arrive decomposed (NFD)
	filename = norm.NFC.String(filename)

	// Remove directory separators and path traversal attempts
	filename = strings.ReplaceAll(filename, "..", "")
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")

	// Get just the base filename to prevent path issues
	filename = filepath.Base(filename)

	// Remove any remaining dangerous characters
	filename = strings.TrimSpace(filename)

	// If empty after sanitization, use default
	if filename == "" || filename == "." {
		filename = "document.pdf"
	}

	return filename
}

// validatePDFFile checks if the file is a valid PDF by reading the header
func validatePDFFile(file multipart.File, header *multipart.FileHeader, maxSize int64) error {
	if header.Size > maxSize {
		return fmt.Errorf("file size %d exceeds maximum allowed %d bytes", header.Size, maxSize)
	}

	// Read first 4 bytes to check PDF header
	buffer := make([]byte, 4)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file header: %v", err)
	}

	if n < 4 || string(buffer[:4]) != "%PDF" {
		return fmt.Errorf("invalid PDF file: header does not match")
	}

	// Seek back to beginning for subsequent reads
	_, err = file.Seek(0, 0)
	if err != nil {
		return fmt.Errorf("failed to reset file position: %v", err)
	}

	return nil
}
