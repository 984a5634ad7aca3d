package api

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pdfPkg "pdf_toolkit/pdf"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upload struct {
	field, name string
	data        []byte
}

func doMultipart(t *testing.T, r http.Handler, path string, fields map[string]string, files ...upload) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// testPDF builds an n-page document from generated images.
func testPDF(t *testing.T, n int) []byte {
	t.Helper()
	images := make([]pdfPkg.ImageInput, n)
	for i := range images {
		img := image.NewRGBA(image.Rect(0, 0, 12+i, 12))
		for x := 0; x < 12+i; x++ {
			img.Set(x, x%12, color.RGBA{R: 200, A: 255})
		}
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, img))
		images[i] = pdfPkg.ImageInput{Name: fmt.Sprintf("p%d.png", i), Data: buf.Bytes()}
	}
	data, err := pdfPkg.ConvertImages(images)
	require.NoError(t, err)
	return data
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestUploadValidation(t *testing.T) {
	r := newTestRouter(NewSessionStore(time.Minute))

	w := doMultipart(t, r, "/api/pdf/page-count", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No PDF file provided", errorMessage(t, w))

	w = doMultipart(t, r, "/api/pdf/page-count", nil, upload{"pdf", "notes.pdf", []byte("hello world")})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorMessage(t, w), "header does not match")

	w = doMultipart(t, r, "/api/pdf/page-count", nil, upload{"pdf", "tiny.pdf", []byte("%P")})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadTooLarge(t *testing.T) {
	config := testConfig()
	config.MaxFileSize = 16
	r := gin.New()
	SetupRoutes(r, config, NewSessionStore(time.Minute))

	w := doMultipart(t, r, "/api/pdf/page-count", nil, upload{"pdf", "big.pdf", []byte("%PDF-" + strings.Repeat("x", 64))})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorMessage(t, w), "exceeds maximum")
}

func TestFormValidationHappensBeforeProcessing(t *testing.T) {
	r := newTestRouter(NewSessionStore(time.Minute))
	doc := upload{"pdf", "a.pdf", []byte("%PDF-1.7 not really")}

	w := doMultipart(t, r, "/api/pdf/split", map[string]string{"mode": "chunks"}, doc)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorMessage(t, w), "invalid split mode")

	w = doMultipart(t, r, "/api/pdf/remove-pages", map[string]string{"pages": "  "}, doc)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No pages specified", errorMessage(t, w))

	w = doMultipart(t, r, "/api/pdf/compress", map[string]string{"level": "max"}, doc)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doMultipart(t, r, "/api/pdf/compress", map[string]string{"level": "5"}, doc)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doMultipart(t, r, "/api/pdf/watermark", map[string]string{"text": "DRAFT", "color": "#12345"}, doc)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doMultipart(t, r, "/api/pdf/watermark", map[string]string{"text": ""}, doc)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doMultipart(t, r, "/api/pdf/metadata", map[string]string{"title": "T", "producer": "Acme"}, doc)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorMessage(t, w), "producer")

	w = doMultipart(t, r, "/api/pdf/merge", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doMultipart(t, r, "/api/pdf/convert", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompressEstimate(t *testing.T) {
	r := newTestRouter(NewSessionStore(time.Minute))
	data := []byte("%PDF-" + strings.Repeat("0", 995))

	w := doMultipart(t, r, "/api/pdf/compress/estimate", nil, upload{"pdf", "a.pdf", data})
	require.Equal(t, http.StatusOK, w.Code)

	var est pdfPkg.CompressionEstimate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &est))
	assert.Equal(t, pdfPkg.EstimateCompression(1000), est)
}

func TestPageCountAndSplit(t *testing.T) {
	r := newTestRouter(NewSessionStore(time.Minute))
	doc := upload{"pdf", "scan.pdf", testPDF(t, 4)}

	w := doMultipart(t, r, "/api/pdf/page-count", nil, doc)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"filename":"scan.pdf","page_count":4}`, w.Body.String())

	w = doMultipart(t, r, "/api/pdf/split", map[string]string{"pages": "2-3"}, doc)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "scan_split.pdf")

	w = doMultipart(t, r, "/api/pdf/split", map[string]string{"pages": "1-2,4", "mode": "ranges"}, doc)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))

	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"scan_pages_1-2.pdf", "scan_page_4.pdf"}, names)

	w = doMultipart(t, r, "/api/pdf/split", map[string]string{"pages": "5"}, doc)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorMessage(t, w), "out of bounds")
}

func TestOrganizeSessionExport(t *testing.T) {
	store := NewSessionStore(time.Minute)
	r := newTestRouter(store)

	w := doMultipart(t, r, "/api/pdf/organize/sessions", nil, upload{"pdf", "deck.pdf", testPDF(t, 3)})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeSession(t, w)
	assert.Equal(t, []int{0, 1, 2}, created.Order)

	path := "/api/pdf/organize/sessions/" + created.SessionID
	w = doJSON(t, r, http.MethodPost, path+"/remove", gin.H{"slot": 1})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, path+"/rotate", gin.H{"page": 2, "degrees": 180})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, path+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "deck_organized.pdf")

	n, err := pdfPkg.PageCountOf(w.Body.Bytes(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"password", &pdfPkg.PasswordRequiredError{Cause: errors.New("wrong password")}, http.StatusUnauthorized},
		{"missing session", fmt.Errorf("%w: abc", errSessionNotFound), http.StatusNotFound},
		{"timeout", fmt.Errorf("%w after 1s", errOperationTimeout), http.StatusGatewayTimeout},
		{"parse", &pdfPkg.ParseError{Reason: "invalid page number", Token: "x"}, http.StatusBadRequest},
		{"index", &pdfPkg.IndexError{Op: "move", Index: 4, Len: 2}, http.StatusBadRequest},
		{"internal", errors.New("write failed"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/pdf/split", nil)

			respondError(c, tt.err)
			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.err.Error(), errorMessage(t, w))
		})
	}
}

func TestRespondErrorTruncatesInternalErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/pdf/merge", nil)

	respondError(c, errors.New(strings.Repeat("e", 500)))
	msg := errorMessage(t, w)
	assert.Len(t, msg, MaxErrorMessageLength+3)
	assert.True(t, strings.HasSuffix(msg, "..."))
}

func TestParseHexColor(t *testing.T) {
	c, err := parseHexColor("#FF0080")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c[0], 0.001)
	assert.InDelta(t, 0.0, c[1], 0.001)
	assert.InDelta(t, 128.0/255, c[2], 0.001)

	c, err = parseHexColor("00ff00")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, c[1], 0.001)

	for _, bad := range []string{"", "#FFF", "#GG0000", "#1234567"} {
		_, err := parseHexColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"report.pdf":       "report.pdf",
		"../../etc/passwd": "__etc_passwd",
		"dir\\file.pdf":    "dir_file.pdf",
		"  ":               "document.pdf",
		"..":               "document.pdf",
		"cafe\u0301.pdf":   "caf\u00e9.pdf",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeFilename(in), "sanitizeFilename(%q)", in)
	}
}

func TestOutputFilename(t *testing.T) {
	assert.Equal(t, "document_unlocked.pdf", outputFilename(nil, "unlocked"))
	assert.Equal(t, "scan_watermarked.pdf", outputFilename(&multipart.FileHeader{Filename: "scan.PDF"}, "watermarked"))
}
