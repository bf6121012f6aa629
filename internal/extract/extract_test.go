package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

const documentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t>Python developer</w:t></w:r></w:p>
</w:body>
</w:document>`

func TestExtractPlainText(t *testing.T) {
	text, err := ExtractTextFromBytes(context.Background(), []byte("  Go, SQL\n"), "text/plain; charset=utf-8", "cv.txt")
	require.NoError(t, err)
	assert.Equal(t, "Go, SQL", text)
}

func TestExtractDocxFromZipMime(t *testing.T) {
	data := buildZip(t, map[string]string{"word/document.xml": documentXML})

	text, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "cv")
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "Python developer")
}

func TestExtractRejectsPlainZip(t *testing.T) {
	data := buildZip(t, map[string]string{"notes.txt": "hello"})

	_, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "notes.zip")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestExtractRejectsInvalidPDF(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), []byte("not a pdf"), MimePDF, "cv.pdf")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedType)
}

func TestDetectTypeFallsBackToExtension(t *testing.T) {
	assert.Equal(t, MimePDF, DetectType("application/octet-stream", "CV.PDF", nil))
	assert.Equal(t, MimeDOCX, DetectType("", "cv.docx", nil))
	assert.Equal(t, MimePlain, DetectType("", "cv.txt", nil))
	assert.Equal(t, "image/png", DetectType("image/png", "photo.png", nil))
}

func TestExtractHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ExtractTextFromBytes(ctx, []byte("x"), MimePlain, "cv.txt")
	assert.ErrorIs(t, err, context.Canceled)
}
