package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wordBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Python</w:t></w:r><w:r><w:tab/><w:t xml:space="preserve">AWS </w:t></w:r><w:r><w:br/><w:t>jane@example.com</w:t></w:r></w:p>
  </w:body>
</w:document>`

func writeDOCX(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return path
}

// writePDF builds a minimal PDF with one text line per page.
func writePDF(t *testing.T, dir, name string, pages ...string) string {
	t.Helper()

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	for i, text := range pages {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestDocumentParser_PDF(t *testing.T) {
	path := writePDF(t, t.TempDir(), "resume.pdf", "Jane Python", "AWS https://jane.dev")

	content, err := NewDocumentParser().ExtractContent(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 2, content.PageCount)

	first := strings.Index(content.Text, "Jane Python")
	second := strings.Index(content.Text, "AWS https://jane.dev")
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, first)
	assert.Contains(t, content.Text, "Jane Python\n")
	assert.True(t, strings.HasSuffix(content.Text, "\n"))

	text, err := NewDocumentParser().ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, content.Text, text)
}

func TestDocumentParser_DOCX(t *testing.T) {
	path := writeDOCX(t, t.TempDir(), "resume.docx", wordBody)

	content, err := NewDocumentParser().ExtractContent(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe\nPython\tAWS \njane@example.com\n", content.Text)
	assert.Equal(t, 1, content.PageCount)
}

func TestDocumentParser_DOCXWithoutBody(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.docx")

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	_, err = zw.Create("docProps/app.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	_, err = NewDocumentParser().ExtractText(context.Background(), path)
	assert.Error(t, err)
}

func TestDocumentParser_TXT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.TXT")
	require.NoError(t, os.WriteFile(path, []byte("plain résumé text"), 0o644))

	text, err := NewDocumentParser().ExtractText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "plain résumé text", text)
}

func TestDocumentParser_Errors(t *testing.T) {
	dir := t.TempDir()

	corruptPDF := filepath.Join(dir, "corrupt.pdf")
	require.NoError(t, os.WriteFile(corruptPDF, []byte("this is not a pdf at all"), 0o644))

	corruptDOCX := filepath.Join(dir, "corrupt.docx")
	require.NoError(t, os.WriteFile(corruptDOCX, []byte("PK but not really"), 0o644))

	unsupported := filepath.Join(dir, "resume.rtf")
	require.NoError(t, os.WriteFile(unsupported, []byte("{\\rtf1}"), 0o644))

	tests := []struct {
		name  string
		path  string
		isErr error
	}{
		{name: "corrupt pdf", path: corruptPDF},
		{name: "corrupt docx", path: corruptDOCX},
		{name: "unsupported extension", path: unsupported, isErr: ErrUnsupportedFormat},
		{name: "missing file", path: filepath.Join(dir, "missing.pdf")},
	}

	parser := NewDocumentParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ExtractText(context.Background(), tt.path)
			require.Error(t, err)
			if tt.isErr != nil {
				assert.ErrorIs(t, err, tt.isErr)
			}
		})
	}
}

func TestDocumentParser_CanceledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("text"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDocumentParser().ExtractText(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsSupportedExtension(t *testing.T) {
	assert.True(t, IsSupportedExtension(".pdf"))
	assert.True(t, IsSupportedExtension(".DOCX"))
	assert.True(t, IsSupportedExtension(".txt"))
	assert.False(t, IsSupportedExtension(".doc"))
	assert.False(t, IsSupportedExtension(""))
}

func TestCleanText(t *testing.T) {
	in := "  Jane Doe  \n\n\t\nPython \n   AWS"

	assert.Equal(t, "Jane Doe\nPython\nAWS", CleanText(in))
	assert.Equal(t, "", CleanText(strings.Repeat(" \n", 3)))
}
