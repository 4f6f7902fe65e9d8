package services

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// TextExtractor turns a stored document into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, filePath string) (string, error)
}

type DocumentContent struct {
	Text      string
	PageCount int
	FilePath  string
}

// DocumentParser extracts text from PDF, DOCX and plain-text files.
type DocumentParser interface {
	TextExtractor
	ExtractContent(ctx context.Context, filePath string) (*DocumentContent, error)
}

// SupportedExtensions lists the file extensions DocumentParser accepts.
var SupportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
}

// IsSupportedExtension reports whether ext (with its dot, any case) can be
// parsed.
func IsSupportedExtension(ext string) bool {
	return SupportedExtensions[strings.ToLower(ext)]
}

type documentParser struct{}

func NewDocumentParser() DocumentParser {
	return &documentParser{}
}

// ExtractText implements TextExtractor.
func (p *documentParser) ExtractText(ctx context.Context, filePath string) (string, error) {
	content, err := p.ExtractContent(ctx, filePath)
	if err != nil {
		return "", err
	}
	return content.Text, nil
}

// ExtractContent implements DocumentParser. A document without any text
// (a scanned PDF, say) is not an error; it yields empty text.
func (p *documentParser) ExtractContent(ctx context.Context, filePath string) (content *DocumentContent, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("file does not exist: %s: %w", filePath, err)
	}

	// The PDF reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			content = nil
			err = fmt.Errorf("corrupt document: %v", r)
		}
	}()

	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return extractPDF(filePath)
	case ".docx":
		text, err := extractDOCX(filePath)
		if err != nil {
			return nil, err
		}
		return &DocumentContent{Text: text, PageCount: 1, FilePath: filePath}, nil
	case ".txt":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read text file: %w", err)
		}
		return &DocumentContent{Text: string(data), PageCount: 1, FilePath: filePath}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// extractPDF concatenates the plain text of every page.
func extractPDF(filePath string) (*DocumentContent, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", pageIndex, err)
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	return &DocumentContent{
		Text:      textBuilder.String(),
		PageCount: totalPage,
		FilePath:  filePath,
	}, nil
}

// extractDOCX reads word/document.xml out of the archive.
func extractDOCX(filePath string) (string, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document body: %w", err)
		}
		defer rc.Close()
		return parseWordXML(rc)
	}

	return "", fmt.Errorf("DOCX has no word/document.xml")
}

// parseWordXML collects w:t runs, turning paragraphs and breaks into
// newlines and w:tab into tabs.
func parseWordXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var b strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document body: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return b.String(), nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleaned := lines[:0]

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
