// Package material loads study material from files and pasted text.
package material

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"

	"github.com/abhisek/eduspark/internal/generator"
)

// MaxFileSize caps files read from disk. Inline image parts above this size
// are rejected by the AI providers anyway.
const MaxFileSize = 20 << 20

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// FromText returns text material for pasted input.
func FromText(s string) generator.Material {
	return generator.TextMaterial(normalize(s))
}

// Load reads path and returns image material for images and text material
// for plain text, PDF and DOCX files. The type is sniffed from content, not
// the extension.
func Load(path string) (generator.Material, error) {
	info, err := os.Stat(path)
	if err != nil {
		return generator.Material{}, err
	}
	if info.IsDir() {
		return generator.Material{}, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxFileSize {
		return generator.Material{}, fmt.Errorf("%w: %s is %d bytes, limit is %d",
			generator.ErrUnsupportedMaterial, path, info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return generator.Material{}, err
	}

	m, err := FromBytes(data)
	if err != nil {
		return generator.Material{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	m.Source = filepath.Base(path)
	return m, nil
}

// FromBytes classifies data by its content.
func FromBytes(data []byte) (generator.Material, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return generator.Material{}, generator.ErrNoMaterial
	}

	mt := mimetype.Detect(data)
	switch {
	case strings.HasPrefix(mt.String(), "image/"):
		return generator.ImageMaterial(data, mt.String()), nil
	case mt.Is("application/pdf"):
		text, err := extractPDF(data)
		if err != nil {
			return generator.Material{}, err
		}
		return textMaterial(text, "application/pdf")
	case mt.Is(docxMIME):
		text, err := extractDOCX(data)
		if err != nil {
			return generator.Material{}, err
		}
		return textMaterial(text, docxMIME)
	case isText(mt):
		return textMaterial(string(data), "text/plain")
	default:
		return generator.Material{}, fmt.Errorf("%w: %s", generator.ErrUnsupportedMaterial, mt.String())
	}
}

func textMaterial(text, mimeType string) (generator.Material, error) {
	m := FromText(text)
	if m.Text == "" {
		return generator.Material{}, fmt.Errorf("%w: no extractable text in %s", generator.ErrNoMaterial, mimeType)
	}
	m.MIMEType = mimeType
	return m, nil
}

// isText reports whether mt is text/plain or derives from it, e.g. JSON,
// CSV, HTML.
func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

var xmlTag = regexp.MustCompile(`<[^>]+>`)

func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		doc, err := io.ReadAll(rc)
		if err != nil {
			return "", err
		}
		return docxText(doc), nil
	}
	return "", fmt.Errorf("docx has no word/document.xml")
}

func docxText(doc []byte) string {
	s := strings.NewReplacer(
		"</w:p>", "\n",
		"<w:br/>", "\n",
		"<w:br />", "\n",
		"<w:tab/>", "\t",
	).Replace(string(doc))
	s = xmlTag.ReplaceAllString(s, "")
	// Named and numeric character references, e.g. &#8217; from smart quotes.
	return html.UnescapeString(s)
}

// normalize trims lines, unifies line endings and collapses runs of blank
// lines into one.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var b strings.Builder
	blank := 0
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			blank++
			if blank > 1 {
				continue
			}
			b.WriteString("\n")
			continue
		}
		blank = 0
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
