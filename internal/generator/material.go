package generator

import (
	"fmt"
	"strings"
)

// Kind is the form of study material.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Material is the learner's input: pasted or extracted text, or an image
// of notes.
type Material struct {
	Kind     Kind
	Text     string
	Image    []byte
	MIMEType string

	// Source names where the material came from, e.g. a file path. Only
	// used for display.
	Source string
}

// TextMaterial returns text material.
func TextMaterial(text string) Material {
	return Material{Kind: KindText, Text: text, MIMEType: "text/plain"}
}

// ImageMaterial returns image material with the given MIME type.
func ImageMaterial(data []byte, mimeType string) Material {
	return Material{Kind: KindImage, Image: data, MIMEType: mimeType}
}

// Validate reports whether m can be sent for generation.
func (m Material) Validate() error {
	switch m.Kind {
	case KindText:
		if strings.TrimSpace(m.Text) == "" {
			return ErrNoMaterial
		}
	case KindImage:
		if len(m.Image) == 0 {
			return ErrNoMaterial
		}
		if !strings.HasPrefix(m.MIMEType, "image/") {
			return fmt.Errorf("%w: image material with MIME type %q", ErrUnsupportedMaterial, m.MIMEType)
		}
	case "":
		return ErrNoMaterial
	default:
		return fmt.Errorf("%w: kind %q", ErrUnsupportedMaterial, m.Kind)
	}
	return nil
}

// Describe returns a short label for logs and the loading view.
func (m Material) Describe() string {
	switch m.Kind {
	case KindImage:
		if m.Source != "" {
			return fmt.Sprintf("%s (%s, %d bytes)", m.Source, m.MIMEType, len(m.Image))
		}
		return fmt.Sprintf("%s image, %d bytes", m.MIMEType, len(m.Image))
	default:
		if m.Source != "" {
			return fmt.Sprintf("%s (%d chars)", m.Source, len([]rune(m.Text)))
		}
		return fmt.Sprintf("pasted text, %d chars", len([]rune(m.Text)))
	}
}
