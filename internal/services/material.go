package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaterialService resolves a cv_reference into plain text for the matcher.
// References point at files written by the upload subsystem; this service
// only reads them.
type MaterialService interface {
	ResolveText(cvReference string) (string, error)
}

type materialService struct {
	basePath string
}

func NewMaterialService(basePath string) MaterialService {
	return &materialService{basePath: basePath}
}

func (m *materialService) ResolveText(cvReference string) (string, error) {
	if cvReference == "" {
		return "", fmt.Errorf("empty cv reference")
	}

	path := filepath.Join(m.basePath, filepath.Clean("/"+cvReference))

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
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
			// Skip unreadable pages rather than failing the whole document
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	extracted := strings.TrimSpace(textBuilder.String())
	if extracted == "" {
		return "", fmt.Errorf("no extractable text in %s", cvReference)
	}

	return extracted, nil
}
