package report

import (
	"fmt"
	"path/filepath"

	"github.com/mandolyte/mdtopdf"
)

// WritePDF renders markdown content into pdfPath and returns its absolute
// path.
func WritePDF(markdown, pdfPath string) (string, error) {
	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process([]byte(markdown)); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}
