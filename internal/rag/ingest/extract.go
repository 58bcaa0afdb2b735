package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
	"github.com/plantdoc/PlantRAG/internal/domain/commonModels"
)

func docType(name string) commonModels.DocType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return commonModels.TXT
	case ".pdf":
		return commonModels.PDF
	case ".docx", ".rtf", ".odt":
		return commonModels.DOCX
	default:
		return commonModels.ERR
	}
}

func extractText(path string) (string, error) {
	switch docType(filepath.Base(path)) {
	case commonModels.TXT:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		return string(data), nil
	case commonModels.PDF:
		return extractPDF(path)
	case commonModels.DOCX:
		text, err := cat.File(path)
		if err != nil {
			return "", fmt.Errorf("extracting %s: %w", path, err)
		}
		return text, nil
	default:
		return "", fmt.Errorf("unsupported document type: %s", path)
	}
}

func extractPDF(path string) (string, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf %s: %w", path, err)
	}

	var sb strings.Builder
	for i := 1; i <= f.NumPage(); i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			//a single unreadable page should not sink the document
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(content)
	}
	return sb.String(), nil
}

// MakeWorldAccessible chmods dir and its files world read/write, matching
// the observed deployment where the index host reads the corpus as another
// user. Opt-in via INGEST_WORLD_ACCESS.
func MakeWorldAccessible(dir string) error {
	if err := os.Chmod(dir, 0o777); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		mode := os.FileMode(0o666)
		if entry.IsDir() {
			mode = 0o777
		}
		if err := os.Chmod(filepath.Join(dir, entry.Name()), mode); err != nil {
			return err
		}
	}
	return nil
}
