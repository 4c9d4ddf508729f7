package services

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractorService turns a résumé reference (blob URL, relative API path or
// local file path) into plain text. It never fails: any problem is logged
// and reported to the caller as an empty string.
type ExtractorService interface {
	ExtractText(ref string) string
}

type extractorService struct {
	blob BlobService
}

func NewExtractorService(blob BlobService) ExtractorService {
	return &extractorService{blob: blob}
}

func (e *extractorService) ExtractText(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.EqualFold(ref, "NULL") {
		return ""
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "/api/") {
		return e.extractRemote(ref)
	}

	return e.extractLocal(ref)
}

func (e *extractorService) extractRemote(ref string) string {
	data, err := e.blob.Download(ref)
	if err != nil {
		log.Printf("⚠️  CV download failed for %s: %v", ref, err)
		return ""
	}

	// The careers frontend only uploads PDFs, but tolerate plain text.
	if ext := strings.ToLower(filepath.Ext(strings.SplitN(ref, "?", 2)[0])); ext == ".txt" {
		return string(data)
	}

	text, err := pdfTextFromBytes(data)
	if err != nil {
		log.Printf("⚠️  CV text extraction failed for %s: %v", ref, err)
		return ""
	}
	return text
}

func (e *extractorService) extractLocal(path string) string {
	if _, err := os.Stat(path); err != nil {
		log.Printf("⚠️  CV file not found: %s", path)
		return ""
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		f, r, err := pdf.Open(path)
		if err != nil {
			log.Printf("⚠️  Failed to open PDF %s: %v", path, err)
			return ""
		}
		defer f.Close()
		return pdfText(r)
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("⚠️  Failed to read %s: %v", path, err)
			return ""
		}
		return string(data)
	default:
		log.Printf("⚠️  Unsupported CV format %q for %s", ext, path)
		return ""
	}
}

func pdfTextFromBytes(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	return pdfText(r), nil
}

// pdfText extracts page by page; pages that yield no text contribute nothing.
func pdfText(r *pdf.Reader) string {
	var textBuilder strings.Builder

	totalPage := r.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	return strings.TrimSpace(textBuilder.String())
}
