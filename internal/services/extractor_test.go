package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fakeBlob struct {
	data map[string][]byte
}

func (b *fakeBlob) Download(ref string) ([]byte, error) {
	data, ok := b.data[ref]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return data, nil
}

func (b *fakeBlob) Upload(content []byte, filename, contentType string) (string, error) {
	return "", errors.New("not implemented")
}

func (b *fakeBlob) Configured() bool { return true }

func TestExtractText_EmptyAndSentinelRefs(t *testing.T) {
	extractor := NewExtractorService(&fakeBlob{})

	for _, ref := range []string{"", "   ", "NULL", "null"} {
		if got := extractor.ExtractText(ref); got != "" {
			t.Errorf("ExtractText(%q) = %q, want empty", ref, got)
		}
	}
}

func TestExtractText_LocalTxt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cv.txt")
	if err := os.WriteFile(path, []byte("plain text resume"), 0644); err != nil {
		t.Fatal(err)
	}

	extractor := NewExtractorService(&fakeBlob{})
	if got := extractor.ExtractText(path); got != "plain text resume" {
		t.Errorf("ExtractText() = %q", got)
	}
}

func TestExtractText_LocalMissingFile(t *testing.T) {
	extractor := NewExtractorService(&fakeBlob{})
	if got := extractor.ExtractText("/nonexistent/cv.pdf"); got != "" {
		t.Errorf("ExtractText() = %q, want empty", got)
	}
}

func TestExtractText_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cv.pages")
	if err := os.WriteFile(path, []byte("binary"), 0644); err != nil {
		t.Fatal(err)
	}

	extractor := NewExtractorService(&fakeBlob{})
	if got := extractor.ExtractText(path); got != "" {
		t.Errorf("ExtractText() = %q, want empty", got)
	}
}

func TestExtractText_RemoteTxt(t *testing.T) {
	blob := &fakeBlob{data: map[string][]byte{
		"https://blob.example.com/cv.txt":       []byte("remote resume"),
		"https://blob.example.com/cv.txt?sig=x": []byte("signed resume"),
	}}
	extractor := NewExtractorService(blob)

	if got := extractor.ExtractText("https://blob.example.com/cv.txt"); got != "remote resume" {
		t.Errorf("ExtractText() = %q", got)
	}
	// Query parameters must not confuse the extension sniff.
	if got := extractor.ExtractText("https://blob.example.com/cv.txt?sig=x"); got != "signed resume" {
		t.Errorf("ExtractText() = %q", got)
	}
}

func TestExtractText_RemoteDownloadFailure(t *testing.T) {
	extractor := NewExtractorService(&fakeBlob{})
	if got := extractor.ExtractText("https://blob.example.com/missing.pdf"); got != "" {
		t.Errorf("ExtractText() = %q, want empty", got)
	}
}
