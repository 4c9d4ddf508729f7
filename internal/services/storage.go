package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// allowedResumeExtensions is the extension whitelist for candidate uploads.
var allowedResumeExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// StorageService is the local-disk fallback for résumé files when the blob
// upload fails.
type StorageService interface {
	EnsureUploadDir() error
	SaveBytes(filename string, data []byte) (string, error)
	DeleteFile(filename string) error
	ResumeFilename(fullName string, ext string) string
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{uploadPath: uploadPath}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

func (s *storageService) SaveBytes(filename string, data []byte) (string, error) {
	filePath := filepath.Join(s.uploadPath, filename)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return filePath, nil
}

func (s *storageService) DeleteFile(filename string) error {
	filePath := filepath.Join(s.uploadPath, filename)
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// ResumeFilename builds a collision-safe filename from the candidate's name.
func (s *storageService) ResumeFilename(fullName string, ext string) string {
	var b strings.Builder
	for _, r := range fullName {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	safe := b.String()
	if safe == "" {
		safe = "candidate"
	}
	return fmt.Sprintf("%s_%s%s", safe, time.Now().Format("20060102_150405"), ext)
}

// ValidResumeExtension reports whether ext (including the dot) is accepted.
func ValidResumeExtension(ext string) bool {
	return allowedResumeExtensions[strings.ToLower(ext)]
}
