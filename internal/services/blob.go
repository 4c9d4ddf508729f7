package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const blobUploadEndpoint = "https://blob.vercel-storage.com"

// BlobService talks to the Vercel-Blob-style storage API where résumés
// uploaded by the careers frontend live.
type BlobService interface {
	Download(ref string) ([]byte, error)
	Upload(content []byte, filename, contentType string) (string, error)
	Configured() bool
}

type blobService struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewBlobService(baseURL, token string) BlobService {
	return &blobService{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *blobService) Configured() bool {
	return s.token != ""
}

// ResolveRef turns a stored résumé reference into a fetchable URL. Absolute
// URLs pass through; relative paths are joined onto the configured base.
func (s *blobService) resolveRef(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return s.baseURL + "/" + strings.TrimLeft(ref, "/")
}

func (s *blobService) Download(ref string) ([]byte, error) {
	if ref == "" {
		return nil, fmt.Errorf("empty blob reference")
	}

	url := s.resolveRef(ref)
	resp, err := s.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("blob download returned HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob body: %w", err)
	}
	return data, nil
}

func (s *blobService) Upload(content []byte, filename, contentType string) (string, error) {
	if s.token == "" {
		return "", fmt.Errorf("blob storage token not configured")
	}

	req, err := http.NewRequest(http.MethodPut,
		fmt.Sprintf("%s/%s", blobUploadEndpoint, filename),
		bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-api-version", "7")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload blob: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("blob upload returned HTTP %d: %s", resp.StatusCode, body)
	}

	var uploaded struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if uploaded.URL == "" {
		return "", fmt.Errorf("upload response missing url")
	}

	return uploaded.URL, nil
}
