package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// StorageService stores complaint images on local disk and returns the URL
// under which they are served. Unlike enrichment, storage failure is fatal to
// the operation that supplied the image: the image is part of the request.
type StorageService struct {
	uploadDir string
	baseURL   string
}

// NewStorageService creates a storage service rooted at uploadDir
func NewStorageService(uploadDir, baseURL string) *StorageService {
	return &StorageService{
		uploadDir: uploadDir,
		baseURL:   baseURL,
	}
}

// SaveImage writes the image bytes to disk and returns its public URL
func (s *StorageService) SaveImage(data []byte, contentType string) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	fileName := uuid.New().String() + "_image" + extensionFor(contentType)
	path := filepath.Join(s.uploadDir, fileName)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return s.baseURL + "/" + fileName, nil
}

// UploadDir returns the directory images are stored in (served by the router)
func (s *StorageService) UploadDir() string {
	return s.uploadDir
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".bin"
	}
}
