package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveImageWritesFileAndReturnsURL(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorageService(dir, "/uploads")

	url, err := storage.SaveImage([]byte("fake-jpeg-bytes"), "image/jpeg")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	fileName := strings.TrimPrefix(url, "/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, fileName))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-jpeg-bytes"), data)
}

func TestSaveImageCreatesUploadDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	storage := NewStorageService(dir, "/uploads")

	_, err := storage.SaveImage([]byte("png-bytes"), "image/png")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveImageExtensionPerContentType(t *testing.T) {
	storage := NewStorageService(t.TempDir(), "/uploads")

	cases := map[string]string{
		"image/jpeg":               ".jpg",
		"image/png":                ".png",
		"image/webp":               ".webp",
		"image/gif":                ".gif",
		"application/octet-stream": ".bin",
	}
	for contentType, ext := range cases {
		url, err := storage.SaveImage([]byte("x"), contentType)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(url, ext), "content type %s should map to %s, got %s", contentType, ext, url)
	}
}

func TestSaveImageUniqueNames(t *testing.T) {
	storage := NewStorageService(t.TempDir(), "/uploads")

	first, err := storage.SaveImage([]byte("a"), "image/png")
	require.NoError(t, err)
	second, err := storage.SaveImage([]byte("b"), "image/png")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
