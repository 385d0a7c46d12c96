package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base directory for stored organization logos
	uploadBaseDir = "uploads"
	// Base URL for serving stored files
	baseURL = "/uploads"
	// Maximum accepted logo size (5MB)
	maxLogoSize = 5 * 1024 * 1024
)

// Allowed logo extensions
var allowedLogoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// ValidateLogoUpload checks size and extension of an uploaded logo
func ValidateLogoUpload(file *multipart.FileHeader) error {
	if file.Size > maxLogoSize {
		return fmt.Errorf("logo too large, maximum size is %d bytes", maxLogoSize)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedLogoExts[ext] {
		return fmt.Errorf("unsupported logo format, allowed formats: jpg, jpeg, png, gif")
	}
	return nil
}

// SaveTempUpload writes an uploaded logo to a uniquely named temporary file
// and returns its path. The caller owns deleting the file; the hashing step
// removes it on every exit path.
func SaveTempUpload(file *multipart.FileHeader) (string, error) {
	if err := ValidateLogoUpload(file); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %v", err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	path := filepath.Join(os.TempDir(), "logo-"+uuid.NewString()+ext)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %v", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write temp file: %v", err)
	}
	return path, nil
}

// ReadFormFile loads an uploaded file fully into memory after validation
func ReadFormFile(file *multipart.FileHeader) ([]byte, error) {
	if err := ValidateLogoUpload(file); err != nil {
		return nil, err
	}
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %v", err)
	}
	defer src.Close()
	return io.ReadAll(src)
}

// InitializeStorage creates the directories for stored logos
func InitializeStorage() error {
	if err := os.MkdirAll(filepath.Join(uploadBaseDir, "logos"), 0755); err != nil {
		return fmt.Errorf("failed to create uploads directory: %v", err)
	}
	return nil
}

// SaveLogoFile stores a logo permanently under uploads/logos and returns the
// URL it will be served from.
func SaveLogoFile(data []byte, ownerID, ext string) (string, error) {
	if err := InitializeStorage(); err != nil {
		return "", err
	}
	if !allowedLogoExts[ext] {
		return "", fmt.Errorf("unsupported logo format")
	}

	filename := ownerID + ext
	fullPath := filepath.Join(uploadBaseDir, "logos", filename)
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write logo file: %v", err)
	}
	return fmt.Sprintf("%s/logos/%s", baseURL, filename), nil
}
