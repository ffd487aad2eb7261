package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"claudelens/internal/archive"
)

// =============================================================================
// UTILITY METHODS (Bound to frontend)
// =============================================================================

// ReadAttachmentAsDataURL reads a side-car file of a session and returns it
// as a base64 data URL. Only files under the projects directory are served.
func (a *App) ReadAttachmentAsDataURL(filePath string) (string, error) {
	if err := a.insideProjects(filePath); err != nil {
		return "", err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrapf(archive.ErrNotFound, "file not found: %s", filePath)
		}
		return "", errors.Wrap(err, "failed to read attachment")
	}

	// Determine MIME type from file extension
	mimeType := "application/octet-stream"
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".png":
		mimeType = "image/png"
	case ".gif":
		mimeType = "image/gif"
	case ".webp":
		mimeType = "image/webp"
	case ".svg":
		mimeType = "image/svg+xml"
	case ".jpg", ".jpeg":
		mimeType = "image/jpeg"
	case ".txt", ".md", ".log":
		mimeType = "text/plain"
	case ".json", ".jsonl":
		mimeType = "application/json"
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf("data:%s;base64,%s", mimeType, encoded), nil
}

// insideProjects rejects paths outside the archive's projects directory
func (a *App) insideProjects(path string) error {
	if !filepath.IsAbs(path) {
		return errors.Wrap(archive.ErrInvalidSessionPath, "attachment path must be absolute")
	}
	rel, err := filepath.Rel(a.archiveLayout().ProjectsDir(), filepath.Clean(path))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errors.Wrap(archive.ErrInvalidSessionPath, "attachment is outside the projects directory")
	}
	return nil
}

// =============================================================================
// VERSION METHODS (Bound to frontend)
// =============================================================================

// GetVersion returns the application version
func (a *App) GetVersion() string {
	return Version
}
