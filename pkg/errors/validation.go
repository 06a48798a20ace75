package errors

import (
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

// MaxUploadSize is the largest file accepted for upload (50 MiB).
const MaxUploadSize = 50 << 20

// ValidateID validates a backend record id (user, concert, song).
// Ids are positive decimal integers.
func ValidateID(kind, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return New(ErrCodeInvalidID, "%s id cannot be empty", kind)
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return New(ErrCodeInvalidID, "invalid %s id: %q", kind, id)
	}
	return nil
}

// ValidateUploadFile validates a local file chosen for upload.
// It checks the name is usable as a multipart filename and the size is
// within MaxUploadSize.
func ValidateUploadFile(path string, size int64) error {
	name := filepath.Base(path)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return New(ErrCodeInvalidFile, "upload file name cannot be empty")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFile, "upload file name contains control characters")
		}
	}
	if size <= 0 {
		return New(ErrCodeInvalidFile, "upload file %s is empty", name)
	}
	if size > MaxUploadSize {
		return New(ErrCodeInvalidFile, "upload file %s too large (%d bytes, max %d)", name, size, MaxUploadSize)
	}
	return nil
}

// ValidateURL validates a backend base URL. Only http and https are allowed
// and a host is required.
func ValidateURL(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidURL, "URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidURL, err, "invalid URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidURL, "URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidURL, "URL %q has no host", raw)
	}
	return nil
}
