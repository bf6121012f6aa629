package util

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"
)

const maxFileNameRunes = 120

var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName flattens separators to underscores, drops control
// characters and caps the length while keeping the extension. Names that
// try to traverse directories are rejected.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || strings.Trim(cleaned, "_.") == "" {
		return "", ErrInvalidFileName
	}

	runes := []rune(cleaned)
	if len(runes) <= maxFileNameRunes {
		return cleaned, nil
	}
	ext := []rune(filepath.Ext(cleaned))
	if len(ext) >= maxFileNameRunes {
		ext = nil
	}
	return string(runes[:maxFileNameRunes-len(ext)]) + string(ext), nil
}
