package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode"

	"socialplay/internal/config"
)

// Store persists uploaded media and resolves stored keys to public URLs.
// Keys have the form "<kind>/<name>".
type Store interface {
	Put(ctx context.Context, kind, name string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

var (
	ErrInvalidKind = errors.New("invalid storage kind")
	ErrInvalidName = errors.New("invalid file name")
)

// New returns an R2Store when R2 is fully configured, a LocalStore otherwise.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg.R2Enabled() {
		return NewR2Store(ctx, cfg)
	}
	return NewLocalStore(cfg.UploadDir)
}

// NewName builds "<userID>_<unixNano>_<sanitized original>".
func NewName(userID int64, original string, at time.Time) string {
	return fmt.Sprintf("%d_%d_%s", userID, at.UnixNano(), SanitizeName(original))
}

// SanitizeName reduces a client-supplied file name to a safe base name made of
// ASCII letters, digits, dots, dashes and underscores. The extension is kept
// even when nothing of the stem survives, in which case the stem is "file".
func SanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))

	ext := sanitizeExt(path.Ext(name))
	stem := strings.TrimSuffix(name, path.Ext(name))

	var b strings.Builder
	for _, r := range stem {
		switch {
		case isASCIIAlnum(r):
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}

	clean := strings.TrimLeft(b.String(), "._")
	if clean == "" {
		clean = "file"
	}
	return clean + ext
}

// sanitizeExt keeps ".ext" when ext has ASCII letters or digits, "" otherwise.
func sanitizeExt(ext string) string {
	var b strings.Builder
	for _, r := range strings.TrimPrefix(ext, ".") {
		if isASCIIAlnum(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "." + b.String()
}

func isASCIIAlnum(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// splitKey is the inverse of objectKey.
func splitKey(key string) (kind, name string, err error) {
	kind, name, ok := strings.Cut(key, "/")
	if !ok {
		return "", "", ErrInvalidName
	}
	if _, err := objectKey(kind, name); err != nil {
		return "", "", err
	}
	return kind, name, nil
}

func objectKey(kind, name string) (string, error) {
	if kind == "" || strings.ContainsAny(kind, `/\.`) {
		return "", ErrInvalidKind
	}
	if name == "" || name != path.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrInvalidName
	}
	return kind + "/" + name, nil
}
