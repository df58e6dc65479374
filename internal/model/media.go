package model

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
)

const (
	MaxAvatarSizeBytes = 5 * 1024 * 1024
	AvatarWidth        = 200
	AvatarHeight       = 200
	AvatarFolder       = "avatars"
	AvatarExt          = ".jpg"
	PostMediaFolder    = "posts"
)

const (
	ContentTypeJPEG = "image/jpeg"
)

// MediaKind classifies a stored media reference by extension.
type MediaKind string

const (
	MediaNone  MediaKind = "none"
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

var imageExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
}

var videoExtensions = map[string]struct{}{
	"mp4":  {},
	"mov":  {},
	"webm": {},
}

// Upload is a file received from a form, not yet stored.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Domain errors for media operations
var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
)

func extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// ClassifyMedia reports whether a file name refers to an image, a video or neither.
func ClassifyMedia(name string) MediaKind {
	if name == "" {
		return MediaNone
	}
	ext := extension(name)
	if _, ok := imageExtensions[ext]; ok {
		return MediaImage
	}
	if _, ok := videoExtensions[ext]; ok {
		return MediaVideo
	}
	return MediaNone
}

// IsAllowedMedia reports if the file name has an allowed image or video extension.
func IsAllowedMedia(name string) bool {
	return ClassifyMedia(name) != MediaNone
}

// IsAllowedImage reports if the file name has an allowed image extension.
func IsAllowedImage(name string) bool {
	return ClassifyMedia(name) == MediaImage
}
