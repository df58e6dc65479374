package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"socialplay/internal/model"
	"socialplay/internal/storage"
)

// MediaService validates uploads and hands them to the configured store.
type MediaService struct {
	store         storage.Store
	defaultAvatar string
	now           func() time.Time
}

func NewMediaService(store storage.Store, defaultAvatarURL string) *MediaService {
	return &MediaService{
		store:         store,
		defaultAvatar: defaultAvatarURL,
		now:           time.Now,
	}
}

// StoreAvatar normalizes an image to a 200x200 JPEG and stores it under avatars.
func (s *MediaService) StoreAvatar(ctx context.Context, userID int64, upload *model.Upload) (string, error) {
	if !model.IsAllowedImage(upload.Filename) {
		return "", model.ErrInvalidImageType
	}

	data, err := readLimited(upload, model.MaxAvatarSizeBytes)
	if err != nil {
		return "", err
	}

	jpegBytes, err := resizeToJPEG(data, model.AvatarWidth, model.AvatarHeight, 85)
	if err != nil {
		return "", err
	}

	base := strings.TrimSuffix(upload.Filename, filepath.Ext(upload.Filename))
	name := storage.NewName(userID, base+model.AvatarExt, s.now())

	key, err := s.store.Put(ctx, model.AvatarFolder, name, bytes.NewReader(jpegBytes), model.ContentTypeJPEG)
	if err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}
	return key, nil
}

// StorePostMedia stores an image or video attached to a post under posts.
func (s *MediaService) StorePostMedia(ctx context.Context, userID int64, upload *model.Upload) (string, error) {
	if !model.IsAllowedMedia(upload.Filename) {
		return "", model.ErrUnsupportedMedia
	}

	name := storage.NewName(userID, upload.Filename, s.now())
	key, err := s.store.Put(ctx, model.PostMediaFolder, name, upload.Body, upload.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to store post media: %w", err)
	}
	return key, nil
}

// Remove deletes a stored media object.
func (s *MediaService) Remove(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to remove media %s: %w", key, err)
	}
	return nil
}

// AvatarURL resolves a stored avatar key, falling back to the default avatar.
func (s *MediaService) AvatarURL(key *string) string {
	if key == nil || *key == "" {
		return s.defaultAvatar
	}
	return s.store.URL(*key)
}

// MediaURL resolves a stored post media key. A missing key resolves to "".
func (s *MediaService) MediaURL(key *string) string {
	if key == nil || *key == "" {
		return ""
	}
	return s.store.URL(*key)
}

func readLimited(upload *model.Upload, maxSize int64) ([]byte, error) {
	if upload.Size > maxSize {
		return nil, model.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(upload.Body, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, model.ErrFileTooLarge
	}
	return data, nil
}

// resizeToJPEG center-crops to the target size and encodes as JPEG.
func resizeToJPEG(data []byte, width, height, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidImageType, err)
	}

	resized := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}
