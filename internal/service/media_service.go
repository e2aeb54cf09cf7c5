package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/saborconflow/studio-backend/internal/storage"
)

// Sentinel errors for media uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// Allowed upload MIME types. Thumbnails are generated for the image types.
var allowedMIMETypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"video/mp4":  ".mp4",
}

var thumbnailable = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// Upload describes a stored file.
type Upload struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	ContentType  string `json:"content_type"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

// IsVideo reports whether the upload is a video file.
func (u *Upload) IsVideo() bool {
	return strings.HasPrefix(u.ContentType, "video/")
}

// MediaService validates uploads and writes them to the configured store.
type MediaService struct {
	store    storage.Store
	maxBytes int64
	log      zerolog.Logger
}

// NewMediaService creates a new MediaService.
func NewMediaService(store storage.Store, maxBytes int64, log zerolog.Logger) *MediaService {
	return &MediaService{
		store:    store,
		maxBytes: maxBytes,
		log:      log.With().Str("component", "media_service").Logger(),
	}
}

// SaveUpload stores an uploaded image or video under folder with a UUID filename.
func (s *MediaService) SaveUpload(ctx context.Context, folder string, file multipart.File, header *multipart.FileHeader) (*Upload, error) {
	return s.save(ctx, folder, file, header, true)
}

// SaveImage is SaveUpload restricted to images.
func (s *MediaService) SaveImage(ctx context.Context, folder string, file multipart.File, header *multipart.FileHeader) (*Upload, error) {
	return s.save(ctx, folder, file, header, false)
}

// save sniffs the content type from the file itself rather than trusting the request.
func (s *MediaService) save(ctx context.Context, folder string, file multipart.File, header *multipart.FileHeader, allowVideo bool) (*Upload, error) {
	if header.Size > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.maxBytes)
	}

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	contentType := http.DetectContentType(sniff[:n])
	ext, ok := allowedMIMETypes[contentType]
	if !ok || (!allowVideo && strings.HasPrefix(contentType, "video/")) {
		return nil, fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, contentType, strings.Join(allowedTypes(), ", "))
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	name := uuid.New().String()
	url, err := s.store.Put(ctx, path.Join(folder, name+ext), file, contentType)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	up := &Upload{URL: url, ContentType: contentType}

	if thumbnailable[contentType] {
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("rewind upload: %w", err)
		}
		thumb, size, err := storage.Thumbnail(file)
		if err != nil {
			s.log.Warn().Err(err).Str("url", url).Msg("Thumbnail not generated")
			return up, nil
		}
		up.Width, up.Height = size.X, size.Y
		up.ThumbnailURL, err = s.store.Put(ctx, path.Join(folder, "thumbs", name+".jpg"), bytes.NewReader(thumb), "image/jpeg")
		if err != nil {
			return nil, fmt.Errorf("store thumbnail: %w", err)
		}
	}

	s.log.Info().Str("url", url).Str("content_type", contentType).Msg("Upload stored")
	return up, nil
}

func allowedTypes() []string {
	types := make([]string, 0, len(allowedMIMETypes))
	for t := range allowedMIMETypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
