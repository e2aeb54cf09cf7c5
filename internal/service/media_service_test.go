package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStore) Put(_ context.Context, key string, body io.ReadSeeker, contentType string) (string, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.objects[key] = raw
	m.types[key] = contentType
	return "/uploads/" + key, nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func upload(raw []byte, name string) (multipart.File, *multipart.FileHeader) {
	return memFile{bytes.NewReader(raw)}, &multipart.FileHeader{Filename: name, Size: int64(len(raw))}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// mp4Bytes is the smallest header http.DetectContentType reports as video/mp4.
func mp4Bytes() []byte {
	b := []byte{0, 0, 0, 0x18}
	b = append(b, "ftypmp42"...)
	b = append(b, 0, 0, 0, 0)
	b = append(b, "mp42isom"...)
	return append(b, make([]byte, 64)...)
}

func TestSaveImageStoresThumbnail(t *testing.T) {
	store := newMemStore()
	svc := NewMediaService(store, 1<<20, zerolog.Nop())

	file, header := upload(pngBytes(t, 960, 640), "photo.png")
	up, err := svc.SaveImage(context.Background(), "gallery", file, header)
	require.NoError(t, err)

	assert.Equal(t, "image/png", up.ContentType)
	assert.True(t, strings.HasPrefix(up.URL, "/uploads/gallery/"))
	assert.True(t, strings.HasSuffix(up.URL, ".png"))
	assert.True(t, strings.HasPrefix(up.ThumbnailURL, "/uploads/gallery/thumbs/"))
	assert.Equal(t, 960, up.Width)
	assert.Equal(t, 640, up.Height)
	assert.Len(t, store.objects, 2)
	assert.False(t, up.IsVideo())
}

func TestSaveUploadAcceptsVideoWithoutThumbnail(t *testing.T) {
	store := newMemStore()
	svc := NewMediaService(store, 1<<20, zerolog.Nop())

	file, header := upload(mp4Bytes(), "clip.mp4")
	up, err := svc.SaveUpload(context.Background(), "gallery", file, header)
	require.NoError(t, err)
	assert.True(t, up.IsVideo())
	assert.Empty(t, up.ThumbnailURL)
	assert.Len(t, store.objects, 1)
}

func TestSaveImageRejectsVideoBeforeStoring(t *testing.T) {
	store := newMemStore()
	svc := NewMediaService(store, 1<<20, zerolog.Nop())

	file, header := upload(mp4Bytes(), "clip.mp4")
	_, err := svc.SaveImage(context.Background(), "instructors", file, header)
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
	assert.Empty(t, store.objects)
}

func TestSaveUploadRejectsBadInput(t *testing.T) {
	store := newMemStore()
	svc := NewMediaService(store, 100, zerolog.Nop())
	ctx := context.Background()

	file, header := upload([]byte("%PDF-1.7 not an image"), "doc.pdf")
	_, err := svc.SaveUpload(ctx, "gallery", file, header)
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	file, header = upload(pngBytes(t, 64, 64), "big.png")
	header.Size = 101
	_, err = svc.SaveUpload(ctx, "gallery", file, header)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Empty(t, store.objects)
}
