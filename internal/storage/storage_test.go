package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPutAndDelete(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir, "/uploads/")
	ctx := context.Background()

	url, err := store.Put(ctx, "gallery/a.jpg", bytes.NewReader([]byte("data")), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/gallery/a.jpg", url)

	got, err := os.ReadFile(filepath.Join(dir, "gallery", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))

	require.NoError(t, store.Delete(ctx, "gallery/a.jpg"))
	require.NoError(t, store.Delete(ctx, "gallery/a.jpg"))
	_, err = os.Stat(filepath.Join(dir, "gallery", "a.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalKeyCannotEscapeDir(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(filepath.Join(dir, "uploads"), "/uploads")

	url, err := store.Put(context.Background(), "../../etc/passwd", bytes.NewReader(nil), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/etc/passwd", url)
	_, err = os.Stat(filepath.Join(dir, "uploads", "etc", "passwd"))
	assert.NoError(t, err)
}

type fakeS3 struct {
	s3iface.S3API
	puts    []*s3.PutObjectInput
	deletes []string
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.StringValue(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3PutReturnsPublicURL(t *testing.T) {
	fake := &fakeS3{}
	store := NewS3WithClient(fake, "scf-media", "https://cdn.saborconflow.test/")

	url, err := store.Put(context.Background(), "/gallery/b.png", bytes.NewReader([]byte("x")), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.saborconflow.test/gallery/b.png", url)
	require.Len(t, fake.puts, 1)
	assert.Equal(t, "scf-media", aws.StringValue(fake.puts[0].Bucket))
	assert.Equal(t, "gallery/b.png", aws.StringValue(fake.puts[0].Key))
	assert.Equal(t, "public-read", aws.StringValue(fake.puts[0].ACL))

	require.NoError(t, store.Delete(context.Background(), "gallery/b.png"))
	assert.Equal(t, []string{"gallery/b.png"}, fake.deletes)
}

func TestThumbnailFitsBoundingBox(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1200, 600))
	for x := 0; x < 1200; x++ {
		src.Set(x, 300, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, size, err := Thumbnail(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(1200, 600), size)

	thumb, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(480, 240), thumb.Bounds().Size())
}

func TestThumbnailRejectsNonImage(t *testing.T) {
	_, _, err := Thumbnail(io.LimitReader(bytes.NewReader([]byte("not an image")), 100))
	assert.Error(t, err)
}
