package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/disintegration/imaging"

	"github.com/saborconflow/studio-backend/internal/config"
)

// ThumbnailSize is the bounding box thumbnails are fitted into.
const ThumbnailSize = 480

// Store persists uploaded media and returns its public URL.
type Store interface {
	Put(ctx context.Context, key string, body io.ReadSeeker, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// New returns the backend selected by cfg.Backend.
func New(cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocal(cfg.UploadDir, "/uploads"), nil
	case "s3":
		return NewS3(cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// ─── Local disk ────────────────────────────────────────────────────────

// Local writes files under a directory served by the HTTP server at urlPrefix.
type Local struct {
	dir       string
	urlPrefix string
}

func NewLocal(dir, urlPrefix string) *Local {
	return &Local{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (l *Local) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(l.dir, filepath.FromSlash(clean)), nil
}

func (l *Local) Put(_ context.Context, key string, body io.ReadSeeker, _ string) (string, error) {
	dest, err := l.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return l.urlPrefix + path.Clean("/"+key), nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ─── S3-compatible object storage ──────────────────────────────────────

// S3 stores objects in an S3-compatible bucket (AWS, DigitalOcean Spaces, MinIO).
type S3 struct {
	client    s3iface.S3API
	bucket    string
	publicURL string
}

func NewS3(cfg config.StorageConfig) (*S3, error) {
	if cfg.S3Bucket == "" || cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
		return nil, fmt.Errorf("s3 storage requires bucket, access key and secret key")
	}
	awsCfg := &aws.Config{
		Credentials: credentials.NewStaticCredentials(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Region:      aws.String(cfg.S3Region),
	}
	if cfg.S3Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.S3Endpoint)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}

	publicURL := cfg.S3PublicURL
	if publicURL == "" {
		host := "s3." + cfg.S3Region + ".amazonaws.com"
		if cfg.S3Endpoint != "" {
			host = strings.TrimPrefix(strings.TrimPrefix(cfg.S3Endpoint, "https://"), "http://")
		}
		publicURL = "https://" + cfg.S3Bucket + "." + host
	}
	return NewS3WithClient(s3.New(sess), cfg.S3Bucket, publicURL), nil
}

// NewS3WithClient wraps an existing client, used by tests.
func NewS3WithClient(client s3iface.S3API, bucket, publicURL string) *S3 {
	return &S3{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

func (s *S3) Put(ctx context.Context, key string, body io.ReadSeeker, contentType string) (string, error) {
	key = strings.TrimLeft(key, "/")
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         body,
		ACL:          aws.String("public-read"),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(strings.TrimLeft(key, "/")),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// ─── Images ────────────────────────────────────────────────────────────

// Thumbnail decodes an image (EXIF orientation applied) and returns it fitted
// into ThumbnailSize×ThumbnailSize as JPEG, along with the source dimensions.
func Thumbnail(r io.Reader) ([]byte, image.Point, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, image.Point{}, fmt.Errorf("decode image: %w", err)
	}
	size := img.Bounds().Size()
	thumb := imaging.Fit(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(82)); err != nil {
		return nil, size, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), size, nil
}
