// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"

	"github.com/lookmate/lookmate-backend/internal/config"
	"github.com/lookmate/lookmate-backend/internal/utils"
)

// objectPutter is the slice of the S3 client used for uploads.
type objectPutter interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
	DeleteObjectWithContext(ctx aws.Context, input *s3.DeleteObjectInput, opts ...request.Option) (*s3.DeleteObjectOutput, error)
}

type StorageService struct {
	s3Client objectPutter
	config   *config.Config
	now      func() time.Time
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

type UploadOptions struct {
	Folder  string
	MaxSize int64 // in bytes
}

func NewStorageService(config *config.Config) (*StorageService, error) {
	if !config.UsesS3() {
		// Local disk storage served from /uploads
		return &StorageService{config: config, now: time.Now}, nil
	}

	// Create AWS session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   config,
		now:      time.Now,
	}, nil
}

func (s *StorageService) GetDefaultUploadOptions(category string) UploadOptions {
	switch category {
	case "avatars":
		return UploadOptions{Folder: "avatars", MaxSize: s.config.Upload.MaxFileSize}
	case "clothes":
		return UploadOptions{Folder: "clothes", MaxSize: s.config.Upload.MaxFileSize}
	case "snapshots":
		// Rendered at 2x, so allow twice the regular limit
		return UploadOptions{Folder: "snapshots", MaxSize: 2 * s.config.Upload.MaxFileSize}
	default:
		return UploadOptions{Folder: "general", MaxSize: s.config.Upload.MaxFileSize}
	}
}

// UploadImage stores an image read from r. Content is sniffed, never trusted
// from the client, and anything that is not image/* is rejected.
func (s *StorageService) UploadImage(ctx context.Context, r io.Reader, originalName string, options UploadOptions) (*UploadResult, error) {
	reader := r
	if options.MaxSize > 0 {
		reader = io.LimitReader(r, options.MaxSize+1)
	}

	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if options.MaxSize > 0 && int64(len(fileBytes)) > options.MaxSize {
		return nil, ErrFileTooLarge
	}

	mime := mimetype.Detect(fileBytes)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, ErrInvalidFileType
	}

	name, err := utils.UploadFileName(originalName, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate file name: %w", err)
	}
	if filepath.Ext(name) == "" {
		name += mime.Extension()
	}
	key := name
	if options.Folder != "" {
		key = path.Join(options.Folder, name)
	}

	if s.s3Client != nil {
		return s.uploadToS3(ctx, fileBytes, key, mime.String())
	}
	return s.uploadToLocal(fileBytes, key, mime.String())
}

// UploadDataURL stores a "data:image/...;base64," payload.
func (s *StorageService) UploadDataURL(ctx context.Context, dataURL string, options UploadOptions) (*UploadResult, error) {
	payload, err := DecodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	return s.UploadImage(ctx, bytes.NewReader(payload), "snapshot", options)
}

// DecodeDataURL extracts the bytes of a base64 image data URL.
func DecodeDataURL(dataURL string) ([]byte, error) {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return nil, ErrInvalidFileType
	}
	comma := strings.Index(dataURL, ",")
	if comma < 0 || !strings.HasSuffix(dataURL[:comma], ";base64") {
		return nil, fmt.Errorf("malformed data url")
	}
	payload, err := base64.StdEncoding.DecodeString(dataURL[comma+1:])
	if err != nil {
		return nil, fmt.Errorf("malformed data url: %w", err)
	}
	return payload, nil
}

func (s *StorageService) uploadToS3(ctx context.Context, fileBytes []byte, key, contentType string) (*UploadResult, error) {
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
		ACL:           aws.String("public-read"),
	}

	if _, err := s.s3Client.PutObjectWithContext(ctx, params); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.getS3URL(key),
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(fileBytes []byte, key, contentType string) (*UploadResult, error) {
	dest := filepath.Join(s.config.Upload.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	if err := os.WriteFile(dest, fileBytes, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &UploadResult{
		URL:      strings.TrimRight(s.config.Upload.PublicBaseURL, "/") + "/" + key,
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) DeleteFile(ctx context.Context, key string) error {
	if s.s3Client == nil {
		dest := filepath.Join(s.config.Upload.Dir, filepath.FromSlash(path.Clean("/"+key)))
		if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete file: %w", err)
		}
		return nil
	}

	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	logrus.WithField("key", key).Debug("Deleted file from S3")
	return nil
}

func (s *StorageService) getS3URL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}
