package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookmate/lookmate-backend/internal/config"
)

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	deletes []string
	err     error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, input *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.puts = append(f.puts, input)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, input *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.StringValue(input.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func localStorage(t *testing.T) *StorageService {
	t.Helper()
	cfg := &config.Config{Upload: config.UploadConfig{
		MaxFileSize:   1024,
		Dir:           t.TempDir(),
		PublicBaseURL: "/uploads/",
	}}
	s, err := NewStorageService(cfg)
	require.NoError(t, err)
	s.now = func() time.Time { return time.UnixMilli(42) }
	return s
}

func TestUploadImageLocal(t *testing.T) {
	s := localStorage(t)

	result, err := s.UploadImage(context.Background(), bytes.NewReader(pngBytes(t)), "shirt.png", s.GetDefaultUploadOptions("clothes"))
	require.NoError(t, err)
	assert.Equal(t, "image/png", result.MimeType)
	assert.True(t, strings.HasPrefix(result.Key, "clothes/42-"))
	assert.Equal(t, "/uploads/"+result.Key, result.URL)

	_, err = os.Stat(filepath.Join(s.config.Upload.Dir, filepath.FromSlash(result.Key)))
	require.NoError(t, err)

	require.NoError(t, s.DeleteFile(context.Background(), result.Key))
	_, err = os.Stat(filepath.Join(s.config.Upload.Dir, filepath.FromSlash(result.Key)))
	assert.True(t, os.IsNotExist(err))
}

func TestUploadImageRejectsNonImages(t *testing.T) {
	s := localStorage(t)
	_, err := s.UploadImage(context.Background(), strings.NewReader("plain text, not a picture"), "notes.png", s.GetDefaultUploadOptions("clothes"))
	assert.ErrorIs(t, err, ErrInvalidFileType)
}

func TestUploadImageTooLarge(t *testing.T) {
	s := localStorage(t)
	big := append(pngBytes(t), make([]byte, 2048)...)
	_, err := s.UploadImage(context.Background(), bytes.NewReader(big), "big.png", s.GetDefaultUploadOptions("avatars"))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestUploadDataURLToS3(t *testing.T) {
	fake := &fakeS3{}
	s := &StorageService{
		s3Client: fake,
		config: &config.Config{
			AWS:    config.AWSConfig{Region: "ap-northeast-2", S3Bucket: "looks"},
			Upload: config.UploadConfig{MaxFileSize: 1024},
		},
		now: time.Now,
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t))
	result, err := s.UploadDataURL(context.Background(), dataURL, s.GetDefaultUploadOptions("snapshots"))
	require.NoError(t, err)

	require.Len(t, fake.puts, 1)
	assert.Equal(t, "looks", aws.StringValue(fake.puts[0].Bucket))
	assert.Equal(t, "image/png", aws.StringValue(fake.puts[0].ContentType))
	assert.True(t, strings.HasPrefix(result.Key, "snapshots/"))
	assert.Equal(t, "https://looks.s3.ap-northeast-2.amazonaws.com/"+result.Key, result.URL)

	s.config.AWS.CloudFrontURL = "https://cdn.example.com"
	result, err = s.UploadDataURL(context.Background(), dataURL, s.GetDefaultUploadOptions("snapshots"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/"+result.Key, result.URL)

	fake.err = errors.New("boom")
	_, err = s.UploadDataURL(context.Background(), dataURL, s.GetDefaultUploadOptions("snapshots"))
	assert.Error(t, err)
}

func TestDecodeDataURL(t *testing.T) {
	payload, err := DecodeDataURL("data:image/gif;base64," + base64.StdEncoding.EncodeToString([]byte("GIF89a")))
	require.NoError(t, err)
	assert.Equal(t, []byte("GIF89a"), payload)

	_, err = DecodeDataURL("data:text/plain;base64,aGk=")
	assert.Error(t, err)
	_, err = DecodeDataURL("data:image/png,raw")
	assert.Error(t, err)
	_, err = DecodeDataURL("data:image/png;base64,***")
	assert.Error(t, err)
}
