package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/foodgram-project/backend/config"
)

// dataURIPattern is matched against the whole payload before any
// decoding happens. Only the listed formats are accepted.
var dataURIPattern = regexp.MustCompile(`^data:image/(png|jpeg|jpg|gif|webp);base64,([A-Za-z0-9+/]+={0,2})$`)

var ErrInvalidImage = errors.New("image must be a base64 data URI of an allowed format")

// ValidImageDataURI reports whether the payload would be accepted by
// SaveDataURI, letting callers reject bad uploads before decoding.
func ValidImageDataURI(dataURI string) bool {
	return dataURIPattern.MatchString(dataURI)
}

// S3API is the subset of the S3 client the image service uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageService decodes base64 data-URI uploads and stores them either
// in S3 or on the local media directory.
type ImageService struct {
	s3Client S3API
	bucket   string
	mediaDir string
	mediaURL string
}

func NewImageService(cfg *config.Config, client S3API) *ImageService {
	svc := &ImageService{
		mediaDir: cfg.MediaDir,
		mediaURL: cfg.MediaURL,
	}
	if cfg.S3Bucket != "" && client != nil {
		svc.s3Client = client
		svc.bucket = cfg.S3Bucket
	}
	return svc
}

// SaveDataURI validates, decodes and stores a data-URI image under the
// given folder ("recipes", "avatars"). Returns the public URL of the
// stored file.
func (s *ImageService) SaveDataURI(ctx context.Context, dataURI, folder string) (string, error) {
	match := dataURIPattern.FindStringSubmatch(dataURI)
	if match == nil {
		return "", ErrInvalidImage
	}

	format, payload := match[1], match[2]
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrInvalidImage
	}

	name := fmt.Sprintf("%s.%s", uuid.New().String(), format)
	key := path.Join(folder, name)

	if s.s3Client != nil {
		_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String("image/" + format),
		})
		if err != nil {
			return "", fmt.Errorf("failed to upload image to S3: %w", err)
		}
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
	}

	dir := filepath.Join(s.mediaDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return s.mediaURL + key, nil
}
