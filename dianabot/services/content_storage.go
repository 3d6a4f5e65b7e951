package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ContentStorageService holds the master copies of content-set media in a
// Spaces bucket. Delivery to users goes through cached Telegram file IDs;
// this service backs the admin upload and retirement paths.
type ContentStorageService struct {
	client      *s3.Client
	bucket      string
	region      string
	ContentRoot string
}

func NewContentStorageService(spacesKey, spacesSecret, region, bucket, contentRoot string) *ContentStorageService {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		panic(fmt.Sprintf("Unable to load Spaces config: %v", err))
	}

	return &ContentStorageService{
		client:      s3.NewFromConfig(cfg),
		bucket:      bucket,
		region:      region,
		ContentRoot: strings.TrimPrefix(contentRoot, "/"),
	}
}

func (s *ContentStorageService) objectKey(setSlug, fileName string) string {
	return fmt.Sprintf("%s/%s/%s", s.ContentRoot, setSlug, fileName)
}

// UploadContent stores one media file under the content set's prefix and
// returns the object key.
func (s *ContentStorageService) UploadContent(ctx context.Context, setSlug, fileName, contentType string, body io.Reader) (string, error) {
	key := s.objectKey(setSlug, fileName)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

// DownloadContent streams one stored media file; the caller closes the reader.
func (s *ContentStorageService) DownloadContent(ctx context.Context, setSlug, fileName string) (io.ReadCloser, error) {
	key := s.objectKey(setSlug, fileName)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", key, err)
	}
	return out.Body, nil
}

// DeleteContentSet removes every object under the set's prefix. Used when a
// content set is retired for good, not merely deactivated.
func (s *ContentStorageService) DeleteContentSet(ctx context.Context, setSlug string) error {
	prefix := fmt.Sprintf("%s/%s/", s.ContentRoot, setSlug)
	list, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: &s.bucket,
		Prefix: &prefix,
	})
	if err != nil {
		return fmt.Errorf("list %s: %w", prefix, err)
	}

	var errs []string
	for _, obj := range list.Contents {
		if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: &s.bucket,
			Key:    obj.Key,
		}); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", aws.ToString(obj.Key), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to delete objects: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (s *ContentStorageService) GetBucket() string {
	return s.bucket
}

func (s *ContentStorageService) GetRegion() string {
	return s.region
}
