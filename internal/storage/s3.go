package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cfg "github.com/templui/postindex/internal/config"
)

const s3ReadTimeout = 30 * time.Second

// S3 reads posts from an S3-compatible bucket.
// Works with AWS S3, MinIO, DigitalOcean Spaces, Cloudflare R2, etc.
type S3 struct {
	client *s3.Client
	bucket string
	prefix string
	exts   extensions
}

// S3Config holds configuration for S3 storage
type S3Config struct {
	Region     string
	Bucket     string
	Prefix     string // Optional: key prefix the corpus lives under
	AccessKey  string
	SecretKey  string
	Endpoint   string // Optional: for S3-compatible services
	Extensions []string
}

// New returns the storage selected by the app config.
func New(c *cfg.Config) (Storage, error) {
	switch c.Storage {
	case cfg.StorageS3:
		slog.Info("using S3 content storage",
			"bucket", c.S3Bucket,
			"prefix", c.S3Prefix,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3(context.Background(), S3Config{
			Region:     c.S3Region,
			Bucket:     c.S3Bucket,
			Prefix:     c.S3Prefix,
			AccessKey:  c.S3AccessKey,
			SecretKey:  c.S3SecretKey,
			Endpoint:   c.S3Endpoint,
			Extensions: c.Extensions,
		})
	case cfg.StorageDir, "":
		slog.Debug("using directory content storage", "path", c.ContentPath)
		return NewDir(c.ContentPath, c.Extensions), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", c.Storage)
	}
}

func NewS3(ctx context.Context, c S3Config) (*S3, error) {
	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(c.Region))

	// Add static credentials if provided
	if c.AccessKey != "" && c.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if c.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true // Required for MinIO and some S3-compatible services
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return newS3(client, c.Bucket, c.Prefix, c.Extensions), nil
}

func newS3(client *s3.Client, bucket, prefix string, exts []string) *S3 {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3{
		client: client,
		bucket: bucket,
		prefix: prefix,
		exts:   newExtensions(exts),
	}
}

func (s *S3) List(ctx context.Context) ([]string, error) {
	var names []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list s3://%s/%s: %w", s.bucket, s.prefix, err)
		}
		for _, obj := range page.Contents {
			name, ok := s.name(aws.ToString(obj.Key))
			if ok {
				names = append(names, name)
			}
		}
	}

	sort.Strings(names)
	return names, nil
}

func (s *S3) ReadFile(ctx context.Context, name string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s3ReadTimeout)
	defer cancel()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3 object %s: %w", s.key(name), err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

// name maps an object key to a corpus name, rejecting keys that are not posts.
func (s *S3) name(key string) (string, bool) {
	if !strings.HasPrefix(key, s.prefix) {
		return "", false
	}
	name := strings.TrimLeft(strings.TrimPrefix(key, s.prefix), "/")
	if name == "" || strings.HasSuffix(name, "/") || hidden(name) {
		return "", false
	}
	if !s.exts.match(name) {
		return "", false
	}
	return name, true
}

func (s *S3) key(name string) string {
	return s.prefix + name
}
