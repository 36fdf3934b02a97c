package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"gameshelf/internal/config"
	"gameshelf/internal/shelf"
)

// versionMetadataKey is the user metadata entry carrying a snapshot version.
// S3 returns user metadata keys lowercased.
const versionMetadataKey = "snapshot-version"

const defaultS3Timeout = 5 * time.Minute

// s3Client is the subset of *s3.Client the vault reads with.
type s3Client interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// s3Uploader is satisfied by *manager.Uploader.
type s3Uploader interface {
	Upload(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Vault stores covers and snapshots in an S3 (or S3-compatible) bucket.
type S3Vault struct {
	name     string
	bucket   string
	prefix   string
	client   s3Client
	uploader s3Uploader
	timeout  time.Duration
}

// NewS3Vault builds an S3 client from the vault config. Static credentials are
// used when both keys are set; otherwise the default AWS credential chain applies.
func NewS3Vault(ctx context.Context, cfg config.VaultConfig) (*S3Vault, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 vault requires s3_bucket to be set")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKeyID != "" && cfg.S3SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	return newS3Vault(cfg.Name, cfg.S3Bucket, cfg.S3Prefix, client, manager.NewUploader(client)), nil
}

func newS3Vault(name, bucket, prefix string, client s3Client, uploader s3Uploader) *S3Vault {
	return &S3Vault{
		name:     name,
		bucket:   bucket,
		prefix:   prefix,
		client:   client,
		uploader: uploader,
		timeout:  defaultS3Timeout,
	}
}

// objectKey places a layout key below the configured prefix.
func (v *S3Vault) objectKey(key string) string {
	if v.prefix == "" {
		return key
	}
	return path.Join(v.prefix, key)
}

func (v *S3Vault) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), v.timeout)
}

func (v *S3Vault) upload(key string, r io.Reader, size int64, metadata map[string]string) error {
	ctx, cancel := v.context()
	defer cancel()

	counter := &countingReader{r: r}
	_, err := v.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:   aws.String(v.bucket),
		Key:      aws.String(v.objectKey(key)),
		Body:     counter,
		Metadata: metadata,
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}
	if counter.n != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, counter.n)
	}
	return nil
}

func (v *S3Vault) download(key string, w io.Writer) error {
	ctx, cancel := v.context()
	defer cancel()

	out, err := v.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.objectKey(key)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return fmt.Errorf("downloading %s: %w", key, err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("reading %s: %w", key, err)
	}
	return nil
}

func (v *S3Vault) PutContent(checksum string, r io.Reader, size int64) error {
	key, err := coverKey(checksum)
	if err != nil {
		return err
	}
	return v.upload(key, r, size, nil)
}

func (v *S3Vault) GetContent(checksum string, w io.Writer) error {
	key, err := coverKey(checksum)
	if err != nil {
		return err
	}
	return v.download(key, w)
}

// PutMetadata stores the snapshot with its version as object metadata, so
// data and version are replaced together.
func (v *S3Vault) PutMetadata(hostID string, name string, r io.Reader, size int64, version int64) error {
	key, err := snapshotKey(hostID, name)
	if err != nil {
		return err
	}
	return v.upload(key, r, size, map[string]string{
		versionMetadataKey: strconv.FormatInt(version, 10),
	})
}

func (v *S3Vault) GetMetadata(hostID string, name string, w io.Writer) error {
	key, err := snapshotKey(hostID, name)
	if err != nil {
		return err
	}
	return v.download(key, w)
}

// GetMetadataVersion returns 0 when the snapshot object does not exist.
func (v *S3Vault) GetMetadataVersion(hostID string, name string) (int64, error) {
	key, err := snapshotKey(hostID, name)
	if err != nil {
		return 0, err
	}

	ctx, cancel := v.context()
	defer cancel()

	out, err := v.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.objectKey(key)),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading version of %s: %w", key, err)
	}

	raw, ok := out.Metadata[versionMetadataKey]
	if !ok {
		return 0, nil
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing version: %w", err)
	}
	return version, nil
}

// ValidateSetup checks that the bucket exists and is reachable.
func (v *S3Vault) ValidateSetup() error {
	ctx, cancel := v.context()
	defer cancel()

	if _, err := v.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(v.bucket)}); err != nil {
		return fmt.Errorf("s3 bucket %s not accessible: %w", v.bucket, err)
	}
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

var _ shelf.Vault = (*S3Vault)(nil)
