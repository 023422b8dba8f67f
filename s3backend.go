package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// defaultStorageClass and defaultRestoreRequest are applied when a caller
// leaves the corresponding ObjectStoreConfig field unset.
const defaultStorageClass = "DEEP_ARCHIVE"

func defaultRestoreRequest() map[string]any {
	return map[string]any{
		"Days": 5,
		"GlacierJobParameters": map[string]any{
			"Tier": "Bulk",
		},
	}
}

// ObjectStoreConfig carries everything needed to construct an S3Endpoint:
// credentials, region, bucket/prefix, and the write-side policy knobs
// (storage class, restore request).
type ObjectStoreConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Region          string
	Bucket          string
	Prefix          string
	StorageClass    string
	RestoreRequest  map[string]any
}

// S3Endpoint is the object-store backend: list/head/read/write/remove/
// restore against a bucket and key prefix.
type S3Endpoint struct {
	client       *s3.Client
	bucket       string
	prefix       string
	storageClass types.StorageClass
	restore      *types.RestoreRequest
}

// NewS3Endpoint builds an object-store backend from static credentials.
// No shared-config profile lookup happens here: the JSON secrets file is
// the only credential source.
func NewS3Endpoint(ctx context.Context, cfg ObjectStoreConfig) (*S3Endpoint, error) {
	storageClass := cfg.StorageClass
	if storageClass == "" {
		storageClass = defaultStorageClass
	}
	restoreReq := cfg.RestoreRequest
	if restoreReq == nil {
		restoreReq = defaultRestoreRequest()
	}

	restore, err := buildRestoreRequest(restoreReq)
	if err != nil {
		return nil, newConfigError("invalid restore request", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken,
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Endpoint{
		client:       s3.NewFromConfig(awsCfg),
		bucket:       cfg.Bucket,
		prefix:       strings.TrimSuffix(cfg.Prefix, "/"),
		storageClass: types.StorageClass(storageClass),
		restore:      restore,
	}, nil
}

func (s *S3Endpoint) String() string {
	if s.prefix == "" {
		return fmt.Sprintf("s3://%s", s.bucket)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.prefix)
}

func (s *S3Endpoint) key(path string) string {
	if s.prefix == "" {
		return path
	}
	return s.prefix + "/" + path
}

// List paginates ListObjectsV2 under the configured prefix, stripping the
// prefix (and its separator) from each key.
func (s *S3Endpoint) List(ctx context.Context, fn func(Entry) error) error {
	input := &s3.ListObjectsV2Input{
		Bucket: awssdk.String(s.bucket),
	}
	if s.prefix != "" {
		input.Prefix = awssdk.String(s.prefix + "/")
	}

	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("list objects: %w", err)
		}
		for _, obj := range page.Contents {
			path := strings.TrimPrefix(*obj.Key, s.prefix)
			path = strings.TrimPrefix(path, "/")
			if path == "" {
				continue
			}
			var mtime int64
			if obj.LastModified != nil {
				mtime = obj.LastModified.UnixMilli()
			}
			if err := fn(Entry{Path: path, Size: obj.Size, ModTime: mtime}); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *S3Endpoint) Size(ctx context.Context, path string) (int64, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: awssdk.String(s.bucket),
		Key:    awssdk.String(s.key(path)),
	})
	if err != nil {
		return 0, fmt.Errorf("head object %s: %w", path, err)
	}
	return out.ContentLength, nil
}

func (s *S3Endpoint) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: awssdk.String(s.bucket),
		Key:    awssdk.String(s.key(path)),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", path, err)
	}
	return out.Body, nil
}

// Write performs a managed multipart upload, sized by planPartSize.
func (s *S3Endpoint) Write(ctx context.Context, path string, r io.Reader, size int64) error {
	uploader := manager.NewUploader(s.client, func(u *manager.Uploader) {
		u.PartSize = planPartSize(size, func(msg string) {
			logNotice(msg)
		})
	})

	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:       awssdk.String(s.bucket),
		Key:          awssdk.String(s.key(path)),
		Body:         r,
		StorageClass: s.storageClass,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}

	return nil
}

func (s *S3Endpoint) Remove(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: awssdk.String(s.bucket),
		Key:    awssdk.String(s.key(path)),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", path, err)
	}
	return nil
}

// IsWriteSupported enforces the 5 TiB single-object ceiling.
func (s *S3Endpoint) IsWriteSupported(path string, size int64) bool {
	return size <= maxObjectSize
}

// Head returns the object's restore state.
func (s *S3Endpoint) Head(ctx context.Context, path string) (RestoreState, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: awssdk.String(s.bucket),
		Key:    awssdk.String(s.key(path)),
	})
	if err != nil {
		return RestoreState{}, fmt.Errorf("head object %s: %w", path, err)
	}

	state := RestoreState{
		Archived: isArchiveStorageClass(out.StorageClass),
	}
	if out.Restore != nil {
		restore := *out.Restore
		switch {
		case strings.Contains(restore, `ongoing-request="true"`):
			state.Ongoing = true
		case strings.Contains(restore, `ongoing-request="false"`):
			state.Done = true
		}
	}

	return state, nil
}

// Restore initiates archive-tier retrieval. S3 itself rejects a restore
// request for an object that already has one in flight, so callers check
// Head before calling Restore.
func (s *S3Endpoint) Restore(ctx context.Context, path string) error {
	_, err := s.client.RestoreObject(ctx, &s3.RestoreObjectInput{
		Bucket:         awssdk.String(s.bucket),
		Key:            awssdk.String(s.key(path)),
		RestoreRequest: s.restore,
	})
	if err != nil {
		return fmt.Errorf("restore object %s: %w", path, err)
	}
	return nil
}

func isArchiveStorageClass(sc types.StorageClass) bool {
	switch sc {
	case types.StorageClassGlacier, types.StorageClassDeepArchive, types.StorageClassGlacierIr:
		return true
	default:
		return false
	}
}

// restoreRequestDoc mirrors the JSON shape accepted by --restore-request,
// e.g. {"Days": 5, "GlacierJobParameters": {"Tier": "Bulk"}}.
type restoreRequestDoc struct {
	Days                 int32 `json:"Days"`
	GlacierJobParameters *struct {
		Tier string `json:"Tier"`
	} `json:"GlacierJobParameters"`
}

func buildRestoreRequest(raw map[string]any) (*types.RestoreRequest, error) {
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshal restore request: %w", err)
	}
	var doc restoreRequestDoc
	if err := json.Unmarshal(buf, &doc); err != nil {
		return nil, fmt.Errorf("decode restore request: %w", err)
	}

	req := &types.RestoreRequest{Days: doc.Days}
	if doc.GlacierJobParameters != nil {
		req.GlacierJobParameters = &types.GlacierJobParameters{
			Tier: types.Tier(doc.GlacierJobParameters.Tier),
		}
	}

	return req, nil
}
