// Package s3 stores the data file as an object in an S3-compatible bucket
// (AWS S3 or MinIO). The object ETag is the revision token and writes use
// conditional PUTs.
package s3

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/oskars/refinerywatch/internal/vcs"
	"github.com/oskars/refinerywatch/pkg/errors"
)

// Config holds construction parameters. Credentials fall back to the
// default AWS chain when AccessKeyID is empty.
type Config struct {
	Region          string
	Bucket          string
	Key             string
	Endpoint        string // optional; custom endpoint (e.g. MinIO)
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	PathStyle       bool
}

// API is the subset of the S3 client used by Backend.
type API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Backend implements vcs.Backend for one object.
type Backend struct {
	client API
	bucket string
	key    string
}

var _ vcs.Backend = (*Backend)(nil)

// New creates a Backend from cfg.
func New(ctx context.Context, cfg Config) (*Backend, error) {
	if cfg.Bucket == "" {
		return nil, errors.NewConfigError("s3", "s3 bucket is required", nil)
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.NewConfigError("s3", "loading AWS configuration", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewWithClient(client, cfg.Bucket, cfg.Key), nil
}

// NewWithClient wraps an existing client. key defaults to constants.ts.
func NewWithClient(client API, bucket, key string) *Backend {
	if key == "" {
		key = "constants.ts"
	}
	return &Backend{client: client, bucket: bucket, key: key}
}

// Name implements vcs.Backend.
func (b *Backend) Name() string { return "S3" }

// Read implements vcs.Backend.
func (b *Backend) Read(ctx context.Context) (*vcs.File, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &b.bucket, Key: &b.key})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) || statusCode(err) == http.StatusNotFound {
			return &vcs.File{}, nil
		}
		return nil, errors.WrapIO("read", b.location(), err)
	}
	defer func() { _ = out.Body.Close() }()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.WrapIO("read", b.location(), err)
	}
	return &vcs.File{Content: content, Revision: aws.ToString(out.ETag)}, nil
}

// Write implements vcs.Backend. An empty revision writes only if the
// object does not exist; otherwise the ETag must still match.
func (b *Backend) Write(ctx context.Context, content []byte, revision, message string) (*vcs.WriteResult, error) {
	in := &s3.PutObjectInput{
		Bucket:      &b.bucket,
		Key:         &b.key,
		Body:        bytes.NewReader(content),
		ContentType: aws.String("text/typescript; charset=utf-8"),
		Metadata:    map[string]string{"commit-message": message},
	}
	if revision == "" {
		in.IfNoneMatch = aws.String("*")
	} else {
		in.IfMatch = aws.String(revision)
	}

	out, err := b.client.PutObject(ctx, in)
	if err != nil {
		switch statusCode(err) {
		case http.StatusPreconditionFailed, http.StatusConflict:
			return nil, errors.NewConflictError(b.location(), revision, "unknown")
		}
		return nil, errors.WrapIO("write", b.location(), err)
	}

	etag := aws.ToString(out.ETag)
	id := aws.ToString(out.VersionId)
	if id == "" {
		id = etag
	}
	return &vcs.WriteResult{Commit: id, Revision: etag}, nil
}

func (b *Backend) location() string {
	return "s3://" + b.bucket + "/" + b.key
}

// statusCode extracts the HTTP status of an SDK error, or 0.
func statusCode(err error) int {
	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		return re.HTTPStatusCode()
	}
	return 0
}
