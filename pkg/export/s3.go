package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/linkviz/link/pkg/graph"
	"github.com/linkviz/link/pkg/layout"
	"github.com/linkviz/link/pkg/logging"
)

// S3Config configures the snapshot archiver. Endpoint and static credentials
// are optional; when unset the default AWS chain applies, which also covers
// MinIO-style deployments via the endpoint override.
type S3Config struct {
	Bucket          string `yaml:"bucket" validate:"required"`
	Region          string `yaml:"region"`
	Prefix          string `yaml:"prefix"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// s3Client is the slice of the S3 API the archiver uses.
type s3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Archiver stores graph snapshots in an S3 bucket.
type Archiver struct {
	client s3Client
	bucket string
	prefix string
	logger logging.Logger
	now    func() time.Time
}

// NewArchiver builds an archiver from config, loading AWS credentials from
// the standard chain unless static keys are provided.
func NewArchiver(ctx context.Context, cfg S3Config, logger logging.Logger) (*Archiver, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newArchiver(client, cfg, logger), nil
}

func newArchiver(client s3Client, cfg S3Config, logger logging.Logger) *Archiver {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Archiver{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: logger,
		now:    time.Now,
	}
}

// key builds the object key for a dataset snapshot.
func (a *Archiver) key(datasetID string) string {
	name := fmt.Sprintf("%s-%s.snap", datasetID, a.now().UTC().Format("20060102T150405Z"))
	if a.prefix == "" {
		return name
	}
	return a.prefix + "/" + name
}

// Archive uploads a snapshot of the graph and returns the object key.
func (a *Archiver) Archive(ctx context.Context, datasetID string, g *graph.Graph, positions map[uint64]layout.Position) (string, error) {
	data, err := EncodeSnapshot(g, positions)
	if err != nil {
		return "", err
	}

	key := a.key(datasetID)
	op := logging.StartTimer(a.logger, "s3_archive",
		logging.DatasetID(datasetID),
		logging.String("key", key),
		logging.Int("bytes", len(data)))

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/x-snappy"),
	})
	if err != nil {
		op.EndError(err)
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	op.End()
	return key, nil
}

// Fetch downloads and decodes an archived snapshot by object key.
func (a *Archiver) Fetch(ctx context.Context, key string) (*graph.Graph, map[uint64]layout.Position, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("download snapshot: %w", err)
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return nil, nil, fmt.Errorf("read snapshot body: %w", err)
	}

	return DecodeSnapshot(buf.Bytes())
}
