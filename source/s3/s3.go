// Package s3 reads documents from an S3 bucket, or any S3 compatible store such as MinIO.
package s3

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/sharedcode/doctree"
	"github.com/sharedcode/doctree/source"
)

const downloadPartSize = 5 * 1024 * 1024

// Connect returns an S3 client for cfg. A HostEndpointURL, e.g. "http://127.0.0.1:9000"
// for MinIO, switches to path style addressing.
func Connect(cfg doctree.S3Config) *s3.Client {
	return s3.NewFromConfig(aws.Config{Region: cfg.Region}, func(o *s3.Options) {
		if cfg.HostEndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.HostEndpointURL)
			o.UsePathStyle = true
		}
		if cfg.Username != "" {
			o.Credentials = credentials.NewStaticCredentialsProvider(cfg.Username, cfg.Password, "")
		}
	})
}

// Source fetches documents stored as JSON objects, the address being the object key.
type Source struct {
	client *s3.Client
	bucket string
}

// NewSource returns a Source over bucket.
func NewSource(client *s3.Client, bucket string) (*Source, error) {
	if client == nil {
		return nil, fmt.Errorf("s3 client can't be nil")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket name can't be empty")
	}
	return &Source{client: client, bucket: bucket}, nil
}

func (s *Source) Fetch(ctx context.Context, address string) (doctree.Document, error) {
	downloader := manager.NewDownloader(s.client, func(d *manager.Downloader) {
		d.PartSize = downloadPartSize
	})
	buffer := manager.NewWriteAtBuffer([]byte{})
	_, err := downloader.Download(ctx, buffer, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(address),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		var nf *types.NotFound
		if errors.As(err, &nsk) || errors.As(err, &nf) {
			return nil, fmt.Errorf("s3://%s/%s: %w", s.bucket, address, doctree.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("couldn't download s3://%s/%s, details: %w", s.bucket, address, err)
	}
	return source.Decode(address, buffer.Bytes())
}
