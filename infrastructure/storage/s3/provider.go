// Package s3 provides the bucket-based artifact provider backed by AWS S3.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/packsync/packsync/domain/artifact"
	"github.com/packsync/packsync/domain/pack"
	"github.com/packsync/packsync/infrastructure/logging"
)

// Config configures the S3 artifact provider.
type Config struct {
	// Bucket is the bucket holding pack artifacts (required).
	Bucket string

	// Region is the AWS region (default: us-east-1).
	Region string

	// AccessKeyID and SecretAccessKey are optional; the default credential
	// chain (environment, shared config, instance role) is used when empty.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	// Endpoint is an optional custom endpoint for S3-compatible storage.
	Endpoint string
}

// Provider implements artifact.Provider against an S3 bucket.
type Provider struct {
	cfg Config

	initOnce sync.Once
	client   *awss3.Client
	initErr  error
}

// New creates an S3 artifact provider. The underlying client is established
// lazily on first use.
func New(cfg Config) (*Provider, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket name is required")
	}
	if (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == "") {
		return nil, &artifact.ConnectionError{
			Reason: artifact.ReasonPartialCredentials,
			Err:    errors.New("s3: access key id and secret access key must be set together"),
		}
	}
	return &Provider{cfg: cfg}, nil
}

// api returns the lazily initialized S3 client.
func (p *Provider) api(ctx context.Context) (*awss3.Client, error) {
	p.initOnce.Do(func() {
		region := p.cfg.Region
		if region == "" {
			region = "us-east-1"
		}

		opts := []func(*awsconfig.LoadOptions) error{
			awsconfig.WithRegion(region),
		}
		if p.cfg.AccessKeyID != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(
					p.cfg.AccessKeyID,
					p.cfg.SecretAccessKey,
					p.cfg.SessionToken,
				),
			))
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			p.initErr = fmt.Errorf("s3: load aws config: %w", err)
			return
		}

		var s3Opts []func(*awss3.Options)
		if p.cfg.Endpoint != "" {
			s3Opts = append(s3Opts, func(o *awss3.Options) {
				o.BaseEndpoint = aws.String(p.cfg.Endpoint)
				o.UsePathStyle = true // S3-compatible stores need path-style addressing
			})
		}

		p.client = awss3.NewFromConfig(awsCfg, s3Opts...)
	})
	return p.client, p.initErr
}

// TestConnection performs a HeadBucket round trip against the configured
// bucket.
func (p *Provider) TestConnection(ctx context.Context) error {
	client, err := p.api(ctx)
	if err != nil {
		return &artifact.ConnectionError{Reason: artifact.ReasonMissingCredentials, Err: err}
	}

	_, err = client.HeadBucket(ctx, &awss3.HeadBucketInput{
		Bucket: aws.String(p.cfg.Bucket),
	})
	if err != nil {
		return &artifact.ConnectionError{Reason: classify(err), Err: err}
	}
	return nil
}

// classify maps an SDK error onto a connection-failure reason.
func classify(err error) artifact.ConnectionReason {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return artifact.ReasonTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return artifact.ReasonTimeout
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "static credentials are empty"),
		strings.Contains(msg, "failed to retrieve credentials"),
		strings.Contains(msg, "no EC2 IMDS role found"):
		return artifact.ReasonMissingCredentials
	case strings.Contains(msg, "partial credentials"):
		return artifact.ReasonPartialCredentials
	case strings.Contains(msg, "no such host"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "dial tcp"):
		return artifact.ReasonUnreachable
	}
	return artifact.ReasonUnknown
}

// IsAvailable reports whether the pack artifact exists in the bucket. Lookup
// failures of any kind collapse to false.
func (p *Provider) IsAvailable(ctx context.Context, packID, packVersion string) bool {
	client, err := p.api(ctx)
	if err != nil {
		return false
	}

	key := pack.Key(packID, packVersion)
	_, err = client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if !isNotFound(err) {
			logging.Debug().
				Add(logging.Backend("s3")).
				Add(logging.PackID(packID)).
				Add(logging.PackVersion(packVersion)).
				Add(logging.ErrorField(err)).
				Msg("existence check failed, treating as absent")
		}
		return false
	}
	return true
}

func isNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "NotFound") || strings.Contains(msg, "404")
}

// Download retrieves the whole pack artifact into memory.
func (p *Provider) Download(ctx context.Context, packID, packVersion string) ([]byte, error) {
	client, err := p.api(ctx)
	if err != nil {
		return nil, err
	}

	key := pack.Key(packID, packVersion)
	out, err := client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("s3: %s: %w", key, artifact.ErrPackNotFound)
		}
		return nil, fmt.Errorf("s3: get object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3: read object %s: %w", key, err)
	}
	return data, nil
}

// LatestVersion lists the version directories under the pack prefix with a
// "/" delimiter and returns the maximum.
func (p *Provider) LatestVersion(ctx context.Context, packID string) (string, error) {
	client, err := p.api(ctx)
	if err != nil {
		return "", err
	}

	prefix := pack.Prefix(packID)
	out, err := client.ListObjectsV2(ctx, &awss3.ListObjectsV2Input{
		Bucket:    aws.String(p.cfg.Bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	if err != nil {
		return "", fmt.Errorf("s3: list %s: %w", prefix, err)
	}

	versions := make([]string, 0, len(out.CommonPrefixes))
	for _, cp := range out.CommonPrefixes {
		// content/packs/{id}/{version}/ -> version is the third element
		parts := strings.Split(aws.ToString(cp.Prefix), "/")
		if len(parts) > 3 && parts[3] != "" {
			versions = append(versions, parts[3])
		}
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("s3: pack %s: %w", packID, artifact.ErrNoVersions)
	}
	return pack.MaxByVersion(versions)
}
