package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds configuration for S3 compatible storage
type S3Config struct {
	AccessKeyID     string
	AccessKeySecret string
	Endpoint        string
	Bucket          string
	BaseURL         string
	CDN             string
	Region          string
	name            string
}

type s3Provider struct {
	client  *s3.Client
	name    string
	bucket  string
	host    string
	baseURL string
	cdn     string
}

// NewS3Provider creates an AWS S3 provider, or any S3 compatible endpoint when Endpoint is set
func NewS3Provider(config S3Config) (Provider, error) {
	if config.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	region := config.Region
	if region == "" {
		region = "us-east-1"
	}
	name := config.name
	if name == "" {
		name = "s3"
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			config.AccessKeyID,
			config.AccessKeySecret,
			"",
		)),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s config: %w", name, err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
		}
	})

	host := "s3.amazonaws.com"
	if config.Endpoint != "" {
		host = strings.TrimPrefix(strings.TrimPrefix(config.Endpoint, "https://"), "http://")
	}

	return &s3Provider{
		client:  client,
		name:    name,
		bucket:  config.Bucket,
		host:    host,
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		cdn:     strings.TrimRight(config.CDN, "/"),
	}, nil
}

// NewR2Provider creates a Cloudflare R2 provider
func NewR2Provider(accountId string, config S3Config) (Provider, error) {
	if accountId == "" {
		return nil, fmt.Errorf("R2 requires an account id")
	}
	config.Endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountId)
	config.Region = "auto"
	config.name = "r2"
	return NewS3Provider(config)
}

func (p *s3Provider) Name() string { return p.name }

func (p *s3Provider) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to %s: %w", p.name, err)
	}
	return nil
}

func (p *s3Provider) Delete(ctx context.Context, key string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (p *s3Provider) URL(key string) string {
	if p.cdn != "" {
		return p.cdn + "/" + key
	}
	if p.baseURL != "" {
		return p.baseURL + "/" + key
	}
	return fmt.Sprintf("https://%s/%s/%s", p.host, p.bucket, key)
}
