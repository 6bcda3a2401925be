package config

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Config struct {
	AWSConfig
	BucketName string
}

func DefaultS3Config() *S3Config {
	return &S3Config{
		AWSConfig:  defaultAWSConfig("AWS_S3_ENDPOINT"),
		BucketName: getEnvWithDefault("S3_EXPORT_BUCKET", "notes-exports"),
	}
}

func (c *S3Config) GetClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		// LocalStack only serves path-style buckets.
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
