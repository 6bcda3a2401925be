package config

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type SQSConfig struct {
	AWSConfig
	IndexQueueURL  string
	ExportQueueURL string
}

func DefaultSQSConfig() *SQSConfig {
	return &SQSConfig{
		AWSConfig:      defaultAWSConfig("AWS_SQS_ENDPOINT"),
		IndexQueueURL:  getEnvWithDefault("AWS_SQS_INDEX_QUEUE_URL", "http://localhost:4566/000000000000/notes-index-queue"),
		ExportQueueURL: getEnvWithDefault("AWS_SQS_EXPORT_QUEUE_URL", "http://localhost:4566/000000000000/notes-export-queue"),
	}
}

func (c *SQSConfig) GetClient(ctx context.Context) (*sqs.Client, error) {
	cfg, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	return sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
	}), nil
}
