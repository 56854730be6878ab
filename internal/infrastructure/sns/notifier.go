// Package sns publishes dispatch reports to an SNS topic so operators can
// watch newsletter runs without tailing logs.
package sns

import (
	"context"
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/meadow/newsletter-api/internal/config"
	"github.com/meadow/newsletter-api/internal/domain"
)

// ReportNotifier publishes a dispatch report after a bulk newsletter run.
type ReportNotifier interface {
	PublishReport(ctx context.Context, report *domain.DispatchReport) error
}

type notifier struct {
	client   *sns.Client
	topicARN string
}

func NewNotifier(cfg *config.Config) (ReportNotifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &notifier{
		client:   sns.NewFromConfig(awsCfg),
		topicARN: cfg.DispatchTopicARN,
	}, nil
}

func (n *notifier) PublishReport(ctx context.Context, report *domain.DispatchReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal dispatch report: %w", err)
	}
	msg := string(payload)
	subject := fmt.Sprintf("Newsletter dispatch %s", report.Slug)
	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: &n.topicARN,
		Subject:  &subject,
		Message:  &msg,
	})
	return err
}
