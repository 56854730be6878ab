// Package ses sends transactional and newsletter email through AWS SES v2.
package ses

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/meadow/newsletter-api/internal/config"
)

const charset = "UTF-8"

// Mailer sends a two-part (HTML + plain text) email to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

type mailer struct {
	client *sesv2.Client
	sender string
}

// NewMailer creates an SES v2 mailer. The sender address is fixed at
// construction: "{organisation} <noreply@{newsletter domain}>".
func NewMailer(cfg *config.Config) (Mailer, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}

	clientOpts := []func(*sesv2.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *sesv2.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}

	return &mailer{
		client: sesv2.NewFromConfig(awsCfg, clientOpts...),
		sender: fmt.Sprintf("%s <noreply@%s>", cfg.Organisation, cfg.NewsletterDomain),
	}, nil
}

func (m *mailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Charset: aws.String(charset), Data: aws.String(subject)},
				Body: &types.Body{
					Html: &types.Content{Charset: aws.String(charset), Data: aws.String(htmlBody)},
					Text: &types.Content{Charset: aws.String(charset), Data: aws.String(textBody)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}
