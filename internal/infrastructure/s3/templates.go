// Package s3infra adapts the barn bucket into a template source. A template
// object is a single body holding the rich-text and plain-text variants of
// one email, joined by a literal separator marker.
package s3infra

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/meadow/newsletter-api/internal/config"
	"github.com/meadow/newsletter-api/internal/domain"
)

// Separator joins the HTML half (before) and text half (after) of a bundle.
const Separator = "---TEXT-HTML-SEPARATOR---"

// Object keys follow the barn layout: one fixed transactional bundle for
// validation emails, and one bundle per newsletter under its slug.
const (
	ValidationTemplateKey = "transactional/validate.liquid"
	newsletterPrefix      = "newsletters/"
)

// NewsletterTemplateKey returns the object key for a newsletter slug.
func NewsletterTemplateKey(slug string) string {
	return newsletterPrefix + slug + ".liquid"
}

// TemplateStore fetches template bundles from the barn bucket.
type TemplateStore struct {
	client *s3.Client
	bucket string
}

// NewClient creates an S3 client. When cfg.AWSEndpointURL is set
// (LocalStack), it overrides the endpoint and enables path-style addressing.
func NewClient(cfg *config.Config) *s3.Client {
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
		panic("failed to load AWS config for S3: " + err.Error())
	}

	clientOpts := []func(*s3.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
			o.UsePathStyle = true
		})
	}

	return s3.NewFromConfig(awsCfg, clientOpts...)
}

// NewTemplateStore creates a TemplateStore over the given bucket.
func NewTemplateStore(client *s3.Client, bucket string) *TemplateStore {
	return &TemplateStore{client: client, bucket: bucket}
}

// Load fetches the object at key and splits it into a bundle. Malformed
// bundles fail here, before anything is rendered or sent.
func (s *TemplateStore) Load(ctx context.Context, key string) (*domain.TemplateBundle, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch template %s: %w", key, err)
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", key, err)
	}
	bundle, err := ParseBundle(string(raw))
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", key, err)
	}
	return bundle, nil
}

// ParseBundle splits a combined template body on the separator marker.
// The half before the marker is rich-text, the half after is plain-text.
// Both must be non-blank: sending a half-empty message would look like a
// successful dispatch while delivering nothing.
func ParseBundle(raw string) (*domain.TemplateBundle, error) {
	html, text, found := strings.Cut(raw, Separator)
	if !found {
		return nil, fmt.Errorf("missing separator %q", Separator)
	}
	if strings.TrimSpace(html) == "" {
		return nil, fmt.Errorf("rich-text section before %q is empty", Separator)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("plain-text section after %q is empty", Separator)
	}
	return &domain.TemplateBundle{HTML: html, Text: text}, nil
}
