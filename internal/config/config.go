package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration. Values come from environment
// variables first; when SSMParameterName is set, the JSON dictionary stored
// in that SSM parameter is applied on top (see ApplyParameters).
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	// TableName is the single DynamoDB table holding subscription and
	// send-event records.
	TableName string
	// BarnBucket is the S3 bucket holding template bundles.
	BarnBucket string

	// Organisation appears in email subjects and the sender display name.
	Organisation string
	// NewsletterDomain hosts the validate/unsubscribe endpoints and the
	// noreply sender address.
	NewsletterDomain string
	// WebsiteDomain receives post-action redirects.
	WebsiteDomain string
	// HoneypotSecret must accompany every signup; requests without it are
	// rejected as bot traffic.
	HoneypotSecret string

	// AdminPasswordHash is the bcrypt hash exchanged for a bearer token at
	// admin login. Empty disables admin login.
	AdminPasswordHash string
	JWTSecret         string
	JWTExpiry         time.Duration

	// DispatchTopicARN, when set, receives a JSON dispatch report after
	// every bulk newsletter run.
	DispatchTopicARN string

	// SSMParameterName names the SSM parameter whose JSON value overrides
	// the settings above. Empty skips the overlay.
	SSMParameterName string

	AllowedOrigins []string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		TableName:  getEnv("DYNAMO_TABLE_NEWSLETTER", "newsletter"),
		BarnBucket: getEnv("BARN_BUCKET", "meadow-barn"),

		Organisation:     getEnv("ORGANISATION", "Meadow"),
		NewsletterDomain: getEnv("NEWSLETTER_DOMAIN", "newsletter.example.com"),
		WebsiteDomain:    getEnv("WEBSITE_DOMAIN", "www.example.com"),
		HoneypotSecret:   getEnv("HONEYPOT_SECRET", ""),

		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 12)) * time.Hour,

		DispatchTopicARN: getEnv("DISPATCH_TOPIC_ARN", ""),

		SSMParameterName: getEnv("CONFIG_SSM_PARAMETER", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// ApplyParameters overrides config fields from the deployment parameter
// document stored in SSM. Unknown keys are
// ignored; absent keys leave the env-derived value in place. Both
// "meadow_domain" and the older "domain" spelling are accepted.
func (c *Config) ApplyParameters(params map[string]string) {
	set := func(dst *string, key string) {
		if v, ok := params[key]; ok && v != "" {
			*dst = v
		}
	}
	set(&c.Organisation, "organisation")
	set(&c.TableName, "table")
	set(&c.NewsletterDomain, "meadow_domain")
	if _, ok := params["meadow_domain"]; !ok {
		set(&c.NewsletterDomain, "domain")
	}
	set(&c.WebsiteDomain, "website_domain")
	set(&c.AWSRegion, "region")
	set(&c.HoneypotSecret, "honeypot_secret")
	set(&c.BarnBucket, "barn")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
