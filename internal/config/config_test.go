package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyParameters_OverridesKnownKeys(t *testing.T) {
	cfg := &Config{
		Organisation:     "Default Org",
		TableName:        "newsletter",
		NewsletterDomain: "news.default.test",
		WebsiteDomain:    "www.default.test",
		AWSRegion:        "us-east-1",
	}
	cfg.ApplyParameters(map[string]string{
		"organisation":    "Meadow",
		"table":           "meadow-newsletter",
		"meadow_domain":   "newsletter.meadow.test",
		"website_domain":  "www.meadow.test",
		"region":          "eu-west-2",
		"honeypot_secret": "shhh",
		"barn":            "meadow-barn",
	})

	assert.Equal(t, "Meadow", cfg.Organisation)
	assert.Equal(t, "meadow-newsletter", cfg.TableName)
	assert.Equal(t, "newsletter.meadow.test", cfg.NewsletterDomain)
	assert.Equal(t, "www.meadow.test", cfg.WebsiteDomain)
	assert.Equal(t, "eu-west-2", cfg.AWSRegion)
	assert.Equal(t, "shhh", cfg.HoneypotSecret)
	assert.Equal(t, "meadow-barn", cfg.BarnBucket)
}

func TestApplyParameters_AcceptsLegacyDomainKey(t *testing.T) {
	cfg := &Config{NewsletterDomain: "news.default.test"}
	cfg.ApplyParameters(map[string]string{"domain": "newsletter.meadow.test"})
	assert.Equal(t, "newsletter.meadow.test", cfg.NewsletterDomain)
}

func TestApplyParameters_MeadowDomainWinsOverLegacy(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyParameters(map[string]string{
		"meadow_domain": "new.meadow.test",
		"domain":        "old.meadow.test",
	})
	assert.Equal(t, "new.meadow.test", cfg.NewsletterDomain)
}

func TestApplyParameters_IgnoresUnknownAndEmpty(t *testing.T) {
	cfg := &Config{Organisation: "Keep Me", WebsiteDomain: "www.keep.test"}
	cfg.ApplyParameters(map[string]string{
		"organisation": "",
		"mystery_key":  "whatever",
	})
	assert.Equal(t, "Keep Me", cfg.Organisation)
	assert.Equal(t, "www.keep.test", cfg.WebsiteDomain)
}
