package s3infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBundle_SplitsOnSeparator(t *testing.T) {
	raw := "<p>Hello {{ validation_path }}</p>\n---TEXT-HTML-SEPARATOR---\nHello {{ validation_path }}\n"
	bundle, err := ParseBundle(raw)
	require.NoError(t, err)
	assert.Equal(t, "<p>Hello {{ validation_path }}</p>\n", bundle.HTML)
	assert.Equal(t, "\nHello {{ validation_path }}\n", bundle.Text)
}

func TestParseBundle_MissingSeparator(t *testing.T) {
	_, err := ParseBundle("<p>just html, no marker</p>")
	require.Error(t, err)
	assert.ErrorContains(t, err, "missing separator")
}

func TestParseBundle_EmptyRichTextHalf(t *testing.T) {
	_, err := ParseBundle("   \n---TEXT-HTML-SEPARATOR---\nplain text body")
	require.Error(t, err)
	assert.ErrorContains(t, err, "rich-text section")
}

func TestParseBundle_EmptyPlainTextHalf(t *testing.T) {
	_, err := ParseBundle("<p>html body</p>---TEXT-HTML-SEPARATOR---\n\t  ")
	require.Error(t, err)
	assert.ErrorContains(t, err, "plain-text section")
}

func TestNewsletterTemplateKey(t *testing.T) {
	assert.Equal(t, "newsletters/june-digest.liquid", NewsletterTemplateKey("june-digest"))
}
