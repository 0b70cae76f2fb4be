package extract_test

import (
	"testing"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/extract"
	"github.com/stretchr/testify/assert"
)

func TestEmails(t *testing.T) {
	t.Parallel()

	text := "Contact: Info@Acme-Studio.com, noreply@acme-studio.com, logo@2x.png, press@acme-studio.com, info@acme-studio.com"
	assert.Equal(t, []string{"info@acme-studio.com", "press@acme-studio.com"}, extract.Emails(text))
	assert.Equal(t, "info@acme-studio.com", extract.Email(text).String())
	assert.False(t, extract.Email("no address here").IsSet())
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{input: "sales@maison.fr", want: true},
		{input: "user@example.com", want: false},
		{input: "user@mail.example.com", want: false},
		{input: "no-reply@maison.fr", want: false},
		{input: "bug@o123.ingest.sentry.io", want: false},
		{input: "root@localhost", want: false},
		{input: "not-an-email", want: false},
		{input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extract.ValidEmail(tt.input))
		})
	}
}

func TestEmailDomain(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "acme.com", extract.EmailDomain("X@ACME.com"))
	assert.Empty(t, extract.EmailDomain("acme.com"))
}

func TestWebsite(t *testing.T) {
	t.Parallel()

	e := extract.WebsiteExtractor{IgnoredHosts: extract.DefaultIgnoredHosts}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "www token gets scheme", input: "Visit www.acme-studio.com.", want: "https://www.acme-studio.com"},
		{name: "keeps path", input: "see https://acme.it/collections/ss26 now", want: "https://acme.it/collections/ss26"},
		{
			name:  "skips social and directory hosts",
			input: "https://www.instagram.com/acme https://www.modemonline.com/acme http://acme.fr",
			want:  "http://acme.fr",
		},
		{name: "tld not whitelisted", input: "www.acme.xyz", want: ""},
		{name: "bare domain ignored", input: "acme.com", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, e.Website(tt.input).String())
		})
	}
}

func TestInstagram(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "profile url", input: "instagram.com/p/Cx1 instagram.com/acme.studio", want: "@acme.studio"},
		{name: "bare handle", input: "Follow @acme_paris for news", want: "@acme_paris"},
		{name: "email is not a handle", input: "info@acme.com", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extract.Instagram(tt.input).String())
		})
	}
}

func TestFacebook(t *testing.T) {
	t.Parallel()

	got := extract.Facebook("https://www.facebook.com/sharer.php?u=x facebook.com/AcmeParis")
	assert.Equal(t, "https://www.facebook.com/AcmeParis", got.String())
	assert.False(t, extract.Facebook("no profile").IsSet())
}
