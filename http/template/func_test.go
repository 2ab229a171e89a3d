package template_test

import (
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/http/template"
)

func TestEnv(t *testing.T) {
	name, fn := template.Env(switchback.Testing)
	require.Equal(t, "env", name)
	require.Equal(t, "TESTING", fn())
}

func TestNonce(t *testing.T) {
	name, fn := template.Nonce()
	require.Equal(t, "nonce", name)

	_, err := uuid.Parse(fn())
	require.Nil(t, err)
	require.NotEqual(t, fn(), fn())
}

func TestRootUrl(t *testing.T) {
	tcs := []struct {
		name     string
		u        *url.URL
		expected string
	}{
		{"nil", nil, ""},
		{"zero", new(url.URL), ""},
		{"url", &url.URL{Scheme: "https", Host: "example.com"}, "https://example.com"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			name, fn := template.RootUrl(tc.u)
			require.Equal(t, "rootUrl", name)
			require.Equal(t, tc.expected, fn())
		})
	}
}

func TestSiteUrl(t *testing.T) {
	name, fn := template.SiteUrl(func(segs ...string) string { return "/" + segs[0] })
	require.Equal(t, "siteUrl", name)
	require.Equal(t, "/blog", fn("blog"))
}
