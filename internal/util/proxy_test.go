package util

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func proxyFor(t *testing.T, fn func(*http.Request) (*url.URL, error), target string) string {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	u, err := fn(req)
	require.NoError(t, err)
	if u == nil {
		return ""
	}
	return u.String()
}

func TestNewProxyFunc_ExplicitSettings(t *testing.T) {
	fn := NewProxyFunc("http://proxy.internal:3128", "http://secure.internal:3129", "api.internal")

	assert.Equal(t, "http://proxy.internal:3128", proxyFor(t, fn, "http://example.com/"))
	assert.Equal(t, "http://secure.internal:3129", proxyFor(t, fn, "https://example.com/"))
	assert.Equal(t, "", proxyFor(t, fn, "https://api.internal/v1"), "no_proxy honored")
}

func TestNewProxyFunc_LocalhostNeverProxied(t *testing.T) {
	fn := NewProxyFunc("http://proxy.internal:3128", "", "")
	assert.Equal(t, "", proxyFor(t, fn, "http://localhost:3000/api"))
}

func TestNewHTTPClient_Timeout(t *testing.T) {
	assert.Equal(t, 5*time.Second, NewHTTPClient(5, "", "", "").Timeout)
	assert.Equal(t, defaultTimeout, NewHTTPClient(0, "", "", "").Timeout)
}
