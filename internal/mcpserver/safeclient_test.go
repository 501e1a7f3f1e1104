package mcpserver

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBlockedIP(t *testing.T) {
	blocked := []string{"127.0.0.1", "10.1.2.3", "172.16.0.1", "192.168.0.10", "169.254.1.1", "0.0.0.0", "::1", "::", "fe80::1", "fd00::1"}
	for _, s := range blocked {
		assert.True(t, isBlockedIP(net.ParseIP(s)), s)
	}
	for _, s := range []string{"8.8.8.8", "1.1.1.1", "2606:4700:4700::1111"} {
		assert.False(t, isBlockedIP(net.ParseIP(s)), s)
	}
}

func TestPublicAddrs(t *testing.T) {
	_, err := publicAddrs(context.Background(), "127.0.0.1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked request")

	addrs, err := publicAddrs(context.Background(), "8.8.8.8")
	require.NoError(t, err)
	assert.Equal(t, "8.8.8.8", addrs[0].IP.String())
}

func TestSafeClient_RefusesLoopback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := newSafeHTTPClient(5 * time.Second)
	assert.Equal(t, 5*time.Second, client.Timeout)

	_, err := client.Get(srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "private/loopback")
}

func TestTargetClient(t *testing.T) {
	saved := *cfg
	t.Cleanup(func() { *cfg = saved })

	cfg.AllowPrivateTargets = true
	client := targetClient()
	assert.Equal(t, cfg.TargetTimeout, client.Timeout)
	assert.Nil(t, client.Transport, "private targets use the default transport")

	cfg.AllowPrivateTargets = false
	cfg.TargetTimeout = 3 * time.Second
	client = targetClient()
	assert.Equal(t, 3*time.Second, client.Timeout)
	assert.NotNil(t, client.CheckRedirect)
}
