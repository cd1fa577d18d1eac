//go:build integration
// +build integration

package integration_tests

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/conneroisu/codex/internal/server"
)

// WaitForServerReadiness waits until s is bound and answers /health, and
// returns its base URL.
func WaitForServerReadiness(t *testing.T, s *server.Server, timeout time.Duration) string {
	t.Helper()
	client := &http.Client{Timeout: time.Second}

	var baseURL string
	require.Eventually(t, func() bool {
		addr := s.Addr()
		if strings.HasSuffix(addr, ":0") {
			return false
		}
		baseURL = "http://" + addr
		resp, err := client.Get(baseURL + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, timeout, 50*time.Millisecond)

	return baseURL
}
