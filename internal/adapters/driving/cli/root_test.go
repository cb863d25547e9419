package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kestrel-labs/ddwatch/internal/connectors/datadog"
	"github.com/kestrel-labs/ddwatch/internal/core/domain"
)

// execute runs the command tree against a fake backend and captures output.
func execute(t *testing.T, backendURL string, args ...string) (string, error) {
	t.Helper()

	old := newQueryClient
	newQueryClient = func() (*datadog.Client, *domain.Credential, error) {
		cred := &domain.Credential{
			SessionCookie: "test-cookie",
			CSRFToken:     "test-csrf",
			BaseURL:       backendURL,
		}
		client, err := datadog.New(cred, datadog.Config{MaxRetries: 1, RetryDelay: time.Millisecond})
		return client, cred, err
	}
	t.Cleanup(func() { newQueryClient = old })

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "http://127.0.0.1:0", "version")
	require.NoError(t, err)
	require.Contains(t, out, "ddwatch version")
}
