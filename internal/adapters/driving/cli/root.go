// Package cli implements the ddwatch command tree.
//
// Commands talk to the observability backend through the datadog connector
// using the credential captured via 'ddwatch auth set'. Query output goes
// to stdout so it can be piped; diagnostics go to stderr.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kestrel-labs/ddwatch/internal/adapters/driven/authfile"
	"github.com/kestrel-labs/ddwatch/internal/connectors/datadog"
	"github.com/kestrel-labs/ddwatch/internal/core/domain"
	"github.com/kestrel-labs/ddwatch/internal/logger"
)

// version is set at build time via -ldflags.
var version = "0.2.0"

// maxCredentialAge is the age past which a stored session gets an expiry
// warning. Sessions are invalidated server-side on an unknown schedule;
// a day is the observed typical lifetime.
const maxCredentialAge = 24 * time.Hour

var (
	verboseFlag bool
	configDir   string
)

var rootCmd = &cobra.Command{
	Use:   "ddwatch",
	Short: "Query logs, RUM and service telemetry through a captured web session",
	Long: `ddwatch queries the observability backend's internal web-UI APIs using
a browser session credential captured with 'ddwatch auth set'.

These are not public APIs: the session cookie and CSRF token come from a
logged-in browser tab and expire on the backend's schedule. When queries
start failing with an auth error, re-capture the credential.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose output on stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.ddwatch)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a cancellation context, so
// signal handling in main reaches in-flight requests.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// newQueryClient loads the stored credential and builds a connector client.
// Package variable so tests can substitute a client against a fake backend.
var newQueryClient = func() (*datadog.Client, *domain.Credential, error) {
	store, err := authfile.NewStore(configDir)
	if err != nil {
		return nil, nil, err
	}

	cred, err := store.Load()
	if err != nil {
		return nil, nil, err
	}

	if cred.LikelyExpired(maxCredentialAge) {
		fmt.Fprintf(os.Stderr, "warning: credential captured %.0fh ago; sessions usually expire within %.0fh\n",
			cred.Age().Hours(), maxCredentialAge.Hours())
	}
	logger.Debug("using credential for %s (cookie %s)", cred.BaseURL, logger.Mask(cred.SessionCookie))

	client, err := datadog.New(cred, datadog.Config{})
	if err != nil {
		return nil, nil, err
	}
	return client, cred, nil
}

// credentialStore opens the credential store for the configured directory.
func credentialStore() (*authfile.Store, error) {
	return authfile.NewStore(configDir)
}
