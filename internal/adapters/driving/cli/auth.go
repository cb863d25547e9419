package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kestrel-labs/ddwatch/internal/core/domain"
	"github.com/kestrel-labs/ddwatch/internal/logger"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the captured session credential",
	Long: `Capture, inspect and remove the browser-session credential.

The backend's query APIs are not public: they authenticate with the web
session cookie plus its CSRF token. To capture them:

  1. Log in to the web UI in your browser
  2. Open the developer tools, Network tab
  3. Pick any request to the app and copy:
     - the 'dogweb' cookie value
     - the 'x-csrf-token' request header value
  4. Run 'ddwatch auth set' and paste both when prompted

The credential is stored with owner-only permissions and expires on the
backend's schedule. When queries fail with an auth error, repeat the
capture.`,
}

// Flags for auth set.
var (
	authSetCookie  string
	authSetCSRF    string
	authSetBaseURL string
)

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Capture a new session credential",
	Long: `Store a freshly captured session credential.

Prompts for the cookie and token with hidden input. For scripted setups
the values can be passed as flags instead, but note they then end up in
shell history.

Examples:
  ddwatch auth set
  ddwatch auth set --base-url https://app.datadoghq.com`,
	RunE: runAuthSet,
}

var authStatusCheck bool

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored credential's state",
	RunE:  runAuthStatus,
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored credential",
	RunE:  runAuthClear,
}

func init() {
	authSetCmd.Flags().StringVar(&authSetCookie, "cookie", "", "session cookie value (prompted when omitted)")
	authSetCmd.Flags().StringVar(&authSetCSRF, "csrf", "", "CSRF token value (prompted when omitted)")
	authSetCmd.Flags().StringVar(&authSetBaseURL, "base-url", "", "backend origin (default "+domain.DefaultBaseURL+")")

	authStatusCmd.Flags().BoolVar(&authStatusCheck, "check", false, "verify the credential with a live query")

	authCmd.AddCommand(authSetCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authClearCmd)
	rootCmd.AddCommand(authCmd)
}

// promptSecret reads a secret without echoing it. Falls back to an error
// when stdin is not a terminal, since echoing a pasted secret into a log
// is worse than failing.
func promptSecret(cmd *cobra.Command, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal; pass --cookie and --csrf instead")
	}

	cmd.Printf("%s: ", label)
	value, err := term.ReadPassword(fd)
	cmd.Println()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", label, err)
	}
	return strings.TrimSpace(string(value)), nil
}

func runAuthSet(cmd *cobra.Command, _ []string) error {
	cookie := authSetCookie
	csrf := authSetCSRF
	var err error

	if cookie == "" {
		cookie, err = promptSecret(cmd, "Session cookie (dogweb)")
		if err != nil {
			return err
		}
	}
	if csrf == "" {
		csrf, err = promptSecret(cmd, "CSRF token (x-csrf-token)")
		if err != nil {
			return err
		}
	}

	cred := &domain.Credential{
		SessionCookie: cookie,
		CSRFToken:     csrf,
		BaseURL:       authSetBaseURL,
	}
	if !cred.IsComplete() {
		return fmt.Errorf("both the session cookie and the CSRF token are required")
	}

	store, err := credentialStore()
	if err != nil {
		return err
	}
	if err := store.Save(cred); err != nil {
		return fmt.Errorf("saving credential: %w", err)
	}

	cmd.Printf("Credential saved to %s\n", store.Path())
	cmd.Println("Verify it with: ddwatch auth status --check")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	store, err := credentialStore()
	if err != nil {
		return err
	}

	cred, err := store.Load()
	if err != nil {
		cmd.Println("No credential configured.")
		cmd.Println("Capture one with: ddwatch auth set")
		logger.Debug("credential load: %v", err)
		return nil
	}

	cmd.Printf("Credential file: %s\n", store.Path())
	cmd.Printf("Backend:         %s\n", cred.BaseURL)
	cmd.Printf("Session cookie:  %s\n", logger.Mask(cred.SessionCookie))
	cmd.Printf("CSRF token:      %s\n", logger.Mask(cred.CSRFToken))
	if !cred.CapturedAt.IsZero() {
		cmd.Printf("Captured:        %.1fh ago\n", cred.Age().Hours())
		if cred.LikelyExpired(maxCredentialAge) {
			cmd.Println("The credential is older than a day and has likely expired.")
		}
	}

	if !authStatusCheck {
		return nil
	}

	client, _, err := newQueryClient()
	if err != nil {
		return err
	}
	if err := client.TestConnection(cmd.Context()); err != nil {
		return fmt.Errorf("credential check failed: %w", err)
	}
	cmd.Println("Credential accepted by the backend.")
	return nil
}

func runAuthClear(cmd *cobra.Command, _ []string) error {
	store, err := credentialStore()
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	cmd.Println("Credential removed.")
	return nil
}
