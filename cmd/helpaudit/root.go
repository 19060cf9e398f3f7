// Command helpaudit audits HTML help collections from the command line,
// talking to the document store directly without the API server.
package main

import (
	"os"
	"time"

	"github.com/helpforge/helpaudit/internal/dms"
	"github.com/spf13/cobra"
)

var baseURLFlag string
var tokenFlag string
var insecureFlag bool
var timeoutFlag time.Duration
var pageSizeFlag int

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "helpaudit",
		Short: "Audit HTML help collections for broken links and formatting defects",
		Long: `Helpaudit scans a collection of HTML help documents stored in a
document management system and reports broken or ambiguous links,
note formatting problems, bullet alignment defects, navigation path
issues, and unreadable images.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", envOr("DMS_BASE_URL", "https://dms.example.com"), "document store base URL")
	cmd.PersistentFlags().StringVar(&tokenFlag, "token", os.Getenv("DMS_AUTH_TOKEN"), "document store bearer token")
	cmd.PersistentFlags().BoolVar(&insecureFlag, "insecure", false, "skip TLS certificate verification")
	cmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 15*time.Second, "document store request timeout")
	cmd.PersistentFlags().IntVar(&pageSizeFlag, "page-size", 100, "document store listing page size")

	return cmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newStoreClient() *dms.Client {
	return dms.NewClient(dms.Config{
		BaseURL:     baseURLFlag,
		AuthToken:   tokenFlag,
		Timeout:     timeoutFlag,
		PageSize:    pageSizeFlag,
		InsecureTLS: insecureFlag,
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
