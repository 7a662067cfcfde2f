// Command transferctl evaluates transcripts and inspects the requirement
// catalog without running the server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "transferctl",
	Short:         "Transfer eligibility tools",
	Long:          "transferctl runs transfer eligibility evaluations against the requirement catalog and validates catalog data.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var catalogDir string

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogDir, "catalog-dir", "", "Catalog directory (defaults to CATALOG_DIR, then the embedded catalog)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func resolveCatalogDir() string {
	if catalogDir != "" {
		return catalogDir
	}
	return os.Getenv("CATALOG_DIR")
}
