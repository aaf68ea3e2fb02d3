package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/quarry/internal/cli"
	"github.com/cloo-solutions/quarry/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "quarry",
		Short: "Quarry CLI - Document question answering",
		Long: `Quarry CLI asks questions against indexed documents and the web.

Environment variables:
  QUARRY_API_KEY   API key, if the daemon requires one
  QUARRY_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-key", "", "API key (overrides env and config)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.InitCmd())
	rootCmd.AddCommand(client.AskCmd())
	rootCmd.AddCommand(client.IndexCmd())
	rootCmd.AddCommand(client.StatusCmd())
	rootCmd.AddCommand(client.DownloadCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
