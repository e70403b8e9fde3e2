package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "achileads",
	Short: "Find prospect companies and the people to contact there",
	Long: `achileads asks a language model for prospect companies in a market,
extracts the companies from its answer and looks up decision makers.

Configuration comes from .env, achileads.yaml and the environment, the same
as the API server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("format", "f", "json", "Output format: json or table")
	rootCmd.AddCommand(extractCmd, generateCmd, contactsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
