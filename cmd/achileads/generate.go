package main

import (
	"fmt"
	"strings"

	"github.com/generalux/achileads/internal/config"
	"github.com/generalux/achileads/internal/services"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Ask the model for prospects and extract them",
	Long: `Send a market description to the configured model and print the
companies found in its answer.

Examples:
  achileads generate "B2B payments startups in India"
  achileads generate "cold chain logistics in Germany" --format table --raw`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		raw, _ := cmd.Flags().GetBool("raw")
		vocabPath, _ := cmd.Flags().GetString("vocabulary")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if vocabPath == "" {
			vocabPath = cfg.Extractor.VocabularyFile
		}
		ex, err := newExtractor(vocabPath)
		if err != nil {
			return err
		}
		llm, err := services.NewLLMService(cmd.Context(), cfg.LLM)
		if err != nil {
			return err
		}

		res, err := services.NewProspectService(llm, ex, nil).Search(cmd.Context(), nil, strings.Join(args, " "))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if raw {
			fmt.Fprintln(out, res.Response)
			fmt.Fprintln(out)
		}
		return renderCompanies(out, format, res.Companies)
	},
}

func init() {
	generateCmd.Flags().Bool("raw", false, "Also print the model's answer")
	generateCmd.Flags().String("vocabulary", "", "YAML synonym table overriding the built-in one")
}
