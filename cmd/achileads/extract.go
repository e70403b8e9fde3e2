package main

import (
	"fmt"
	"io"
	"os"

	"github.com/generalux/achileads/internal/extractor"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract companies from model output",
	Long: `Extract companies from a file, or from stdin when no file is given.

Examples:
  achileads extract answer.md
  pbpaste | achileads extract --format table
  achileads extract answer.md --vocabulary vocab.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		vocabPath, _ := cmd.Flags().GetString("vocabulary")

		in := cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		text, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		ex, err := newExtractor(vocabPath)
		if err != nil {
			return err
		}
		return renderCompanies(cmd.OutOrStdout(), format, ex.Extract(string(text)))
	},
}

func init() {
	extractCmd.Flags().String("vocabulary", "", "YAML synonym table overriding the built-in one")
}

func newExtractor(vocabPath string) (*extractor.Extractor, error) {
	if vocabPath == "" {
		return extractor.New(extractor.DefaultVocabulary()), nil
	}
	v, err := extractor.LoadVocabulary(vocabPath)
	if err != nil {
		return nil, err
	}
	return extractor.New(v), nil
}
