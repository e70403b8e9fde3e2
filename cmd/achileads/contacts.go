package main

import (
	"github.com/generalux/achileads/internal/config"
	"github.com/generalux/achileads/internal/services"
	"github.com/spf13/cobra"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Look up decision makers at a company",
	Long: `Look up decision makers at a company through Hunter.io.

Examples:
  achileads contacts --domain acme.com
  achileads contacts --company "Acme Corp" --format table`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		domain, _ := cmd.Flags().GetString("domain")
		company, _ := cmd.Flags().GetString("company")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		svc := services.NewEmailService(cfg.Hunter, services.NewMatcherService())
		res, err := svc.FindDecisionMakers(cmd.Context(), domain, company)
		if err != nil {
			return err
		}
		return renderContacts(cmd.OutOrStdout(), format, res)
	},
}

func init() {
	contactsCmd.Flags().String("domain", "", "Company domain, e.g. acme.com")
	contactsCmd.Flags().String("company", "", "Company name, used when the domain is unknown")
}
