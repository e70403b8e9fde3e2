package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/generalux/achileads/internal/dtos"
	"github.com/generalux/achileads/internal/extractor"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Align(lipgloss.Center)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func renderCompanies(w io.Writer, format string, companies []extractor.Company) error {
	switch format {
	case "json":
		return writeJSON(w, companies)
	case "table":
		if len(companies) == 0 {
			fmt.Fprintln(w, mutedStyle.Render("No companies found."))
			return nil
		}
		t := newTable("#", "Company", "Domain", "Location", "Type", "Founded")
		for i, c := range companies {
			t.Row(strconv.Itoa(i+1), c.Name, c.Domain, c.Location, c.Classification, c.FoundingYear)
		}
		fmt.Fprintln(w, t.Render())
		return nil
	}
	return fmt.Errorf("unknown format %q (want json or table)", format)
}

func renderContacts(w io.Writer, format string, res *dtos.FindEmailsResponse) error {
	switch format {
	case "json":
		return writeJSON(w, res)
	case "table":
		fmt.Fprintf(w, "%s (%s): %d emails, %d decision makers\n", res.Company, res.Domain, res.TotalEmails, len(res.DecisionMakers))
		if len(res.DecisionMakers) == 0 {
			return nil
		}
		t := newTable("Name", "Title", "Email", "Confidence")
		for _, dm := range res.DecisionMakers {
			t.Row(dm.Name, dm.Title, dm.Email, strconv.Itoa(dm.Confidence)+"%")
		}
		fmt.Fprintln(w, t.Render())
		return nil
	}
	return fmt.Errorf("unknown format %q (want json or table)", format)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
