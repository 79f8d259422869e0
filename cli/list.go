package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/ka2n/recview/api/record"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [data-file]",
	Short: "List records",
	Long:  "Print every record with its index, title, details and number of images",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

var (
	indexStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	detailsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := newService(cmd, args)
	if err != nil {
		return err
	}

	styled := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	writeRecords(os.Stdout, s.Records(), styled)
	return nil
}

func writeRecords(w io.Writer, records []record.Record, styled bool) {
	render := func(style lipgloss.Style, s string) string {
		if !styled {
			return s
		}
		return style.Render(s)
	}

	for i, r := range records {
		title := r.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(w, "%s  %s (%d images)\n",
			render(indexStyle, fmt.Sprintf("%3d", i)),
			render(titleStyle, title),
			len(r.Locators()),
		)
		if r.Details != "" {
			fmt.Fprintf(w, "     %s\n", render(detailsStyle, r.Details))
		}
	}
}
