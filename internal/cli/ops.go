package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/wapi/internal/wapi"
)

var opsAliases bool

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "List the vendor operations and their aliases",
	RunE: func(cmd *cobra.Command, args []string) error {
		renderOperations(cmd.OutOrStdout(), wapi.Operations())
		if opsAliases {
			_, _ = fmt.Fprintln(cmd.OutOrStdout())
			renderAliases(cmd.OutOrStdout(), wapi.Aliases())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(opsCmd)
	opsCmd.Flags().BoolVar(&opsAliases, "aliases", false, "also list short aliases")
}

func renderOperations(w io.Writer, ops []wapi.Operation) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.AppendHeader(table.Row{"Operation", "Method", "Endpoint", "Cached", "Summary"})
	for _, op := range ops {
		cached := ""
		if op.Cacheable() {
			cached = "yes"
		}
		tw.AppendRow(table.Row{op.Name, op.Method, op.Endpoint, cached, op.Summary})
	}
	tw.Render()
}

func renderAliases(w io.Writer, aliases [][2]string) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.AppendHeader(table.Row{"Alias", "Operation"})
	for _, a := range aliases {
		tw.AppendRow(table.Row{a[0], a[1]})
	}
	tw.Render()
}
